// Package breaker 의존성별 서킷 브레이커를 제공합니다.
//
// 연속 실패가 임계치에 도달하면 회로를 열어 장애가 발생한 의존성으로의 호출을
// 즉시 차단하고, 복구 대기 시간이 지나면 반열림(half-open) 상태에서 제한된
// 시험 호출을 허용합니다. 시험 호출이 모두 성공하면 회로를 닫고, 하나라도
// 실패하면 즉시 다시 엽니다.
package breaker

import (
	"context"
	"sync"
	"time"

	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
)

// component 서킷 브레이커의 로깅용 컴포넌트 이름
const component = "health.breaker"

// 기본 동작 설정값
const (
	DefaultFailureThreshold = 5                // 회로를 열기까지의 연속 실패 횟수
	DefaultRecoveryTimeout  = 60 * time.Second // 열림 상태에서 반열림 전환까지의 대기 시간
	DefaultHalfOpenMaxCalls = 3                // 반열림 상태에서 허용하는 시험 호출 수
)

// State 서킷 브레이커의 상태입니다.
type State int

const (
	// StateClosed 회로 닫힘. 모든 호출이 통과합니다.
	StateClosed State = iota

	// StateOpen 회로 열림. 모든 호출이 즉시 거부됩니다.
	StateOpen

	// StateHalfOpen 반열림. 제한된 수의 시험 호출만 허용됩니다.
	StateHalfOpen
)

// String State의 문자열 표현을 반환합니다.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config 서킷 브레이커의 동작 설정입니다.
type Config struct {
	// FailureThreshold 회로를 열기까지의 연속 실패 횟수 (0 이하: 기본값 5)
	FailureThreshold int

	// RecoveryTimeout 열림 상태에서 반열림 상태로 전환되기까지의 대기 시간 (0 이하: 기본값 60초)
	RecoveryTimeout time.Duration

	// HalfOpenMaxCalls 반열림 상태에서 허용하는 시험 호출 수 (0 이하: 기본값 3)
	// 이 수만큼의 시험 호출이 연속으로 성공하면 회로가 닫힙니다.
	HalfOpenMaxCalls int

	// OnStateChange 상태 전이 시 호출되는 콜백 (선택)
	// 브레이커 내부 잠금 밖에서 호출되므로 콜백 안에서 브레이커 메서드를 호출해도 안전합니다.
	OnStateChange func(name string, from, to State)
}

// normalized 설정값을 검증하고 허용 범위를 벗어난 값을 기본값으로 보정합니다.
func (c Config) normalized() Config {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = DefaultFailureThreshold
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = DefaultRecoveryTimeout
	}
	if c.HalfOpenMaxCalls <= 0 {
		c.HalfOpenMaxCalls = DefaultHalfOpenMaxCalls
	}
	return c
}

// CircuitBreaker 단일 의존성에 대한 호출을 감시하고 차단하는 서킷 브레이커입니다.
//
// 모든 메서드는 동시 호출에 안전합니다. 상태 전이는 지연 평가 방식으로,
// 별도의 타이머 고루틴 없이 호출 허용 여부를 판단하는 시점에 수행됩니다.
type CircuitBreaker struct {
	name   string
	config Config

	mu                  sync.Mutex
	state               State
	consecutiveFailures int
	lastFailureTime     time.Time
	lastSuccessTime     time.Time

	// 반열림 상태의 시험 호출 집계
	halfOpenAdmitted  int // 허용된 시험 호출 수
	halfOpenSuccesses int // 성공한 시험 호출 수

	// 생애 통계. 실행된 호출만 집계하며, 거부된 호출은 rejectedCalls에 별도 집계합니다.
	totalCalls    uint64
	totalFailures uint64
	rejectedCalls uint64

	// now 테스트에서 시간을 제어하기 위한 주입 지점
	now func() time.Time
}

// New 새로운 서킷 브레이커를 생성합니다.
//
// 매개변수:
//   - name: 브레이커 식별자 (보호 대상 의존성 이름과 동일하게 부여)
//   - config: 동작 설정 (범위를 벗어난 값은 기본값으로 보정)
func New(name string, config Config) *CircuitBreaker {
	if name == "" {
		panic("서킷 브레이커 이름은 필수입니다")
	}

	return &CircuitBreaker{
		name:   name,
		config: config.normalized(),
		state:  StateClosed,
		now:    time.Now,
	}
}

// Name 브레이커의 식별자를 반환합니다.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute 주어진 작업을 서킷 브레이커의 보호 하에 실행합니다.
//
// 회로가 열려 있으면 작업을 실행하지 않고 즉시 *OpenError를 반환합니다.
// 반환된 에러는 errors.Is(err, ErrCircuitOpen)으로 판별할 수 있습니다.
//
// 매개변수:
//   - ctx: 작업에 전달되는 Context
//   - op: 보호 대상 작업. nil 반환은 성공, 에러 반환은 실패로 집계됩니다.
//
// 반환값:
//   - error: 회로 열림 시 *OpenError, 그 외에는 작업이 반환한 에러 그대로
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterRequest(err)

	return err
}

// Allow 현재 호출이 허용되는지만 확인합니다. 허용 시 실행 결과를
// 반드시 RecordSuccess 또는 RecordFailure로 보고해야 합니다.
//
// Execute를 사용할 수 없는 호출 구조(비동기 완료 보고 등)를 위한 저수준 API입니다.
func (cb *CircuitBreaker) Allow() error {
	return cb.beforeRequest()
}

// RecordSuccess 실행된 호출의 성공을 보고합니다.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.afterRequest(nil)
}

// RecordFailure 실행된 호출의 실패를 보고합니다.
func (cb *CircuitBreaker) RecordFailure(err error) {
	cb.afterRequest(err)
}

// beforeRequest 호출 허용 여부를 판단하고 거부 시 *OpenError를 반환합니다.
func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()

	state := cb.currentStateLocked()

	switch state {
	case StateOpen:
		cb.rejectedCalls++
		retryAfter := cb.retryAfterLocked()
		cb.mu.Unlock()
		return newOpenError(cb.name, retryAfter)

	case StateHalfOpen:
		// 시험 호출 허용량을 초과하면 거부한다
		if cb.halfOpenAdmitted >= cb.config.HalfOpenMaxCalls {
			cb.rejectedCalls++
			cb.mu.Unlock()
			return newOpenError(cb.name, 0)
		}
		cb.halfOpenAdmitted++
	}

	cb.mu.Unlock()
	return nil
}

// afterRequest 실행된 호출의 결과를 반영하고 필요한 상태 전이를 수행합니다.
func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()

	cb.totalCalls++

	var transition func()

	if err != nil {
		cb.totalFailures++
		cb.lastFailureTime = cb.now()

		switch cb.currentStateLocked() {
		case StateClosed:
			cb.consecutiveFailures++
			if cb.consecutiveFailures >= cb.config.FailureThreshold {
				transition = cb.transitionLocked(StateOpen)
			}
		case StateHalfOpen:
			// 시험 호출 실패는 즉시 재차단하고 복구 대기를 처음부터 다시 시작한다
			transition = cb.transitionLocked(StateOpen)
		}
	} else {
		cb.lastSuccessTime = cb.now()

		switch cb.currentStateLocked() {
		case StateClosed:
			cb.consecutiveFailures = 0
		case StateHalfOpen:
			cb.halfOpenSuccesses++
			if cb.halfOpenSuccesses >= cb.config.HalfOpenMaxCalls {
				cb.consecutiveFailures = 0
				transition = cb.transitionLocked(StateClosed)
			}
		}
	}

	cb.mu.Unlock()

	if transition != nil {
		transition()
	}
}

// currentStateLocked 현재 상태를 반환합니다. 열림 상태에서 복구 대기 시간이
// 경과했으면 반열림 상태로의 지연 전이를 함께 수행합니다.
//
// 주의: cb.mu 잠금을 보유한 상태에서 호출해야 합니다.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && cb.now().Sub(cb.lastFailureTime) >= cb.config.RecoveryTimeout {
		cb.state = StateHalfOpen
		cb.halfOpenAdmitted = 0
		cb.halfOpenSuccesses = 0

		applog.WithComponentAndFields(component, applog.Fields{
			"breaker": cb.name,
		}).Info("복구 대기 시간 경과: 반열림 상태로 전환하여 시험 호출을 허용합니다")
	}
	return cb.state
}

// retryAfterLocked 열림 상태에서 반열림 전환까지 남은 시간을 반환합니다.
//
// 주의: cb.mu 잠금을 보유한 상태에서 호출해야 합니다.
func (cb *CircuitBreaker) retryAfterLocked() time.Duration {
	remain := cb.config.RecoveryTimeout - cb.now().Sub(cb.lastFailureTime)
	if remain < 0 {
		return 0
	}
	return remain
}

// transitionLocked 상태를 전환하고, 잠금 해제 후 실행할 알림 클로저를 반환합니다.
//
// 로깅과 OnStateChange 콜백은 잠금 밖에서 수행하여 콜백 내부의 브레이커 접근으로
// 인한 교착을 방지합니다.
//
// 주의: cb.mu 잠금을 보유한 상태에서 호출해야 합니다.
func (cb *CircuitBreaker) transitionLocked(to State) func() {
	from := cb.state
	if from == to {
		return nil
	}

	cb.state = to

	switch to {
	case StateOpen:
		cb.halfOpenAdmitted = 0
		cb.halfOpenSuccesses = 0
	case StateClosed:
		cb.halfOpenAdmitted = 0
		cb.halfOpenSuccesses = 0
		cb.consecutiveFailures = 0
	}

	name := cb.name
	onStateChange := cb.config.OnStateChange

	return func() {
		applog.WithComponentAndFields(component, applog.Fields{
			"breaker": name,
			"from":    from.String(),
			"to":      to.String(),
		}).Warn("서킷 브레이커 상태 전이가 발생했습니다")

		if onStateChange != nil {
			onStateChange(name, from, to)
		}
	}
}

// Reset 브레이커를 강제로 닫힘 상태로 되돌립니다.
//
// 연속 실패 횟수와 반열림 집계는 초기화되지만, 생애 통계(totalCalls,
// totalFailures, rejectedCalls)는 유지됩니다. 운영자가 장애 복구를 확인한 뒤
// 수동으로 차단을 해제할 때 사용합니다.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()

	transition := cb.transitionLocked(StateClosed)

	// 이미 닫힘 상태였더라도 실패 집계는 초기화한다
	cb.consecutiveFailures = 0
	cb.halfOpenAdmitted = 0
	cb.halfOpenSuccesses = 0
	cb.lastFailureTime = time.Time{}

	cb.mu.Unlock()

	if transition != nil {
		transition()
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"breaker": cb.name,
	}).Info("서킷 브레이커가 수동으로 초기화되었습니다")
}

// State 현재 상태를 반환합니다. 필요 시 지연 전이를 수행합니다.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}
