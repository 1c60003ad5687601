// Package retryer 일시적인 실패가 예상되는 의존성 호출에 지수 백오프 재시도를
// 적용하는 실행기를 제공합니다.
//
// 작업은 최대 MaxRetries+1회 시도되며, n번째 실패 후의 대기 시간은
// min(BaseDelay × Multiplier^(n-1), MaxDelay)로 계산됩니다. 재시도를 모두
// 소진하면 마지막 에러를 그대로 반환하고, 재시도 불가능으로 분류된 에러는
// 남은 시도 없이 즉시 전파됩니다.
package retryer

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
)

const component = "health.retryer"

// 재시도 동작의 기본값
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 1 * time.Second
	DefaultMaxDelay   = 60 * time.Second
	DefaultMultiplier = 2.0
)

// Config 재시도 실행기의 동작을 결정하는 설정입니다.
type Config struct {
	// MaxRetries 최초 시도 이후의 최대 재시도 횟수 (0 이하: 기본값 3)
	// 작업은 최대 MaxRetries+1회 호출됩니다.
	MaxRetries int

	// BaseDelay 첫 번째 재시도 전 대기 시간 (0 이하: 기본값 1초)
	BaseDelay time.Duration

	// MaxDelay 재시도 간 대기 시간의 상한 (0 이하: 기본값 60초)
	MaxDelay time.Duration

	// Multiplier 대기 시간의 지수 증가 배수 (1.0 미만: 기본값 2.0)
	Multiplier float64

	// IsRetryable 에러의 재시도 가능 여부를 판별합니다. (nil: 기본 분류기)
	// 기본 분류기는 Context 취소와 시한 초과만 재시도 불가능으로 판별합니다.
	IsRetryable func(err error) bool
}

// normalized 설정값을 검증하고 허용 범위를 벗어난 값을 기본값으로 보정합니다.
func (c Config) normalized() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = DefaultMaxDelay
	}
	if c.Multiplier < 1.0 {
		c.Multiplier = DefaultMultiplier
	}
	if c.IsRetryable == nil {
		c.IsRetryable = defaultIsRetryable
	}
	return c
}

// defaultIsRetryable Context 취소와 시한 초과를 제외한 모든 에러를
// 재시도 가능으로 판별합니다.
func defaultIsRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Executor 지수 백오프 재시도를 적용하여 작업을 실행하는 실행기입니다.
// 실행기 자체는 상태를 가지지 않으므로 여러 고루틴에서 동시에 사용해도 안전합니다.
type Executor struct {
	name   string
	config Config
}

// New 재시도 실행기를 생성합니다.
//
// 매개변수:
//   - name: 로그에 기록되는 실행기의 식별자 (대상 의존성 이름)
//   - config: 재시도 설정. 유효하지 않은 값은 기본값으로 보정됩니다.
func New(name string, config Config) *Executor {
	return &Executor{
		name:   name,
		config: config.normalized(),
	}
}

// Name 실행기의 식별자를 반환합니다.
func (e *Executor) Name() string {
	return e.name
}

// Execute 주어진 작업을 재시도 정책에 따라 실행합니다.
//
// 작업이 재시도 가능한 에러를 반환하면 백오프 대기 후 다시 시도하고,
// 재시도 횟수를 소진하면 마지막 시도의 에러를 가공 없이 그대로 반환합니다.
// 재시도 불가능한 에러는 남은 시도 없이 즉시 반환됩니다.
//
// 대기 중 Context가 취소되면 ctx.Err()를 반환하고 재시도를 중단합니다.
//
// 매개변수:
//   - ctx: 작업에 전달되는 Context
//   - op: 실행할 작업
//
// 반환값:
//   - error: 최종 시도가 실패한 경우 해당 에러 그대로, 성공 시 nil
func (e *Executor) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	attempt := 0

	return retry.Do(ctx, e.newBackoff(), func(ctx context.Context) error {
		attempt++

		err := op(ctx)
		if err == nil {
			return nil
		}

		if !e.config.IsRetryable(err) {
			applog.WithComponentAndFields(component, applog.Fields{
				"executor": e.name,
				"attempt":  attempt,
			}).Debugf("재시도가 불가능한 에러가 발생하였습니다. (error:%v)", err)

			return err
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"executor":    e.name,
			"attempt":     attempt,
			"max_retries": e.config.MaxRetries,
		}).Debugf("작업 실행이 실패하여 재시도합니다. (error:%v)", err)

		return retry.RetryableError(err)
	})
}

// newBackoff 재시도마다 소비되는 백오프 스케줄을 생성합니다.
//
// 백오프는 호출 시마다 상태가 변하므로 Execute 호출마다 새로 생성해야 합니다.
func (e *Executor) newBackoff() retry.Backoff {
	var b retry.Backoff

	if e.config.Multiplier == 2.0 {
		b = retry.NewExponential(e.config.BaseDelay)
	} else {
		// go-retry의 지수 백오프는 배수 2.0으로 고정되어 있으므로,
		// 그 외의 배수는 BackoffFunc로 직접 스케줄을 구성한다.
		multiplier := e.config.Multiplier
		next := float64(e.config.BaseDelay)

		b = retry.BackoffFunc(func() (time.Duration, bool) {
			delay := time.Duration(next)
			next *= multiplier
			return delay, false
		})
	}

	b = retry.WithCappedDuration(e.config.MaxDelay, b)
	b = retry.WithMaxRetries(uint64(e.config.MaxRetries), b)

	return b
}
