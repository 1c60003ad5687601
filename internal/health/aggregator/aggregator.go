// Package aggregator 등록된 모든 프로브를 병렬로 실행하여 전체 상태로
// 병합하는 집계기를 제공합니다.
//
// 집계기는 의존성 장애를 값(ProbeResult)으로 다룹니다. 하나의 프로브가
// 실패하거나 패닉을 일으켜도 나머지 프로브의 결과 수집은 계속되며,
// 호출자에게 에러가 전파되지 않습니다. 프로브 실행은 의존성별 서킷
// 브레이커와 재시도 실행기를 거치고, 결과는 TTL 캐시에 저장되어 짧은
// 주기의 반복 점검에 재사용됩니다.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/darkkaiser/healthwatch-server/internal/health"
	"github.com/darkkaiser/healthwatch-server/internal/health/breaker"
	"github.com/darkkaiser/healthwatch-server/internal/health/probecache"
	"github.com/darkkaiser/healthwatch-server/internal/health/retryer"
	apperrors "github.com/darkkaiser/healthwatch-server/internal/pkg/errors"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
)

const component = "health.aggregator"

// 집계기 설정의 기본값
const (
	// DefaultProbeTimeout 프로브 하나의 점검 완료를 기다리는 시간의 기본값입니다.
	// 프로브 자체의 I/O 제한 시간보다 길게 잡아, 제한 시간을 무시하는
	// 프로브 구현으로부터 집계기를 보호합니다.
	DefaultProbeTimeout = 10 * time.Second

	// DefaultStartupGrace 시작 유예 시간의 기본값입니다.
	DefaultStartupGrace = 10 * time.Second
)

// Deps 집계기가 사용하는 협력자 집합입니다. 전역 인스턴스 없이 모두
// 생성 시점에 주입됩니다.
type Deps struct {
	// Probes 점검 대상 프로브 저장소 (필수)
	Probes *health.ProbeRegistry

	// Breakers 의존성별 서킷 브레이커 저장소 (필수)
	Breakers *health.BreakerRegistry

	// Cache 프로브 결과 TTL 캐시 (필수)
	Cache *probecache.Cache

	// Retryer 프로브 실행 재시도 실행기 (nil이면 재시도 없이 한 번만 실행)
	Retryer *retryer.Executor

	// Shutdown 우아한 종료 플래그 (필수)
	Shutdown *health.ShutdownFlag
}

// Config 집계기의 동작 설정입니다.
type Config struct {
	// ProbeTimeout 프로브 하나의 점검 완료를 기다리는 최대 시간 (0 이하: 기본값 10초)
	ProbeTimeout time.Duration

	// StartupGrace 프로세스 시작 후 활성 상태로 보고하기까지의 유예 시간 (0 이하: 기본값 10초)
	StartupGrace time.Duration
}

func (c Config) normalized() Config {
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	if c.StartupGrace <= 0 {
		c.StartupGrace = DefaultStartupGrace
	}
	return c
}

// Aggregator 의존성 상태 점검의 집계기입니다.
//
// 활성(Liveness), 준비(Readiness), 종합(Comprehensive) 세 단계의 점검을
// 제공하며, 모든 메서드는 여러 고루틴에서 동시에 호출해도 안전합니다.
type Aggregator struct {
	probes   *health.ProbeRegistry
	breakers *health.BreakerRegistry
	cache    *probecache.Cache
	retryer  *retryer.Executor
	shutdown *health.ShutdownFlag

	probeTimeout time.Duration
	startupGrace time.Duration

	startTime time.Time
	now       func() time.Time
}

// New 새로운 집계기를 생성합니다.
//
// 매개변수:
//   - deps: 협력자 집합. Retryer를 제외한 모든 협력자는 필수이며, 누락 시 panic이 발생합니다.
//   - config: 동작 설정. 유효하지 않은 값은 기본값으로 보정됩니다.
func New(deps Deps, config Config) *Aggregator {
	if deps.Probes == nil {
		panic("집계기의 프로브 저장소는 필수입니다")
	}
	if deps.Breakers == nil {
		panic("집계기의 서킷 브레이커 저장소는 필수입니다")
	}
	if deps.Cache == nil {
		panic("집계기의 프로브 결과 캐시는 필수입니다")
	}
	if deps.Shutdown == nil {
		panic("집계기의 종료 플래그는 필수입니다")
	}

	config = config.normalized()

	now := time.Now

	return &Aggregator{
		probes:       deps.Probes,
		breakers:     deps.Breakers,
		cache:        deps.Cache,
		retryer:      deps.Retryer,
		shutdown:     deps.Shutdown,
		probeTimeout: config.ProbeTimeout,
		startupGrace: config.StartupGrace,
		startTime:    now(),
		now:          now,
	}
}

// Liveness 프로세스의 활성 상태를 보고합니다.
//
// I/O를 수행하지 않는 가장 저렴한 점검으로, 짧은 주기의 반복 호출을
// 전제로 합니다. 시작 유예 시간이 지나기 전이거나 종료가 시작된 후에는
// 활성 상태가 아닌 것으로 보고합니다.
func (a *Aggregator) Liveness() health.LivenessReport {
	uptime := a.now().Sub(a.startTime)
	started := uptime >= a.startupGrace

	return health.LivenessReport{
		Alive:   started && !a.shutdown.Requested(),
		Started: started,
		UptimeS: uptime.Seconds(),
	}
}

// Readiness 서비스의 준비 상태를 보고합니다.
//
// 종료가 시작되었으면 즉시 준비되지 않음으로 보고합니다. 그 외에는 필수
// 프로브가 모두 정상 또는 성능 저하 상태일 때만 준비된 것으로 판정하며,
// 필수가 아닌 의존성의 장애는 준비 상태를 막지 않습니다. 프로브 결과는
// 캐시를 경유하므로 유효 시간 내의 반복 호출은 실제 I/O를 발생시키지
// 않습니다.
func (a *Aggregator) Readiness(ctx context.Context) health.ReadinessReport {
	if a.shutdown.Requested() {
		return health.ReadinessReport{Ready: false, Reason: "종료가 진행 중입니다"}
	}

	for _, p := range a.probes.Critical() {
		result := a.runProbe(ctx, p, false)
		if result.Status != health.StatusHealthy && result.Status != health.StatusDegraded {
			return health.ReadinessReport{
				Ready:  false,
				Reason: fmt.Sprintf("필수 의존성(%s)이 %s 상태입니다", p.Name(), result.Status),
			}
		}
	}

	return health.ReadinessReport{Ready: true}
}

// Comprehensive 등록된 모든 프로브의 결과를 병합한 종합 상태를 반환합니다.
//
// 프로브 결과는 캐시를 경유하므로 유효 시간 내의 반복 호출은 실제
// 점검을 다시 수행하지 않습니다. 항상 현재 시점의 최선의 보고서를
// 반환하며 실패하지 않습니다.
func (a *Aggregator) Comprehensive(ctx context.Context) health.AggregateHealth {
	return a.aggregate(ctx, false)
}

// Refresh 캐시를 무시하고 모든 프로브를 실제로 실행한 종합 상태를
// 반환합니다. 실행된 결과로 캐시가 갱신됩니다.
func (a *Aggregator) Refresh(ctx context.Context) health.AggregateHealth {
	return a.aggregate(ctx, true)
}

// Dependencies 등록된 의존성의 정적 선언 정보를 반환합니다.
// 실제 점검을 수행하지 않습니다.
func (a *Aggregator) Dependencies() map[string]health.DependencyInfo {
	return a.probes.Dependencies()
}

// aggregate 모든 프로브를 병렬로 실행하고 결과를 병합합니다.
//
// 개별 프로브의 실패는 결과 데이터로 수집되므로 집계를 중단시키지
// 않습니다. 집계 자체의 내부 오류만이 복구되어 전체 사용 불가 보고서로
// 대체됩니다.
func (a *Aggregator) aggregate(ctx context.Context, fresh bool) (aggregated health.AggregateHealth) {
	defer func() {
		if r := recover(); r != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"panic": r,
			}).Error("상태 집계 중 내부 오류가 복구되었습니다")

			aggregated = health.AggregateHealth{
				OverallStatus:    health.StatusUnhealthy,
				GeneratedAt:      a.now(),
				Results:          map[string]health.ProbeResult{},
				BreakerSnapshots: map[string]breaker.Snapshot{},
				UptimeS:          a.now().Sub(a.startTime).Seconds(),
			}
		}
	}()

	probes := a.probes.All()
	results := make(map[string]health.ProbeResult, len(probes))

	// 팬아웃: 프로브별 고루틴으로 병렬 실행. 전체 소요 시간은 느린
	// 프로브들의 합이 아니라 가장 느린 프로브 하나에 의해 결정된다.
	replyCh := make(chan health.ProbeResult, len(probes))
	for _, p := range probes {
		go func() {
			replyCh <- a.runProbe(ctx, p, fresh)
		}()
	}

	// 팬인: 성공과 실패를 구분하지 않고 모든 프로브의 결과를 기다린다.
	for range probes {
		result := <-replyCh
		results[result.Name] = result
	}

	snapshots := make(map[string]breaker.Snapshot, a.breakers.Len())
	for _, snapshot := range a.breakers.Snapshots() {
		snapshots[snapshot.Name] = snapshot
	}

	return health.AggregateHealth{
		OverallStatus:    health.OverallStatus(results),
		GeneratedAt:      a.now(),
		Results:          results,
		BreakerSnapshots: snapshots,
		Summary:          health.NewSummary(results),
		UptimeS:          a.now().Sub(a.startTime).Seconds(),
	}
}

// runProbe 프로브 하나를 캐시를 경유하여 실행합니다.
// fresh가 true이면 캐시 조회를 생략하고 실행 결과로 캐시를 갱신합니다.
func (a *Aggregator) runProbe(ctx context.Context, p health.Probe, fresh bool) health.ProbeResult {
	compute := func(ctx context.Context) health.ProbeResult {
		result := a.executeGuarded(ctx, p)
		result.Name = p.Name()
		result.Kind = p.Kind()
		return result
	}

	if fresh {
		result := compute(ctx)
		a.cache.Set(p.Name(), result)
		return result
	}

	return a.cache.GetOrCompute(ctx, p.Name(), compute)
}

// executeGuarded 프로브 실행을 대기 한도로 감싸서 실행합니다.
//
// 프로브는 자체적으로 I/O 제한 시간을 적용해야 하지만, 이를 무시하는
// 구현이 집계 전체를 중단시키지 못하도록 별도의 한도를 두고 기다립니다.
func (a *Aggregator) executeGuarded(ctx context.Context, p health.Probe) health.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, a.probeTimeout)
	defer cancel()

	done := make(chan health.ProbeResult, 1)
	go func() {
		done <- a.executeThroughBreaker(ctx, p)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		applog.WithComponentAndFields(component, applog.Fields{
			"probe":   p.Name(),
			"timeout": a.probeTimeout,
		}).Warn("프로브가 대기 한도 내에 점검을 완료하지 못했습니다")

		return health.NewUnhealthyResult("점검이 대기 한도 내에 완료되지 않았습니다.", a.probeTimeout).
			WithError(ctx.Err())
	}
}

// executeThroughBreaker 프로브를 서킷 브레이커와 재시도 실행기를 거쳐
// 실행하고, 실행 결과를 프로브 결과로 변환합니다.
//
// 사용 불가 상태의 프로브 결과는 브레이커가 실패로 집계하도록 에러로
// 변환되어 전달되고, 반환 시점에 다시 원본 결과로 복원됩니다. 회로가
// 열려 있으면 의존성에 접근하지 않고 사용 불가 결과를 합성합니다.
func (a *Aggregator) executeThroughBreaker(ctx context.Context, p health.Probe) health.ProbeResult {
	cb := a.breakers.GetOrCreate(p.Name())

	var last health.ProbeResult
	var captured bool

	op := func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"probe": p.Name(),
					"panic": r,
				}).Error("프로브 실행 중 패닉이 복구되었습니다")

				err = apperrors.Newf(apperrors.Internal, "프로브 실행 중 패닉 발생: %v", r)
			}
		}()

		result := p.Probe(ctx)
		last, captured = result, true

		if result.Status == health.StatusUnhealthy {
			return apperrors.Newf(apperrors.ExecutionFailed, "의존성(%s) 점검 실패: %s", p.Name(), result.Message)
		}
		return nil
	}

	run := op
	if a.retryer != nil {
		run = func(ctx context.Context) error {
			return a.retryer.Execute(ctx, op)
		}
	}

	execErr := cb.Execute(ctx, run)
	if execErr == nil {
		return last
	}

	var openErr *breaker.OpenError
	if errors.As(execErr, &openErr) {
		return health.NewUnhealthyResult("서킷 브레이커가 열려 있어 점검을 수행하지 않았습니다.", 0).
			WithDetail("retry_after_s", openErr.RetryAfter.Seconds())
	}

	// 프로브가 직접 보고한 사용 불가 결과는 원본 그대로 유지한다
	if captured && last.Status == health.StatusUnhealthy {
		return last
	}

	// 결과 없이 실패: 패닉 또는 실행 자체의 중단
	return health.NewUnhealthyResult("점검을 수행할 수 없습니다.", 0).WithError(execErr)
}
