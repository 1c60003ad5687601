// Package monitor 의존성 상태를 주기적으로 일제 점검하는 백그라운드
// 서비스를 제공합니다.
//
// 일제 점검은 Cron 스케줄에 맞춰 모든 프로브를 강제로 재실행하여 결과
// 캐시를 갱신하고, 직전 점검과 비교하여 상태가 변화한 의존성을 찾아
// 관리자에게 알림을 발송합니다. HTTP 점검 요청이 없는 시간에도 의존성
// 장애를 능동적으로 감지하는 것이 이 서비스의 역할입니다.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/darkkaiser/healthwatch-server/internal/config"
	"github.com/darkkaiser/healthwatch-server/internal/health"
	"github.com/darkkaiser/healthwatch-server/internal/service/contract"
	"github.com/darkkaiser/healthwatch-server/pkg/cronx"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
)

// component Monitor 서비스의 로깅용 컴포넌트 이름
const component = "monitor.service"

// sweepTimeout 일제 점검 한 번에 허용하는 최대 소요 시간 (무한 대기 방지)
const sweepTimeout = 5 * time.Minute

// Aggregator 일제 점검이 사용하는 상태 집계기의 계약입니다.
type Aggregator interface {
	// Refresh 캐시를 무시하고 모든 프로브를 실제로 실행한 종합 상태를 반환합니다.
	Refresh(ctx context.Context) health.AggregateHealth
}

// Monitor 의존성 상태를 Cron 스케줄에 맞춰 일제 점검하고, 상태 변화를 알림으로 통지하는 서비스입니다.
type Monitor struct {
	sweepConfig config.SweepConfig

	cron *cron.Cron

	// aggregator 일제 점검을 수행하는 상태 집계기입니다.
	aggregator Aggregator

	// alertSender 상태 변화 알림 전송을 담당하는 인터페이스입니다.
	alertSender contract.AlertSender

	// lastStatuses 직전 일제 점검에서 관측한 의존성별 상태입니다.
	// 상태 전이 감지의 비교 기준점으로 사용됩니다.
	lastStatuses map[string]health.Status

	// lastBreakerOpen 직전 일제 점검에서 관측한 서킷 브레이커별 개방 여부입니다.
	lastBreakerOpen map[string]bool

	// stateMu lastStatuses와 lastBreakerOpen 접근의 경쟁 상태를 방지하는 동기화 객체입니다.
	stateMu sync.Mutex

	// sweepWG 예열 점검 고루틴의 완료를 추적하는 WaitGroup입니다.
	sweepWG sync.WaitGroup

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Monitor 서비스 인스턴스를 생성합니다.
func NewService(sweepConfig config.SweepConfig, aggregator Aggregator, alertSender contract.AlertSender) *Monitor {
	if aggregator == nil {
		panic("Aggregator는 필수입니다")
	}
	if alertSender == nil {
		panic("AlertSender는 필수입니다")
	}

	return &Monitor{
		sweepConfig: sweepConfig,

		aggregator: aggregator,

		alertSender: alertSender,

		lastStatuses:    make(map[string]health.Status),
		lastBreakerOpen: make(map[string]bool),
	}
}

// Start 일제 점검 스케줄을 Cron 엔진에 등록하고 서비스를 시작합니다.
//
// 스케줄 등록과 별개로, 기동 직후 예열 점검을 한 번 수행하여 프로브
// 결과 캐시를 채우고 상태 전이 비교의 기준점을 만듭니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
//
// 반환값:
//   - error: 핵심 의존성이 초기화되지 않았거나 Cron 표현식이 유효하지 않은 경우
func (s *Monitor) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Monitor 서비스 초기화 프로세스를 시작합니다")

	if s.aggregator == nil {
		serviceStopWG.Done()
		return ErrAggregatorNotInitialized
	}
	if s.alertSender == nil {
		serviceStopWG.Done()
		return ErrAlertSenderNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Monitor 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// 1. Cron 엔진 초기화
	// - StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// - Recover: Panic 발생 시 복구하여 다음 점검에 영향을 주지 않음
	// - SkipIfStillRunning: 이전 점검이 끝나지 않았으면 다음 점검을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	// 2. 일제 점검 스케줄 등록
	if s.sweepConfig.Runnable {
		if _, err := s.cron.AddFunc(s.sweepConfig.TimeSpec, func() {
			s.runSweep(serviceStopCtx)
		}); err != nil {
			serviceStopWG.Done()
			return NewErrInvalidCronSpec(s.sweepConfig.TimeSpec, err)
		}
	} else {
		applog.WithComponent(component).Warn("일제 점검 스케줄이 비활성화되어 있습니다. 기동 시 예열 점검 이후의 주기 점검은 수행되지 않습니다")
	}

	// 3. 스케줄러 시작
	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"runnable":  s.sweepConfig.Runnable,
		"time_spec": s.sweepConfig.TimeSpec,
	}).Info("서비스 시작 완료: Monitor 서비스가 정상적으로 초기화되었습니다")

	// 4. 예열 점검 (고루틴)
	// 첫 스케줄 시각까지 기다리지 않고 즉시 한 번 점검하여, 프로브 결과
	// 캐시를 채우고 이후 전이 감지의 기준점을 만듭니다.
	s.sweepWG.Add(1)
	go func() {
		defer s.sweepWG.Done()
		s.runSweep(serviceStopCtx)
	}()

	// 5. 종료 신호 대기 (고루틴)
	// 서비스 생명주기 컨텍스트(serviceStopCtx)의 취소 이벤트를 비동기로 모니터링합니다.
	// 종료 시그널 수신 시 stop() 메서드를 호출하여 리소스를 안전하게 해제하고 그 결과를 보장합니다.
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.stop()
	}()

	return nil
}

// stop 실행 중인 Monitor 서비스를 안전하게 중지합니다.
// 실행 중인 일제 점검(예열 점검 포함)이 끝날 때까지 대기한 후 리턴합니다.
func (s *Monitor) stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Monitor 서비스 중지 시그널을 수신했습니다")

	// Cron 엔진 중지 및 실행 중인 점검 완료 대기
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	// 예열 점검 고루틴 완료 대기
	s.sweepWG.Wait()

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Monitor 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}
