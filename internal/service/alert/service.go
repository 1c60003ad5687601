// Package alert 의존성 상태 변화와 시스템 오류를 텔레그램으로 통지하는
// 알림 서비스를 제공합니다.
//
// 알림 요청은 내부 대기열(채널)에 적재된 후 별도의 Sender 고루틴이
// 순차적으로 발송합니다. 요청자는 실제 전송을 기다리지 않고 즉시
// 리턴받으며, 전송 지연이나 텔레그램 API 장애가 상태 점검 경로를
// 막지 않습니다. 서비스 종료 시에는 대기열에 남은 알림을 제한 시간
// 동안 최대한 발송(Drain)한 후 종료합니다.
package alert

import (
	"context"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/darkkaiser/healthwatch-server/internal/config"
	apperrors "github.com/darkkaiser/healthwatch-server/internal/pkg/errors"
	"github.com/darkkaiser/healthwatch-server/internal/service/contract"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
	"github.com/darkkaiser/healthwatch-server/pkg/strutil"
)

// Service 텔레그램 알림 발송 서비스입니다.
//
// contract.AlertSender를 구현하며, 발송 요청의 접수(대기열 적재)와 실제
// 전송(Sender 고루틴)을 분리하여 처리합니다.
type Service struct {
	appConfig *config.AppConfig

	// === 메시지 전송 관련 ===

	// chatID 알림을 전송할 텔레그램 채팅방의 고유 식별자입니다.
	chatID int64

	// client 텔레그램 봇 API와의 통신을 담당하는 클라이언트입니다.
	// Start에서 초기화되며, 테스트에서는 newClient를 통해 대역이 주입됩니다.
	client client

	// retryDelay API 호출 실패 시 재시도 전에 대기하는 시간입니다.
	retryDelay time.Duration

	// rateLimiter 텔레그램 API 호출 속도를 제어하는 Rate Limiter입니다.
	// API 정책(채팅방당 초당 1회)을 준수하여 봇이 차단되는 것을 방지합니다.
	rateLimiter *rate.Limiter

	// === 대기열(Queue) 상태 관련 ===

	// alertC 알림 발송 요청들을 순차적으로 처리하기 위해 버퍼링하는 내부 채널입니다.
	alertC chan *alertRequest

	// done 서비스의 종료 이벤트를 모든 대기중인 고루틴에게 전파하기 위한 신호 채널입니다.
	done chan struct{}

	// closed Close()가 호출되어 더 이상 새로운 알림 요청을 수락하지 않는 상태인지의 플래그입니다.
	closed bool

	// mu closed 플래그와 대기열 접근의 경쟁 상태를 방지하는 동기화 객체입니다.
	mu sync.RWMutex

	// pendingSendsWG 현재 대기열 적재를 시도 중인 고루틴들을 추적하는 WaitGroup입니다.
	//
	// Graceful Shutdown 시 "대기열 확인(Empty) → 종료 → 적재(Push)" 순서로
	// 발생하는 알림 유실을 방지하기 위해, Sender 고루틴은 Drain 전에 이
	// 카운터가 0이 될 때까지 대기합니다.
	pendingSendsWG sync.WaitGroup

	running   bool
	runningMu sync.Mutex

	// newClient 텔레그램 클라이언트 생성 함수입니다. 테스트에서 대역으로 교체됩니다.
	newClient func(botToken string) (client, error)
}

// 인터페이스 준수 확인
var _ contract.AlertSender = (*Service)(nil)

// NewService Alert 서비스 인스턴스를 생성합니다.
//
// 텔레그램 클라이언트는 이 시점에 생성되지 않고 Start에서 초기화됩니다.
func NewService(appConfig *config.AppConfig) *Service {
	if appConfig == nil {
		panic("Alert 서비스의 appConfig는 필수입니다")
	}

	queueSize := appConfig.Alert.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	return &Service{
		appConfig: appConfig,

		chatID:      appConfig.Alert.Telegram.ChatID,
		retryDelay:  retryDelay,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),

		alertC: make(chan *alertRequest, queueSize),
		done:   make(chan struct{}),

		running:   false,
		runningMu: sync.Mutex{},

		newClient: newTelegramClient,
	}
}

// newTelegramClient 텔레그램 봇 API 클라이언트를 생성합니다.
//
// Go의 기본 http.DefaultClient는 타임아웃이 설정되어 있지 않아, 네트워크 장애 발생 시
// 요청이 무한히 대기하는(Hang) 리소스 누수가 발생할 수 있습니다.
// 이를 방지하기 위해 명시적인 타임아웃이 설정된 HTTP 클라이언트를 주입합니다.
func newTelegramClient(botToken string) (client, error) {
	httpClient := &http.Client{
		Timeout: httpClientTimeout,
	}

	botAPI, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "텔레그램 봇 API 클라이언트 초기화에 실패했습니다. BotToken이 올바른지 확인해주세요")
	}
	return botAPI, nil
}

// Start Alert 서비스를 시작합니다.
//
// 텔레그램 클라이언트를 초기화한 후 Sender 고루틴을 기동하며, 이후의
// 발송 요청은 대기열을 통해 비동기적으로 처리됩니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 전달받는 컨텍스트
//   - serviceStopWG: 서비스 종료 완료를 보고하는 WaitGroup
//
// 반환값:
//   - error: 텔레그램 클라이언트 초기화에 실패한 경우의 에러
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Alert 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("Alert 서비스가 이미 시작됨!!!")
		return nil
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"bot_token": strutil.MaskSensitiveData(s.appConfig.Alert.Telegram.BotToken),
		"chat_id":   s.chatID,
	}).Debug("텔레그램 봇 API 클라이언트 초기화중...")

	botClient, err := s.newClient(s.appConfig.Alert.Telegram.BotToken)
	if err != nil {
		defer serviceStopWG.Done()
		return apperrors.Wrap(err, apperrors.Internal, "Alert 서비스 초기화 중 에러가 발생했습니다")
	}
	s.client = botClient

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(component).Info("Alert 서비스 시작됨")

	return nil
}

// runServiceLoop 서비스의 메인 실행 루프입니다.
// Sender 고루틴이 종료(Drain 포함)될 때까지 대기한 후 상태를 정리합니다.
func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	s.processAlerts(serviceStopCtx)

	s.cleanup()
}

// cleanup 서비스 종료 후 상태를 정리합니다.
func (s *Service) cleanup() {
	s.Close()

	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"chat_id": s.chatID,
	}).Info("Alert 서비스 중지됨")
}

// Send 알림 발송 요청을 내부 대기열에 안전하게 등록합니다.
//
// 이 메서드는 실제 발송을 수행하지 않고, 요청을 메모리 대기열에 넣는 역할만 수행하므로 매우 빠르게 리턴됩니다.
// 대기열이 가득 찬 경우, 설정된 타임아웃(enqueueTimeout)만큼 대기합니다.
//
// 매개변수:
//   - ctx: 요청의 생명주기를 관리하는 컨텍스트
//   - alert: 전송할 알림 데이터
//
// 반환값:
//   - error: 성공 시 nil, 실패 시 에러 반환 (ErrQueueFull, ErrClosed 등)
func (s *Service) Send(ctx context.Context, alert contract.Alert) (err error) {
	req, cleanup, prepareErr := s.prepareSend(ctx, alert)
	if prepareErr != nil {
		return prepareErr
	}
	defer cleanup(&err)

	// 타이머 생성
	// 대기열이 가득 찼을 때 무한정 대기하지 않고, 설정된 타임아웃(enqueueTimeout)만큼만 기다립니다.
	// 이는 시스템 과부하 시 요청을 "실패" 처리함으로써 전체 시스템의 응답성을 보호하는 Backpressure 역할을 합니다.
	timer := time.NewTimer(enqueueTimeout)
	defer func() {
		// timer.Stop()이 false를 반환하면 이미 타이머가 만료되어 시간 값(C)이 채널에 전송되었을 수 있습니다.
		// 이 경우 채널을 비워주지 않으면 타이머 고루틴이 메모리에 남을 수 있으므로 비워줍니다.
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}()

	select {
	case s.alertC <- req:
		// 성공: 대기열에 정상적으로 등록됨
		return nil

	case <-s.done:
		// 실패: 대기 중에 서비스가 종료됨 (Graceful Shutdown)
		return ErrClosed

	case <-ctx.Done():
		// 실패: 요청자(Caller)의 작업이 취소됨
		return ctx.Err()

	case <-timer.C:
		// 실패: 타임아웃 발생 (대기열이 계속 가득 차 있음)
		s.logQueueFull(alert)
		return ErrQueueFull
	}
}

// TrySend 알림 발송 요청을 내부 대기열에 등록 시도합니다.
//
// Send와 달리, 대기열이 가득 찼을 때 대기(Block)하지 않고 즉시 에러(ErrQueueFull)를 반환합니다.
// 빠른 응답이 중요하거나, 알림 유실이 허용되는 경우에 사용합니다.
func (s *Service) TrySend(ctx context.Context, alert contract.Alert) (err error) {
	req, cleanup, prepareErr := s.prepareSend(ctx, alert)
	if prepareErr != nil {
		return prepareErr
	}
	defer cleanup(&err)

	select {
	case s.alertC <- req:
		// 성공: 대기열에 정상적으로 등록됨
		return nil

	case <-s.done:
		// 실패: 대기 중에 서비스가 종료됨 (Graceful Shutdown)
		return ErrClosed

	case <-ctx.Done():
		// 실패: 요청자(Caller)의 작업이 취소됨
		return ctx.Err()

	default:
		// 실패: 대기열이 가득 차 있음 (즉시 리턴)
		s.logQueueFull(alert)
		return ErrQueueFull
	}
}

// SendSystemError 시스템 오류 알림을 발송합니다.
//
// HTTP 서버의 비정상 종료 등 관리자의 주의가 필요한 내부 오류 상황에서
// 호출되며, 오류 플래그가 설정된 시스템 알림으로 대기열에 등록됩니다.
func (s *Service) SendSystemError(message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
	defer cancel()

	return s.Send(ctx, contract.NewSystemErrorAlert(config.AppName, message))
}

// prepareSend 알림 발송을 위한 사전 준비 작업을 수행하는 내부 헬퍼 메서드입니다.
//
// Send와 TrySend에서 공통으로 사용되며, 실제 대기열 적재 전에 필요한
// 유효성 검증과 상태 확인, Pending Sends 카운터 확보를 담당합니다.
//
// 반환값:
//   - req: 대기열에 전송할 알림 요청 객체
//   - cleanup: 반드시 defer로 호출해야 하는 정리 함수 (WG.Done + Panic Recovery)
//   - err: 준비 과정에서 발생한 에러 (ErrClosed, context.Canceled 등)
func (s *Service) prepareSend(ctx context.Context, alert contract.Alert) (req *alertRequest, cleanup func(*error), err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// 0. 알림 유효성 검증
	if err := alert.Validate(); err != nil {
		return nil, nil, err
	}

	// 1. 컨텍스트 취소 확인
	// 이미 취소된 컨텍스트인 경우 락 획득 등의 비용을 아끼고 즉시 종료합니다.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()

	// 2. 종료 상태 확인
	if s.closed {
		s.mu.RUnlock()
		return nil, nil, ErrClosed
	}

	// 3. Pending Sends 카운터 증가
	// closed 확인과 같은 락 구간에서 수행하여, Close 이후의 Add를 방지합니다.
	s.pendingSendsWG.Add(1)

	s.mu.RUnlock()

	// 4. 리소스 정리 및 패닉 복구용 함수
	cleanup = func(errPtr *error) {
		s.pendingSendsWG.Done()

		// 패닉 복구: 혹시 모를 내부 로직 오류나 채널 이슈로 패닉이 발생해도, 서비스 전체가 죽지 않도록 방어합니다.
		if r := recover(); r != nil {
			fields := applog.Fields{
				"panic": r,
			}
			if alert.Dependency != "" {
				fields["dependency"] = alert.Dependency
			}
			applog.WithComponentAndFields(component, fields).Error("알림 요청 패닉 복구: 대기열 등록 중 예기치 않은 오류가 발생했습니다 (서비스 유지됨)")

			if errPtr != nil {
				*errPtr = ErrPanicRecovered
			}
		}
	}

	req = &alertRequest{
		Ctx:   ctx,
		Alert: alert,
	}

	return req, cleanup, nil
}

// logQueueFull 발송 대기열이 가득 차서 알림 요청이 거부되었을 때 경고 로그를 남깁니다.
func (s *Service) logQueueFull(alert contract.Alert) {
	fields := applog.Fields{
		"chat_id": s.chatID,
	}
	if alert.Dependency != "" {
		fields["dependency"] = alert.Dependency
	}
	applog.WithComponentAndFields(component, fields).Warn("알림 요청 거부: 발송 대기열 용량 초과 (Queue Full)")
}

// Close 알림 접수를 중단하고 종료 신호를 전파합니다.
//
// 이 메서드가 호출되면:
//  1. 서비스 상태가 '종료됨(Closed)'으로 변경되어 더 이상의 새로운 발송 요청을 받지 않습니다.
//  2. done 채널이 닫혀서, 이를 구독하고 있는 모든 고루틴에게 종료 신호를 전파합니다.
//
// 참고: 내부 대기열 채널(alertC)은 명시적으로 닫지 않습니다. 다중 프로듀서 환경에서
// 채널 닫기에 의한 패닉을 방지하기 위함이며, 남은 알림은 Drain 로직이 처리하거나 GC가 수거합니다.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

// isClosed 서비스가 현재 종료된 상태인지 확인합니다.
func (s *Service) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// NopSender 알림이 비활성화된 환경에서 사용하는 무동작 AlertSender입니다.
//
// 모든 발송 요청을 조용히 버리고 성공으로 보고하므로, 호출하는 쪽은
// 알림 활성화 여부를 분기할 필요가 없습니다.
type NopSender struct{}

// 인터페이스 준수 확인
var _ contract.AlertSender = (*NopSender)(nil)

// NewNopSender 무동작 AlertSender를 생성합니다.
func NewNopSender() *NopSender {
	return &NopSender{}
}

// Send 알림을 버리고 즉시 성공을 반환합니다.
func (*NopSender) Send(_ context.Context, alert contract.Alert) error {
	applog.WithComponentAndFields(component, applog.Fields{
		"dependency": alert.Dependency,
	}).Debug("알림이 비활성화되어 있어 발송 요청을 무시합니다")
	return nil
}

// TrySend 알림을 버리고 즉시 성공을 반환합니다.
func (n *NopSender) TrySend(ctx context.Context, alert contract.Alert) error {
	return n.Send(ctx, alert)
}

// SendSystemError 시스템 오류 알림을 버리고 즉시 성공을 반환합니다.
func (*NopSender) SendSystemError(string) error {
	return nil
}
