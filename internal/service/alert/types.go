package alert

import (
	"context"
	"time"

	"github.com/darkkaiser/healthwatch-server/internal/service/contract"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// component Alert 서비스의 로깅용 컴포넌트 이름
const component = "alert.service"

const (
	// messageMaxLength 텔레그램 메시지 전송 시 허용되는 최대 문자 길이입니다.
	//
	// 텔레그램 Bot API 공식 제한은 4096자이지만, HTML 태그 및 메타데이터 오버헤드를 고려하여
	// 안전 마진을 두고 3900자로 설정했습니다. 이를 초과하는 메시지는 자동으로 분할 전송됩니다.
	messageMaxLength = 3900

	// shutdownTimeout Alert 서비스 종료 시 대기열에 남은 알림을 처리하기 위해 대기하는 최대 시간입니다.
	//
	// 이 시간 동안 Drain 로직이 실행되어 버퍼에 쌓인 미전송 알림을 최대한 처리합니다.
	// 타임아웃이 경과하면 남은 알림은 손실될 수 있으므로, 대기열 크기와 전송 속도를 고려하여
	// 충분히 여유있게 설정해야 합니다.
	shutdownTimeout = 60 * time.Second

	// enqueueTimeout 발송 대기열이 가득 찼을 때, 요청을 바로 버리지 않고 기다려줄 최대 시간입니다.
	// 이 시간 동안에도 빈 공간이 생기지 않으면, 시스템 보호를 위해 해당 요청은 드롭(Drop)됩니다.
	enqueueTimeout = 5 * time.Second

	// sendTimeout 텔레그램 API로 알림 한 건을 실제 전송할 때 사용하는 제한 시간입니다.
	// Rate Limit 대기와 재시도 백오프를 포함하므로 충분히 길게 설정합니다.
	sendTimeout = 30 * time.Second

	// httpClientTimeout 텔레그램 API 클라이언트의 HTTP 요청 타임아웃입니다.
	// 타임아웃이 없는 기본 클라이언트는 네트워크 장애 시 요청이 무한 대기할 수 있습니다.
	httpClientTimeout = 30 * time.Second

	// retryDelay 알림 발송 실패 시 재시도 전에 대기하는 기본 시간입니다.
	retryDelay = 1 * time.Second

	// rateLimit 텔레그램 API 호출 속도 제한 (초당 허용 요청 수)
	// 공식 문서는 채팅방당 초당 1회, 전역 초당 30회를 권장합니다.
	rateLimit = 1

	// rateBurst 텔레그램 API 호출 속도 제한의 버스트 (순간 최대 허용 요청 수)
	rateBurst = 5

	// defaultQueueSize 설정에 대기열 크기가 없을 때 사용하는 기본값입니다.
	defaultQueueSize = 100
)

// client 텔레그램 봇 API와의 통신을 추상화한 인터페이스입니다.
type client interface {
	// 메시지 전송
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// alertRequest 알림 발송 요청 정보를 담고 있는 내부 데이터 구조체입니다.
//
// Send/TrySend를 통해 접수된 알림 요청은 이 구조체로 포장되어,
// 내부 채널(alertC)을 통해 비동기적으로 Sender 고루틴에게 전달됩니다.
//
// Go 관례상 context.Context를 구조체에 저장하는 것은 지양되지만,
// Worker 패턴에서 채널을 통해 Context를 전달하기 위해 내부적으로만 사용하는 래퍼입니다.
type alertRequest struct {
	Ctx   context.Context
	Alert contract.Alert
}
