// Package contract 서비스 간의 의존 방향을 단순하게 유지하기 위한
// 공유 타입과 인터페이스를 정의합니다.
//
// Monitor, API와 같은 서비스는 구체적인 알림 구현체가 아니라 이 패키지의
// AlertSender 인터페이스에만 의존합니다. 덕분에 알림 채널(텔레그램 등)의
// 교체나 테스트 대역(Mock) 주입이 사용하는 쪽의 코드 변경 없이 가능합니다.
package contract

import (
	"strings"
	"time"

	"github.com/darkkaiser/healthwatch-server/internal/health"
)

// Alert 관리자에게 발송할 알림 한 건의 정보입니다.
//
// 의존성 상태 전이 알림, 의존성에 속한 이벤트 알림(서킷 브레이커 개방 등),
// 시스템 알림의 세 종류가 있습니다. 전이 알림은 Previous/Current 상태와
// 점검 시각을 함께 담아 수신자가 변화의 맥락을 파악할 수 있게 합니다.
type Alert struct {
	// Dependency 상태가 변화한 의존성의 이름 (시스템 알림은 비어 있음)
	Dependency string

	// Title 알림 메시지의 제목 (비어 있으면 Dependency로 대체)
	Title string

	// Message 전송할 메시지 본문
	Message string

	// Previous 전이 이전의 의존성 상태 (전이 알림에서만 유효)
	Previous health.Status

	// Current 전이 이후의 의존성 상태 (전이 알림에서만 유효)
	Current health.Status

	// CheckedAt 상태 변화를 감지한 점검 시각
	CheckedAt time.Time

	// ErrorOccurred 관리자의 주의가 필요한 오류성 알림인지 여부
	ErrorOccurred bool
}

// NewTransitionAlert 의존성 상태 전이 알림을 생성합니다.
//
// 전이 후의 상태가 사용 불가(unhealthy)이면 오류성 알림으로 표시됩니다.
//
// 매개변수:
//   - dependency: 상태가 변화한 의존성의 이름
//   - previous: 전이 이전의 상태
//   - current: 전이 이후의 상태
//   - message: 알림 메시지 본문 (상태 설명, 원인 등)
//   - checkedAt: 상태 변화를 감지한 점검 시각
func NewTransitionAlert(dependency string, previous, current health.Status, message string, checkedAt time.Time) Alert {
	return Alert{
		Dependency:    dependency,
		Message:       message,
		Previous:      previous,
		Current:       current,
		CheckedAt:     checkedAt,
		ErrorOccurred: current == health.StatusUnhealthy,
	}
}

// NewSystemAlert 의존성과 무관한 시스템 알림을 생성합니다.
func NewSystemAlert(title, message string) Alert {
	return Alert{
		Title:   title,
		Message: message,
	}
}

// NewSystemErrorAlert 오류 플래그가 설정된 시스템 알림을 생성합니다.
// 서버 내부 오류 등 관리자의 즉각적인 주의가 필요한 상황에 사용합니다.
func NewSystemErrorAlert(title, message string) Alert {
	return Alert{
		Title:         title,
		Message:       message,
		ErrorOccurred: true,
	}
}

// IsTransition 의존성 상태 전이 알림인지 여부를 반환합니다.
// 의존성 이름과 전이 후 상태가 모두 있어야 전이 알림으로 취급합니다.
func (a Alert) IsTransition() bool {
	return a.Dependency != "" && a.Current != ""
}

// IsRecovery 의존성이 정상 상태로 복구된 전이 알림인지 여부를 반환합니다.
func (a Alert) IsRecovery() bool {
	return a.IsTransition() && a.Current == health.StatusHealthy
}

// Validate 알림 데이터의 정합성을 검증합니다.
//
// 반환값:
//   - error: 메시지 본문이 비어있으면 ErrMessageRequired, 정상이면 nil
func (a Alert) Validate() error {
	if strings.TrimSpace(a.Message) == "" {
		return ErrMessageRequired
	}
	return nil
}
