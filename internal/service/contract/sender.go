package contract

import "context"

// AlertSender 알림 발송 기능을 제공하는 인터페이스입니다.
// Monitor, API와 같은 클라이언트는 이 인터페이스를 통해 알림 서비스를 사용합니다.
type AlertSender interface {
	// Send 알림 발송 요청을 대기열에 등록합니다.
	// 대기열이 가득 찬 경우 짧은 시간 동안 빈 공간이 생기기를 기다립니다.
	//
	// 매개변수:
	//   - ctx: 요청의 생명주기를 관리하는 컨텍스트
	//   - alert: 전송할 알림 데이터
	//
	// 반환값:
	//   - error: 요청이 정상적으로 대기열에 등록(실제 전송 결과와는 무관)되면 nil,
	//     실패 시 에러 반환 (ErrQueueFull, ErrClosed 등)
	Send(ctx context.Context, alert Alert) error

	// TrySend 알림 발송 요청을 대기열에 등록 시도합니다.
	//
	// Send와 달리, 대기열이 가득 찼을 때 대기(Block)하지 않고 즉시
	// ErrQueueFull을 반환합니다. 빠른 응답이 중요하거나 알림 유실이
	// 허용되는 경우에 사용합니다.
	TrySend(ctx context.Context, alert Alert) error

	// SendSystemError 시스템 오류 알림을 발송합니다.
	// HTTP 서버의 비정상 종료 등 관리자의 주의가 필요한 내부 오류 상황에 적합하며,
	// 내부적으로 오류 플래그가 설정되어 발송됩니다.
	//
	// 매개변수:
	//   - message: 전송할 오류 메시지 내용
	//
	// 반환값:
	//   - error: 요청이 정상적으로 대기열에 등록되면 nil, 실패 시 에러 반환
	SendSystemError(message string) error
}
