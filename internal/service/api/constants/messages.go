package constants

// 클라이언트에게 반환되는 에러 메시지 상수입니다.
const (
	// ------------------------------------------------------------------------------------------------
	// 일반 HTTP 에러 (상태 코드 순)
	// ------------------------------------------------------------------------------------------------

	// 400 Bad Request
	ErrMsgBadRequest = "잘못된 요청입니다"

	// 401 Unauthorized
	ErrMsgUnauthorizedInvalidAppKey = "app_key가 유효하지 않습니다"

	// 404 Not Found
	ErrMsgNotFound        = "요청한 리소스를 찾을 수 없습니다"
	ErrMsgNotFoundBreaker = "등록되지 않은 서킷 브레이커입니다 (name: %s)"

	// 413 Request Entity Too Large
	ErrMsgRequestEntityTooLarge = "요청 본문이 너무 큽니다"

	// 429 Too Many Requests
	ErrMsgTooManyRequests = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"

	// 500 Internal Server Error
	ErrMsgInternalServer = "내부 서버 오류가 발생했습니다"

	// ------------------------------------------------------------------------------------------------
	// 인증 에러
	// ------------------------------------------------------------------------------------------------

	// ErrMsgAuthAppKeyRequired app_key 누락 (X-App-Key 헤더 또는 app_key 쿼리 파라미터)
	ErrMsgAuthAppKeyRequired = "app_key는 필수입니다 (X-App-Key 헤더 또는 app_key 쿼리 파라미터)"
)

// 성공 응답 메시지 상수입니다.
const (
	// MsgSuccess 표준 성공 응답 메시지
	MsgSuccess = "성공"
)

// 관리자 알림 메시지 상수입니다.
const (
	// AlertTitleBreakerReset 서킷 브레이커 수동 초기화 알림의 제목
	AlertTitleBreakerReset = "서킷 브레이커 수동 초기화"

	// AlertMsgBreakerReset 서킷 브레이커 수동 초기화 알림의 본문 (브레이커 이름, 요청 주체)
	AlertMsgBreakerReset = "서킷 브레이커(%s)가 수동으로 초기화되었습니다. (요청 주체: %s)"
)
