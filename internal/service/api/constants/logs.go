package constants

// 내부 로깅을 위한 메시지 상수입니다.
const (
	// ------------------------------------------------------------------------------------------------
	// 서비스 생명주기
	// ------------------------------------------------------------------------------------------------

	LogMsgServiceStarting       = "API 서비스 시작중..."
	LogMsgServiceStarted        = "API 서비스 시작됨"
	LogMsgServiceAlreadyStarted = "API 서비스가 이미 시작됨!!!"
	LogMsgServiceStopping       = "API 서비스 중지중..."
	LogMsgServiceStopped        = "API 서비스 중지됨"
	LogMsgServiceUnexpectedExit = "API 서비스가 예기치 않게 종료되었습니다"

	LogMsgServiceHTTPServerStarting      = "API 서비스 > http 서버 시작"
	LogMsgServiceHTTPServerStopped       = "API 서비스 > http 서버 중지됨"
	LogMsgServiceHTTPServerShutdownError = "API 서비스 > http 서버 종료 중 오류 발생"
	LogMsgServiceHTTPServerFatalError    = "API 서비스 > http 서버를 구성하는 중에 치명적인 오류가 발생하였습니다."
	LogMsgServiceAlertSendFailed         = "API 서비스 > 서버 오류 알림 전송에 실패하였습니다."

	// ------------------------------------------------------------------------------------------------
	// HTTP 에러 핸들러
	// ------------------------------------------------------------------------------------------------

	LogMsgHTTP4xxClientError = "HTTP 4xx: 클라이언트 요청 오류"
	LogMsgHTTP5xxServerError = "HTTP 5xx: 서버 내부 오류"

	// ------------------------------------------------------------------------------------------------
	// Deprecated 엔드포인트
	// ------------------------------------------------------------------------------------------------

	LogMsgDeprecatedEndpointUsed = "지원 중단 예정인 엔드포인트가 호출되었습니다."

	// ------------------------------------------------------------------------------------------------
	// 핸들러
	// ------------------------------------------------------------------------------------------------

	LogMsgHealthCheck             = "헬스체크 요청"
	LogMsgVersionInfo             = "버전 정보 요청"
	LogMsgBreakerResetByUser      = "서킷 브레이커가 수동으로 초기화되었습니다."
	LogMsgBreakerResetAlertFailed = "서킷 브레이커 초기화 알림 전송에 실패하였습니다."
)
