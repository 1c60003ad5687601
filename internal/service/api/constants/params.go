package constants

// URL 쿼리 파라미터 키 상수입니다.
const (
	// QueryParamAppKey 애플리케이션 인증용 쿼리 파라미터 키 (레거시)
	QueryParamAppKey = "app_key"
)

// URL 경로 파라미터 키 상수입니다.
const (
	// PathParamBreakerName 서킷 브레이커 이름 경로 파라미터 키
	PathParamBreakerName = "name"
)

// HTTP 헤더 키 상수입니다.
const (
	// ------------------------------------------------------------------------------------------------
	// 인증
	// ------------------------------------------------------------------------------------------------

	// HeaderXAppKey 애플리케이션 인증용 HTTP 헤더 키 (권장 방식)
	HeaderXAppKey = "X-App-Key"

	// ------------------------------------------------------------------------------------------------
	// Deprecated 엔드포인트
	// ------------------------------------------------------------------------------------------------

	// HeaderWarning RFC 7234 표준 Warning 헤더 (deprecated 엔드포인트 경고용)
	HeaderWarning = "Warning"

	// HeaderXAPIDeprecated deprecated 상태 표시용 커스텀 헤더
	HeaderXAPIDeprecated = "X-API-Deprecated"

	// HeaderXAPIDeprecatedReplacement 대체 엔드포인트 표시용 커스텀 헤더
	HeaderXAPIDeprecatedReplacement = "X-API-Deprecated-Replacement"
)

// Context 키 상수입니다.
const (
	// ContextKeyApplication 인증된 Application 객체 저장용 Context 키
	ContextKeyApplication = "darkkaiser/healthwatch-server/api/auth/AuthenticatedApplication"
)

// SensitiveQueryParams 로그 기록 시 마스킹 처리해야 할 쿼리 파라미터 목록입니다.
var SensitiveQueryParams = []string{
	QueryParamAppKey,
	"api_key",
	"password",
	"token",
	"secret",
}
