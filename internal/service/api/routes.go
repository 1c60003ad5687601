package api

import (
	"github.com/darkkaiser/healthwatch-server/internal/service/api/auth"
	healthhandler "github.com/darkkaiser/healthwatch-server/internal/service/api/handler/health"
	systemhandler "github.com/darkkaiser/healthwatch-server/internal/service/api/handler/system"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes API 서비스의 전역 라우트를 등록합니다.
//
// 이 함수는 다음과 같은 엔드포인트들을 설정합니다:
//   - 상태 점검 엔드포인트: 종합/준비/활성 상태 조회 및 서킷 브레이커 관리 (/health/*)
//   - 시스템 엔드포인트: 버전 정보(/version) (인증 불필요)
//   - 레거시 별칭: /healthz, /readyz (deprecated, 신규 경로로의 이전 유도)
//   - API 문서: Swagger UI (/swagger/*) 제공
func RegisterRoutes(e *echo.Echo, healthHandler *healthhandler.Handler, systemHandler *systemhandler.Handler, authenticator *auth.Authenticator) {
	registerHealthRoutes(e, healthHandler, authenticator)
	registerSystemRoutes(e, systemHandler)
	registerLegacyRoutes(e, healthHandler)
	registerSwaggerRoutes(e)
}

// registerHealthRoutes 상태 점검 엔드포인트를 등록합니다.
//
// 조회 엔드포인트는 로드밸런서와 오케스트레이터가 인증 없이 호출할 수
// 있어야 하므로 공개합니다. 서버의 운영 상태를 변경하는 서킷 브레이커
// 초기화 엔드포인트만 애플리케이션 인증(app_key)을 요구합니다.
func registerHealthRoutes(e *echo.Echo, h *healthhandler.Handler, authenticator *auth.Authenticator) {
	healthGroup := e.Group("/health")

	healthGroup.GET("", h.HealthHandler)
	healthGroup.GET("/detailed", h.DetailedHandler)
	healthGroup.GET("/ready", h.ReadinessHandler)
	healthGroup.GET("/live", h.LivenessHandler)
	healthGroup.GET("/circuit-breakers", h.CircuitBreakersHandler)
	healthGroup.GET("/metrics", h.MetricsHandler)

	healthGroup.POST("/reset-circuit-breaker/:name", h.ResetCircuitBreakerHandler,
		middleware.RequireAppKey(authenticator),
	)
}

func registerSystemRoutes(e *echo.Echo, h *systemhandler.Handler) {
	e.GET("/version", h.VersionHandler)
}

// registerLegacyRoutes 이전 버전과의 호환을 위한 별칭 엔드포인트를 등록합니다.
//
// 응답에 deprecated 경고 헤더를 추가하여 신규 경로로의 이전을 유도합니다.
func registerLegacyRoutes(e *echo.Echo, h *healthhandler.Handler) {
	e.GET("/healthz", h.HealthHandler, middleware.DeprecatedEndpoint("/health"))
	e.GET("/readyz", h.ReadinessHandler, middleware.DeprecatedEndpoint("/health/ready"))
}

func registerSwaggerRoutes(e *echo.Echo) {
	// Swagger UI 엔드포인트 설정
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(
		// Swagger 문서 JSON 파일 위치 지정
		echoSwagger.URL("/swagger/doc.json"),
		// 딥 링크 활성화 (특정 API로 바로 이동 가능한 URL 지원)
		echoSwagger.DeepLinking(true),
		// 문서 로드 시 태그(Tag) 목록만 펼침 상태로 표시 ("list", "full", "none")
		echoSwagger.DocExpansion("list"),
	))
}
