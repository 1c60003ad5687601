package middleware

import (
	"fmt"
	"strings"

	"github.com/darkkaiser/healthwatch-server/internal/service/api/constants"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// DeprecatedEndpoint 지원 중단 예정인 엔드포인트에 대한 미들웨어를 반환합니다.
//
// 이 미들웨어는 기존 엔드포인트를 새로운 경로로 이전하는 과도기 동안
// 기존 경로를 계속 동작시키면서 클라이언트에게 이전을 안내합니다.
//
// 응답에 추가되는 헤더:
//   - Warning: 299 경고 (RFC 7234)
//   - X-API-Deprecated: true
//   - X-API-Deprecated-Replacement: 새로운 엔드포인트 경로
//
// 매개변수:
//   - newEndpoint: 클라이언트가 이전해야 할 새로운 엔드포인트 경로 ("/"로 시작해야 함)
//
// 사용 예시:
//
//	e.GET("/healthz", handler.HealthHandler, middleware.DeprecatedEndpoint("/health"))
//
// Panics:
//   - newEndpoint가 빈 문자열인 경우
//   - newEndpoint가 "/"로 시작하지 않는 경우
func DeprecatedEndpoint(newEndpoint string) echo.MiddlewareFunc {
	if newEndpoint == "" {
		panic(constants.PanicMsgDeprecatedEndpointEmpty)
	}
	if !strings.HasPrefix(newEndpoint, "/") {
		panic(fmt.Sprintf(constants.PanicMsgDeprecatedEndpointInvalidPrefix, newEndpoint))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// 지원 중단 안내 헤더 설정
			c.Response().Header().Set(constants.HeaderWarning,
				fmt.Sprintf(`299 - "이 엔드포인트는 지원 중단 예정입니다. %s 엔드포인트를 사용해주세요."`, newEndpoint))
			c.Response().Header().Set(constants.HeaderXAPIDeprecated, "true")
			c.Response().Header().Set(constants.HeaderXAPIDeprecatedReplacement, newEndpoint)

			// 이전 현황 파악을 위해 호출 기록
			applog.WithComponentAndFields(constants.ComponentMiddlewareDeprecated, applog.Fields{
				"deprecated_endpoint": c.Request().URL.Path,
				"replacement":         newEndpoint,
				"method":              c.Request().Method,
				"remote_ip":           c.RealIP(),
				"user_agent":          c.Request().UserAgent(),
			}).Warn(constants.LogMsgDeprecatedEndpointUsed)

			return next(c)
		}
	}
}
