package middleware

import (
	"github.com/darkkaiser/healthwatch-server/internal/service/api/auth"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/constants"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// RequireAppKey App Key 기반 애플리케이션 인증 미들웨어를 반환합니다.
//
// 이 미들웨어는 다음과 같은 순서로 App Key를 추출합니다:
//  1. X-App-Key 헤더 (권장)
//  2. app_key 쿼리 파라미터 (레거시 호환, 경고 로그 기록)
//
// 인증 흐름:
//  1. 요청에서 App Key 추출 (없으면 400 Bad Request)
//  2. Authenticator를 통해 App Key 검증 (실패 시 401 Unauthorized)
//  3. 인증된 애플리케이션 정보를 Context에 저장
//
// 인증에 성공하면 핸들러에서 auth.GetApplication()으로
// 인증된 애플리케이션 정보를 조회할 수 있습니다.
//
// 매개변수:
//   - authenticator: App Key 검증을 수행할 Authenticator (필수)
//
// 사용 예시:
//
//	e.POST("/health/reset-circuit-breaker/:name",
//		handler.ResetCircuitBreakerHandler,
//		middleware.RequireAppKey(authenticator))
//
// 주의사항:
//   - 쿼리 파라미터 방식은 App Key가 액세스 로그에 남을 수 있으므로
//     X-App-Key 헤더 사용을 권장합니다.
func RequireAppKey(authenticator *auth.Authenticator) echo.MiddlewareFunc {
	if authenticator == nil {
		panic(constants.PanicMsgAuthenticatorRequired)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// 1. X-App-Key 헤더에서 App Key 추출 (권장 방식)
			appKey := c.Request().Header.Get(constants.HeaderXAppKey)

			// 2. 헤더에 없으면 쿼리 파라미터 확인 (레거시 호환)
			if appKey == "" {
				appKey = c.QueryParam(constants.QueryParamAppKey)

				if appKey != "" {
					// 쿼리 파라미터 방식은 로그에 App Key가 노출될 수 있으므로 경고
					applog.WithComponentAndFields(constants.ComponentMiddlewareAuthentication, applog.Fields{
						"path":      c.Request().URL.Path,
						"method":    c.Request().Method,
						"remote_ip": c.RealIP(),
					}).Warn("쿼리 파라미터를 통한 App Key 전달은 권장되지 않습니다. X-App-Key 헤더를 사용해주세요.")
				}
			}

			// 3. App Key가 없으면 400 Bad Request
			if appKey == "" {
				return ErrAppKeyRequired
			}

			// 4. App Key 검증
			application, err := authenticator.Authenticate(appKey)
			if err != nil {
				return err
			}

			// 5. 인증된 애플리케이션 정보를 Context에 저장
			auth.SetApplication(c, application)

			return next(c)
		}
	}
}
