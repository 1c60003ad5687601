// Package health 헬스체크 엔드포인트 핸들러를 제공합니다.
//
// 의존성 점검 결과의 집계 조회와 서킷 브레이커 관리 API를 처리합니다.
// 의존성 장애는 500이 아니라 503과 상세 보고서로 응답합니다.
package health

import (
	"fmt"
	"net/http"

	"github.com/darkkaiser/healthwatch-server/internal/health"
	"github.com/darkkaiser/healthwatch-server/internal/health/aggregator"
	apperrors "github.com/darkkaiser/healthwatch-server/internal/pkg/errors"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/auth"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/constants"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/httputil"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/model/system"
	"github.com/darkkaiser/healthwatch-server/internal/service/contract"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// Handler 헬스체크 엔드포인트 핸들러
type Handler struct {
	aggregator  *aggregator.Aggregator
	breakers    *health.BreakerRegistry
	alertSender contract.AlertSender
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(aggregator *aggregator.Aggregator, breakers *health.BreakerRegistry, alertSender contract.AlertSender) *Handler {
	if aggregator == nil {
		panic(constants.PanicMsgAggregatorRequired)
	}
	if breakers == nil {
		panic(constants.PanicMsgBreakerRegistryRequired)
	}
	if alertSender == nil {
		panic(constants.PanicMsgAlertSenderRequired)
	}

	return &Handler{
		aggregator:  aggregator,
		breakers:    breakers,
		alertSender: alertSender,
	}
}

// HealthHandler godoc
// @Summary 종합 헬스체크
// @Description 모든 의존성의 점검 결과를 병합한 종합 상태 보고서를 반환합니다.
// @Description 짧은 주기의 반복 호출을 전제로 캐시된 점검 결과를 재사용합니다.
// @Description
// @Description 상태 코드:
// @Description - 200: 전체 상태가 healthy 또는 degraded
// @Description - 503: 전체 상태가 unhealthy
// @Tags Health
// @Produce json
// @Success 200 {object} health.AggregateHealth "종합 상태 보고서"
// @Failure 503 {object} health.AggregateHealth "종합 상태 보고서 (사용 불가)"
// @Router /health [get]
func (h *Handler) HealthHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug(constants.LogMsgHealthCheck)

	aggregated := h.aggregator.Comprehensive(c.Request().Context())

	return c.JSON(httpStatusOf(aggregated.OverallStatus), aggregated)
}

// DetailedHandler godoc
// @Summary 상세 헬스체크 (캐시 미사용)
// @Description 캐시를 우회하여 모든 의존성을 즉시 새로 점검한 결과를 반환합니다.
// @Description 실제 I/O가 발생하므로 장애 조사 시에만 사용하고, 주기적인
// @Description 모니터링에는 /health 엔드포인트를 사용해주세요.
// @Tags Health
// @Produce json
// @Success 200 {object} health.AggregateHealth "종합 상태 보고서"
// @Failure 503 {object} health.AggregateHealth "종합 상태 보고서 (사용 불가)"
// @Router /health/detailed [get]
func (h *Handler) DetailedHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health/detailed",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug(constants.LogMsgHealthCheck)

	aggregated := h.aggregator.Refresh(c.Request().Context())

	return c.JSON(httpStatusOf(aggregated.OverallStatus), aggregated)
}

// ReadinessHandler godoc
// @Summary 준비 상태 점검
// @Description 필수 의존성이 모두 사용 가능한 상태인지 보고합니다.
// @Description 종료가 시작된 후에는 준비되지 않은 것으로 보고하여
// @Description 로드밸런서가 트래픽을 다른 인스턴스로 돌릴 수 있도록 합니다.
// @Tags Health
// @Produce json
// @Success 200 {object} health.ReadinessReport "준비됨"
// @Failure 503 {object} health.ReadinessReport "준비되지 않음 (reason 포함)"
// @Router /health/ready [get]
func (h *Handler) ReadinessHandler(c echo.Context) error {
	report := h.aggregator.Readiness(c.Request().Context())

	status := http.StatusOK
	if !report.Ready {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, report)
}

// LivenessHandler godoc
// @Summary 활성 상태 점검
// @Description 프로세스 자신의 생존 여부만 보고하는 가장 저렴한 점검입니다.
// @Description 의존성 상태와 무관하며 I/O를 수행하지 않습니다.
// @Tags Health
// @Produce json
// @Success 200 {object} health.LivenessReport "활성 상태"
// @Failure 503 {object} health.LivenessReport "비활성 상태 (시작 유예 중 또는 종료 진행 중)"
// @Router /health/live [get]
func (h *Handler) LivenessHandler(c echo.Context) error {
	report := h.aggregator.Liveness()

	status := http.StatusOK
	if !report.Alive {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, report)
}

// CircuitBreakersHandler godoc
// @Summary 서킷 브레이커 상태 조회
// @Description 모든 서킷 브레이커의 상태 스냅샷을 이름 순으로 반환합니다.
// @Description 호출 통계(성공률, 거부 수)와 적용 중인 동작 설정이 포함됩니다.
// @Tags Health
// @Produce json
// @Success 200 {object} system.BreakerListResponse "서킷 브레이커 상태 목록"
// @Router /health/circuit-breakers [get]
func (h *Handler) CircuitBreakersHandler(c echo.Context) error {
	snapshots := h.breakers.Snapshots()

	return c.JSON(http.StatusOK, system.BreakerListResponse{
		Count:    len(snapshots),
		Breakers: snapshots,
	})
}

// ResetCircuitBreakerHandler godoc
// @Summary 서킷 브레이커 강제 초기화
// @Description 지정한 이름의 서킷 브레이커를 닫힘 상태로 강제 초기화합니다.
// @Description 의존성 복구를 확인한 후 복구 대기 시간을 기다리지 않고
// @Description 점검을 즉시 재개하고자 할 때 사용합니다.
// @Tags Health
// @Produce json
// @Param name path string true "서킷 브레이커 이름"
// @Param X-App-Key header string false "애플리케이션 인증 키 (권장)"
// @Param app_key query string false "애플리케이션 인증 키 (레거시)"
// @Success 200 {object} system.BreakerResetResponse "초기화 직후의 상태 스냅샷"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Failure 404 {object} response.ErrorResponse "등록되지 않은 서킷 브레이커"
// @Router /health/reset-circuit-breaker/{name} [post]
func (h *Handler) ResetCircuitBreakerHandler(c echo.Context) error {
	name := c.Param(constants.PathParamBreakerName)
	if name == "" {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequest)
	}

	snapshot, err := h.breakers.Reset(name)
	if err != nil {
		if apperrors.Is(err, apperrors.NotFound) {
			return httputil.NewNotFoundError(fmt.Sprintf(constants.ErrMsgNotFoundBreaker, name))
		}
		return err
	}

	// 운영 감사를 위해 초기화 주체를 함께 기록
	actor := c.RealIP()
	fields := applog.Fields{
		"breaker":   name,
		"remote_ip": c.RealIP(),
	}
	if application, err := auth.GetApplication(c); err == nil {
		actor = application.ID
		fields["application_id"] = application.ID
	}
	applog.WithComponentAndFields(constants.ComponentHandler, fields).Info(constants.LogMsgBreakerResetByUser)

	// 운영 상태가 변경되었음을 관리자에게 통지한다. 알림 대기열이 가득 차
	// 있어도 응답을 지연시키지 않도록 대기 없이 등록을 시도하고, 실패는
	// 경고 로그로만 남긴다.
	notice := contract.NewSystemAlert(
		constants.AlertTitleBreakerReset,
		fmt.Sprintf(constants.AlertMsgBreakerReset, name, actor),
	)
	if alertErr := h.alertSender.TrySend(c.Request().Context(), notice); alertErr != nil {
		applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
			"breaker": name,
			"error":   alertErr,
		}).Warn(constants.LogMsgBreakerResetAlertFailed)
	}

	return c.JSON(http.StatusOK, system.BreakerResetResponse{
		ResultCode: 0,
		Breaker:    snapshot,
	})
}

// httpStatusOf 종합 상태를 HTTP 상태 코드로 변환합니다.
// 성능 저하(degraded)는 아직 서비스 가능한 상태이므로 200으로 취급합니다.
func httpStatusOf(status health.Status) int {
	if status == health.StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
