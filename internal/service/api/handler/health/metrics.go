package health

import (
	"net/http"

	"github.com/darkkaiser/healthwatch-server/internal/health"
	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
)

// MetricsHandler godoc
// @Summary 수치형 지표 조회
// @Description 종합 상태 보고서를 외부 수집기가 바로 사용할 수 있는
// @Description 평탄한 수치형 맵으로 변환하여 반환합니다. 모든 키는 snake_case입니다.
// @Description
// @Description 포함 지표:
// @Description - overall_status: 전체 상태 (0=healthy, 1=degraded, 2=unhealthy, 3=unknown)
// @Description - probe_{이름}_status / probe_{이름}_latency_ms: 의존성별 상태와 응답 시간
// @Description - breaker_{이름}_*: 서킷 브레이커별 호출 통계
// @Description - uptime_s 및 상태별 의존성 개수
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]float64 "평탄화된 수치 지표"
// @Router /health/metrics [get]
func (h *Handler) MetricsHandler(c echo.Context) error {
	aggregated := h.aggregator.Comprehensive(c.Request().Context())

	return c.JSON(http.StatusOK, flattenMetrics(aggregated))
}

// flattenMetrics 종합 상태 보고서를 수치형 지표의 평탄한 맵으로 변환합니다.
//
// 의존성 이름은 snake_case로 정규화됩니다 ("postgres-main" -> "postgres_main").
// 상태는 심각도 순서의 게이지 값으로 표현되어 임계값 비교에 사용할 수 있습니다.
func flattenMetrics(aggregated health.AggregateHealth) map[string]float64 {
	metrics := make(map[string]float64, 6+len(aggregated.Results)*2+len(aggregated.BreakerSnapshots)*7)

	metrics["overall_status"] = float64(aggregated.OverallStatus.Code())
	metrics["uptime_s"] = aggregated.UptimeS
	metrics["healthy_count"] = float64(aggregated.Summary.HealthyCount)
	metrics["degraded_count"] = float64(aggregated.Summary.DegradedCount)
	metrics["unhealthy_count"] = float64(aggregated.Summary.UnhealthyCount)
	metrics["total_count"] = float64(aggregated.Summary.Total)

	for name, result := range aggregated.Results {
		key := strcase.ToSnake(name)
		metrics["probe_"+key+"_status"] = float64(result.Status.Code())
		metrics["probe_"+key+"_latency_ms"] = result.LatencyMS
	}

	for name, snapshot := range aggregated.BreakerSnapshots {
		prefix := "breaker_" + strcase.ToSnake(name) + "_"
		metrics[prefix+"open"] = boolToGauge(snapshot.IsOpen)
		metrics[prefix+"consecutive_failures"] = float64(snapshot.ConsecutiveFailures)
		metrics[prefix+"total_calls"] = float64(snapshot.TotalCalls)
		metrics[prefix+"total_failures"] = float64(snapshot.TotalFailures)
		metrics[prefix+"rejected_calls"] = float64(snapshot.RejectedCalls)
		metrics[prefix+"success_rate"] = snapshot.SuccessRate
		metrics[prefix+"time_until_retry_s"] = snapshot.TimeUntilRetryS
	}

	return metrics
}

func boolToGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
