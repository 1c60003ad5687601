package health

import (
	"time"

	"github.com/darkkaiser/healthwatch-server/internal/health/breaker"
)

// AggregateHealth 모든 의존성 점검 결과를 병합한 종합 상태 보고서입니다.
// 집계 호출 시점마다 새로 계산되며 어디에도 저장되지 않습니다.
type AggregateHealth struct {
	// OverallStatus 모든 결과 중 가장 심각한 상태
	OverallStatus Status `json:"overall_status" example:"healthy"`

	// GeneratedAt 집계를 수행한 시각
	GeneratedAt time.Time `json:"generated_at" example:"2026-01-02T15:04:05Z"`

	// Results 의존성 이름별 점검 결과
	Results map[string]ProbeResult `json:"results"`

	// BreakerSnapshots 의존성 이름별 서킷 브레이커 상태 스냅샷
	BreakerSnapshots map[string]breaker.Snapshot `json:"breaker_snapshots"`

	// Summary 상태별 의존성 개수 집계
	Summary Summary `json:"summary"`

	// UptimeS 프로세스 시작 이후 경과 시간 (초)
	UptimeS float64 `json:"uptime_s" example:"3600.5"`
}

// Summary 상태별 의존성 개수의 집계입니다.
//
// 불변식: HealthyCount + DegradedCount + UnhealthyCount == Total == len(Results).
// 미측정(unknown) 결과는 장애의 증거가 아니므로 정상으로 집계됩니다.
type Summary struct {
	HealthyCount   int `json:"healthy_count" example:"3"`
	DegradedCount  int `json:"degraded_count" example:"1"`
	UnhealthyCount int `json:"unhealthy_count" example:"0"`
	Total          int `json:"total" example:"4"`
}

// NewSummary 점검 결과 집합의 상태별 개수를 집계합니다.
func NewSummary(results map[string]ProbeResult) Summary {
	summary := Summary{Total: len(results)}
	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			summary.UnhealthyCount++
		case StatusDegraded:
			summary.DegradedCount++
		default:
			summary.HealthyCount++
		}
	}
	return summary
}

// LivenessReport 프로세스 활성 상태 점검의 결과입니다.
//
// 활성 상태는 의존성과 무관하게 프로세스 자신의 생존 여부만 나타냅니다.
// 시작 유예 시간이 지나기 전과 종료가 시작된 후에는 Alive가 false입니다.
type LivenessReport struct {
	// Alive 프로세스가 트래픽을 받을 수 있는 생존 상태인지 여부
	Alive bool `json:"alive" example:"true"`

	// Started 시작 유예 시간이 경과하였는지 여부
	Started bool `json:"started" example:"true"`

	// UptimeS 프로세스 시작 이후 경과 시간 (초)
	UptimeS float64 `json:"uptime_s" example:"3600.5"`
}

// ReadinessReport 서비스 준비 상태 점검의 결과입니다.
type ReadinessReport struct {
	// Ready 필수 의존성이 모두 사용 가능한 상태인지 여부
	Ready bool `json:"ready" example:"true"`

	// Reason 준비되지 않은 이유 (준비 상태이면 생략)
	Reason string `json:"reason,omitempty" example:""`
}
