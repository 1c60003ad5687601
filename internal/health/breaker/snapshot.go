package breaker

import (
	"time"
)

// Snapshot 특정 시점의 서킷 브레이커 상태 조회 결과입니다.
//
// 생애 통계 불변식: TotalCalls >= TotalFailures.
// 거부된 호출은 실행되지 않았으므로 TotalCalls에 포함되지 않습니다.
type Snapshot struct {
	// Name 브레이커 식별자
	Name string `json:"name" example:"database"`

	// State 현재 상태 (closed / open / half_open)
	State string `json:"state" example:"closed"`

	// IsOpen 호출이 거부되는 열림 상태인지 여부
	IsOpen bool `json:"is_open" example:"false"`

	// ConsecutiveFailures 닫힘 상태에서 누적된 연속 실패 횟수
	ConsecutiveFailures int `json:"consecutive_failures" example:"0"`

	// TotalCalls 실행된 호출의 생애 누적 수 (거부된 호출 제외)
	TotalCalls uint64 `json:"total_calls" example:"128"`

	// TotalFailures 실행된 호출 중 실패한 수
	TotalFailures uint64 `json:"total_failures" example:"3"`

	// RejectedCalls 회로 열림으로 실행 없이 거부된 호출 수
	RejectedCalls uint64 `json:"rejected_calls" example:"7"`

	// SuccessRate 실행된 호출 대비 성공 비율 (0.0 ~ 1.0, 호출 이력이 없으면 1.0)
	SuccessRate float64 `json:"success_rate" example:"0.9766"`

	// LastFailureTime 마지막 실패 시각 (실패 이력이 없으면 null)
	LastFailureTime *time.Time `json:"last_failure_time,omitempty"`

	// LastSuccessTime 마지막 성공 시각 (성공 이력이 없으면 null)
	LastSuccessTime *time.Time `json:"last_success_time,omitempty"`

	// TimeUntilRetryS 열림 상태에서 반열림 전환까지 남은 시간 (초, 열림 상태가 아니면 0)
	TimeUntilRetryS float64 `json:"time_until_retry_s" example:"0"`

	// HalfOpenSuccesses 반열림 상태에서 성공한 시험 호출 수
	HalfOpenSuccesses int `json:"half_open_successes" example:"0"`

	// 적용 중인 동작 설정
	FailureThreshold int     `json:"failure_threshold" example:"5"`
	RecoveryTimeoutS float64 `json:"recovery_timeout_s" example:"60"`
	HalfOpenMaxCalls int     `json:"half_open_max_calls" example:"3"`
}

// Snapshot 현재 시점의 상태를 복사하여 반환합니다.
//
// 반환된 값은 호출 시점의 스냅샷이며 이후의 상태 변화를 반영하지 않습니다.
// 열림 상태에서 복구 대기 시간이 경과한 경우 지연 전이가 먼저 반영됩니다.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.currentStateLocked()

	snapshot := Snapshot{
		Name:                cb.name,
		State:               state.String(),
		IsOpen:              state == StateOpen,
		ConsecutiveFailures: cb.consecutiveFailures,
		TotalCalls:          cb.totalCalls,
		TotalFailures:       cb.totalFailures,
		RejectedCalls:       cb.rejectedCalls,
		SuccessRate:         1.0,
		HalfOpenSuccesses:   cb.halfOpenSuccesses,
		FailureThreshold:    cb.config.FailureThreshold,
		RecoveryTimeoutS:    cb.config.RecoveryTimeout.Seconds(),
		HalfOpenMaxCalls:    cb.config.HalfOpenMaxCalls,
	}

	if cb.totalCalls > 0 {
		snapshot.SuccessRate = float64(cb.totalCalls-cb.totalFailures) / float64(cb.totalCalls)
	}

	if !cb.lastFailureTime.IsZero() {
		t := cb.lastFailureTime
		snapshot.LastFailureTime = &t
	}

	if !cb.lastSuccessTime.IsZero() {
		t := cb.lastSuccessTime
		snapshot.LastSuccessTime = &t
	}

	if state == StateOpen {
		snapshot.TimeUntilRetryS = cb.retryAfterLocked().Seconds()
	}

	return snapshot
}
