package health

import (
	"time"
)

// ProbeResult 단일 의존성 점검의 결과입니다.
//
// 점검 실패는 에러가 아니라 StatusUnhealthy 상태의 ProbeResult로 표현됩니다.
// 에러는 점검 "수행 자체"가 불가능한 인프라 장애에만 사용합니다.
type ProbeResult struct {
	// Name 점검한 의존성의 이름. 집계기가 결과 수집 시 채웁니다.
	Name string `json:"name,omitempty" example:"database"`

	// Kind 점검한 의존성의 종류. 집계기가 결과 수집 시 채웁니다.
	Kind DependencyKind `json:"kind,omitempty" example:"database"`

	// Status 측정된 의존성 상태
	Status Status `json:"status" example:"healthy"`

	// Message 상태에 대한 사람이 읽을 수 있는 설명
	Message string `json:"message" example:"연결 정상"`

	// Error 점검 실패의 원인 에러 문자열 (실패 시에만)
	Error string `json:"error,omitempty" example:"connection refused"`

	// LatencyMS 실제 I/O를 둘러싸고 측정한 응답 시간 (밀리초)
	LatencyMS float64 `json:"latency_ms" example:"12.34"`

	// CheckedAt 점검을 수행한 시각 (ISO 8601)
	CheckedAt time.Time `json:"checked_at" example:"2026-01-02T15:04:05Z"`

	// Details 의존성별 추가 정보 (커넥션 풀 통계, 리소스 사용률 등)
	Details map[string]any `json:"details,omitempty"`
}

// NewHealthyResult 정상 상태의 점검 결과를 생성합니다.
func NewHealthyResult(message string, latency time.Duration) ProbeResult {
	return newResult(StatusHealthy, message, latency)
}

// NewDegradedResult 성능 저하 상태의 점검 결과를 생성합니다.
func NewDegradedResult(message string, latency time.Duration) ProbeResult {
	return newResult(StatusDegraded, message, latency)
}

// NewUnhealthyResult 사용 불가 상태의 점검 결과를 생성합니다.
func NewUnhealthyResult(message string, latency time.Duration) ProbeResult {
	return newResult(StatusUnhealthy, message, latency)
}

// NewUnknownResult 측정 불가 상태의 점검 결과를 생성합니다.
func NewUnknownResult(message string) ProbeResult {
	return newResult(StatusUnknown, message, 0)
}

func newResult(status Status, message string, latency time.Duration) ProbeResult {
	return ProbeResult{
		Status:    status,
		Message:   message,
		LatencyMS: float64(latency.Microseconds()) / 1000.0,
		CheckedAt: time.Now(),
	}
}

// WithError 원인 에러를 첨부한 복사본을 반환합니다. nil 에러는 무시됩니다.
func (r ProbeResult) WithError(err error) ProbeResult {
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// WithDetails 추가 정보를 첨부한 복사본을 반환합니다.
func (r ProbeResult) WithDetails(details map[string]any) ProbeResult {
	r.Details = details
	return r
}

// WithDetail 단일 추가 정보를 첨부한 복사본을 반환합니다.
func (r ProbeResult) WithDetail(key string, value any) ProbeResult {
	details := make(map[string]any, len(r.Details)+1)
	for k, v := range r.Details {
		details[k] = v
	}
	details[key] = value
	r.Details = details
	return r
}
