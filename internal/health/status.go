// Package health 의존성 상태 점검의 도메인 모델과 집계 로직을 제공합니다.
//
// 개별 의존성(데이터베이스, 캐시 저장소, 시스템 리소스, 외부 API 등)의 상태는
// Probe 인터페이스 구현체가 측정하며, Aggregator가 등록된 모든 프로브를 병렬로
// 실행하여 전체 상태로 병합합니다. 프로브 실패는 예외가 아니라 데이터(ProbeResult)로
// 취급됩니다.
package health

// Status 의존성의 상태를 나타내는 열거형입니다.
type Status string

const (
	// StatusHealthy 의존성이 정상 동작 중입니다.
	StatusHealthy Status = "healthy"

	// StatusDegraded 동작은 하지만 성능 저하 또는 자원 부족 징후가 있습니다.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy 의존성을 사용할 수 없습니다.
	StatusUnhealthy Status = "unhealthy"

	// StatusUnknown 아직 점검되지 않았거나 측정 자체가 불가능한 상태입니다.
	StatusUnknown Status = "unknown"
)

// statusSeverity 상태 병합 시 사용하는 심각도 순위입니다.
// Unknown은 "데이터 없음"이므로 실제 측정값보다 우선하지 않습니다.
var statusSeverity = map[Status]int{
	StatusUnknown:   0,
	StatusHealthy:   1,
	StatusDegraded:  2,
	StatusUnhealthy: 3,
}

// IsValid 정의된 상태 값인지 여부를 반환합니다.
func (s Status) IsValid() bool {
	_, ok := statusSeverity[s]
	return ok
}

// Code 상태의 수치 표현을 반환합니다. (메트릭 게이지용)
//
// 반환값: healthy=0, degraded=1, unhealthy=2, unknown=3
func (s Status) Code() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	case StatusUnhealthy:
		return 2
	default:
		return 3
	}
}

// String Status의 문자열 표현을 반환합니다.
func (s Status) String() string {
	return string(s)
}

// WorseOf 두 상태 중 더 심각한 쪽을 반환합니다.
func WorseOf(a, b Status) Status {
	if statusSeverity[a] >= statusSeverity[b] {
		return a
	}
	return b
}

// OverallStatus 결과 집합을 하나의 전체 상태로 병합합니다.
//
// 병합 규칙:
//   - 하나라도 unhealthy면 전체는 unhealthy
//   - unhealthy 없이 degraded가 있으면 전체는 degraded
//   - 결과가 비어 있으면 unknown
//   - unknown만 있으면 unknown, 그 외에는 실제 측정값이 우선
func OverallStatus(results map[string]ProbeResult) Status {
	if len(results) == 0 {
		return StatusUnknown
	}

	overall := StatusUnknown
	for _, result := range results {
		overall = WorseOf(overall, result.Status)
	}
	return overall
}
