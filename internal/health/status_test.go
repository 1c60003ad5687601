package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ===== 상태 값 =====

// TestStatus_IsValid는 정의된 상태 값의 판별을 테스트합니다.
func TestStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{name: "정상", status: StatusHealthy, want: true},
		{name: "성능 저하", status: StatusDegraded, want: true},
		{name: "사용 불가", status: StatusUnhealthy, want: true},
		{name: "미측정", status: StatusUnknown, want: true},
		{name: "정의되지 않은 값", status: Status("bogus"), want: false},
		{name: "빈 값", status: Status(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

// TestStatus_Code는 메트릭용 수치 표현을 테스트합니다.
func TestStatus_Code(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, StatusHealthy.Code())
	assert.Equal(t, 1, StatusDegraded.Code())
	assert.Equal(t, 2, StatusUnhealthy.Code())
	assert.Equal(t, 3, StatusUnknown.Code())
	assert.Equal(t, 3, Status("bogus").Code(), "정의되지 않은 값은 미측정과 같게 취급합니다")
}

// ===== 상태 병합 =====

// TestWorseOf는 두 상태의 병합 규칙을 테스트합니다.
func TestWorseOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    Status
		b    Status
		want Status
	}{
		{name: "정상과 성능 저하", a: StatusHealthy, b: StatusDegraded, want: StatusDegraded},
		{name: "성능 저하와 사용 불가", a: StatusDegraded, b: StatusUnhealthy, want: StatusUnhealthy},
		{name: "정상과 정상", a: StatusHealthy, b: StatusHealthy, want: StatusHealthy},
		{name: "미측정과 정상", a: StatusUnknown, b: StatusHealthy, want: StatusHealthy},
		{name: "미측정과 사용 불가", a: StatusUnknown, b: StatusUnhealthy, want: StatusUnhealthy},
		{name: "미측정과 미측정", a: StatusUnknown, b: StatusUnknown, want: StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, WorseOf(tt.a, tt.b))
			assert.Equal(t, tt.want, WorseOf(tt.b, tt.a), "병합 결과는 순서와 무관해야 합니다")
		})
	}
}

// TestOverallStatus는 결과 집합의 전체 상태 병합을 테스트합니다.
func TestOverallStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{name: "빈 결과", statuses: nil, want: StatusUnknown},
		{name: "모두 정상", statuses: []Status{StatusHealthy, StatusHealthy}, want: StatusHealthy},
		{name: "성능 저하 포함", statuses: []Status{StatusHealthy, StatusDegraded}, want: StatusDegraded},
		{name: "사용 불가 포함", statuses: []Status{StatusHealthy, StatusDegraded, StatusUnhealthy}, want: StatusUnhealthy},
		{name: "미측정만", statuses: []Status{StatusUnknown, StatusUnknown}, want: StatusUnknown},
		{name: "미측정과 정상 혼합", statuses: []Status{StatusUnknown, StatusHealthy}, want: StatusHealthy},
		{name: "미측정과 성능 저하 혼합", statuses: []Status{StatusUnknown, StatusDegraded}, want: StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results := make(map[string]ProbeResult, len(tt.statuses))
			for i, status := range tt.statuses {
				results[string(rune('a'+i))] = newResult(status, "테스트", time.Millisecond)
			}

			assert.Equal(t, tt.want, OverallStatus(results))
		})
	}
}
