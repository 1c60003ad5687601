package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/healthwatch-server/internal/health"
)

// fakeSampler 측정값을 지정할 수 있는 가짜 측정기입니다.
type fakeSampler struct {
	sample ResourceSample
	err    error
}

func (s *fakeSampler) Sample() (ResourceSample, error) {
	return s.sample, s.err
}

// ===== 임계치 사다리 =====

// TestResourcesProbe_ThresholdLadder는 사용량 임계치에 따른 판정을 테스트합니다.
// 심각한 임계치를 먼저 확인하므로 양쪽 임계치를 모두 넘은 측정값은 항상
// 사용 불가로 판정되어야 합니다.
func TestResourcesProbe_ThresholdLadder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sample   ResourceSample
		expected health.Status
	}{
		{
			name:     "모든 사용량이 정상 범위",
			sample:   ResourceSample{MemoryUsedPercent: 40, CPUUsedPercent: 30, DiskUsedFraction: 0.5, Goroutines: 100},
			expected: health.StatusHealthy,
		},
		{
			name:     "메모리 사용률이 성능 저하 임계치 초과",
			sample:   ResourceSample{MemoryUsedPercent: 76},
			expected: health.StatusDegraded,
		},
		{
			name:     "메모리 사용률이 사용 불가 임계치 초과",
			sample:   ResourceSample{MemoryUsedPercent: 91},
			expected: health.StatusUnhealthy,
		},
		{
			name:     "CPU 사용률이 성능 저하 임계치 초과",
			sample:   ResourceSample{CPUUsedPercent: 80},
			expected: health.StatusDegraded,
		},
		{
			name:     "CPU 사용률이 사용 불가 임계치 초과",
			sample:   ResourceSample{CPUUsedPercent: 95},
			expected: health.StatusUnhealthy,
		},
		{
			name:     "디스크 사용량이 성능 저하 임계치 초과",
			sample:   ResourceSample{DiskUsedFraction: 0.90},
			expected: health.StatusDegraded,
		},
		{
			name:     "디스크 사용량이 사용 불가 임계치 초과",
			sample:   ResourceSample{DiskUsedFraction: 0.96},
			expected: health.StatusUnhealthy,
		},
		{
			name:     "메모리는 위험 수준이고 디스크는 주의 수준이면 사용 불가",
			sample:   ResourceSample{MemoryUsedPercent: 95, DiskUsedFraction: 0.90},
			expected: health.StatusUnhealthy,
		},
		{
			name:     "디스크는 위험 수준이고 메모리는 주의 수준이면 사용 불가",
			sample:   ResourceSample{MemoryUsedPercent: 80, DiskUsedFraction: 0.96},
			expected: health.StatusUnhealthy,
		},
		{
			name:     "메모리 사용률이 경계값(90)이면 성능 저하",
			sample:   ResourceSample{MemoryUsedPercent: 90},
			expected: health.StatusDegraded,
		},
		{
			name:     "디스크 사용량이 경계값(0.85)이면 정상",
			sample:   ResourceSample{DiskUsedFraction: 0.85},
			expected: health.StatusHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewResourcesProbe(&fakeSampler{sample: tt.sample}, ResourcesProbeConfig{})

			result := p.Probe(context.Background())
			assert.Equal(t, tt.expected, result.Status)
		})
	}
}

// TestResourcesProbe_Details는 측정값이 추가 정보로 첨부되는지 테스트합니다.
func TestResourcesProbe_Details(t *testing.T) {
	t.Parallel()

	sample := ResourceSample{
		MemoryUsedPercent:    40.5,
		MemoryAvailableBytes: 2 << 30,
		CPUUsedPercent:       30.2,
		DiskUsedFraction:     0.5,
		DiskFreeBytes:        100 << 30,
		Goroutines:           123,
	}
	p := NewResourcesProbe(&fakeSampler{sample: sample}, ResourcesProbeConfig{})

	result := p.Probe(context.Background())

	assert.Equal(t, 40.5, result.Details["memory_used_percent"])
	assert.Equal(t, uint64(2<<30), result.Details["memory_available_bytes"])
	assert.Equal(t, 30.2, result.Details["cpu_used_percent"])
	assert.Equal(t, 0.5, result.Details["disk_used_fraction"])
	assert.Equal(t, uint64(100<<30), result.Details["disk_free_bytes"])
	assert.Equal(t, 123, result.Details["goroutines"])
}

// ===== 측정 불가 =====

// TestResourcesProbe_SamplerUnavailable은 측정기 장애 시의 측정 불가 판정을
// 테스트합니다.
func TestResourcesProbe_SamplerUnavailable(t *testing.T) {
	t.Parallel()

	p := NewResourcesProbe(&fakeSampler{err: errors.New("/proc 읽기 실패")}, ResourcesProbeConfig{})

	result := p.Probe(context.Background())

	assert.Equal(t, health.StatusUnknown, result.Status)
	assert.Contains(t, result.Message, "측정할 수 없습니다")
	assert.Contains(t, result.Error, "/proc 읽기 실패")
}

// ===== 기본 측정기 =====

// TestRuntimeSampler는 런타임 측정기가 유효한 측정값을 반환하는지 테스트합니다.
func TestRuntimeSampler(t *testing.T) {
	t.Parallel()

	sample, err := RuntimeSampler{}.Sample()

	require.NoError(t, err)
	assert.Positive(t, sample.Goroutines)
	assert.GreaterOrEqual(t, sample.MemoryUsedPercent, 0.0)
	assert.LessOrEqual(t, sample.MemoryUsedPercent, 100.0)
	assert.Positive(t, sample.MemoryAvailableBytes)
}

// ===== 설정 보정 =====

// TestResourcesProbe_ConfigDefaults는 설정 기본값 보정을 테스트합니다.
func TestResourcesProbe_ConfigDefaults(t *testing.T) {
	t.Parallel()

	p := NewResourcesProbe(nil, ResourcesProbeConfig{})

	assert.Equal(t, "system-resources", p.Name())
	assert.Equal(t, health.KindInternal, p.Kind())
	assert.NotEmpty(t, p.Description())
	assert.False(t, p.Critical())
	assert.Equal(t, DefaultUnhealthyUsagePercent, p.config.UnhealthyUsagePercent)
	assert.Equal(t, DefaultDegradedUsagePercent, p.config.DegradedUsagePercent)
	assert.Equal(t, DefaultUnhealthyDiskFraction, p.config.UnhealthyDiskFraction)
	assert.Equal(t, DefaultDegradedDiskFraction, p.config.DegradedDiskFraction)
	assert.IsType(t, RuntimeSampler{}, p.sampler, "측정기가 없으면 런타임 측정기를 사용해야 합니다")
}
