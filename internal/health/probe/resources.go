package probe

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/darkkaiser/healthwatch-server/internal/health"
)

// 시스템 자원 사용량 판정 임계치의 기본값
const (
	DefaultUnhealthyUsagePercent = 90.0
	DefaultDegradedUsagePercent  = 75.0
	DefaultUnhealthyDiskFraction = 0.95
	DefaultDegradedDiskFraction  = 0.85
)

// ResourceSample 특정 시점의 시스템 자원 사용량 측정값입니다.
type ResourceSample struct {
	// MemoryUsedPercent 메모리 사용률 (0~100)
	MemoryUsedPercent float64

	// MemoryAvailableBytes 사용 가능한 메모리 (바이트)
	MemoryAvailableBytes uint64

	// CPUUsedPercent CPU 사용률 (0~100)
	CPUUsedPercent float64

	// DiskUsedFraction 디스크 사용 비율 (0.0~1.0)
	DiskUsedFraction float64

	// DiskFreeBytes 사용 가능한 디스크 공간 (바이트, 측정기가 수집하지 않으면 0)
	DiskFreeBytes uint64

	// Goroutines 고루틴 개수
	Goroutines int
}

// ResourceSampler 시스템 자원 사용량을 수집하는 측정기입니다.
// 측정 자체가 불가능하면 에러를 반환하며, 프로브는 이를 StatusUnknown으로
// 보고합니다.
type ResourceSampler interface {
	Sample() (ResourceSample, error)
}

// ResourcesProbeConfig 시스템 자원 프로브의 설정입니다.
type ResourcesProbeConfig struct {
	// Name 프로브 식별자 (비어있으면 "system-resources")
	Name string

	// Description 의존성 목록에 노출되는 설명 (비어있으면 기본 설명)
	Description string

	// Critical 준비 상태 판정에 포함할지 여부
	Critical bool

	// UnhealthyUsagePercent 메모리/CPU 사용 불가 임계치 (0 이하: 기본값 90)
	UnhealthyUsagePercent float64

	// DegradedUsagePercent 메모리/CPU 성능 저하 임계치 (0 이하: 기본값 75)
	DegradedUsagePercent float64

	// UnhealthyDiskFraction 디스크 사용 불가 임계치 (0 이하: 기본값 0.95)
	UnhealthyDiskFraction float64

	// DegradedDiskFraction 디스크 성능 저하 임계치 (0 이하: 기본값 0.85)
	DegradedDiskFraction float64
}

func (c ResourcesProbeConfig) normalized() ResourcesProbeConfig {
	if c.Name == "" {
		c.Name = "system-resources"
	}
	if c.Description == "" {
		c.Description = "호스트 시스템 자원 사용량"
	}
	if c.UnhealthyUsagePercent <= 0 {
		c.UnhealthyUsagePercent = DefaultUnhealthyUsagePercent
	}
	if c.DegradedUsagePercent <= 0 {
		c.DegradedUsagePercent = DefaultDegradedUsagePercent
	}
	if c.UnhealthyDiskFraction <= 0 {
		c.UnhealthyDiskFraction = DefaultUnhealthyDiskFraction
	}
	if c.DegradedDiskFraction <= 0 {
		c.DegradedDiskFraction = DefaultDegradedDiskFraction
	}
	return c
}

// ResourcesProbe 주입된 측정기로 시스템 자원 사용량을 읽어 상태를 판정하는
// 프로브입니다.
//
// 판정은 심각한 임계치부터 확인합니다. 메모리/CPU 사용률이 사용 불가
// 임계치를 넘거나 디스크 사용 비율이 사용 불가 임계치를 넘으면 성능 저하
// 임계치와 무관하게 StatusUnhealthy로 판정됩니다.
type ResourcesProbe struct {
	name        string
	description string
	critical    bool
	config      ResourcesProbeConfig

	sampler ResourceSampler
}

var _ health.Probe = (*ResourcesProbe)(nil)

// NewResourcesProbe 시스템 자원 프로브를 생성합니다.
//
// 매개변수:
//   - sampler: 자원 사용량 측정기 (nil이면 RuntimeSampler 사용)
//   - config: 프로브 설정. 유효하지 않은 값은 기본값으로 보정됩니다.
func NewResourcesProbe(sampler ResourceSampler, config ResourcesProbeConfig) *ResourcesProbe {
	if sampler == nil {
		sampler = RuntimeSampler{}
	}
	config = config.normalized()

	return &ResourcesProbe{
		name:        config.Name,
		description: config.Description,
		critical:    config.Critical,
		config:      config,
		sampler:     sampler,
	}
}

// Name 프로브의 식별자를 반환합니다.
func (p *ResourcesProbe) Name() string {
	return p.name
}

// Kind 의존성 종류를 반환합니다.
func (p *ResourcesProbe) Kind() health.DependencyKind {
	return health.KindInternal
}

// Description 의존성 설명을 반환합니다.
func (p *ResourcesProbe) Description() string {
	return p.description
}

// Critical 준비 상태 판정 포함 여부를 반환합니다.
func (p *ResourcesProbe) Critical() bool {
	return p.critical
}

// Probe 시스템 자원 사용량을 측정하고 임계치에 따라 상태를 판정합니다.
func (p *ResourcesProbe) Probe(ctx context.Context) health.ProbeResult {
	start := time.Now()
	sample, err := p.sampler.Sample()
	latency := time.Since(start)

	if err != nil {
		return health.NewUnknownResult("시스템 자원 사용량을 측정할 수 없습니다.").WithError(err)
	}

	result := p.classify(sample, latency)

	return result.WithDetails(map[string]any{
		"memory_used_percent":    sample.MemoryUsedPercent,
		"memory_available_bytes": sample.MemoryAvailableBytes,
		"cpu_used_percent":       sample.CPUUsedPercent,
		"disk_used_fraction":     sample.DiskUsedFraction,
		"disk_free_bytes":        sample.DiskFreeBytes,
		"goroutines":             sample.Goroutines,
	})
}

// classify 측정값을 임계치 사다리에 대조하여 상태를 판정합니다.
// 심각한 임계치를 먼저 확인하므로 두 임계치를 모두 넘은 측정값은 항상
// 사용 불가로 판정됩니다.
func (p *ResourcesProbe) classify(sample ResourceSample, latency time.Duration) health.ProbeResult {
	switch {
	case sample.MemoryUsedPercent > p.config.UnhealthyUsagePercent:
		return health.NewUnhealthyResult(
			fmt.Sprintf("메모리 사용률이 위험 수준입니다. (%.1f%% > %.1f%%)", sample.MemoryUsedPercent, p.config.UnhealthyUsagePercent), latency)
	case sample.CPUUsedPercent > p.config.UnhealthyUsagePercent:
		return health.NewUnhealthyResult(
			fmt.Sprintf("CPU 사용률이 위험 수준입니다. (%.1f%% > %.1f%%)", sample.CPUUsedPercent, p.config.UnhealthyUsagePercent), latency)
	case sample.DiskUsedFraction > p.config.UnhealthyDiskFraction:
		return health.NewUnhealthyResult(
			fmt.Sprintf("디스크 사용량이 위험 수준입니다. (%.2f > %.2f)", sample.DiskUsedFraction, p.config.UnhealthyDiskFraction), latency)
	case sample.MemoryUsedPercent > p.config.DegradedUsagePercent:
		return health.NewDegradedResult(
			fmt.Sprintf("메모리 사용률이 높습니다. (%.1f%% > %.1f%%)", sample.MemoryUsedPercent, p.config.DegradedUsagePercent), latency)
	case sample.CPUUsedPercent > p.config.DegradedUsagePercent:
		return health.NewDegradedResult(
			fmt.Sprintf("CPU 사용률이 높습니다. (%.1f%% > %.1f%%)", sample.CPUUsedPercent, p.config.DegradedUsagePercent), latency)
	case sample.DiskUsedFraction > p.config.DegradedDiskFraction:
		return health.NewDegradedResult(
			fmt.Sprintf("디스크 사용량이 높습니다. (%.2f > %.2f)", sample.DiskUsedFraction, p.config.DegradedDiskFraction), latency)
	default:
		return health.NewHealthyResult("시스템 자원 사용량이 정상 범위입니다.", latency)
	}
}

// RuntimeSampler Go 런타임 통계만으로 구성하는 기본 측정기입니다.
//
// 메모리 사용률은 런타임이 확보한 힙 대비 사용 중인 힙의 비율로 계산하며,
// 프로세스 외부의 CPU/디스크 사용량은 수집하지 않습니다(항상 0). 정밀한
// 시스템 지표가 필요하면 별도의 측정기를 주입해야 합니다.
type RuntimeSampler struct{}

var _ ResourceSampler = RuntimeSampler{}

// Sample Go 런타임 통계를 수집합니다.
func (RuntimeSampler) Sample() (ResourceSample, error) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	memoryUsedPercent := 0.0
	memoryAvailable := uint64(0)
	if memStats.HeapSys > 0 {
		memoryUsedPercent = float64(memStats.HeapAlloc) / float64(memStats.HeapSys) * 100.0
		memoryAvailable = memStats.HeapSys - memStats.HeapAlloc
	}

	return ResourceSample{
		MemoryUsedPercent:    memoryUsedPercent,
		MemoryAvailableBytes: memoryAvailable,
		Goroutines:           runtime.NumGoroutine(),
	}, nil
}
