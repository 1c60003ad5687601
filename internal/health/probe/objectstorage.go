package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/darkkaiser/healthwatch-server/internal/health"
)

// BucketChecker 오브젝트 스토리지 프로브가 필요로 하는 최소 연산입니다.
// *minio.Client가 이 인터페이스를 만족합니다.
type BucketChecker interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// ObjectStorageProbeConfig 오브젝트 스토리지 프로브의 설정입니다.
type ObjectStorageProbeConfig struct {
	// Name 프로브 식별자 (비어있으면 "object-storage")
	Name string

	// Description 의존성 목록에 노출되는 설명 (비어있으면 기본 설명)
	Description string

	// Bucket 존재를 확인할 버킷 이름 (필수)
	Bucket string

	// Timeout 확인 호출의 제한 시간 (0 이하: 기본값 5초)
	Timeout time.Duration

	// Critical 준비 상태 판정에 포함할지 여부
	Critical bool
}

// ObjectStorageProbe 오브젝트 스토리지의 접근 가능 여부를 버킷 존재 확인으로
// 측정하는 프로브입니다.
type ObjectStorageProbe struct {
	name        string
	description string
	critical    bool
	bucket      string
	timeout     time.Duration

	checker BucketChecker
}

var _ health.Probe = (*ObjectStorageProbe)(nil)

// NewObjectStorageProbe 오브젝트 스토리지 프로브를 생성합니다.
//
// 매개변수:
//   - checker: 점검 대상 스토리지 클라이언트
//   - config: 프로브 설정. Bucket이 비어있으면 panic이 발생합니다.
func NewObjectStorageProbe(checker BucketChecker, config ObjectStorageProbeConfig) *ObjectStorageProbe {
	if config.Bucket == "" {
		panic("오브젝트 스토리지 프로브의 버킷 이름은 필수입니다")
	}
	if config.Name == "" {
		config.Name = "object-storage"
	}
	if config.Description == "" {
		config.Description = fmt.Sprintf("오브젝트 스토리지 버킷(%s)", config.Bucket)
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultProbeTimeout
	}

	return &ObjectStorageProbe{
		name:        config.Name,
		description: config.Description,
		critical:    config.Critical,
		bucket:      config.Bucket,
		timeout:     config.Timeout,
		checker:     checker,
	}
}

// Name 프로브의 식별자를 반환합니다.
func (p *ObjectStorageProbe) Name() string {
	return p.name
}

// Kind 의존성 종류를 반환합니다.
func (p *ObjectStorageProbe) Kind() health.DependencyKind {
	return health.KindNetwork
}

// Description 의존성 설명을 반환합니다.
func (p *ObjectStorageProbe) Description() string {
	return p.description
}

// Critical 준비 상태 판정 포함 여부를 반환합니다.
func (p *ObjectStorageProbe) Critical() bool {
	return p.critical
}

// Probe 오브젝트 스토리지의 접근 가능 여부를 측정합니다.
func (p *ObjectStorageProbe) Probe(ctx context.Context) health.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	exists, err := p.checker.BucketExists(ctx, p.bucket)
	latency := time.Since(start)

	if err != nil {
		return health.NewUnhealthyResult("오브젝트 스토리지 접근에 실패하였습니다.", latency).
			WithError(err).
			WithDetail("bucket", p.bucket)
	}
	if !exists {
		return health.NewUnhealthyResult(
			fmt.Sprintf("오브젝트 스토리지에 버킷(%s)이 존재하지 않습니다.", p.bucket), latency).
			WithDetail("bucket", p.bucket)
	}

	return health.NewHealthyResult("오브젝트 스토리지가 정상입니다.", latency).
		WithDetail("bucket", p.bucket)
}
