package probe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/darkkaiser/healthwatch-server/internal/health"
)

// RedisClient 캐시 저장소 프로브가 필요로 하는 최소 연산입니다.
// *redis.Client가 이 인터페이스를 만족합니다.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	PoolStats() *redis.PoolStats
}

// RedisProbeConfig 캐시 저장소 프로브의 설정입니다.
type RedisProbeConfig struct {
	// Name 프로브 식별자 (비어있으면 "cache-store")
	Name string

	// Description 의존성 목록에 노출되는 설명 (비어있으면 기본 설명)
	Description string

	// Timeout PING 호출의 제한 시간 (0 이하: 기본값 5초)
	Timeout time.Duration

	// Critical 준비 상태 판정에 포함할지 여부
	Critical bool
}

// RedisProbe 캐시 저장소의 연결 상태를 PING으로 측정하는 프로브입니다.
type RedisProbe struct {
	name        string
	description string
	critical    bool
	timeout     time.Duration

	client RedisClient
}

var _ health.Probe = (*RedisProbe)(nil)

// NewRedisProbe 캐시 저장소 프로브를 생성합니다.
//
// 매개변수:
//   - client: 점검 대상 클라이언트
//   - config: 프로브 설정. 유효하지 않은 값은 기본값으로 보정됩니다.
func NewRedisProbe(client RedisClient, config RedisProbeConfig) *RedisProbe {
	if config.Name == "" {
		config.Name = "cache-store"
	}
	if config.Description == "" {
		config.Description = "Redis 캐시 저장소 연결"
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultProbeTimeout
	}

	return &RedisProbe{
		name:        config.Name,
		description: config.Description,
		critical:    config.Critical,
		timeout:     config.Timeout,
		client:      client,
	}
}

// Name 프로브의 식별자를 반환합니다.
func (p *RedisProbe) Name() string {
	return p.name
}

// Kind 의존성 종류를 반환합니다.
func (p *RedisProbe) Kind() health.DependencyKind {
	return health.KindCache
}

// Description 의존성 설명을 반환합니다.
func (p *RedisProbe) Description() string {
	return p.description
}

// Critical 준비 상태 판정 포함 여부를 반환합니다.
func (p *RedisProbe) Critical() bool {
	return p.critical
}

// Probe 캐시 저장소의 연결 상태를 측정합니다.
func (p *RedisProbe) Probe(ctx context.Context) health.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.client.Ping(ctx).Err()
	latency := time.Since(start)

	if err != nil {
		return health.NewUnhealthyResult("캐시 저장소 연결에 실패하였습니다.", latency).WithError(err)
	}

	result := health.NewHealthyResult("캐시 저장소 연결이 정상입니다.", latency)

	if stats := p.client.PoolStats(); stats != nil {
		result = result.WithDetails(map[string]any{
			"hits":        stats.Hits,
			"misses":      stats.Misses,
			"timeouts":    stats.Timeouts,
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"stale_conns": stats.StaleConns,
		})
	}

	return result
}
