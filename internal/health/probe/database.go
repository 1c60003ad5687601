// Package probe 개별 의존성의 상태를 측정하는 프로브 구현을 제공합니다.
//
// 모든 프로브는 health.Probe 인터페이스를 구현하며, 의존성 장애를 에러가
// 아니라 StatusUnhealthy 상태의 ProbeResult로 보고합니다. 응답 시간은
// 실제 I/O 호출을 둘러싸고 측정합니다.
package probe

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/darkkaiser/healthwatch-server/internal/health"
)

// DefaultProbeTimeout 프로브별 I/O 제한 시간의 기본값입니다.
const DefaultProbeTimeout = 5 * time.Second

// DB 데이터베이스 프로브가 필요로 하는 최소 연산입니다.
type DB interface {
	Ping(ctx context.Context) error
}

// PoolStats 데이터베이스 연결 풀의 상태 통계입니다.
type PoolStats struct {
	TotalConns        int32
	AcquiredConns     int32
	IdleConns         int32
	MaxConns          int32
	EmptyAcquireCount int64
}

// DatabaseProbeConfig 데이터베이스 프로브의 설정입니다.
type DatabaseProbeConfig struct {
	// Name 프로브 식별자 (비어있으면 "database")
	Name string

	// Description 의존성 목록에 노출되는 설명 (비어있으면 기본 설명)
	Description string

	// Timeout 핑 호출의 제한 시간 (0 이하: 기본값 5초)
	Timeout time.Duration

	// Critical 준비 상태 판정에 포함할지 여부
	Critical bool
}

// DatabaseProbe 데이터베이스 연결 상태를 핑으로 측정하는 프로브입니다.
//
// 핑이 성공하면 연결 풀 통계를 함께 수집하며, 풀이 고갈에 가까우면
// (사용 중 연결이 최대치-1 이상이거나 대기가 발생한 이력이 있으면)
// StatusDegraded로 보고합니다.
type DatabaseProbe struct {
	name        string
	description string
	critical    bool
	timeout     time.Duration

	db    DB
	stats func() PoolStats
}

var _ health.Probe = (*DatabaseProbe)(nil)

// NewDatabaseProbe pgx 연결 풀을 점검하는 데이터베이스 프로브를 생성합니다.
//
// 매개변수:
//   - pool: 점검 대상 연결 풀
//   - config: 프로브 설정. 유효하지 않은 값은 기본값으로 보정됩니다.
func NewDatabaseProbe(pool *pgxpool.Pool, config DatabaseProbeConfig) *DatabaseProbe {
	return newDatabaseProbe(pool, func() PoolStats {
		stat := pool.Stat()
		return PoolStats{
			TotalConns:        stat.TotalConns(),
			AcquiredConns:     stat.AcquiredConns(),
			IdleConns:         stat.IdleConns(),
			MaxConns:          stat.MaxConns(),
			EmptyAcquireCount: stat.EmptyAcquireCount(),
		}
	}, config)
}

func newDatabaseProbe(db DB, stats func() PoolStats, config DatabaseProbeConfig) *DatabaseProbe {
	if config.Name == "" {
		config.Name = "database"
	}
	if config.Description == "" {
		config.Description = "PostgreSQL 데이터베이스 연결"
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultProbeTimeout
	}

	return &DatabaseProbe{
		name:        config.Name,
		description: config.Description,
		critical:    config.Critical,
		timeout:     config.Timeout,
		db:          db,
		stats:       stats,
	}
}

// Name 프로브의 식별자를 반환합니다.
func (p *DatabaseProbe) Name() string {
	return p.name
}

// Kind 의존성 종류를 반환합니다.
func (p *DatabaseProbe) Kind() health.DependencyKind {
	return health.KindDatabase
}

// Description 의존성 설명을 반환합니다.
func (p *DatabaseProbe) Description() string {
	return p.description
}

// Critical 준비 상태 판정 포함 여부를 반환합니다.
func (p *DatabaseProbe) Critical() bool {
	return p.critical
}

// Probe 데이터베이스 연결 상태를 측정합니다.
func (p *DatabaseProbe) Probe(ctx context.Context) health.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.db.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return health.NewUnhealthyResult("데이터베이스 연결에 실패하였습니다.", latency).WithError(err)
	}

	if p.stats == nil {
		return health.NewHealthyResult("데이터베이스 연결이 정상입니다.", latency)
	}

	stats := p.stats()
	result := classifyPool(stats, latency)

	return result.WithDetails(map[string]any{
		"total_conns":         stats.TotalConns,
		"acquired_conns":      stats.AcquiredConns,
		"idle_conns":          stats.IdleConns,
		"max_conns":           stats.MaxConns,
		"empty_acquire_count": stats.EmptyAcquireCount,
	})
}

// classifyPool 연결 풀 통계로부터 상태를 판정합니다.
func classifyPool(stats PoolStats, latency time.Duration) health.ProbeResult {
	if stats.MaxConns > 0 && stats.AcquiredConns >= stats.MaxConns-1 {
		return health.NewDegradedResult("데이터베이스 연결 풀이 고갈에 가깝습니다.", latency)
	}
	if stats.EmptyAcquireCount > 0 {
		return health.NewDegradedResult("데이터베이스 연결 풀에 대기가 발생하고 있습니다.", latency)
	}
	return health.NewHealthyResult("데이터베이스 연결이 정상입니다.", latency)
}
