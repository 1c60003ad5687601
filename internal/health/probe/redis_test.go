package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/darkkaiser/healthwatch-server/internal/health"
)

// fakeRedisClient PING 결과와 풀 통계를 지정할 수 있는 가짜 클라이언트입니다.
type fakeRedisClient struct {
	pingErr error
	stats   *redis.PoolStats
}

func (c *fakeRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	if c.pingErr != nil {
		return redis.NewStatusResult("", c.pingErr)
	}
	return redis.NewStatusResult("PONG", nil)
}

func (c *fakeRedisClient) PoolStats() *redis.PoolStats {
	return c.stats
}

// ===== 상태 판정 =====

// TestRedisProbe_Healthy는 PING 성공 시의 정상 판정을 테스트합니다.
func TestRedisProbe_Healthy(t *testing.T) {
	t.Parallel()

	client := &fakeRedisClient{
		stats: &redis.PoolStats{Hits: 10, Misses: 2, TotalConns: 5, IdleConns: 3},
	}
	p := NewRedisProbe(client, RedisProbeConfig{Critical: true})

	result := p.Probe(context.Background())

	assert.Equal(t, health.StatusHealthy, result.Status)
	assert.Equal(t, "cache-store", p.Name())
	assert.True(t, p.Critical())
	assert.Equal(t, uint32(10), result.Details["hits"])
	assert.Equal(t, uint32(5), result.Details["total_conns"])
}

// TestRedisProbe_PingFailure는 PING 실패 시의 사용 불가 판정을 테스트합니다.
func TestRedisProbe_PingFailure(t *testing.T) {
	t.Parallel()

	client := &fakeRedisClient{pingErr: errors.New("connection refused")}
	p := NewRedisProbe(client, RedisProbeConfig{})

	result := p.Probe(context.Background())

	assert.Equal(t, health.StatusUnhealthy, result.Status)
	assert.Contains(t, result.Message, "캐시 저장소 연결에 실패")
	assert.Contains(t, result.Error, "connection refused")
}

// TestRedisProbe_WithoutPoolStats는 풀 통계가 없는 경우를 테스트합니다.
func TestRedisProbe_WithoutPoolStats(t *testing.T) {
	t.Parallel()

	p := NewRedisProbe(&fakeRedisClient{}, RedisProbeConfig{})

	result := p.Probe(context.Background())

	assert.Equal(t, health.StatusHealthy, result.Status)
	assert.Empty(t, result.Details)
}

// ===== 설정 보정 =====

// TestRedisProbe_ConfigDefaults는 설정 기본값 보정을 테스트합니다.
func TestRedisProbe_ConfigDefaults(t *testing.T) {
	t.Parallel()

	p := NewRedisProbe(&fakeRedisClient{}, RedisProbeConfig{})

	assert.Equal(t, "cache-store", p.Name())
	assert.Equal(t, health.KindCache, p.Kind())
	assert.NotEmpty(t, p.Description())
	assert.False(t, p.Critical())
	assert.Equal(t, DefaultProbeTimeout, p.timeout)

	named := NewRedisProbe(&fakeRedisClient{}, RedisProbeConfig{Name: "session-cache"})
	assert.Equal(t, "session-cache", named.Name())
}
