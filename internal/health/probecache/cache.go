// Package probecache 프로브 실행 결과를 TTL 기반으로 캐싱하는 저장소를 제공합니다.
//
// 활성 상태 점검(liveness)과 준비 상태 점검(readiness)은 오케스트레이터가
// 짧은 주기로 반복 호출하므로, 매 요청마다 실제 의존성 I/O를 수행하는 대신
// 최근 프로브 결과를 TTL 동안 재사용합니다.
package probecache

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/healthwatch-server/internal/health"
	"github.com/darkkaiser/healthwatch-server/pkg/concurrency"
)

// DefaultTTL 캐시 항목의 기본 유효 시간입니다.
const DefaultTTL = 30 * time.Second

// Cache 프로브 이름을 키로 하는 프로브 결과의 TTL 캐시입니다.
// 모든 메서드는 여러 고루틴에서 동시에 호출해도 안전합니다.
type Cache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry

	// computeMu 같은 키에 대한 동시 계산을 직렬화한다
	computeMu *concurrency.KeyedMutex

	hits   uint64
	misses uint64

	now func() time.Time
}

type cacheEntry struct {
	result    health.ProbeResult
	expiresAt time.Time
}

// Stats 캐시의 운영 통계입니다.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// New 프로브 결과 캐시를 생성합니다.
//
// 매개변수:
//   - ttl: 캐시 항목의 유효 시간 (0 이하: 기본값 30초)
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		ttl:       ttl,
		entries:   make(map[string]cacheEntry),
		computeMu: concurrency.NewKeyedMutex(),
		now:       time.Now,
	}
}

// TTL 캐시 항목의 유효 시간을 반환합니다.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get 유효 시간이 지나지 않은 캐시 항목을 반환합니다.
//
// 반환값:
//   - health.ProbeResult: 캐시된 프로브 결과
//   - bool: 유효한 항목이 존재하면 true
func (c *Cache) Get(key string) (health.ProbeResult, bool) {
	result, ok := c.lookup(key)

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	return result, ok
}

// lookup 통계 집계 없이 유효한 캐시 항목을 조회합니다.
func (c *Cache) lookup(key string) (health.ProbeResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		return health.ProbeResult{}, false
	}
	return entry.result, true
}

// Set 프로브 결과를 저장합니다. 기존 항목이 있으면 결과와 만료 시각을
// 함께 덮어씁니다.
func (c *Cache) Set(key string, result health.ProbeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		result:    result,
		expiresAt: c.now().Add(c.ttl),
	}
}

// GetOrCompute 유효한 캐시 항목이 있으면 그것을, 없으면 compute를 실행한
// 결과를 저장한 뒤 반환합니다.
//
// 같은 키에 대한 동시 호출은 키별 잠금으로 직렬화되어 compute가 한 번만
// 실행되고, 대기하던 호출은 그 결과를 받습니다. 서로 다른 키에 대한
// 호출은 서로를 차단하지 않습니다.
//
// 매개변수:
//   - ctx: compute에 전달되는 Context
//   - key: 프로브 이름
//   - compute: 캐시 미스 시 실행되는 프로브 실행 함수
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) health.ProbeResult) health.ProbeResult {
	if result, ok := c.Get(key); ok {
		return result
	}

	c.computeMu.Lock(key)
	defer c.computeMu.Unlock(key)

	// 잠금을 기다리는 동안 다른 고루틴이 계산을 끝냈을 수 있다
	if result, ok := c.lookup(key); ok {
		return result
	}

	result := compute(ctx)
	c.Set(key, result)

	return result
}

// Invalidate 지정된 키의 캐시 항목을 제거합니다.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear 모든 캐시 항목을 제거합니다. 운영 통계는 유지됩니다.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}

// Stats 캐시의 운영 통계를 반환합니다.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
