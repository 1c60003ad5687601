package health

import (
	"sort"
	"sync"

	"github.com/darkkaiser/healthwatch-server/internal/health/breaker"
	apperrors "github.com/darkkaiser/healthwatch-server/internal/pkg/errors"
)

// BreakerRegistry 의존성별 서킷 브레이커를 관리하는 저장소입니다.
//
// 브레이커는 의존성 이름으로 처음 조회될 때 공통 설정으로 지연 생성되며,
// 이후 같은 이름의 조회는 동일한 인스턴스를 반환합니다. 모든 메서드는
// 여러 고루틴에서 동시에 호출해도 안전합니다.
type BreakerRegistry struct {
	mu       sync.RWMutex
	breakers map[string]*breaker.CircuitBreaker

	// config 새로 생성되는 모든 브레이커에 적용되는 공통 설정
	config breaker.Config
}

// NewBreakerRegistry 새로운 브레이커 저장소를 생성합니다.
//
// 매개변수:
//   - config: 생성되는 모든 브레이커에 적용할 공통 설정
func NewBreakerRegistry(config breaker.Config) *BreakerRegistry {
	return &BreakerRegistry{
		breakers: make(map[string]*breaker.CircuitBreaker),
		config:   config,
	}
}

// GetOrCreate 의존성 이름의 브레이커를 반환하며, 없으면 생성합니다.
func (r *BreakerRegistry) GetOrCreate(name string) *breaker.CircuitBreaker {
	r.mu.RLock()
	cb, ok := r.breakers[name]
	r.mu.RUnlock()
	if ok {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 쓰기 락을 기다리는 동안 다른 고루틴이 생성했을 수 있다
	if cb, ok := r.breakers[name]; ok {
		return cb
	}

	cb = breaker.New(name, r.config)
	r.breakers[name] = cb
	return cb
}

// Get 의존성 이름의 브레이커를 조회합니다. 생성하지 않습니다.
func (r *BreakerRegistry) Get(name string) (*breaker.CircuitBreaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cb, ok := r.breakers[name]
	return cb, ok
}

// Reset 의존성 이름의 브레이커를 닫힘 상태로 강제 초기화합니다.
//
// 반환값:
//   - breaker.Snapshot: 초기화 직후의 상태 스냅샷
//   - error: 등록되지 않은 이름이면 NotFound
func (r *BreakerRegistry) Reset(name string) (breaker.Snapshot, error) {
	cb, ok := r.Get(name)
	if !ok {
		return breaker.Snapshot{}, apperrors.Newf(apperrors.NotFound, "등록되지 않은 서킷 브레이커입니다: %s", name)
	}

	cb.Reset()
	return cb.Snapshot(), nil
}

// Snapshots 모든 브레이커의 상태 스냅샷을 이름 순으로 반환합니다.
func (r *BreakerRegistry) Snapshots() []breaker.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshots := make([]breaker.Snapshot, 0, len(r.breakers))
	for _, cb := range r.breakers {
		snapshots = append(snapshots, cb.Snapshot())
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Name < snapshots[j].Name
	})
	return snapshots
}

// Names 모든 브레이커의 이름을 정렬하여 반환합니다.
func (r *BreakerRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len 생성된 브레이커의 개수를 반환합니다.
func (r *BreakerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.breakers)
}
