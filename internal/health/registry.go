package health

import (
	"sync"

	apperrors "github.com/darkkaiser/healthwatch-server/internal/pkg/errors"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
)

const component = "health.registry"

// ProbeRegistry 등록된 모든 프로브를 관리하는 저장소입니다.
//
// 애플리케이션 시작 시점에 점검할 의존성의 프로브를 등록받아 보관하며,
// 집계기가 점검 대상을 조회할 때 사용됩니다. 전역 인스턴스 없이 생성하여
// 필요한 곳에 주입합니다. 모든 메서드는 여러 고루틴에서 동시에 호출해도
// 안전합니다.
type ProbeRegistry struct {
	mu     sync.RWMutex
	probes map[string]Probe

	// order 등록 순서. 조회 결과의 순서를 결정적으로 만든다.
	order []string
}

// NewProbeRegistry 새로운 프로브 저장소를 생성합니다.
func NewProbeRegistry() *ProbeRegistry {
	return &ProbeRegistry{
		probes: make(map[string]Probe),
	}
}

// Register 프로브를 등록합니다.
//
// 매개변수:
//   - p: 등록할 프로브 (nil 불가, 이름 필수)
//
// 반환값:
//   - error: nil 프로브 또는 빈 이름이면 InvalidInput, 이름이 중복되면 Conflict
func (r *ProbeRegistry) Register(p Probe) error {
	if p == nil {
		return apperrors.New(apperrors.InvalidInput, "프로브는 nil일 수 없습니다")
	}

	name := p.Name()
	if name == "" {
		return apperrors.New(apperrors.InvalidInput, "프로브의 이름은 비어 있을 수 없습니다")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.probes[name]; exists {
		return apperrors.Newf(apperrors.Conflict, "이미 등록된 프로브입니다: %s", name)
	}

	r.probes[name] = p
	r.order = append(r.order, name)

	applog.WithComponentAndFields(component, applog.Fields{
		"probe":    name,
		"kind":     p.Kind(),
		"critical": p.Critical(),
	}).Info("프로브 등록 완료")

	return nil
}

// MustRegister 프로브를 등록하며, 실패 시 패닉을 발생시킵니다.
// 애플리케이션 초기화 단계에서 잘못된 등록을 즉시 감지하기 위해 사용합니다.
func (r *ProbeRegistry) MustRegister(p Probe) {
	if err := r.Register(p); err != nil {
		panic(err.Error())
	}
}

// Get 이름으로 프로브를 조회합니다.
func (r *ProbeRegistry) Get(name string) (Probe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.probes[name]
	return p, ok
}

// All 등록된 모든 프로브를 등록 순서대로 반환합니다.
func (r *ProbeRegistry) All() []Probe {
	r.mu.RLock()
	defer r.mu.RUnlock()

	probes := make([]Probe, 0, len(r.order))
	for _, name := range r.order {
		probes = append(probes, r.probes[name])
	}
	return probes
}

// Critical 준비 상태 판정에 필수적인 프로브만 등록 순서대로 반환합니다.
func (r *ProbeRegistry) Critical() []Probe {
	r.mu.RLock()
	defer r.mu.RUnlock()

	probes := make([]Probe, 0, len(r.order))
	for _, name := range r.order {
		if p := r.probes[name]; p.Critical() {
			probes = append(probes, p)
		}
	}
	return probes
}

// Names 등록된 모든 프로브의 이름을 등록 순서대로 반환합니다.
func (r *ProbeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len 등록된 프로브의 개수를 반환합니다.
func (r *ProbeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.probes)
}

// Dependencies 등록된 프로브의 정적 선언 정보를 반환합니다.
// 실제 점검을 수행하지 않으며, 등록 시점의 메타데이터만으로 구성됩니다.
func (r *ProbeRegistry) Dependencies() map[string]DependencyInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dependencies := make(map[string]DependencyInfo, len(r.probes))
	for name, p := range r.probes {
		dependencies[name] = DependencyInfo{
			Required:    p.Critical(),
			Kind:        p.Kind(),
			Description: p.Description(),
		}
	}
	return dependencies
}
