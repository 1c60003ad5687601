package health

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/darkkaiser/healthwatch-server/internal/pkg/errors"
)

// stubProbe 저장소 테스트용 고정 결과 프로브입니다.
type stubProbe struct {
	name     string
	kind     DependencyKind
	critical bool
}

func (p *stubProbe) Name() string { return p.name }

func (p *stubProbe) Kind() DependencyKind {
	if p.kind == "" {
		return KindInternal
	}
	return p.kind
}

func (p *stubProbe) Description() string { return p.name + " 의존성" }

func (p *stubProbe) Critical() bool { return p.critical }

func (p *stubProbe) Probe(ctx context.Context) ProbeResult {
	return NewHealthyResult("정상", time.Millisecond)
}

// ===== 등록 =====

// TestProbeRegistry_Register는 프로브 등록과 조회를 테스트합니다.
func TestProbeRegistry_Register(t *testing.T) {
	t.Parallel()

	registry := NewProbeRegistry()

	require.NoError(t, registry.Register(&stubProbe{name: "database"}))
	require.NoError(t, registry.Register(&stubProbe{name: "cache-store"}))

	assert.Equal(t, 2, registry.Len())
	assert.Equal(t, []string{"database", "cache-store"}, registry.Names())

	p, ok := registry.Get("database")
	require.True(t, ok)
	assert.Equal(t, "database", p.Name())

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

// TestProbeRegistry_RegisterInvalid는 잘못된 등록 요청의 거부를 테스트합니다.
func TestProbeRegistry_RegisterInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		probe Probe
	}{
		{name: "nil 프로브", probe: nil},
		{name: "빈 이름", probe: &stubProbe{name: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := NewProbeRegistry()

			err := registry.Register(tt.probe)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
			assert.Zero(t, registry.Len())
		})
	}
}

// TestProbeRegistry_RegisterDuplicate는 중복 이름 등록의 거부를 테스트합니다.
func TestProbeRegistry_RegisterDuplicate(t *testing.T) {
	t.Parallel()

	registry := NewProbeRegistry()
	require.NoError(t, registry.Register(&stubProbe{name: "database"}))

	err := registry.Register(&stubProbe{name: "database"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Conflict))
	assert.Equal(t, 1, registry.Len(), "중복 등록은 기존 프로브를 대체하지 않아야 합니다")
}

// TestProbeRegistry_MustRegister는 초기화 단계의 등록 실패가 패닉으로
// 이어지는지 테스트합니다.
func TestProbeRegistry_MustRegister(t *testing.T) {
	t.Parallel()

	registry := NewProbeRegistry()

	assert.NotPanics(t, func() { registry.MustRegister(&stubProbe{name: "database"}) })
	assert.Panics(t, func() { registry.MustRegister(&stubProbe{name: "database"}) })
}

// ===== 조회 =====

// TestProbeRegistry_AllPreservesOrder는 조회 결과가 등록 순서를 따르는지
// 테스트합니다.
func TestProbeRegistry_AllPreservesOrder(t *testing.T) {
	t.Parallel()

	registry := NewProbeRegistry()
	for _, name := range []string{"external-api", "database", "cache-store"} {
		registry.MustRegister(&stubProbe{name: name})
	}

	all := registry.All()
	require.Len(t, all, 3)
	assert.Equal(t, "external-api", all[0].Name())
	assert.Equal(t, "database", all[1].Name())
	assert.Equal(t, "cache-store", all[2].Name())
}

// TestProbeRegistry_Critical은 필수 프로브만 선별되는지 테스트합니다.
func TestProbeRegistry_Critical(t *testing.T) {
	t.Parallel()

	registry := NewProbeRegistry()
	registry.MustRegister(&stubProbe{name: "database", critical: true})
	registry.MustRegister(&stubProbe{name: "external-api"})
	registry.MustRegister(&stubProbe{name: "cache-store", critical: true})

	critical := registry.Critical()
	require.Len(t, critical, 2)
	assert.Equal(t, "database", critical[0].Name())
	assert.Equal(t, "cache-store", critical[1].Name())
}

// TestProbeRegistry_Dependencies는 정적 선언 정보 조회를 테스트합니다.
func TestProbeRegistry_Dependencies(t *testing.T) {
	t.Parallel()

	registry := NewProbeRegistry()
	registry.MustRegister(&stubProbe{name: "database", kind: KindDatabase, critical: true})
	registry.MustRegister(&stubProbe{name: "external-api", kind: KindExternalAPI})

	dependencies := registry.Dependencies()

	require.Len(t, dependencies, 2)
	assert.Equal(t, DependencyInfo{
		Required:    true,
		Kind:        KindDatabase,
		Description: "database 의존성",
	}, dependencies["database"])
	assert.False(t, dependencies["external-api"].Required)
}

// ===== 동시성 =====

// TestProbeRegistry_ConcurrentAccess는 동시 등록과 조회의 안전성을
// 테스트합니다.
func TestProbeRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewProbeRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)

		go func(n int) {
			defer wg.Done()
			_ = registry.Register(&stubProbe{name: fmt.Sprintf("probe-%02d", n)})
		}(i)

		go func() {
			defer wg.Done()
			_ = registry.All()
			_ = registry.Critical()
			_ = registry.Len()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, registry.Len())
	assert.Len(t, registry.All(), 20)
}
