package health

import "context"

// DependencyKind 점검 대상 의존성의 종류입니다.
type DependencyKind string

const (
	KindDatabase    DependencyKind = "database"
	KindCache       DependencyKind = "cache"
	KindExternalAPI DependencyKind = "external_api"
	KindInternal    DependencyKind = "internal"
	KindFilesystem  DependencyKind = "filesystem"
	KindNetwork     DependencyKind = "network"
)

// Probe 단일 의존성의 상태를 점검하는 인터페이스입니다.
//
// 구현 규칙:
//   - Probe는 점검 실패를 에러가 아닌 StatusUnhealthy 결과로 반환해야 합니다.
//   - ctx의 취소/타임아웃을 존중해야 합니다.
//   - 패닉이 외부로 전파되지 않도록 Aggregator가 방어하지만,
//     구현체 스스로도 패닉을 일으키지 않아야 합니다.
type Probe interface {
	// Name 프로브의 고유 이름을 반환합니다. (예: "database", "cache-store")
	Name() string

	// Kind 점검 대상 의존성의 종류를 반환합니다.
	Kind() DependencyKind

	// Description 점검 대상 의존성에 대한 정적 설명을 반환합니다.
	Description() string

	// Critical 서비스 준비 상태(Readiness) 판정에 필수적인 의존성인지 여부를 반환합니다.
	// 필수 의존성이 unhealthy면 트래픽을 받을 수 없는 상태로 판단합니다.
	Critical() bool

	// Probe 의존성 상태를 점검하고 결과를 반환합니다.
	Probe(ctx context.Context) ProbeResult
}

// DependencyInfo 의존성의 정적 선언 정보입니다. 실제 점검 없이
// 등록된 프로브의 메타데이터만으로 구성됩니다.
type DependencyInfo struct {
	// Required 준비 상태 판정에 필수적인 의존성인지 여부
	Required bool `json:"required"`

	// Kind 의존성의 종류
	Kind DependencyKind `json:"kind"`

	// Description 의존성에 대한 설명
	Description string `json:"description"`
}
