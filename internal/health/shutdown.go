package health

import (
	"sync/atomic"

	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
)

const componentShutdown = "health.shutdown"

// ShutdownFlag 우아한 종료가 시작되었는지를 나타내는 공유 플래그입니다.
//
// 프로세스 수명 주기 관리자(main)가 종료 시그널을 받으면 Request를 호출하고,
// 활성/준비 상태 점검이 Requested를 읽어 즉시 트래픽 차단을 보고합니다.
// 읽기 경로는 락 없이 원자적 연산만 사용합니다.
type ShutdownFlag struct {
	requested atomic.Bool
}

// NewShutdownFlag 새로운 종료 플래그를 생성합니다.
func NewShutdownFlag() *ShutdownFlag {
	return &ShutdownFlag{}
}

// Request 종료 시작을 기록합니다. 한 번 설정되면 되돌릴 수 없습니다.
func (f *ShutdownFlag) Request() {
	if f.requested.CompareAndSwap(false, true) {
		applog.WithComponent(componentShutdown).Info("종료 플래그가 설정되었습니다. 이후의 활성/준비 상태 점검은 실패로 보고됩니다")
	}
}

// Requested 종료가 시작되었는지 여부를 반환합니다.
func (f *ShutdownFlag) Requested() bool {
	return f.requested.Load()
}
