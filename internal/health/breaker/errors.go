package breaker

import (
	"errors"
	"fmt"
	"time"
)

// ErrCircuitOpen 회로가 열려 있어 호출이 거부되었음을 나타내는 센티넬 에러입니다.
// errors.Is(err, ErrCircuitOpen)으로 판별합니다.
var ErrCircuitOpen = errors.New("서킷 브레이커가 열려 있습니다")

// OpenError 회로 열림으로 인한 호출 거부 정보를 담는 에러입니다.
// 어떤 브레이커가 언제까지 차단되는지를 함께 전달합니다.
type OpenError struct {
	// BreakerName 호출을 거부한 브레이커의 이름
	BreakerName string

	// RetryAfter 반열림 전환까지 남은 시간 (반열림 허용량 초과로 거부된 경우 0)
	RetryAfter time.Duration
}

func newOpenError(name string, retryAfter time.Duration) *OpenError {
	return &OpenError{
		BreakerName: name,
		RetryAfter:  retryAfter,
	}
}

// Error 표준 error 인터페이스를 구현합니다.
func (e *OpenError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("서킷 브레이커(%s)가 열려 있습니다 (재시도 가능까지 %.1f초)",
			e.BreakerName, e.RetryAfter.Seconds())
	}
	return fmt.Sprintf("서킷 브레이커(%s)가 열려 있습니다", e.BreakerName)
}

// Is errors.Is(err, ErrCircuitOpen) 판별을 지원합니다.
func (e *OpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}
