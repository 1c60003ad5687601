package log

import (
	"errors"
	"io"
	"sync/atomic"
)

// closer 로깅 시스템이 보유한 파일 리소스들의 해제를 통합 관리합니다.
//
//   - Hook을 먼저 비활성화한 뒤 파일을 닫아, 닫힌 파일에 대한 쓰기 시도를 차단합니다.
//   - 일부 파일 닫기에 실패해도 나머지 리소스의 해제를 계속 시도합니다.
//   - Close()는 멱등합니다. 두 번째 이후 호출은 즉시 nil을 반환합니다.
type closer struct {
	closers []io.Closer

	hook *hook

	// closed 중복 Close() 방지 플래그 (0: open, 1: closed)
	closed int32
}

func (c *closer) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil // 이미 닫힘
	}

	// 파일을 닫기 전에 로그 유입부터 차단한다
	if c.hook != nil {
		c.hook.Close()
	}

	var errs error
	for _, closer := range c.closers {
		if closer != nil {
			// 버퍼에 남은 로그를 디스크에 반영한 뒤 닫는다
			if s, ok := closer.(interface{ Sync() error }); ok {
				_ = s.Sync()
			}

			if err := closer.Close(); err != nil {
				errs = errors.Join(errs, err)
			}
		}
	}

	return errs
}
