package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hook 로그 레벨에 따라 이벤트를 여러 Writer로 분배하는 라우팅 Hook입니다.
//
// 라우팅 정책:
//   - Console: 설정된 경우 레벨 구분 없이 전체 로그를 출력
//   - Critical: ERROR 이상을 별도 파일에 격리 저장
//   - Verbose: DEBUG 이하를 별도 파일로 분리 (메인 로그 오염 방지를 위해 메인에는 기록하지 않음)
//   - Main: INFO 이상의 운영 로그를 기록
type hook struct {
	mainWriter     io.Writer // INFO / WARN / ERROR / FATAL / PANIC
	criticalWriter io.Writer // ERROR / FATAL / PANIC
	verboseWriter  io.Writer // DEBUG / TRACE
	consoleWriter  io.Writer // 전체 레벨 (stdout)

	formatter Formatter

	// mu 로그 기록(RLock)과 종료 처리(Lock) 사이의 동시성을 제어합니다.
	mu sync.RWMutex

	// closed true가 되면 이후의 모든 기록 요청을 무시합니다.
	closed bool
}

// Levels 이 Hook이 수신할 로그 레벨의 집합을 반환합니다.
func (h *hook) Levels() []Level {
	return AllLevels
}

// Fire 수신한 로그 이벤트를 포맷팅한 뒤 라우팅 정책에 따라 각 Writer에 기록합니다.
func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	// 포맷팅은 한 번만 수행하고 모든 Writer가 재사용한다
	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	var firstErr error

	// 콘솔 쓰기 실패는 전체 로깅 가용성에 영향을 주지 않도록 에러를 전파하지 않습니다.
	if h.consoleWriter != nil {
		if _, err := h.consoleWriter.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] 콘솔 출력 쓰기 실패: %v\n", err)
		}
	}

	// Critical 기록이 실패해도 메인 기록은 반드시 시도해야 하므로 에러 반환을 유예합니다.
	if entry.Level <= ErrorLevel {
		if h.criticalWriter != nil {
			if _, err := h.criticalWriter.Write(msg); err != nil {
				firstErr = err
				fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] Critical 로그 파일 쓰기 실패 (데이터 유실 위험): %v\n", err)
			}
		}
	}

	// 상세 로그(DEBUG/TRACE)는 Verbose 파일에만 기록하고 종료합니다.
	if entry.Level >= DebugLevel {
		if h.verboseWriter != nil {
			if _, err := h.verboseWriter.Write(msg); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] Verbose 로그 파일 쓰기 실패: %v\n", err)
			}
		}

		return firstErr
	}

	if h.mainWriter != nil {
		if _, err := h.mainWriter.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] Main 로그 파일 쓰기 실패 (운영 기록 유실 위험): %v\n", err)
		}
	}

	return firstErr
}

// Close Hook을 종료 상태로 전환하여 이후의 로그 기록을 차단합니다.
// 진행 중인 Fire() 호출이 모두 끝날 때까지 대기한 뒤 반환합니다.
func (h *hook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	return nil
}
