package log

import (
	"fmt"
	"os"
)

// Options 로깅 시스템 초기화에 사용되는 설정입니다.
type Options struct {
	Name  string // 로그 파일명에 사용되는 애플리케이션 식별자
	Dir   string // 로그 파일 저장 디렉토리 (빈 문자열: 실행 위치의 logs 디렉토리)
	Level Level  // 최소 기록 레벨 (0: Info)

	MaxAge     int // 로테이션된 로그 파일의 보관 기한 (일 단위, 0: 무제한)
	MaxSizeMB  int // 로그 파일 하나의 최대 크기 (MB, 0: 기본값)
	MaxBackups int // 로테이션된 백업 파일의 최대 개수 (0: 기본값)

	EnableCriticalLog bool // ERROR 이상(ERROR, FATAL, PANIC)을 별도 파일로 격리 저장할지 여부
	EnableVerboseLog  bool // DEBUG 이하(DEBUG, TRACE)를 별도 파일로 분리 저장할지 여부
	EnableConsoleLog  bool // 표준 출력(stdout)에도 로그를 내보낼지 여부 (개발 환경 권장)

	// ReportCaller 로그를 기록한 소스 위치(함수명:라인번호)를 함께 남길지 여부입니다.
	// 활성화 시 "...internal/health.(*Aggregator).Comprehensive(line:88)" 형태로 출력됩니다.
	ReportCaller bool

	// CallerPathPrefix 호출자 경로에서 잘라낼 공통 prefix입니다.
	// 모듈 경로가 반복 출력되는 것을 줄여 로그 가독성을 높입니다.
	CallerPathPrefix string
}

// Validate Options의 필드 값이 유효한지 검증합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	// Dir 경로가 일반 파일로 선점되어 있으면 디렉토리 생성이 불가능하다
	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	if opts.MaxAge < 0 {
		return fmt.Errorf("MaxAge는 0 이상이어야 합니다: %d", opts.MaxAge)
	}
	if opts.MaxSizeMB < 0 {
		return fmt.Errorf("MaxSizeMB는 0 이상이어야 합니다: %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups < 0 {
		return fmt.Errorf("MaxBackups는 0 이상이어야 합니다: %d", opts.MaxBackups)
	}

	return nil
}
