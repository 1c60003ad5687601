// Package log 애플리케이션 전역 로깅 시스템을 제공합니다.
//
// 내부적으로 logrus를 사용하며, 로그 레벨에 따라 메인/중요/상세 로그 파일과
// 콘솔 출력으로 분배하는 계층적 라우팅을 지원합니다. 로그 파일은 lumberjack을
// 통해 크기 기준으로 로테이션됩니다.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Level logrus.Level의 별칭입니다.
type Level = logrus.Level

const (
	// PanicLevel 로그 기록 후 panic()을 호출합니다. 복구 불가능한 내부 오류에만 사용합니다.
	PanicLevel Level = logrus.PanicLevel

	// FatalLevel 로그 기록 후 os.Exit(1)로 프로세스를 종료합니다.
	// 시작 실패, 필수 리소스 확보 실패 등 더 이상 진행이 불가능한 상황에 사용합니다.
	FatalLevel Level = logrus.FatalLevel

	// ErrorLevel 프로세스는 계속 동작하지만 관리자의 확인이 필요한 오류입니다.
	ErrorLevel Level = logrus.ErrorLevel

	// WarnLevel 당장 문제는 아니지만 주의가 필요한 상황입니다.
	WarnLevel Level = logrus.WarnLevel

	// InfoLevel 시스템의 정상적인 동작 흐름과 상태 변화를 기록합니다.
	InfoLevel Level = logrus.InfoLevel

	// DebugLevel 문제 해결을 위한 상세 정보입니다. 개발/테스트 단계에서 사용합니다.
	DebugLevel Level = logrus.DebugLevel

	// TraceLevel 가장 세밀한 수준입니다. 내부 데이터 흐름 추적에 사용합니다.
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels logrus.AllLevels의 별칭입니다.
var AllLevels = logrus.AllLevels

// Fields logrus.Fields의 별칭입니다.
type Fields = logrus.Fields

// Entry logrus.Entry의 별칭입니다.
type Entry = logrus.Entry

// Hook logrus.Hook의 별칭입니다.
type Hook = logrus.Hook

// Logger logrus.Logger의 별칭입니다.
type Logger = logrus.Logger

// Formatter logrus.Formatter의 별칭입니다.
type Formatter = logrus.Formatter

// TextFormatter logrus.TextFormatter의 별칭입니다.
type TextFormatter = logrus.TextFormatter

// JSONFormatter logrus.JSONFormatter의 별칭입니다.
type JSONFormatter = logrus.JSONFormatter

// StandardLogger 전역 logrus 표준 로거를 반환합니다.
// cron 엔진처럼 *Logger를 직접 요구하는 외부 라이브러리에 전달할 때 사용합니다.
func StandardLogger() *Logger {
	return logrus.StandardLogger()
}

// SetOutput 전역 로거의 출력 대상을 변경합니다.
// 주로 테스트에서 로그 출력을 버퍼로 가로챌 때 사용합니다.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// SetFormatter 전역 로거의 출력 포맷터를 변경합니다.
func SetFormatter(formatter Formatter) {
	logrus.SetFormatter(formatter)
}

// SetLevel 전역 로거의 로그 레벨을 변경합니다.
func SetLevel(level Level) {
	logrus.SetLevel(level)
}

// WithField 단일 필드를 포함한 로그 Entry를 반환합니다.
func WithField(key string, value any) *Entry {
	return logrus.WithField(key, value)
}

// WithFields 여러 필드를 포함한 로그 Entry를 반환합니다.
func WithFields(fields Fields) *Entry {
	return logrus.WithFields(fields)
}
