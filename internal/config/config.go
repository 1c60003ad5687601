// Package config 애플리케이션의 설정 로드와 유효성 검증을 담당합니다.
//
// 설정은 내장 기본값, JSON 설정 파일, 환경 변수의 세 계층으로 구성되며
// 뒤의 계층이 앞의 계층을 덮어씁니다. 로드된 설정은 구조체로 변환되는
// 즉시 전체 유효성 검증을 거치므로, Load가 성공하면 이후 코드는 설정
// 값의 정합성을 다시 확인할 필요가 없습니다.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	apperrors "github.com/darkkaiser/healthwatch-server/internal/pkg/errors"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "healthwatch-server"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// EnvPrefix 설정을 덮어쓰는 환경 변수의 접두사입니다.
	EnvPrefix = "HEALTHWATCH_"
)

// defaultSettings 설정 파일과 환경 변수로 덮어쓰기 전에 적용되는 내장
// 기본값입니다. 키는 점(.)으로 구분된 계층 경로입니다.
func defaultSettings() map[string]interface{} {
	return map[string]interface{}{
		"monitoring.probe_timeout":               "10s",
		"monitoring.cache_ttl":                   "30s",
		"monitoring.startup_grace":               "10s",
		"monitoring.breaker.failure_threshold":   5,
		"monitoring.breaker.recovery_timeout":    "60s",
		"monitoring.breaker.half_open_max_calls": 3,
		"monitoring.retry.max_retries":           3,
		"monitoring.retry.base_delay":            "1s",
		"monitoring.retry.max_delay":             "60s",
		"monitoring.retry.multiplier":            2.0,
		"monitoring.sweep.runnable":              true,
		"monitoring.sweep.time_spec":             "@every 1m",
		"probes.database.enabled":                true,
		"probes.database.critical":               true,
		"probes.database.ping_timeout":           "5s",
		"probes.cache_store.enabled":             true,
		"probes.cache_store.critical":            true,
		"probes.cache_store.ping_timeout":        "5s",
		"probes.resources.enabled":               true,
		"probes.object_storage.timeout":          "5s",
		"health_api.ws.listen_port":              8080,
		"health_api.cors.allow_origins":          []string{"*"},
		"alert.queue_size":                       100,
	}
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
//
// 매개변수:
//   - filename: 읽을 JSON 설정 파일의 경로
//
// 반환값:
//   - *AppConfig: 유효성 검증을 통과한 설정 객체
//   - error: 파일 누락, 형식 오류, 유효성 위반 시의 에러
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	if err := k.Load(confmap.Provider(defaultSettings(), "."), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: HEALTHWATCH_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: HEALTHWATCH_MONITORING__CACHE_TTL -> monitoring.cache_ttl
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(), // "30s" 형태의 기간 문자열 변환
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
