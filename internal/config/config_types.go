package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/darkkaiser/healthwatch-server/internal/pkg/errors"
	"github.com/darkkaiser/healthwatch-server/pkg/cronx"
)

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug      bool             `json:"debug"`
	Monitoring MonitoringConfig `json:"monitoring"`
	Probes     ProbesConfig     `json:"probes"`
	HealthAPI  HealthAPIConfig  `json:"health_api"`
	Alert      AlertConfig      `json:"alert"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate(v *validator.Validate) error {
	if err := c.Monitoring.validate(); err != nil {
		return err
	}

	if err := c.Probes.validate(v); err != nil {
		return err
	}

	if err := c.HealthAPI.validate(v); err != nil {
		return err
	}

	if err := c.Alert.validate(v); err != nil {
		return err
	}

	return nil
}

// VerifyRecommendations 서비스 운영의 안정성과 보안을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소(예: Well-known Port 사용)에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	warnings = append(warnings, c.HealthAPI.VerifyRecommendations()...)

	if !c.Alert.Enabled {
		warnings = append(warnings, "알림이 비활성화되어 있습니다. 의존성 상태가 변해도 통지를 받을 수 없습니다")
	}

	return warnings
}

// MonitoringConfig 점검 주기, 서킷 브레이커, 재시도 정책 등 상태 점검의
// 공통 동작을 정의하는 설정 구조체
type MonitoringConfig struct {
	ProbeTimeout time.Duration `json:"probe_timeout"`
	CacheTTL     time.Duration `json:"cache_ttl"`
	StartupGrace time.Duration `json:"startup_grace"`
	Breaker      BreakerConfig `json:"breaker"`
	Retry        RetryConfig   `json:"retry"`
	Sweep        SweepConfig   `json:"sweep"`
}

func (c *MonitoringConfig) validate() error {
	if c.ProbeTimeout <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("점검 제한 시간(probe_timeout)은 0보다 커야 합니다: '%v'", c.ProbeTimeout))
	}
	if c.CacheTTL <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("점검 결과 캐시 유효 시간(cache_ttl)은 0보다 커야 합니다: '%v'", c.CacheTTL))
	}
	if c.StartupGrace < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("시작 유예 시간(startup_grace)은 0 이상이어야 합니다: '%v'", c.StartupGrace))
	}

	if err := c.Breaker.validate(); err != nil {
		return err
	}

	if err := c.Retry.validate(); err != nil {
		return err
	}

	return c.Sweep.validate()
}

// BreakerConfig 의존성별 서킷 브레이커의 공통 동작을 정의하는 설정 구조체
type BreakerConfig struct {
	FailureThreshold int           `json:"failure_threshold"`
	RecoveryTimeout  time.Duration `json:"recovery_timeout"`
	HalfOpenMaxCalls int           `json:"half_open_max_calls"`
}

func (c *BreakerConfig) validate() error {
	if c.FailureThreshold < 1 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("서킷 브레이커 실패 임계치(failure_threshold)는 1 이상이어야 합니다: '%d'", c.FailureThreshold))
	}
	if c.RecoveryTimeout <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("서킷 브레이커 복구 대기 시간(recovery_timeout)은 0보다 커야 합니다: '%v'", c.RecoveryTimeout))
	}
	if c.HalfOpenMaxCalls < 1 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("반열림 상태 시험 호출 허용 수(half_open_max_calls)는 1 이상이어야 합니다: '%d'", c.HalfOpenMaxCalls))
	}
	return nil
}

// RetryConfig 프로브 실행 재시도 정책을 정의하는 설정 구조체
type RetryConfig struct {
	MaxRetries int           `json:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay"`
	Multiplier float64       `json:"multiplier"`
}

func (c *RetryConfig) validate() error {
	if c.MaxRetries < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("최대 재시도 횟수(max_retries)는 0 이상이어야 합니다: '%d'", c.MaxRetries))
	}
	if c.BaseDelay <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("재시도 대기 시간(base_delay)은 0보다 커야 합니다: '%v'", c.BaseDelay))
	}
	if c.MaxDelay < c.BaseDelay {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("재시도 대기 시간의 상한(max_delay)은 base_delay 이상이어야 합니다: '%v' < '%v'", c.MaxDelay, c.BaseDelay))
	}
	if c.Multiplier < 1.0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("재시도 대기 시간의 증가 배수(multiplier)는 1.0 이상이어야 합니다: '%v'", c.Multiplier))
	}
	return nil
}

// SweepConfig 백그라운드 일제 점검의 스케줄을 정의하는 설정 구조체
type SweepConfig struct {
	Runnable bool   `json:"runnable"`
	TimeSpec string `json:"time_spec"`
}

func (c *SweepConfig) validate() error {
	if !c.Runnable {
		return nil
	}

	if err := cronx.Validate(c.TimeSpec); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, "일제 점검 스케줄(sweep.time_spec) 설정이 유효하지 않습니다")
	}
	return nil
}

// ProbesConfig 점검할 의존성별 프로브를 정의하는 설정 구조체
type ProbesConfig struct {
	Database      DatabaseProbeSettings      `json:"database"`
	CacheStore    CacheStoreProbeSettings    `json:"cache_store"`
	Resources     ResourcesProbeSettings     `json:"resources"`
	ObjectStorage ObjectStorageProbeSettings `json:"object_storage"`
	ExternalAPIs  []ExternalAPIProbeSettings `json:"external_apis" validate:"unique=ID"`
}

func (c *ProbesConfig) validate(v *validator.Validate) error {
	if err := c.Database.validate(); err != nil {
		return err
	}

	if err := c.CacheStore.validate(); err != nil {
		return err
	}

	if err := c.Resources.validate(); err != nil {
		return err
	}

	if err := c.ObjectStorage.validate(); err != nil {
		return err
	}

	// ExternalAPIs 중복 ID 검사
	if err := checkUniqueField(v, c.ExternalAPIs, "ID", "ExternalAPI"); err != nil {
		return err
	}

	for _, api := range c.ExternalAPIs {
		if err := api.validate(v); err != nil {
			return err
		}
	}

	if !c.anyEnabled() {
		return apperrors.New(apperrors.InvalidInput, "활성화된 프로브가 하나도 없습니다. 점검할 의존성을 한 개 이상 설정해주세요")
	}

	return nil
}

func (c *ProbesConfig) anyEnabled() bool {
	return c.Database.Enabled || c.CacheStore.Enabled || c.Resources.Enabled ||
		c.ObjectStorage.Enabled || len(c.ExternalAPIs) > 0
}

// DatabaseProbeSettings 데이터베이스 프로브를 정의하는 설정 구조체
type DatabaseProbeSettings struct {
	Enabled     bool          `json:"enabled"`
	Critical    bool          `json:"critical"`
	Description string        `json:"description"`
	DSN         string        `json:"dsn"`
	PingTimeout time.Duration `json:"ping_timeout"`
}

func (c *DatabaseProbeSettings) validate() error {
	if !c.Enabled {
		return nil
	}

	if strings.TrimSpace(c.DSN) == "" {
		return apperrors.New(apperrors.InvalidInput, "데이터베이스 프로브가 활성화되었지만 접속 문자열(probes.database.dsn)이 설정되지 않았습니다")
	}
	if c.PingTimeout <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("데이터베이스 핑 제한 시간(probes.database.ping_timeout)은 0보다 커야 합니다: '%v'", c.PingTimeout))
	}
	return nil
}

// CacheStoreProbeSettings 캐시 저장소 프로브를 정의하는 설정 구조체
type CacheStoreProbeSettings struct {
	Enabled     bool          `json:"enabled"`
	Critical    bool          `json:"critical"`
	Description string        `json:"description"`
	Addr        string        `json:"addr"`
	Password    string        `json:"password"`
	DB          int           `json:"db"`
	PingTimeout time.Duration `json:"ping_timeout"`
}

func (c *CacheStoreProbeSettings) validate() error {
	if !c.Enabled {
		return nil
	}

	if strings.TrimSpace(c.Addr) == "" {
		return apperrors.New(apperrors.InvalidInput, "캐시 저장소 프로브가 활성화되었지만 접속 주소(probes.cache_store.addr)가 설정되지 않았습니다")
	}
	if c.DB < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("캐시 저장소 데이터베이스 번호(probes.cache_store.db)는 0 이상이어야 합니다: '%d'", c.DB))
	}
	if c.PingTimeout <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("캐시 저장소 핑 제한 시간(probes.cache_store.ping_timeout)은 0보다 커야 합니다: '%v'", c.PingTimeout))
	}
	return nil
}

// ResourcesProbeSettings 시스템 자원 프로브를 정의하는 설정 구조체
//
// 임계치가 0이면 프로브의 기본값(메모리/CPU 90%/75%, 디스크 0.95/0.85)이
// 사용됩니다.
type ResourcesProbeSettings struct {
	Enabled               bool    `json:"enabled"`
	Critical              bool    `json:"critical"`
	Description           string  `json:"description"`
	UnhealthyUsagePercent float64 `json:"unhealthy_usage_percent"`
	DegradedUsagePercent  float64 `json:"degraded_usage_percent"`
	UnhealthyDiskFraction float64 `json:"unhealthy_disk_fraction"`
	DegradedDiskFraction  float64 `json:"degraded_disk_fraction"`
}

func (c *ResourcesProbeSettings) validate() error {
	if !c.Enabled {
		return nil
	}

	if c.UnhealthyUsagePercent < 0 || c.UnhealthyUsagePercent > 100 ||
		c.DegradedUsagePercent < 0 || c.DegradedUsagePercent > 100 {
		return apperrors.New(apperrors.InvalidInput, "시스템 자원 사용률 임계치는 0에서 100 사이의 백분율이어야 합니다")
	}
	if c.UnhealthyUsagePercent > 0 && c.DegradedUsagePercent > 0 &&
		c.DegradedUsagePercent >= c.UnhealthyUsagePercent {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("성능 저하 임계치(degraded_usage_percent)는 사용 불가 임계치(unhealthy_usage_percent)보다 작아야 합니다: '%v' >= '%v'", c.DegradedUsagePercent, c.UnhealthyUsagePercent))
	}
	if c.UnhealthyDiskFraction < 0 || c.UnhealthyDiskFraction > 1 ||
		c.DegradedDiskFraction < 0 || c.DegradedDiskFraction > 1 {
		return apperrors.New(apperrors.InvalidInput, "디스크 사용률 임계치는 0에서 1 사이의 비율이어야 합니다")
	}
	if c.UnhealthyDiskFraction > 0 && c.DegradedDiskFraction > 0 &&
		c.DegradedDiskFraction >= c.UnhealthyDiskFraction {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("성능 저하 임계치(degraded_disk_fraction)는 사용 불가 임계치(unhealthy_disk_fraction)보다 작아야 합니다: '%v' >= '%v'", c.DegradedDiskFraction, c.UnhealthyDiskFraction))
	}
	return nil
}

// ObjectStorageProbeSettings 오브젝트 스토리지 프로브를 정의하는 설정 구조체
type ObjectStorageProbeSettings struct {
	Enabled     bool          `json:"enabled"`
	Critical    bool          `json:"critical"`
	Description string        `json:"description"`
	Endpoint    string        `json:"endpoint"`
	AccessKey   string        `json:"access_key"`
	SecretKey   string        `json:"secret_key"`
	UseSSL      bool          `json:"use_ssl"`
	Bucket      string        `json:"bucket"`
	Timeout     time.Duration `json:"timeout"`
}

func (c *ObjectStorageProbeSettings) validate() error {
	if !c.Enabled {
		return nil
	}

	if strings.TrimSpace(c.Endpoint) == "" {
		return apperrors.New(apperrors.InvalidInput, "오브젝트 스토리지 프로브가 활성화되었지만 접속 주소(probes.object_storage.endpoint)가 설정되지 않았습니다")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return apperrors.New(apperrors.InvalidInput, "오브젝트 스토리지 프로브가 활성화되었지만 버킷 이름(probes.object_storage.bucket)이 설정되지 않았습니다")
	}
	if c.Timeout <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("오브젝트 스토리지 확인 제한 시간(probes.object_storage.timeout)은 0보다 커야 합니다: '%v'", c.Timeout))
	}
	return nil
}

// ExternalAPIProbeSettings 외부 API 프로브 하나를 정의하는 설정 구조체
type ExternalAPIProbeSettings struct {
	ID              string            `json:"id" validate:"required"`
	Description     string            `json:"description"`
	URL             string            `json:"url" validate:"required,url"`
	Method          string            `json:"method"`
	Critical        bool              `json:"critical"`
	Timeout         time.Duration     `json:"timeout"`
	DegradedLatency time.Duration     `json:"degraded_latency"`
	JSONPath        string            `json:"json_path"`
	JSONValue       string            `json:"json_value"`
	HTMLSelector    string            `json:"html_selector"`
	Headers         map[string]string `json:"headers"`
}

func (c *ExternalAPIProbeSettings) validate(v *validator.Validate) error {
	if err := checkStruct(v, c, fmt.Sprintf("ExternalAPI['%s']", c.ID)); err != nil {
		return err
	}

	if c.JSONValue != "" && c.JSONPath == "" {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("ExternalAPI['%s']의 기대 값(json_value)은 검사할 경로(json_path)와 함께 설정해야 합니다", c.ID))
	}
	if c.Timeout < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("ExternalAPI['%s']의 요청 제한 시간(timeout)은 0 이상이어야 합니다: '%v'", c.ID, c.Timeout))
	}
	if c.DegradedLatency < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("ExternalAPI['%s']의 성능 저하 판정 기준(degraded_latency)은 0 이상이어야 합니다: '%v'", c.ID, c.DegradedLatency))
	}
	return nil
}

// HealthAPIConfig 상태 조회 REST API 서버 설정 구조체
type HealthAPIConfig struct {
	WS           WSConfig            `json:"ws"`
	CORS         CORSConfig          `json:"cors"`
	Applications []ApplicationConfig `json:"applications" validate:"unique=ID"`
}

func (c *HealthAPIConfig) validate(v *validator.Validate) error {
	// WS 유효성 검사
	if err := c.WS.validate(v); err != nil {
		return err
	}

	// CORS 유효성 검사
	if err := c.CORS.validate(v); err != nil {
		return err
	}

	// Applications 중복 ID 검사
	if err := checkUniqueField(v, c.Applications, "ID", "Application"); err != nil {
		return err
	}

	for _, app := range c.Applications {
		if strings.TrimSpace(app.ID) == "" {
			return apperrors.New(apperrors.InvalidInput, "Application의 ID가 설정되지 않았습니다")
		}

		if strings.TrimSpace(app.AppKey) == "" {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("Application['%s']의 API 키(APP_KEY)가 설정되지 않았습니다", app.ID))
		}
	}

	return nil
}

func (c *HealthAPIConfig) VerifyRecommendations() []string {
	warnings := c.WS.VerifyRecommendations()

	for _, origin := range c.CORS.AllowOrigins {
		if origin == "*" {
			warnings = append(warnings, "CORS가 모든 도메인(*)을 허용하도록 설정되었습니다. 운영 환경에서는 허용 도메인을 제한하는 것을 권장합니다")
		}
	}

	return warnings
}

// WSConfig 웹 서버의 포트 및 TLS(HTTPS) 보안 설정을 정의하는 구조체
type WSConfig struct {
	TLSServer   bool   `json:"tls_server"`
	TLSCertFile string `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	ListenPort  int    `json:"listen_port" validate:"min=1,max=65535"`
}

func (c *WSConfig) validate(v *validator.Validate) error {
	if err := v.Struct(c); err != nil {
		// Validator 에러를 사용자 친화적인 메시지로 변환한다.
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				switch fieldErr.StructField() {
				case "ListenPort":
					return apperrors.New(apperrors.InvalidInput, "웹 서버 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
				case "TLSCertFile":
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 인증서 파일 경로(tls_cert_file)는 필수입니다")
					case "file":
						return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 인증서 파일(tls_cert_file)을 찾을 수 없습니다: '%v'", fieldErr.Value()))
					default:
						return apperrors.New(apperrors.InvalidInput, "TLS 인증서 파일 경로(tls_cert_file) 설정이 올바르지 않습니다")
					}
				case "TLSKeyFile":
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 키 파일 경로(tls_key_file)는 필수입니다")
					case "file":
						return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 키 파일(tls_key_file)을 찾을 수 없습니다: '%v'", fieldErr.Value()))
					default:
						return apperrors.New(apperrors.InvalidInput, "TLS 키 파일 경로(tls_key_file) 설정이 올바르지 않습니다")
					}
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "웹 서버 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	return nil
}

func (c *WSConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	return warnings
}

// CORSConfig 웹 브라우저의 교차 출처 리소스 공유(CORS) 정책을 설정하는 구조체
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate(v *validator.Validate) error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			if len(c.AllowOrigins) > 1 {
				return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
			}

			// 와일드카드만 있는 경우는 유효함 (validator skip)
			continue
		}
	}

	// 각 Origin 유효성 검사
	if err := v.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				if fieldErr.Tag() == "cors_origin" {
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("CORS Origin 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://example.com)", fieldErr.Value()))
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "CORS 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}
	return nil
}

// ApplicationConfig 서킷 브레이커 초기화 등 변경 API를 호출할 수 있는
// 클라이언트 어플리케이션의 인증 정보를 정의하는 구조체
type ApplicationConfig struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AppKey      string `json:"app_key"`
}

// AlertConfig 의존성 상태 변화 알림 설정 구조체
type AlertConfig struct {
	Enabled   bool                `json:"enabled"`
	QueueSize int                 `json:"queue_size"`
	Telegram  AlertTelegramConfig `json:"telegram"`
}

func (c *AlertConfig) validate(v *validator.Validate) error {
	if c.QueueSize < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("알림 대기열 크기(queue_size)는 0 이상이어야 합니다: '%d'", c.QueueSize))
	}

	if !c.Enabled {
		return nil
	}

	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return apperrors.New(apperrors.InvalidInput, "알림이 활성화되었지만 텔레그램 봇 토큰(alert.telegram.bot_token)이 설정되지 않았습니다")
	}

	if err := checkStruct(v, c.Telegram, "Alert > Telegram"); err != nil {
		return err
	}

	if c.Telegram.ChatID == 0 {
		return apperrors.New(apperrors.InvalidInput, "알림이 활성화되었지만 텔레그램 채팅 ID(alert.telegram.chat_id)가 설정되지 않았습니다")
	}

	return nil
}

// AlertTelegramConfig 알림을 발송할 텔레그램 채널 정보를 담는 설정 구조체
type AlertTelegramConfig struct {
	BotToken string `json:"bot_token" validate:"omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id"`
}
