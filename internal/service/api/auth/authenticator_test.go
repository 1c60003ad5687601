package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/darkkaiser/healthwatch-server/internal/config"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/model/domain"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/model/response"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Utils & Helpers
// =============================================================================

// LogEntry 로그 검증을 위한 구조체
type LogEntry struct {
	Level          string `json:"level"`
	Message        string `json:"msg"`
	ReceivedAppKey string `json:"received_app_key"`
}

// createTestAppConfig 테스트용 AppConfig를 생성합니다.
func createTestAppConfig(apps ...config.ApplicationConfig) *config.AppConfig {
	return &config.AppConfig{
		HealthAPI: config.HealthAPIConfig{
			Applications: apps,
		},
	}
}

// setupTestLogger는 테스트를 위해 로거 출력을 버퍼로 변경합니다.
func setupTestLogger(buf *bytes.Buffer) {
	applog.SetOutput(buf)
	applog.SetFormatter(&applog.JSONFormatter{})
	applog.SetLevel(applog.DebugLevel)
}

// restoreLogger는 로거 출력을 표준 출력으로 복구합니다.
func restoreLogger() {
	applog.SetOutput(applog.StandardLogger().Out)
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewAuthenticator_Table(t *testing.T) {
	tests := []struct {
		name          string
		appConfig     *config.AppConfig
		expectedCount int
		verifyApps    func(*testing.T, *Authenticator)
	}{
		{
			name: "단일 애플리케이션 생성",
			appConfig: createTestAppConfig(
				config.ApplicationConfig{
					ID:          "ops-dashboard",
					Title:       "운영 대시보드",
					Description: "서킷 브레이커 초기화 권한 보유",
					AppKey:      "test-key",
				},
			),
			expectedCount: 1,
			verifyApps: func(t *testing.T, authenticator *Authenticator) {
				app, ok := authenticator.applicationsByKeyHash[hashAppKey("test-key")]
				require.True(t, ok, "해시된 키로 애플리케이션을 조회할 수 있어야 함")
				assert.Equal(t, "ops-dashboard", app.ID)
				assert.Equal(t, "운영 대시보드", app.Title)
				assert.Equal(t, "서킷 브레이커 초기화 권한 보유", app.Description)

				// 중요: App Key 원문은 맵의 키로 사용되지 않아야 함 (해시만 보관)
				_, plaintextStored := authenticator.applicationsByKeyHash["test-key"]
				assert.False(t, plaintextStored, "App Key 원문이 그대로 저장되면 안 됨")
			},
		},
		{
			name: "다중 애플리케이션 생성",
			appConfig: createTestAppConfig(
				config.ApplicationConfig{ID: "app1", AppKey: "key1"},
				config.ApplicationConfig{ID: "app2", AppKey: "key2"},
				config.ApplicationConfig{ID: "app3", AppKey: "key3"},
			),
			expectedCount: 3,
			verifyApps: func(t *testing.T, authenticator *Authenticator) {
				assert.Contains(t, authenticator.applicationsByKeyHash, hashAppKey("key1"))
				assert.Contains(t, authenticator.applicationsByKeyHash, hashAppKey("key2"))
				assert.Contains(t, authenticator.applicationsByKeyHash, hashAppKey("key3"))
			},
		},
		{
			name:          "애플리케이션 없음",
			appConfig:     createTestAppConfig(),
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authenticator := NewAuthenticator(tt.appConfig)

			assert.NotNil(t, authenticator)
			assert.NotNil(t, authenticator.applicationsByKeyHash)
			assert.Equal(t, tt.expectedCount, len(authenticator.applicationsByKeyHash))

			if tt.verifyApps != nil {
				tt.verifyApps(t, authenticator)
			}
		})
	}
}

// =============================================================================
// Authenticate Tests
// =============================================================================

// TestAuthenticator_Authenticate_Table는 인증 로직을 상세 검증합니다.
//
// 주요 검증 항목:
//   - 정상 인증 시 Application 객체 반환
//   - 등록되지 않은 App Key 처리, 에러 메시지, 그리고 보안 로그 기록
//   - 실패 응답에 키 관련 정보가 노출되지 않는지 확인
func TestAuthenticator_Authenticate_Table(t *testing.T) {
	// 로거 캡처 설정
	buf := new(bytes.Buffer)
	setupTestLogger(buf)
	defer restoreLogger()

	appConfig := createTestAppConfig(
		config.ApplicationConfig{
			ID:     "ops-dashboard",
			Title:  "운영 대시보드",
			AppKey: "valid-key",
		},
	)
	authenticator := NewAuthenticator(appConfig)

	tests := []struct {
		name          string
		appKey        string
		expectedError bool
		checkError    func(*testing.T, error)
		checkLog      func(*testing.T, *bytes.Buffer) // 로그 검증 로직
		checkApp      func(*testing.T, *domain.Application)
	}{
		{
			name:          "인증 성공_정상 키 입력",
			appKey:        "valid-key",
			expectedError: false,
			checkApp: func(t *testing.T, app *domain.Application) {
				assert.Equal(t, "ops-dashboard", app.ID)
				assert.Equal(t, "운영 대시보드", app.Title)
			},
		},
		{
			name:          "인증 실패_등록되지 않은 키_로그 기록",
			appKey:        "invalid-key",
			expectedError: true,
			checkError: func(t *testing.T, err error) {
				httpErr, ok := err.(*echo.HTTPError)
				require.True(t, ok, "에러는 *echo.HTTPError 타입이어야 함")
				assert.Equal(t, 401, httpErr.Code)

				// 에러 메시지에 구체적인 키/애플리케이션 정보가 노출되지 않아야 함
				errResp, ok := httpErr.Message.(response.ErrorResponse)
				require.True(t, ok)
				assert.Equal(t, "app_key가 유효하지 않습니다", errResp.Message)
			},
			checkLog: func(t *testing.T, logBuf *bytes.Buffer) {
				var logEntry LogEntry
				err := json.Unmarshal(logBuf.Bytes(), &logEntry)
				require.NoError(t, err, "로그 파싱 실패")

				assert.Equal(t, "warning", logEntry.Level)
				assert.Equal(t, "인증 실패: 등록되지 않은 App Key", logEntry.Message)
				// 마스킹되어 원문 키가 로그에 남지 않아야 함
				assert.NotEqual(t, "invalid-key", logEntry.ReceivedAppKey)
				assert.Equal(t, applog.MaskSensitiveData("invalid-key"), logEntry.ReceivedAppKey)
			},
		},
		{
			name:          "인증 실패_빈 Key",
			appKey:        "",
			expectedError: true,
			checkError: func(t *testing.T, err error) {
				httpErr, ok := err.(*echo.HTTPError)
				require.True(t, ok)
				assert.Equal(t, 401, httpErr.Code)
			},
			checkLog: func(t *testing.T, logBuf *bytes.Buffer) {
				// 빈 키도 미등록 키로 간주되므로 로그가 남아야 함
				assert.Contains(t, logBuf.String(), "등록되지 않은 App Key")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset() // 로그 버퍼 초기화

			app, err := authenticator.Authenticate(tt.appKey)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, app)
				if tt.checkError != nil {
					tt.checkError(t, err)
				}
				if tt.checkLog != nil {
					tt.checkLog(t, buf)
				}
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, app)
				if tt.checkApp != nil {
					tt.checkApp(t, app)
				}
				// 성공 시에는 보안 경고 로그가 없어야 함
				assert.Empty(t, buf.String(), "성공 시에는 로그가 없어야 함")
			}
		})
	}
}

// =============================================================================
// Hash Tests
// =============================================================================

func TestHashAppKey(t *testing.T) {
	t.Parallel()

	// SHA-256 해시는 64자리 16진수 문자열이어야 함
	hashed := hashAppKey("my-secret-key")
	assert.Len(t, hashed, 64)
	assert.NotEqual(t, "my-secret-key", hashed)

	// 동일 입력은 동일 해시 (결정적)
	assert.Equal(t, hashed, hashAppKey("my-secret-key"))

	// 다른 입력은 다른 해시
	assert.NotEqual(t, hashed, hashAppKey("my-secret-key2"))
}

// =============================================================================
// Concurrency Tests
// =============================================================================

// TestAuthenticator_ConcurrentAccess는 동시성 안전성을 검증합니다.
func TestAuthenticator_ConcurrentAccess(t *testing.T) {
	appConfig := createTestAppConfig(
		config.ApplicationConfig{ID: "app1", AppKey: "key1"},
		config.ApplicationConfig{ID: "app2", AppKey: "key2"},
	)
	authenticator := NewAuthenticator(appConfig)

	// 동시에 고루틴에서 Authenticate 호출
	const goroutines = 100
	var wg sync.WaitGroup
	wg.Add(goroutines * 2) // app1과 app2 동시 호출

	// 에러 발생 여부 기록
	errCh := make(chan error, goroutines*2)

	// app1 호출 그룹 (성공 케이스)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			app, err := authenticator.Authenticate("key1")
			if err != nil {
				errCh <- fmt.Errorf("app1 auth failed: %w", err)
				return
			}
			if app.ID != "app1" {
				errCh <- fmt.Errorf("app1 returned wrong app: %s", app.ID)
			}
		}()
	}

	// app2 호출 그룹 (실패 케이스 포함하여 동시성 부하 증가)
	for i := 0; i < goroutines; i++ {
		go func(idx int) {
			defer wg.Done()
			// 절반은 성공, 절반은 실패 요청을 보내 더 복잡한 동시성 상황 연출
			if idx%2 == 0 {
				app, err := authenticator.Authenticate("key2")
				if err != nil {
					errCh <- fmt.Errorf("app2 auth failed: %w", err)
				}
				if app != nil && app.ID != "app2" {
					errCh <- fmt.Errorf("app2 returned wrong app: %s", app.ID)
				}
			} else {
				// 실패 요청 (동시 읽기 상황에서 RLock 경합 테스트)
				_, err := authenticator.Authenticate("wrong-key")
				if err == nil {
					errCh <- fmt.Errorf("expected error for wrong key but got nil")
				}
			}
		}(i)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}
}
