package health

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/darkkaiser/healthwatch-server/internal/health"
	"github.com/darkkaiser/healthwatch-server/internal/health/aggregator"
	"github.com/darkkaiser/healthwatch-server/internal/health/breaker"
	"github.com/darkkaiser/healthwatch-server/internal/health/probecache"
	alertpkg "github.com/darkkaiser/healthwatch-server/internal/service/alert"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/auth"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/constants"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/model/domain"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/model/response"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/model/system"
	"github.com/darkkaiser/healthwatch-server/internal/service/contract"
	"github.com/darkkaiser/healthwatch-server/internal/service/contract/mocks"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers & Setup
// =============================================================================

// stubProbe 지정된 결과를 반환하는 테스트용 프로브입니다.
type stubProbe struct {
	name     string
	critical bool
	fn       func(ctx context.Context) health.ProbeResult
}

func (p *stubProbe) Name() string                { return p.name }
func (p *stubProbe) Kind() health.DependencyKind { return health.KindDatabase }
func (p *stubProbe) Description() string         { return p.name + " 테스트 의존성" }
func (p *stubProbe) Critical() bool              { return p.critical }

func (p *stubProbe) Probe(ctx context.Context) health.ProbeResult {
	return p.fn(ctx)
}

func stubHealthy(name string, critical bool) *stubProbe {
	return &stubProbe{
		name:     name,
		critical: critical,
		fn: func(ctx context.Context) health.ProbeResult {
			return health.NewHealthyResult("연결 정상", time.Millisecond)
		},
	}
}

func stubDegraded(name string, critical bool) *stubProbe {
	return &stubProbe{
		name:     name,
		critical: critical,
		fn: func(ctx context.Context) health.ProbeResult {
			return health.NewDegradedResult("응답 지연", time.Millisecond)
		},
	}
}

func stubUnhealthy(name string, critical bool) *stubProbe {
	return &stubProbe{
		name:     name,
		critical: critical,
		fn: func(ctx context.Context) health.ProbeResult {
			return health.NewUnhealthyResult("연결 거부", time.Millisecond)
		},
	}
}

// testFixture 핸들러와 주입된 협력자를 함께 보관하는 테스트 환경입니다.
type testFixture struct {
	handler  *Handler
	breakers *health.BreakerRegistry
	shutdown *health.ShutdownFlag
	alerts   *mocks.MockAlertSender
}

func newTestFixture(t *testing.T, probes ...health.Probe) *testFixture {
	t.Helper()
	return newTestFixtureWithGrace(t, time.Nanosecond, probes...)
}

func newTestFixtureWithGrace(t *testing.T, startupGrace time.Duration, probes ...health.Probe) *testFixture {
	t.Helper()

	registry := health.NewProbeRegistry()
	for _, p := range probes {
		registry.MustRegister(p)
	}

	breakers := health.NewBreakerRegistry(breaker.Config{})
	shutdown := health.NewShutdownFlag()

	agg := aggregator.New(aggregator.Deps{
		Probes:   registry,
		Breakers: breakers,
		Cache:    probecache.New(time.Minute),
		Shutdown: shutdown,
	}, aggregator.Config{
		ProbeTimeout: time.Second,
		StartupGrace: startupGrace,
	})

	// 알림 발송은 기본적으로 성공하는 것으로 취급한다.
	// 발송 내용을 검증하는 테스트는 alerts 필드로 호출 기록을 확인한다.
	alerts := &mocks.MockAlertSender{}
	alerts.On("TrySend", mock.Anything, mock.Anything).Return(nil).Maybe()

	return &testFixture{
		handler:  NewHandler(agg, breakers, alerts),
		breakers: breakers,
		shutdown: shutdown,
		alerts:   alerts,
	}
}

// doRequest 핸들러를 직접 호출하고 기록된 응답을 반환합니다.
func doRequest(t *testing.T, handlerFunc echo.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handlerFunc(c)
	require.NoError(t, err)

	return rec
}

// =============================================================================
// 생성자 테스트
// =============================================================================

func TestNewHandler_Panics(t *testing.T) {
	t.Parallel()

	fixture := newTestFixture(t)
	breakers := health.NewBreakerRegistry(breaker.Config{})

	assert.PanicsWithValue(t, constants.PanicMsgAggregatorRequired, func() {
		NewHandler(nil, breakers, fixture.alerts)
	})
	assert.PanicsWithValue(t, constants.PanicMsgBreakerRegistryRequired, func() {
		NewHandler(fixture.handler.aggregator, nil, fixture.alerts)
	})
	assert.PanicsWithValue(t, constants.PanicMsgAlertSenderRequired, func() {
		NewHandler(fixture.handler.aggregator, breakers, nil)
	})
}

// =============================================================================
// 종합 헬스체크 테스트
// =============================================================================

// TestHealthHandler_Table은 전체 상태에 따른 HTTP 상태 코드 매핑을 검증합니다.
//
// 검증 항목:
//   - healthy/degraded는 200, unhealthy만 503
//   - 응답 본문의 전체 상태, 의존성별 결과, 집계 요약
func TestHealthHandler_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		probes         []health.Probe
		expectedStatus int
		expectedHealth health.Status
		verify         func(t *testing.T, aggregated health.AggregateHealth)
	}{
		{
			name: "성공: 모든 의존성 정상 - 200",
			probes: []health.Probe{
				stubHealthy("postgres-main", true),
				stubHealthy("redis-cache", true),
			},
			expectedStatus: http.StatusOK,
			expectedHealth: health.StatusHealthy,
			verify: func(t *testing.T, aggregated health.AggregateHealth) {
				assert.Equal(t, 2, aggregated.Summary.HealthyCount)
				assert.Equal(t, 2, aggregated.Summary.Total)
				assert.Contains(t, aggregated.Results, "postgres-main")
				assert.Contains(t, aggregated.Results, "redis-cache")
			},
		},
		{
			name: "성공: 성능 저하 의존성 포함 - 200",
			probes: []health.Probe{
				stubHealthy("postgres-main", true),
				stubDegraded("redis-cache", false),
			},
			expectedStatus: http.StatusOK,
			expectedHealth: health.StatusDegraded,
			verify: func(t *testing.T, aggregated health.AggregateHealth) {
				assert.Equal(t, 1, aggregated.Summary.HealthyCount)
				assert.Equal(t, 1, aggregated.Summary.DegradedCount)
			},
		},
		{
			name: "성공: 사용 불가 의존성 포함 - 503",
			probes: []health.Probe{
				stubHealthy("postgres-main", true),
				stubUnhealthy("object-storage", false),
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: health.StatusUnhealthy,
			verify: func(t *testing.T, aggregated health.AggregateHealth) {
				assert.Equal(t, 1, aggregated.Summary.UnhealthyCount)
				assert.Equal(t, "연결 거부", aggregated.Results["object-storage"].Message)
			},
		},
		{
			name:           "성공: 등록된 의존성 없음 - 200",
			probes:         nil,
			expectedStatus: http.StatusOK,
			expectedHealth: health.StatusUnknown,
			verify: func(t *testing.T, aggregated health.AggregateHealth) {
				assert.Equal(t, 0, aggregated.Summary.Total)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fixture := newTestFixture(t, tt.probes...)

			rec := doRequest(t, fixture.handler.HealthHandler, http.MethodGet, "/health")

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var aggregated health.AggregateHealth
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &aggregated))
			assert.Equal(t, tt.expectedHealth, aggregated.OverallStatus)

			if tt.verify != nil {
				tt.verify(t, aggregated)
			}
		})
	}
}

// TestDetailedHandler_BypassesCache는 상세 점검이 캐시를 우회하는지 검증합니다.
func TestDetailedHandler_BypassesCache(t *testing.T) {
	t.Parallel()

	calls := 0
	probe := &stubProbe{
		name: "postgres-main",
		fn: func(ctx context.Context) health.ProbeResult {
			calls++
			return health.NewHealthyResult("연결 정상", time.Millisecond)
		},
	}

	fixture := newTestFixture(t, probe)

	// 첫 번째 호출로 캐시를 채운다.
	rec := doRequest(t, fixture.handler.HealthHandler, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, calls)

	// 캐시 유효 시간 이내의 일반 점검은 캐시를 재사용한다.
	rec = doRequest(t, fixture.handler.HealthHandler, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls, "캐시가 재사용되어야 합니다")

	// 상세 점검은 캐시를 우회하고 실제 점검을 수행한다.
	rec = doRequest(t, fixture.handler.DetailedHandler, http.MethodGet, "/health/detailed")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, calls, "상세 점검은 캐시를 우회해야 합니다")
}

// =============================================================================
// 준비/활성 상태 테스트
// =============================================================================

func TestReadinessHandler_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		probes         []health.Probe
		requestStop    bool
		expectedStatus int
		expectedReady  bool
		reasonContains string
	}{
		{
			name: "성공: 필수 의존성 정상 - 200",
			probes: []health.Probe{
				stubHealthy("postgres-main", true),
				stubUnhealthy("object-storage", false), // 선택 의존성의 장애는 무시
			},
			expectedStatus: http.StatusOK,
			expectedReady:  true,
		},
		{
			name: "실패: 필수 의존성 사용 불가 - 503",
			probes: []health.Probe{
				stubUnhealthy("postgres-main", true),
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedReady:  false,
			reasonContains: "postgres-main",
		},
		{
			name: "실패: 종료 진행 중 - 503",
			probes: []health.Probe{
				stubHealthy("postgres-main", true),
			},
			requestStop:    true,
			expectedStatus: http.StatusServiceUnavailable,
			expectedReady:  false,
			reasonContains: "종료",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fixture := newTestFixture(t, tt.probes...)
			if tt.requestStop {
				fixture.shutdown.Request()
			}

			rec := doRequest(t, fixture.handler.ReadinessHandler, http.MethodGet, "/health/ready")

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var report health.ReadinessReport
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.Equal(t, tt.expectedReady, report.Ready)
			if tt.reasonContains != "" {
				assert.Contains(t, report.Reason, tt.reasonContains)
			}
		})
	}
}

func TestLivenessHandler_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		startupGrace   time.Duration
		requestStop    bool
		expectedStatus int
		expectedAlive  bool
	}{
		{
			name:           "성공: 시작 유예 경과 후 - 200",
			startupGrace:   time.Nanosecond,
			expectedStatus: http.StatusOK,
			expectedAlive:  true,
		},
		{
			name:           "실패: 시작 유예 시간 이내 - 503",
			startupGrace:   time.Hour,
			expectedStatus: http.StatusServiceUnavailable,
			expectedAlive:  false,
		},
		{
			name:           "실패: 종료 진행 중 - 503",
			startupGrace:   time.Nanosecond,
			requestStop:    true,
			expectedStatus: http.StatusServiceUnavailable,
			expectedAlive:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fixture := newTestFixtureWithGrace(t, tt.startupGrace, stubHealthy("postgres-main", true))
			if tt.requestStop {
				fixture.shutdown.Request()
			}

			// 시작 유예 경과를 보장하기 위한 최소 대기
			if tt.startupGrace == time.Nanosecond {
				time.Sleep(time.Millisecond)
			}

			rec := doRequest(t, fixture.handler.LivenessHandler, http.MethodGet, "/health/live")

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var report health.LivenessReport
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.Equal(t, tt.expectedAlive, report.Alive)
			assert.GreaterOrEqual(t, report.UptimeS, 0.0)
		})
	}
}

// =============================================================================
// 서킷 브레이커 엔드포인트 테스트
// =============================================================================

func TestCircuitBreakersHandler(t *testing.T) {
	t.Parallel()

	fixture := newTestFixture(t)

	// 브레이커 두 개를 준비하고 하나를 강제로 연다.
	fixture.breakers.GetOrCreate("redis-cache")
	opened := fixture.breakers.GetOrCreate("postgres-main")
	for i := 0; i < breaker.DefaultFailureThreshold; i++ {
		opened.RecordFailure(fmt.Errorf("connection refused"))
	}

	rec := doRequest(t, fixture.handler.CircuitBreakersHandler, http.MethodGet, "/health/circuit-breakers")

	assert.Equal(t, http.StatusOK, rec.Code)

	var listResponse system.BreakerListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResponse))

	assert.Equal(t, 2, listResponse.Count)
	require.Len(t, listResponse.Breakers, 2)

	// 이름 순 정렬 확인
	assert.Equal(t, "postgres-main", listResponse.Breakers[0].Name)
	assert.Equal(t, "redis-cache", listResponse.Breakers[1].Name)

	// 열린 브레이커의 상태 반영 확인
	assert.True(t, listResponse.Breakers[0].IsOpen)
	assert.False(t, listResponse.Breakers[1].IsOpen)
}

func TestResetCircuitBreakerHandler_Table(t *testing.T) {
	tests := []struct {
		name           string
		breakerName    string
		prepare        func(fixture *testFixture)
		setupContext   func(c echo.Context)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "성공: 열린 브레이커 초기화",
			breakerName: "postgres-main",
			prepare: func(fixture *testFixture) {
				cb := fixture.breakers.GetOrCreate("postgres-main")
				for i := 0; i < breaker.DefaultFailureThreshold; i++ {
					cb.RecordFailure(fmt.Errorf("connection refused"))
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "성공: 인증된 애플리케이션 정보와 함께 초기화",
			breakerName: "postgres-main",
			prepare: func(fixture *testFixture) {
				fixture.breakers.GetOrCreate("postgres-main")
			},
			setupContext: func(c echo.Context) {
				auth.SetApplication(c, &domain.Application{ID: "ops-dashboard", Title: "운영 대시보드"})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "실패: 등록되지 않은 브레이커 - 404",
			breakerName:    "ghost",
			prepare:        func(fixture *testFixture) {},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    fmt.Sprintf(constants.ErrMsgNotFoundBreaker, "ghost"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newTestFixture(t)
			tt.prepare(fixture)

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/health/reset-circuit-breaker/"+tt.breakerName, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames(constants.PathParamBreakerName)
			c.SetParamValues(tt.breakerName)
			if tt.setupContext != nil {
				tt.setupContext(c)
			}

			err := fixture.handler.ResetCircuitBreakerHandler(c)

			if tt.expectedStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)

				var resetResponse system.BreakerResetResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resetResponse))
				assert.Equal(t, 0, resetResponse.ResultCode)
				assert.Equal(t, tt.breakerName, resetResponse.Breaker.Name)
				assert.False(t, resetResponse.Breaker.IsOpen, "초기화 직후에는 닫힘 상태여야 합니다")
				assert.Equal(t, 0, resetResponse.Breaker.ConsecutiveFailures)
			} else {
				var he *echo.HTTPError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, tt.expectedStatus, he.Code)
				if tt.expectedMsg != "" {
					errorResponse, ok := he.Message.(response.ErrorResponse)
					require.True(t, ok)
					assert.Equal(t, tt.expectedMsg, errorResponse.Message)
				}
			}
		})
	}
}

// TestResetCircuitBreakerHandler_Alert는 초기화 성공 시 관리자 알림이 발송되는지 검증합니다.
//
// 검증 항목:
//   - 알림 본문에 브레이커 이름과 요청 주체(애플리케이션 ID)가 포함됨
//   - 알림 대기열이 가득 차도 초기화 응답은 성공(200)으로 유지됨
func TestResetCircuitBreakerHandler_Alert(t *testing.T) {
	t.Parallel()

	newResetContext := func(fixture *testFixture) echo.Context {
		fixture.breakers.GetOrCreate("redis-cache")

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/health/reset-circuit-breaker/redis-cache", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames(constants.PathParamBreakerName)
		c.SetParamValues("redis-cache")
		auth.SetApplication(c, &domain.Application{ID: "ops-dashboard"})
		return c
	}

	t.Run("Notifies With Breaker Name And Actor", func(t *testing.T) {
		t.Parallel()

		fixture := newTestFixture(t)
		c := newResetContext(fixture)

		require.NoError(t, fixture.handler.ResetCircuitBreakerHandler(c))

		fixture.alerts.AssertCalled(t, "TrySend", mock.Anything, mock.MatchedBy(func(alert contract.Alert) bool {
			return alert.Title == constants.AlertTitleBreakerReset &&
				strings.Contains(alert.Message, "redis-cache") &&
				strings.Contains(alert.Message, "ops-dashboard")
		}))
	})

	t.Run("Queue Full Does Not Fail Request", func(t *testing.T) {
		t.Parallel()

		fixture := newTestFixture(t)

		// 기본 기대(성공)보다 먼저 등록하여 대기열 가득 참 상황을 재현한다.
		fixture.alerts.ExpectedCalls = nil
		fixture.alerts.On("TrySend", mock.Anything, mock.Anything).Return(alertpkg.ErrQueueFull)

		c := newResetContext(fixture)

		require.NoError(t, fixture.handler.ResetCircuitBreakerHandler(c))
		assert.Equal(t, http.StatusOK, c.Response().Status)
	})

	t.Run("No Alert On Unknown Breaker", func(t *testing.T) {
		t.Parallel()

		fixture := newTestFixture(t)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/health/reset-circuit-breaker/ghost", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames(constants.PathParamBreakerName)
		c.SetParamValues("ghost")

		err := fixture.handler.ResetCircuitBreakerHandler(c)
		require.Error(t, err)

		fixture.alerts.AssertNotCalled(t, "TrySend", mock.Anything, mock.Anything)
	})
}

// TestResetCircuitBreakerHandler_AuditLog는 초기화 주체가 감사 로그에 기록되는지 검증합니다.
func TestResetCircuitBreakerHandler_AuditLog(t *testing.T) {
	// 로그 캡처를 위해 직렬 실행
	buf := new(bytes.Buffer)
	originalOut := applog.StandardLogger().Out
	originalFormatter := applog.StandardLogger().Formatter
	applog.SetOutput(buf)
	applog.SetFormatter(&applog.JSONFormatter{})
	defer func() {
		applog.SetOutput(originalOut)
		applog.SetFormatter(originalFormatter)
	}()

	fixture := newTestFixture(t)
	fixture.breakers.GetOrCreate("redis-cache")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/health/reset-circuit-breaker/redis-cache", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(constants.PathParamBreakerName)
	c.SetParamValues("redis-cache")
	auth.SetApplication(c, &domain.Application{ID: "ops-dashboard"})

	require.NoError(t, fixture.handler.ResetCircuitBreakerHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// 브레이커 자체의 초기화 로그 뒤에 핸들러의 감사 로그가 기록된다.
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &logEntry))

	assert.Equal(t, constants.LogMsgBreakerResetByUser, logEntry["msg"])
	assert.Equal(t, "redis-cache", logEntry["breaker"])
	assert.Equal(t, "ops-dashboard", logEntry["application_id"])
}
