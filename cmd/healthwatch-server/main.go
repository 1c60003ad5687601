package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/darkkaiser/healthwatch-server/internal/config"
	"github.com/darkkaiser/healthwatch-server/internal/health"
	"github.com/darkkaiser/healthwatch-server/internal/health/aggregator"
	"github.com/darkkaiser/healthwatch-server/internal/health/breaker"
	"github.com/darkkaiser/healthwatch-server/internal/health/probe"
	"github.com/darkkaiser/healthwatch-server/internal/health/probecache"
	"github.com/darkkaiser/healthwatch-server/internal/health/retryer"
	"github.com/darkkaiser/healthwatch-server/internal/pkg/version"
	"github.com/darkkaiser/healthwatch-server/internal/service"
	"github.com/darkkaiser/healthwatch-server/internal/service/alert"
	"github.com/darkkaiser/healthwatch-server/internal/service/api"
	"github.com/darkkaiser/healthwatch-server/internal/service/contract"
	"github.com/darkkaiser/healthwatch-server/internal/service/monitor"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
)

// @title HealthWatch Server API
// @version 1.0.0
// @description 서버가 의존하는 외부 구성 요소(데이터베이스, 캐시 저장소, 오브젝트 스토리지, 외부 API 등)의 상태를 주기적으로 점검하고 조회하는 REST API입니다.
// @description
// @description ## 주요 기능
// @description - 의존성별 상태 점검 및 종합 상태 보고
// @description - 준비/활성 상태 점검 (로드밸런서/오케스트레이터 연동)
// @description - 서킷 브레이커 상태 조회 및 수동 초기화
// @description - 외부 수집기를 위한 수치형 지표 제공
// @description
// @description ## 인증 방법
// @description 상태 조회 엔드포인트는 인증 없이 호출할 수 있습니다.
// @description 서킷 브레이커 초기화와 같은 변경 API는 사전에 등록된 App Key가 필요합니다.
// @description 설정 파일(healthwatch-server.json)의 health_api.applications에 애플리케이션을 등록한 후 사용하세요.

// @contact.name DarkKaiser
// @contact.url https://github.com/DarkKaiser
// @contact.email darkkaiser@gmail.com

// @license.name MIT
// @license.url https://github.com/DarkKaiser/healthwatch-server/blob/master/LICENSE

// @host healthwatch.darkkaiser.com:2443
// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-App-Key
// @description Application Key for authentication

const (
	banner = `
  _   _               _  _    _     __        __        _          _
 | | | |  ___   __ _ | || |_ | |__  \ \      / /  __ _ | |_   ___ | |__
 | |_| | / _ \ / _' || || __|| '_ \  \ \ /\ / /  / _' || __| / __|| '_ \
 |  _  ||  __/| (_| || || |_ | | | |  \ V  V /  | (_| || |_ | (__ | | | |
 |_| |_| \___| \__,_||_| \__||_| |_|   \_/\_/    \__,_| \__| \___||_| |_|
                                                     %s
                                                  developed by DarkKaiser
--------------------------------------------------------------------------------
`
)

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.Load()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	buildInfo := version.Get()
	fmt.Printf(banner, buildInfo.Version)

	// 빌드 정보 출력
	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 권장 설정 위반 사항 출력
	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 의존성 클라이언트를 생성하고 프로브를 등록한다.
	probeRegistry := health.NewProbeRegistry()

	if appConfig.Probes.Database.Enabled {
		// pgxpool은 연결을 지연 생성하므로, 기동 시점에 데이터베이스가 내려가
		// 있어도 서버는 시작되고 프로브가 사용 불가 상태를 보고한다.
		pool, err := pgxpool.New(context.Background(), appConfig.Probes.Database.DSN)
		if err != nil {
			log.Fatalf("데이터베이스 연결 풀 초기화에 실패하였습니다. DSN 설정을 확인해주세요. (error:%v)", err)
		}
		defer pool.Close()

		probeRegistry.MustRegister(probe.NewDatabaseProbe(pool, probe.DatabaseProbeConfig{
			Description: appConfig.Probes.Database.Description,
			Timeout:     appConfig.Probes.Database.PingTimeout,
			Critical:    appConfig.Probes.Database.Critical,
		}))
	}

	if appConfig.Probes.CacheStore.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     appConfig.Probes.CacheStore.Addr,
			Password: appConfig.Probes.CacheStore.Password,
			DB:       appConfig.Probes.CacheStore.DB,
		})
		defer redisClient.Close()

		probeRegistry.MustRegister(probe.NewRedisProbe(redisClient, probe.RedisProbeConfig{
			Description: appConfig.Probes.CacheStore.Description,
			Timeout:     appConfig.Probes.CacheStore.PingTimeout,
			Critical:    appConfig.Probes.CacheStore.Critical,
		}))
	}

	if appConfig.Probes.ObjectStorage.Enabled {
		minioClient, err := minio.New(appConfig.Probes.ObjectStorage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(appConfig.Probes.ObjectStorage.AccessKey, appConfig.Probes.ObjectStorage.SecretKey, ""),
			Secure: appConfig.Probes.ObjectStorage.UseSSL,
		})
		if err != nil {
			log.Fatalf("오브젝트 스토리지 클라이언트 초기화에 실패하였습니다. Endpoint 설정을 확인해주세요. (error:%v)", err)
		}

		probeRegistry.MustRegister(probe.NewObjectStorageProbe(minioClient, probe.ObjectStorageProbeConfig{
			Description: appConfig.Probes.ObjectStorage.Description,
			Bucket:      appConfig.Probes.ObjectStorage.Bucket,
			Timeout:     appConfig.Probes.ObjectStorage.Timeout,
			Critical:    appConfig.Probes.ObjectStorage.Critical,
		}))
	}

	if appConfig.Probes.Resources.Enabled {
		probeRegistry.MustRegister(probe.NewResourcesProbe(nil, probe.ResourcesProbeConfig{
			Description:           appConfig.Probes.Resources.Description,
			Critical:              appConfig.Probes.Resources.Critical,
			UnhealthyUsagePercent: appConfig.Probes.Resources.UnhealthyUsagePercent,
			DegradedUsagePercent:  appConfig.Probes.Resources.DegradedUsagePercent,
			UnhealthyDiskFraction: appConfig.Probes.Resources.UnhealthyDiskFraction,
			DegradedDiskFraction:  appConfig.Probes.Resources.DegradedDiskFraction,
		}))
	}

	for _, apiSettings := range appConfig.Probes.ExternalAPIs {
		probeRegistry.MustRegister(probe.NewHTTPProbe(nil, probe.HTTPProbeConfig{
			Name:            apiSettings.ID,
			Description:     apiSettings.Description,
			URL:             apiSettings.URL,
			Method:          apiSettings.Method,
			Timeout:         apiSettings.Timeout,
			Critical:        apiSettings.Critical,
			DegradedLatency: apiSettings.DegradedLatency,
			JSONPath:        apiSettings.JSONPath,
			JSONValue:       apiSettings.JSONValue,
			HTMLSelector:    apiSettings.HTMLSelector,
			Headers:         apiSettings.Headers,
		}))
	}

	// 상태 집계기를 구성한다.
	breakerRegistry := health.NewBreakerRegistry(breaker.Config{
		FailureThreshold: appConfig.Monitoring.Breaker.FailureThreshold,
		RecoveryTimeout:  appConfig.Monitoring.Breaker.RecoveryTimeout,
		HalfOpenMaxCalls: appConfig.Monitoring.Breaker.HalfOpenMaxCalls,
	})

	shutdownFlag := health.NewShutdownFlag()

	healthAggregator := aggregator.New(aggregator.Deps{
		Probes:   probeRegistry,
		Breakers: breakerRegistry,
		Cache:    probecache.New(appConfig.Monitoring.CacheTTL),
		Retryer: retryer.New("probe", retryer.Config{
			MaxRetries: appConfig.Monitoring.Retry.MaxRetries,
			BaseDelay:  appConfig.Monitoring.Retry.BaseDelay,
			MaxDelay:   appConfig.Monitoring.Retry.MaxDelay,
			Multiplier: appConfig.Monitoring.Retry.Multiplier,
		}),
		Shutdown: shutdownFlag,
	}, aggregator.Config{
		ProbeTimeout: appConfig.Monitoring.ProbeTimeout,
		StartupGrace: appConfig.Monitoring.StartupGrace,
	})

	// 서비스를 생성하고 초기화한다.
	// 알림이 비활성화된 경우에는 아무것도 전송하지 않는 Sender로 대체한다.
	var alertSender contract.AlertSender = alert.NewNopSender()
	var alertService *alert.Service
	if appConfig.Alert.Enabled {
		alertService = alert.NewService(appConfig)
		alertSender = alertService
	}

	monitorService := monitor.NewService(appConfig.Monitoring.Sweep, healthAggregator, alertSender)
	apiService := api.NewService(appConfig, healthAggregator, breakerRegistry, alertSender, buildInfo)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	// 서비스를 시작한다.
	// Alert 서비스를 가장 먼저 기동하여 이후 서비스들의 기동 실패 알림이 유실되지 않도록 한다.
	services := make([]service.Service, 0, 3)
	if alertService != nil {
		services = append(services, alertService)
	}
	services = append(services, monitorService, apiService)

	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC // Blocks here until interrupted

	// Handle shutdown
	applog.WithComponent("main").Info("Shutdown signal received")

	// 종료 플래그를 먼저 설정하여 활성/준비 상태 점검이 즉시 실패로 보고되도록
	// 한 후 서비스들을 중지한다. 로드밸런서가 새 트래픽을 거두어 갈 시간을 준다.
	shutdownFlag.Request()

	cancel()             // Signal cancellation to context.Context
	serviceStopWG.Wait() // Block here until all services are done
}
