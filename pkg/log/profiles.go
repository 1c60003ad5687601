package log

// NewProductionOptions 운영(Production) 환경용 로그 설정을 반환합니다.
// 파일 중심 로깅과 레벨별 파일 분리를 활성화하여 장애 분석에 대비합니다.
func NewProductionOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: InfoLevel,

		MaxAge:     30,  // 30일 보관
		MaxSizeMB:  100, // 100MB 단위 로테이션
		MaxBackups: 20,  // 백업 최대 20개

		EnableCriticalLog: true,  // 장애 로그 격리 보존
		EnableVerboseLog:  true,  // 상세 로그 분리
		EnableConsoleLog:  false, // 콘솔 출력 비활성화

		ReportCaller:     true,
		CallerPathPrefix: "github.com/darkkaiser",
	}
}

// NewDevelopmentOptions 개발(Development) 환경용 로그 설정을 반환합니다.
// 모든 로그를 하나의 파일과 콘솔로 모아 개발 편의를 우선합니다.
func NewDevelopmentOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: TraceLevel,

		MaxAge:     1,  // 1일만 보관
		MaxSizeMB:  50, // 50MB 단위 로테이션
		MaxBackups: 5,  // 백업 최대 5개

		EnableCriticalLog: false, // 파일 분리 없이 통합
		EnableVerboseLog:  false, // 파일 분리 없이 통합
		EnableConsoleLog:  true,  // 콘솔 출력 활성화

		ReportCaller:     true,
		CallerPathPrefix: "github.com/darkkaiser",
	}
}
