package constants

import "time"

// HTTP 서버 타임아웃 기본값 상수입니다.
const (
	// DefaultRequestTimeout HTTP 요청 처리의 기본 타임아웃 시간 (60초)
	// 별도의 타임아웃 설정이 없는 경우 이 값이 적용되며, 요청 처리가 이 시간을 초과하면
	// 자동으로 취소되어 서버 리소스를 보호합니다.
	DefaultRequestTimeout = 60 * time.Second

	// DefaultReadTimeout 요청 전체(헤더+본문) 읽기 최대 대기 시간 (15초)
	DefaultReadTimeout = 15 * time.Second

	// DefaultReadHeaderTimeout HTTP 헤더 읽기 최대 대기 시간 (10초)
	// Slowloris DoS 공격을 방어하기 위해 헤더를 매우 느리게 전송하는
	// 악의적인 클라이언트의 연결 고갈 공격을 방지합니다.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultWriteTimeout 응답 쓰기 최대 대기 시간 (30초)
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout Keep-Alive 연결의 최대 유휴 시간 (120초)
	DefaultIdleTimeout = 120 * time.Second
)

// 요청 제한 관련 기본값 상수입니다.
const (
	// DefaultRateLimitPerSecond IP별 초당 허용 요청 수 (20 req/s)
	DefaultRateLimitPerSecond = 20

	// DefaultRateLimitBurst IP별 버스트 허용량 (40)
	DefaultRateLimitBurst = 40

	// DefaultMaxBodySize 요청 본문의 최대 크기 (128KB)
	// 상태 조회 API는 요청 본문을 사용하지 않으므로 작게 제한하여
	// 대용량 요청으로 인한 메모리 고갈을 방지합니다.
	DefaultMaxBodySize = "128K"
)
