package system

import "github.com/darkkaiser/healthwatch-server/internal/health/breaker"

// BreakerListResponse 전체 서킷 브레이커 상태 조회 응답
type BreakerListResponse struct {
	// 등록된 서킷 브레이커 개수
	Count int `json:"count" example:"4"`
	// 이름 순으로 정렬된 서킷 브레이커 상태 스냅샷 목록
	Breakers []breaker.Snapshot `json:"breakers"`
}

// BreakerResetResponse 서킷 브레이커 초기화 응답
type BreakerResetResponse struct {
	// 처리 결과 코드 (0: 성공)
	ResultCode int `json:"result_code" example:"0"`
	// 초기화 직후의 서킷 브레이커 상태 스냅샷
	Breaker breaker.Snapshot `json:"breaker"`
}
