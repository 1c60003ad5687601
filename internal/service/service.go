// Package service 애플리케이션을 구성하는 장기 실행 서비스들의 공통
// 생명주기 규약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 백그라운드에서 동작하는 장기 실행 서비스의 공통 인터페이스입니다.
//
// 모든 서비스는 Start 호출로 기동되어 별도의 고루틴에서 실행되며,
// serviceStopCtx가 취소되면 정리 작업을 마친 후 serviceStopWG.Done()을
// 호출하여 종료 완료를 알립니다.
type Service interface {
	// Start 서비스를 시작합니다.
	//
	// 매개변수:
	//   - serviceStopCtx: 서비스 종료 신호를 전달받는 컨텍스트
	//   - serviceStopWG: 서비스 종료 완료를 보고하는 WaitGroup
	//
	// 반환값:
	//   - error: 서비스 초기화에 실패한 경우의 에러
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
