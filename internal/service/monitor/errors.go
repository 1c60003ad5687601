package monitor

import (
	"fmt"

	apperrors "github.com/darkkaiser/healthwatch-server/internal/pkg/errors"
)

var (
	// ErrAggregatorNotInitialized 서비스 시작 시 핵심 의존성 객체인 Aggregator가 올바르게 초기화되지 않았을 때 반환하는 에러입니다.
	ErrAggregatorNotInitialized = apperrors.New(apperrors.Internal, "Aggregator 객체가 초기화되지 않았습니다")

	// ErrAlertSenderNotInitialized 서비스 시작 시 핵심 의존성 객체인 AlertSender가 올바르게 초기화되지 않았을 때 반환하는 에러입니다.
	ErrAlertSenderNotInitialized = apperrors.New(apperrors.Internal, "AlertSender 객체가 초기화되지 않았습니다")
)

// NewErrInvalidCronSpec Cron 표현식이 올바르지 않아 일제 점검 스케줄 등록에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrInvalidCronSpec(timeSpec string, cause error) error {
	return apperrors.New(apperrors.Internal, fmt.Sprintf("스케줄 등록 실패: 잘못된 Cron 표현식입니다 (TimeSpec='%s'): %v", timeSpec, cause))
}
