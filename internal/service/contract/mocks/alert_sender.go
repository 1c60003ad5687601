package mocks

import (
	"context"

	"github.com/darkkaiser/healthwatch-server/internal/service/contract"
	"github.com/stretchr/testify/mock"
)

// 컴파일 타임에 contract.AlertSender 인터페이스 구현 여부를 검증합니다.
var _ contract.AlertSender = (*MockAlertSender)(nil)

// MockAlertSender는 contract.AlertSender 인터페이스의 Mock 구현체입니다.
// 이 Mock은 상태 전이 알림과 시스템 오류 알림의 발송 동작을 테스트하는 데 사용됩니다.
type MockAlertSender struct {
	mock.Mock
}

// Send는 알림 발송 요청을 대기열에 등록합니다.
func (m *MockAlertSender) Send(ctx context.Context, alert contract.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

// TrySend는 알림 발송 요청을 대기열에 등록 시도합니다.
func (m *MockAlertSender) TrySend(ctx context.Context, alert contract.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

// SendSystemError 시스템 오류 알림을 발송합니다.
func (m *MockAlertSender) SendSystemError(message string) error {
	args := m.Called(message)
	return args.Error(0)
}
