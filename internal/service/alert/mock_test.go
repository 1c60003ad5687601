package alert

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Telegram Client Mock
// =============================================================================

// 컴파일 타임에 client 인터페이스 구현 여부를 검증합니다.
var _ client = (*MockTelegramClient)(nil)

// MockTelegramClient 텔레그램 봇 API(client)의 Mock 구현체입니다.
// stretchr/testify/mock을 사용하여 동작을 모의(Mocking)하고 호출을 검증(Assertion)합니다.
type MockTelegramClient struct {
	mock.Mock
}

// NewMockTelegramClient 새로운 MockTelegramClient 인스턴스를 생성합니다.
// t를 전달하면, Mock 객체가 테스트 컨텍스트를 인지하여 실패 시 해당 테스트를 중단시킵니다.
func NewMockTelegramClient(t *testing.T) *MockTelegramClient {
	m := &MockTelegramClient{}
	m.Test(t)
	return m
}

// Send 메시지를 전송합니다.
//
// Mock 설정 예시:
//
//	mockClient.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
//	    msg, ok := c.(tgbotapi.MessageConfig)
//	    return ok && strings.Contains(msg.Text, "expected message")
//	})).Return(tgbotapi.Message{MessageID: 1}, nil)
func (m *MockTelegramClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)

	// 첫 번째 리턴값(Message) 처리
	var msg tgbotapi.Message
	if args.Get(0) != nil {
		msg = args.Get(0).(tgbotapi.Message)
	}

	// 두 번째 리턴값(error) 처리
	return msg, args.Error(1)
}
