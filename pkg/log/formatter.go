package log

import "github.com/sirupsen/logrus"

// silentFormatter 아무 출력도 만들지 않는 포맷터입니다.
// logrus는 출력이 io.Discard여도 포맷팅 연산을 수행하므로, 기본 출력 경로의
// 불필요한 포맷팅 비용을 제거하기 위해 사용합니다. 실제 포맷팅은 hook이 수행합니다.
type silentFormatter struct{}

// Format 어떠한 변환도 수행하지 않습니다.
func (f *silentFormatter) Format(_ *logrus.Entry) ([]byte, error) {
	return nil, nil
}
