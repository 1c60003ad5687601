package cronx

import (
	"fmt"
	"strings"
)

// Validate 주어진 Cron 표현식이 애플리케이션 표준 형식에 맞는지 검증합니다.
//
// StandardParser와 동일한 6필드(초 단위 포함) 확장 형식을 기준으로 하며,
// 표현식 앞뒤의 공백은 무시됩니다.
func Validate(spec string) error {
	if _, err := StandardParser().Parse(strings.TrimSpace(spec)); err != nil {
		return fmt.Errorf("Cron 표현식 파싱 실패(spec=%q): %w", spec, err)
	}
	return nil
}
