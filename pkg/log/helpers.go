package log

import (
	log "github.com/sirupsen/logrus"
)

// WithComponent component 필드를 포함한 로그 Entry를 반환합니다.
// 모든 로그에 발생 지점(컴포넌트)을 일관되게 기록하기 위해 사용합니다.
func WithComponent(component string) *log.Entry {
	return log.WithFields(log.Fields{
		"component": component,
	})
}

// WithComponentAndFields component 필드와 추가 필드를 함께 포함한 로그 Entry를 반환합니다.
func WithComponentAndFields(component string, fields log.Fields) *log.Entry {
	newFields := make(log.Fields, len(fields)+1)
	for k, v := range fields {
		newFields[k] = v
	}
	newFields["component"] = component
	return log.WithFields(newFields)
}

// MaskSensitiveData 토큰, 앱 키 등의 민감 정보를 로그에 안전하게 남길 수 있도록 마스킹합니다.
func MaskSensitiveData(data string) string {
	if data == "" {
		return ""
	}

	// 3자 이하는 전체 마스킹
	if len(data) <= 3 {
		return "***"
	}

	// 앞 4자만 표시
	if len(data) <= 12 {
		return data[:4] + "***"
	}

	// 긴 값은 앞 4자 + 뒤 4자만 표시
	return data[:4] + "***" + data[len(data)-4:]
}
