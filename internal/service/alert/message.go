package alert

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/darkkaiser/healthwatch-server/internal/service/contract"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
	"github.com/darkkaiser/healthwatch-server/pkg/strutil"
)

const (
	// maxTitleLength 제목의 최대 길이 제한
	// 너무 긴 제목으로 인해 HTML 태그가 닫히지 않은 채 메시지가 분할되는 문제를 방지합니다.
	maxTitleLength = 200

	// titleFormat 제목이 포함된 메시지 포맷
	// 형식: "<b>【 제목 】</b>\n\n원본메시지"
	titleFormat = "<b>【 %s 】</b>\n\n%s"

	// transitionFormat 의존성 상태 전이 표시 포맷
	// 형식: "상태 변화: healthy → unhealthy" (복구 시 "상태 복구")
	transitionFormat = "%s: %s → %s\n\n%s"

	// checkedAtFormat 상태 변화를 감지한 점검 시각 표시 포맷
	checkedAtFormat = "%s\n\n(%s 기준)"

	// errorFormat 오류성 알림의 메시지 포맷
	// 메시지 하단에 경고 문구를 추가하여 관리자의 주의를 환기시킵니다.
	errorFormat = "%s\n\n*** 오류가 발생하였습니다. ***"
)

// buildAlertMessage 알림 데이터를 텔레그램 메시지 문자열로 조립합니다.
//
// 메시지 본문을 시작점으로 상태 전이 정보, 점검 시각, 제목, 오류 강조
// 표시를 차례로 덧붙입니다. 제목은 HTML 이스케이프를 거치지만, 본문은
// 호출하는 쪽이 <b>와 같은 태그로 서식화할 수 있도록 그대로 허용합니다.
func buildAlertMessage(alert contract.Alert) string {
	message := alert.Message

	// 1단계: 상태 전이 정보 추가
	message = withTransition(alert, message)

	// 2단계: 점검 시각 추가
	message = withCheckedAt(alert, message)

	// 3단계: 제목 추가
	message = withTitle(alert, message)

	// 4단계: 오류 발생 시 강조 표시 추가
	if alert.ErrorOccurred {
		message = fmt.Sprintf(errorFormat, message)
	}

	return message
}

// withTransition 상태 전이 알림인 경우, 이전/이후 상태를 본문 위에 표시합니다.
func withTransition(alert contract.Alert, message string) string {
	if !alert.IsTransition() {
		return message
	}

	label := "상태 변화"
	if alert.IsRecovery() {
		label = "상태 복구"
	}

	return fmt.Sprintf(transitionFormat, label, alert.Previous, alert.Current, message)
}

// withCheckedAt 점검 시각이 있는 경우, 본문 하단에 기준 시각을 표시합니다.
func withCheckedAt(alert contract.Alert, message string) string {
	if alert.CheckedAt.IsZero() {
		return message
	}

	return fmt.Sprintf(checkedAtFormat, message, alert.CheckedAt.Format("2006-01-02 15:04:05"))
}

// withTitle 메시지에 제목을 포함시킵니다.
//
// 제목이 명시되지 않은 전이 알림은 의존성 이름을 제목으로 사용합니다.
// 긴 제목으로 인해 HTML 태그가 닫히지 않은 채 메시지가 분할되는 문제를
// 방지하기 위해 Truncate 처리합니다.
// 중요: Truncate를 먼저 수행한 후 이스케이프해야 안전합니다.
// 이스케이프된 문자열을 자르면 '&lt;' 따위가 잘려서 HTML 파싱 에러를 유발할 수 있습니다.
func withTitle(alert contract.Alert, message string) string {
	title := alert.Title
	if title == "" {
		title = alert.Dependency
	}
	if title == "" {
		return message
	}

	safeTitle := html.EscapeString(strutil.Truncate(title, maxTitleLength))
	return fmt.Sprintf(titleFormat, safeTitle, message)
}

// sendAlert 알림 한 건을 메시지로 조립하여 텔레그램으로 전송합니다.
//
// 개별 알림 전송에 제한 시간을 두어, 텔레그램 API 지연이 Sender 워커
// 루프 전체를 막지 않도록 합니다.
func (s *Service) sendAlert(ctx context.Context, alert contract.Alert) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	s.sendMessage(ctx, buildAlertMessage(alert))
}

// sendMessage 긴 메시지를 텔레그램 API 제한에 맞춰 분할하여 전송합니다.
//
// 텔레그램 Bot API는 단일 메시지의 최대 길이를 4096 바이트로 제한하며,
// 이를 초과하는 메시지를 그대로 전송하면 400 Bad Request가 발생합니다.
//
// 분할 전략:
//
//  1. 논리적 분할: 가능한 한 줄바꿈(\n) 단위로 메시지를 나누어
//     문장이나 항목이 중간에 잘리지 않도록 보장합니다.
//  2. 강제 분할: 한 줄 자체가 제한을 초과하는 경우에만 강제로 자르되,
//     UTF-8 문자 경계를 존중하여 멀티바이트 문자가 깨지지 않도록 합니다.
//  3. 순차 전송 및 조기 중단: 분할된 청크는 순서대로 전송되며, 전송 실패나
//     컨텍스트 취소 시 즉시 중단하여 불필요한 API 호출을 방지합니다.
func (s *Service) sendMessage(ctx context.Context, message string) {
	// 짧은 메시지는 즉시 전송
	if len(message) <= messageMaxLength {
		_ = s.sendChunk(ctx, message)
		return
	}

	var sb strings.Builder
	sb.Grow(messageMaxLength)

	lines := strings.SplitSeq(message, "\n")
	for line := range lines {
		// 긴 메시지를 처리하는 중에도 취소에 빠르게 반응한다
		if ctx.Err() != nil {
			return
		}

		neededSpace := len(line)
		if sb.Len() > 0 {
			neededSpace += 1 // 줄바꿈 문자 공간
		}

		// 현재 청크 + (줄바꿈) + 새 라인이 최대 길이를 넘으면
		if sb.Len()+neededSpace > messageMaxLength {
			// 현재까지 모은 청크가 있다면 먼저 전송
			if sb.Len() > 0 {
				if err := s.sendChunk(ctx, sb.String()); err != nil {
					return // 전송 실패 시 중단
				}
				sb.Reset()
			}

			// 현재 라인 자체가 최대 길이보다 길다면 강제로 자름
			// 중요: 한글 등 멀티바이트 문자가 깨지지 않도록 Safe Split 수행
			if len(line) > messageMaxLength {
				currentLine := line
				for len(currentLine) > messageMaxLength {
					if ctx.Err() != nil {
						return
					}

					chunk, remainder := safeSplit(currentLine, messageMaxLength)
					if err := s.sendChunk(ctx, chunk); err != nil {
						return // 전송 실패 시 중단
					}
					currentLine = remainder
				}
				// 자르고 남은 뒷부분을 새로운 청크의 시작으로 설정
				sb.WriteString(currentLine)
			} else {
				// 현재 라인은 최대 길이 이내이므로 새로운 청크로 설정
				sb.WriteString(line)
			}
		} else {
			// 청크에 라인 추가
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line)
		}
	}

	// 마지막 남은 청크 전송
	if sb.Len() > 0 {
		_ = s.sendChunk(ctx, sb.String())
	}
}

// sendChunk 단일 메시지 청크를 텔레그램 API로 전송합니다.
// HTML 파싱 모드를 활성화하여 전송하며, 실패 시 자동으로 재시도 로직이 적용됩니다.
func (s *Service) sendChunk(ctx context.Context, message string) error {
	return s.attemptSendWithRetry(ctx, message, true)
}

// attemptSendWithRetry 텔레그램 메시지 전송을 시도하며, 실패 시 자동으로 재시도합니다.
//
// 핵심 기능:
//
//  1. Rate Limiting: 텔레그램 API의 전송 횟수 제한을 자동으로 준수합니다.
//  2. 지능형 재시도: 재시도 가능한 에러(5xx, 429)와 불가능한 에러(4xx)를
//     구분하여 최대 3회까지 재시도합니다.
//  3. 적응형 대기: 429 에러 시 서버가 요청한 시간(Retry-After)만큼 대기합니다.
//  4. HTML Fallback: HTML 파싱 실패(400) 시 PlainText 모드로 전환하여 재시도합니다.
//     메시지 내용은 그대로 유지하되, 태그만 문자 그대로 표시하여 전송을 보장합니다.
//  5. 컨텍스트 인식: 취소 시그널이나 타임아웃을 재시도 대기 중에도 즉시 감지합니다.
//
// 매개변수:
//   - ctx: 메시지 전송 작업의 생명주기를 제어하는 컨텍스트
//   - message: 전송할 메시지 내용 (이미 길이 제한 내로 분할된 상태)
//   - useHTML: true면 HTML 파싱 모드, false면 PlainText 모드
//
// 반환값:
//   - error: 최종 전송 실패 시 에러, 성공 시 nil
func (s *Service) attemptSendWithRetry(ctx context.Context, message string, useHTML bool) error {
	messageConfig := tgbotapi.NewMessage(s.chatID, message)
	if useHTML {
		messageConfig.ParseMode = tgbotapi.ModeHTML
	} else {
		messageConfig.ParseMode = "" // Plain Text
	}

	// 텔레그램 API Rate Limit 준수를 위해 발송 속도를 제어합니다.
	// 지정된 속도를 초과하면 토큰이 확보될 때까지 대기하며,
	// 컨텍스트가 취소되면 Wait는 즉시 에러를 반환합니다.
	if s.rateLimiter != nil {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
				"limit": s.rateLimiter.Limit(),
				"burst": s.rateLimiter.Burst(),
			}).Debug("작업 중단: RateLimiter 대기 중 컨텍스트가 취소되었습니다")

			return err
		}
	}

	const maxRetries = 3
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		// 전송 전 컨텍스트 확인
		select {
		case <-ctx.Done():
			// 타임아웃 에러는 특별히 로그를 남깁니다 (운영 모니터링에 중요).
			if ctx.Err() == context.DeadlineExceeded {
				applog.WithComponentAndFields(component, applog.Fields{
					"error":   ctx.Err(),
					"attempt": attempt,
				}).Error("작업 중단: 발송 제한 시간(Timeout)을 초과하였습니다")
			}
			return ctx.Err()

		default:
		}

		// 텔레그램 API 호출
		_, err := s.client.Send(messageConfig)
		if err == nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"chat_id":        s.chatID,
				"attempt":        attempt,
				"mode":           formatParseMode(messageConfig.ParseMode),
				"message_length": len(message),
			}).Info("발송 성공: 텔레그램 API로 메시지가 정상 전송되었습니다")

			return nil
		}

		// 실패 처리 및 에러 분석
		lastErr = err
		applog.WithComponentAndFields(component, applog.Fields{
			"chat_id":        s.chatID,
			"attempt":        attempt,
			"error":          err,
			"mode":           formatParseMode(messageConfig.ParseMode),
			"message_length": len(message),
		}).Warn("발송 실패: 텔레그램 API 호출에서 오류가 발생했습니다 (재시도 예정)")

		errCode, retryAfter := parseTelegramError(err)

		// HTML Fallback 메커니즘
		// 400 Bad Request는 대부분 HTML 파싱 실패를 의미합니다.
		// HTML 모드를 끄고 PlainText 모드로 재귀 호출하되, 메시지 내용은 그대로 유지합니다.
		if useHTML && errCode == 400 {
			applog.WithComponentAndFields(component, applog.Fields{
				"error":          err,
				"attempt":        attempt,
				"message_length": len(message),
			}).Warn("HTML 파싱 오류(400): PlainText 모드로 자동 전환하여 재시도합니다 (Fallback)")

			return s.attemptSendWithRetry(ctx, message, false)
		}

		// 재시도 가능 여부 판단
		if !shouldRetry(errCode) {
			applog.WithComponentAndFields(component, applog.Fields{
				"chat_id": s.chatID,
				"error":   err,
				"code":    errCode,
				"attempt": attempt,
			}).Error("작업 중단: 재시도 불가능한 API 오류가 발생했습니다 (4xx Fatal Error)")

			return err
		}

		// 마지막 시도였다면 루프를 빠져나가 최종 실패 처리로 이동
		if attempt >= maxRetries {
			break
		}

		// 429 Rate Limit 에러 시 서버가 요청한 시간만큼 대기해야 합니다.
		if errCode == 429 && retryAfter > 0 {
			applog.WithComponentAndFields(component, applog.Fields{
				"retry_after": retryAfter,
				"attempt":     attempt,
			}).Warn("재시도 대기: 429 Rate Limit 감지 (Retry-After 준수)")
		}

		backoff := s.delayForRetry(retryAfter)
		select {
		case <-ctx.Done():
			// 대기 중 컨텍스트가 취소되면 즉시 반환
			if ctx.Err() == context.DeadlineExceeded {
				applog.WithComponentAndFields(component, applog.Fields{
					"error":   ctx.Err(),
					"backoff": backoff,
					"attempt": attempt,
				}).Error("재시도 중단: 대기 중 작업 제한 시간(Timeout)을 초과하였습니다")
			}
			return ctx.Err()

		case <-time.After(backoff):
			// 대기 시간이 경과하면 다음 재시도로 진행
		}
	}

	// 최종 실패 처리
	applog.WithComponentAndFields(component, applog.Fields{
		"chat_id":        s.chatID,
		"error":          lastErr,
		"max_retries":    maxRetries,
		"message_length": len(message),
		"use_html":       useHTML,
	}).Error("전송 최종 실패: 최대 재시도 횟수를 초과하였습니다")

	return lastErr
}

// shouldRetry 주어진 HTTP 상태 코드를 기반으로 메시지 전송 재시도 가능 여부를 판단합니다.
//
// HTTP 상태 코드 분류:
//   - 4xx (Client Error): 클라이언트 측 문제 → 재시도 불가능
//   - 429 (Too Many Requests): Rate Limit → 재시도 가능 (예외)
//   - 5xx (Server Error): 서버 측 일시적 문제 → 재시도 가능
func shouldRetry(statusCode int) bool {
	if statusCode >= 400 && statusCode < 500 {
		return statusCode == 429 // 429만 재시도 가능
	}

	// 5xx 서버 에러 및 기타 모든 에러는 재시도 가능 (네트워크 에러 등 errCode=0인 경우도 포함)
	return true
}

// delayForRetry 메시지 전송 실패 시, 다음 재시도까지의 대기 시간을 계산합니다.
//
// 텔레그램 API는 429 에러 발생 시 Retry-After 헤더로 대기 시간을 지정할 수 있습니다.
// 이 값을 우선 사용하고, 없으면 기본 대기 시간(retryDelay)을 사용합니다.
func (s *Service) delayForRetry(retryAfter int) time.Duration {
	if retryAfter > 0 {
		return time.Duration(retryAfter) * time.Second
	}
	return s.retryDelay
}

// formatParseMode 텔레그램 메시지 파싱 모드를 로깅용 문자열로 변환합니다.
func formatParseMode(mode string) string {
	if mode == tgbotapi.ModeHTML {
		return "HTML"
	}
	return "PlainText"
}

// parseTelegramError 텔레그램 API 에러에서 에러 코드와 Retry-After 값을 추출합니다.
//
// 반환값:
//   - code: HTTP 상태 코드 (예: 400, 401, 429, 500 등), 텔레그램 에러가 아니면 0
//   - retryAfter: 429 에러 시 서버가 요청한 대기 시간(초), 없으면 0
func parseTelegramError(err error) (code int, retryAfter int) {
	// 값 타입으로 어설션 시도
	if apiErr, ok := err.(tgbotapi.Error); ok {
		return apiErr.Code, apiErr.ResponseParameters.RetryAfter
	}

	// 포인터 타입으로 어설션 시도
	if apiErrPtr, ok := err.(*tgbotapi.Error); ok {
		return apiErrPtr.Code, apiErrPtr.ResponseParameters.RetryAfter
	}

	// 텔레그램 에러가 아닌 경우 (일반 네트워크 에러 등)
	return 0, 0
}

// safeSplit UTF-8 문자열을 지정된 바이트 길이(limit) 내에서 안전하게 분할합니다.
//
// 텔레그램 API의 메시지 길이 제한(바이트 단위)을 준수하면서
// 멀티바이트 문자(한글, 이모지 등)가 깨지지 않도록 보장합니다.
//
// 반환값:
//   - chunk: limit 이내의 안전하게 잘린 첫 번째 부분
//   - remainder: 나머지 부분 (빈 문자열일 수 있음)
func safeSplit(s string, limit int) (chunk, remainder string) {
	if len(s) <= limit {
		return s, ""
	}

	// limit 위치가 멀티바이트 문자의 중간일 수 있으므로,
	// 뒤로 이동하며 가장 가까운 룬 시작 위치를 찾습니다.
	splitIndex := limit
	for splitIndex > 0 && !utf8.RuneStart(s[splitIndex]) {
		splitIndex--
	}

	// splitIndex가 0까지 후퇴한 경우는 limit 이전에 유효한 룬 시작점이
	// 없다는 의미입니다. 강제로 limit에서 자르되, 깨진 문자는 감수합니다.
	if splitIndex == 0 {
		return s[:limit], s[limit:]
	}

	return s[:splitIndex], s[splitIndex:]
}
