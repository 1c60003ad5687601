package monitor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/darkkaiser/healthwatch-server/internal/health"
	"github.com/darkkaiser/healthwatch-server/internal/health/breaker"
	"github.com/darkkaiser/healthwatch-server/internal/service/contract"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
)

// runSweep 일제 점검 한 번을 수행합니다.
//
// 모든 프로브를 강제로 재실행하여 결과 캐시를 갱신하고, 직전 점검과
// 비교하여 상태가 변화한 의존성과 개방/복구된 서킷 브레이커의 알림을
// 발송합니다.
//
// [컨텍스트 설계 배경]
//
// 점검 컨텍스트는 서비스 종료 시그널(serviceStopCtx)과 분리되어 있습니다.
// Graceful Shutdown 시 Cron 엔진이 실행 중인 점검의 완료를 대기하므로,
// 점검 도중의 컨텍스트 취소가 거짓 사용 불가 판정을 만들어 결과 캐시를
// 오염시키는 것을 방지합니다. 대신 sweepTimeout으로 무한 대기를 차단합니다.
// 알림 발송 요청에는 serviceStopCtx를 그대로 사용하여, 종료가 시작된
// 후에는 새로운 알림이 대기열에 쌓이지 않도록 합니다.
func (s *Monitor) runSweep(serviceStopCtx context.Context) {
	runID := uuid.NewString()
	startedAt := time.Now()

	applog.WithComponentAndFields(component, applog.Fields{
		"run_id": runID,
	}).Debug("일제 점검 시작")

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	report := s.aggregator.Refresh(ctx)

	alerts := s.diffReport(report)
	for _, alert := range alerts {
		s.notifyAlert(serviceStopCtx, runID, alert)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"run_id":         runID,
		"overall_status": report.OverallStatus,
		"healthy":        report.Summary.HealthyCount,
		"degraded":       report.Summary.DegradedCount,
		"unhealthy":      report.Summary.UnhealthyCount,
		"transitions":    len(alerts),
		"elapsed":        time.Since(startedAt).String(),
	}).Info("일제 점검 완료")
}

// diffReport 종합 상태 보고서를 직전 점검의 관측 결과와 비교하여,
// 발송할 알림 목록을 만들고 비교 기준점을 갱신합니다.
//
// 전이 판정 규칙:
//   - 의존성 상태가 직전 점검과 다르면 전이 알림을 생성합니다.
//   - 처음 관측된 의존성이 정상 상태이면 통지하지 않습니다. (기동 직후의 소음 방지)
//   - 서킷 브레이커의 개방 여부가 바뀌면 개방/복구 알림을 생성합니다.
func (s *Monitor) diffReport(report health.AggregateHealth) []contract.Alert {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	alerts := make([]contract.Alert, 0)

	// 의존성 상태 전이 (알림 순서 고정을 위해 이름순 정렬)
	names := make([]string, 0, len(report.Results))
	for name := range report.Results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := report.Results[name]

		previous, seen := s.lastStatuses[name]
		if !seen {
			previous = health.StatusUnknown
		}
		s.lastStatuses[name] = result.Status

		if result.Status == previous {
			continue
		}

		// 처음 관측된 의존성이 정상이라면 통지하지 않는다
		if !seen && result.Status == health.StatusHealthy {
			continue
		}

		alerts = append(alerts, contract.NewTransitionAlert(
			name, previous, result.Status, transitionMessage(result), result.CheckedAt,
		))
	}

	// 서킷 브레이커 개방/복구
	breakerNames := make([]string, 0, len(report.BreakerSnapshots))
	for name := range report.BreakerSnapshots {
		breakerNames = append(breakerNames, name)
	}
	sort.Strings(breakerNames)

	for _, name := range breakerNames {
		snapshot := report.BreakerSnapshots[name]

		wasOpen := s.lastBreakerOpen[name]
		s.lastBreakerOpen[name] = snapshot.IsOpen

		if snapshot.IsOpen == wasOpen {
			continue
		}

		alerts = append(alerts, newBreakerAlert(snapshot, report.GeneratedAt))
	}

	return alerts
}

// notifyAlert 알림 발송을 요청하고, 실패하면 경고 로그만 남깁니다.
// 알림 발송 실패가 점검 자체를 중단시키지는 않습니다.
func (s *Monitor) notifyAlert(serviceStopCtx context.Context, runID string, alert contract.Alert) {
	if err := s.alertSender.Send(serviceStopCtx, alert); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"run_id":     runID,
			"dependency": alert.Dependency,
			"error":      err,
		}).Error("알림 요청 실패: 상태 변화 알림을 대기열에 등록하지 못했습니다")
	}
}

// transitionMessage 상태 전이 알림의 본문을 만듭니다.
// 프로브가 보고한 설명을 기본으로 하고, 원인 에러와 응답 시간을 덧붙입니다.
func transitionMessage(result health.ProbeResult) string {
	var sb strings.Builder

	message := result.Message
	if message == "" {
		message = fmt.Sprintf("의존성 상태가 '%s'(으)로 변경되었습니다.", result.Status)
	}
	sb.WriteString(message)

	if result.Error != "" {
		sb.WriteString("\n오류: ")
		sb.WriteString(result.Error)
	}
	if result.LatencyMS > 0 {
		fmt.Fprintf(&sb, "\n응답 시간: %.1fms", result.LatencyMS)
	}

	return sb.String()
}

// newBreakerAlert 서킷 브레이커 개방/복구 이벤트 알림을 생성합니다.
func newBreakerAlert(snapshot breaker.Snapshot, checkedAt time.Time) contract.Alert {
	if snapshot.IsOpen {
		return contract.Alert{
			Dependency: snapshot.Name,
			Message: fmt.Sprintf(
				"서킷 브레이커가 열렸습니다. 연속 %d회 실패로 의존성 접근을 차단하며, 약 %.0f초 후 복구를 시도합니다.",
				snapshot.ConsecutiveFailures, snapshot.TimeUntilRetryS,
			),
			CheckedAt:     checkedAt,
			ErrorOccurred: true,
		}
	}

	return contract.Alert{
		Dependency: snapshot.Name,
		Message:    "서킷 브레이커가 닫혔습니다. 의존성 접근이 재개되었습니다.",
		CheckedAt:  checkedAt,
	}
}
