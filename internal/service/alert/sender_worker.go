package alert

import (
	"context"
	"time"

	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
)

// processAlerts 대기열로부터 알림 발송 요청을 수신하여 텔레그램으로 전송하는 작업 루프입니다.
//
// 이 메서드는 Start에서 시작된 고루틴에서 Sender 역할을 수행합니다.
// alertC 채널로부터 알림 요청을 지속적으로 수신하여 텔레그램 API로 전송하며,
// 전송 지연이 발생해도 요청 접수(Send/TrySend)에는 영향을 주지 않습니다.
//
// 주요 기능:
//
//   - 알림 요청을 순차적으로 처리하여 텔레그램 API로 전송합니다
//   - 2단계 패닉 복구: 루프 레벨 + 개별 알림 레벨에서 패닉을 복구합니다
//   - 서비스 종료 시 Drain 프로세스를 실행하여 대기열에 남은 알림을 처리합니다
//
// Graceful Shutdown (Drain):
//
//   - 종료 시그널 수신 후 drainRemainingAlerts()를 호출합니다
//   - 최대 60초간 alertC에 남아있는 모든 알림을 최대한 발송합니다
//   - 타임아웃 초과 시 남은 알림은 손실될 수 있습니다 (무한 대기 방지)
func (s *Service) processAlerts(serviceStopCtx context.Context) {
	// 안전장치: 루프 레벨 패닉 복구
	// 이 고루틴은 알림 발송을 전담하는 핵심 Sender 워커입니다.
	// 예기치 않은 런타임 오류(Panic)가 발생하더라도 프로세스 전체가 영향을
	// 받지 않도록 로그를 남기고 Sender 고루틴만 안전하게 종료합니다.
	defer func() {
		if r := recover(); r != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"chat_id": s.chatID,
				"panic":   r,
			}).Error("발송 프로세스 비정상 종료: Sender 고루틴 패닉 발생 (서비스 재시작 필요)")

			// Sender 고루틴이 죽으면 알림 기능이 마비되므로, 상태를 명시적으로
			// 'Closed'로 변경하여 외부에서 이를 인지할 수 있게 해야 합니다.
			// 그렇지 않으면 요청자는 정상으로 착각하여 알림을 계속 보내고,
			// 대기열이 가득 찰 때까지 알림이 유실되는 'Silent Failure'가 발생합니다.
			s.Close()
		}
	}()

	for {
		select {
		// Case A: 알림 발송 요청 수신 (정상 처리 흐름)
		case req, ok := <-s.alertC:
			// 참고: alertC는 다중 생산자 환경에서 패닉 방지를 위해 절대 닫히지
			// 않으므로(Close 참조) 이 분기는 방어 코드로만 존재합니다.
			if !ok {
				return
			}

			// 개별 알림 처리 (패닉 격리)
			// 익명 함수로 격리하여, 특정 알림 데이터의 문제로 인한 패닉이
			// 워커 루프 전체를 중단시키지 않도록 보장합니다.
			func() {
				defer func() {
					if r := recover(); r != nil {
						fields := applog.Fields{
							"chat_id": s.chatID,
							"panic":   r,
						}
						if req.Alert.Dependency != "" {
							fields["dependency"] = req.Alert.Dependency
						}
						applog.WithComponentAndFields(component, fields).Error("알림 처리 실패: 발송 로직 수행 중 패닉 발생 (해당 건 스킵)")
					}
				}()

				s.sendAlert(req.Ctx, req.Alert)
			}()

		// Case B: 서비스 종료 시그널 감지
		// 루프를 탈출하여 아래의 Drain(잔여 처리) 로직으로 이동합니다.
		case <-serviceStopCtx.Done():

		// Case C: 서비스 인스턴스 종료 감지 (Close 호출)
		// 루프를 탈출하여 아래의 Drain(잔여 처리) 로직으로 이동합니다.
		case <-s.done:
		}

		// 종료 처리: 잔여 알림 배출(Drain) 및 Graceful Shutdown
		if serviceStopCtx.Err() != nil || s.isClosed() {
			// 신규 접수를 먼저 차단해야 Drain이 수렴할 수 있다
			s.Close()

			s.drainRemainingAlerts()
			return
		}
	}
}

// drainRemainingAlerts Graceful Shutdown의 마지막 단계로, 대기열에 남아있는 알림을 처리합니다.
//
// serviceStopCtx가 취소된 후에도 alertC 채널에 남아있는 알림들을
// 최대한 발송하여 알림 손실을 최소화합니다.
//
// 설계 전략:
//
// Context 관리:
//   - serviceStopCtx는 이미 취소된 상태이므로 사용할 수 없습니다
//   - 새로운 drainCtx(60초 타임아웃)를 생성하여 텔레그램 API 호출이 가능하게 합니다
//
// Non-blocking 전략:
//   - select-default 패턴으로 채널이 비어있으면 즉시 종료합니다
//   - alertC는 절대 닫히지 않으므로 채널 닫힘을 기다리지 않습니다
//   - 타임아웃 초과 시 남은 알림을 버리고 강제 종료합니다
//
// 패닉 복구:
//   - 개별 알림 처리 중 패닉이 발생해도 Drain 프로세스는 계속됩니다
func (s *Service) drainRemainingAlerts() {
	// 1. Drain 전용 컨텍스트 생성 (Time-bound)
	// 프로세스가 무한정 종료되지 않는 것을 방지합니다.
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// 2. 경쟁 상태 방지: 적재 시도 중인 고루틴 대기 (Wait for Pending Sends)
	// 종료 직전에 Send()에 진입하여 대기열에 넣으려는 시도들이 완료될 때까지 기다립니다.
	// 이를 통해 "대기열 확인(Empty) → 종료 → 적재(Push)" 순서로 발생하는 알림 유실을 방지합니다.
	waitPendingSendsC := make(chan struct{})
	go func() {
		s.pendingSendsWG.Wait()
		close(waitPendingSendsC)
	}()

	waitPendingSendsCtx, waitPendingSendsCancel := context.WithTimeout(context.Background(), 6*time.Second)
	defer waitPendingSendsCancel()

	select {
	case <-waitPendingSendsC:
		// 대기 완료: 모든 요청자가 작업을 마침 (대기열에 넣었거나 포기했거나)

	case <-waitPendingSendsCtx.Done():
		// 대기 타임아웃: Pending Sends가 너무 오래 걸림 → 포기하고 Drain으로 넘어감
		applog.WithComponentAndFields(component, applog.Fields{
			"chat_id":     s.chatID,
			"timeout":     6 * time.Second,
			"queue_depth": len(s.alertC),
		}).Warn("Pending Sends 대기 중단: 대기 제한 시간 초과 (잔여 시간 동안 전송 시도)")
	}

	// 3. Non-blocking Drain Loop
Loop:
	for {
		select {
		// Case A: 잔여 알림 수신
		case req := <-s.alertC:
			// Drain 프로세스가 너무 오래 걸리면 강제 종료합니다.
			if drainCtx.Err() != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"chat_id":             s.chatID,
					"timeout":             shutdownTimeout,
					"remaining_in_buffer": len(s.alertC),
				}).Warn("잔여 알림 폐기: 종료 대기 시간(Drain Timeout) 초과")

				break Loop
			}

			// 개별 알림 최대한 발송 (패닉 격리)
			func() {
				defer func() {
					if r := recover(); r != nil {
						fields := applog.Fields{
							"chat_id": s.chatID,
							"panic":   r,
						}
						if req.Alert.Dependency != "" {
							fields["dependency"] = req.Alert.Dependency
						}
						applog.WithComponentAndFields(component, fields).Error("잔여 알림 처리 실패: Drain 로직 수행 중 패닉 발생 (해당 건 스킵)")
					}
				}()

				// 중요: serviceStopCtx(취소됨)가 아닌 drainCtx(유효함)를 사용해야
				// 텔레그램 API 호출이 정상적으로 수행됩니다.
				s.sendAlert(drainCtx, req.Alert)
			}()

		// Case B: 채널 비어있음 (Drain 완료)
		default:
			break Loop
		}
	}
}
