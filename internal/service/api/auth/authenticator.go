// Package auth 변경 API 호출에 대한 애플리케이션 인증을 제공합니다.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/darkkaiser/healthwatch-server/internal/config"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/constants"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/httputil"
	"github.com/darkkaiser/healthwatch-server/internal/service/api/model/domain"
	applog "github.com/darkkaiser/healthwatch-server/pkg/log"
)

// Authenticator 애플리케이션 인증을 담당하는 인증자입니다.
//
// 이 구조체는 다음과 같은 역할을 수행합니다:
//   - 설정 파일에서 등록된 애플리케이션 정보를 메모리에 로드
//   - App Key를 통한 인증 처리
//   - 인증 실패 시 적절한 HTTP 에러 반환
//
// Authenticator는 서킷 브레이커 초기화처럼 시스템 상태를 변경하는
// 엔드포인트에서 공통으로 사용됩니다.
//
// 보안 고려사항:
//   - App Key 원문은 메모리에 보관하지 않고 SHA-256 해시로만 관리합니다.
//   - 인증 실패 로그에는 마스킹된 키만 기록됩니다.
//
// 동시성 안전성:
//   - sync.RWMutex를 사용하여 동시성 안전을 보장합니다.
//   - 여러 고루틴에서 동시에 Authenticate를 호출해도 안전합니다.
//   - 현재는 초기화 후 읽기 전용이지만, 향후 동적 추가/삭제 기능 확장 가능합니다.
//
// 사용 예시:
//
//	authenticator := auth.NewAuthenticator(appConfig)
//	app, err := authenticator.Authenticate(appKey)
//	if err != nil {
//	    return err // 401 Unauthorized
//	}
//	// app 사용
type Authenticator struct {
	mu                    sync.RWMutex
	applicationsByKeyHash map[string]*domain.Application
}

// NewAuthenticator 설정에서 애플리케이션을 로드하여 Authenticator를 생성합니다.
func NewAuthenticator(appConfig *config.AppConfig) *Authenticator {
	applications := make(map[string]*domain.Application)
	for _, application := range appConfig.HealthAPI.Applications {
		applications[hashAppKey(application.AppKey)] = &domain.Application{
			ID:          application.ID,
			Title:       application.Title,
			Description: application.Description,
		}
	}

	return &Authenticator{
		applicationsByKeyHash: applications,
	}
}

// Authenticate App Key로 애플리케이션을 찾고 인증을 수행합니다.
// 성공 시 Application 객체를 반환하고, 실패 시 401 HTTP 에러를 반환합니다.
//
// 이 메서드는 동시성 안전하며, 여러 고루틴에서 동시에 호출 가능합니다.
func (a *Authenticator) Authenticate(appKey string) (*domain.Application, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	app, ok := a.applicationsByKeyHash[hashAppKey(appKey)]
	if !ok {
		applog.WithComponentAndFields(constants.ComponentMiddlewareAuthentication, applog.Fields{
			"received_app_key": applog.MaskSensitiveData(appKey),
		}).Warn("인증 실패: 등록되지 않은 App Key")

		return nil, httputil.NewUnauthorizedError(constants.ErrMsgUnauthorizedInvalidAppKey)
	}

	return app, nil
}

// hashAppKey App Key의 SHA-256 해시를 16진수 문자열로 반환합니다.
func hashAppKey(appKey string) string {
	sum := sha256.Sum256([]byte(appKey))
	return hex.EncodeToString(sum[:])
}
