package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html/charset"

	"github.com/darkkaiser/healthwatch-server/internal/health"
)

// HTTPDoer 외부 API 프로브가 필요로 하는 최소 연산입니다.
// *http.Client가 이 인터페이스를 만족합니다.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProbeConfig 외부 API 프로브의 설정입니다.
type HTTPProbeConfig struct {
	// Name 프로브 식별자 (비어있으면 "external-api")
	Name string

	// Description 의존성 목록에 노출되는 설명 (비어있으면 기본 설명)
	Description string

	// URL 점검 대상 주소 (필수)
	URL string

	// Method HTTP 메서드 (비어있으면 GET)
	Method string

	// Timeout 요청의 제한 시간 (0 이하: 기본값 5초)
	Timeout time.Duration

	// Critical 준비 상태 판정에 포함할지 여부
	Critical bool

	// DegradedLatency 이 시간을 넘는 정상 응답을 성능 저하로 판정 (0: 미적용)
	DegradedLatency time.Duration

	// JSONPath 응답 본문에서 존재해야 하는 JSON 경로 (선택)
	JSONPath string

	// JSONValue JSONPath 값이 일치해야 하는 문자열 (선택, JSONPath 필요)
	JSONValue string

	// HTMLSelector 응답 문서에 존재해야 하는 CSS 선택자 (선택)
	HTMLSelector string

	// Headers 요청에 추가할 헤더 (선택)
	Headers map[string]string
}

// HTTPProbe 외부 API의 응답 가능 여부를 HTTP 요청으로 측정하는 프로브입니다.
//
// 전송 실패와 2xx가 아닌 상태 코드는 StatusUnhealthy로 판정합니다. 응답
// 본문 검증(JSON 경로, CSS 선택자)이 설정된 경우, 200 응답이라도 기대한
// 내용이 없으면 StatusUnhealthy로 판정합니다. 내용 검증을 모두 통과한
// 응답만 지연 시간 기준으로 StatusDegraded가 될 수 있습니다.
type HTTPProbe struct {
	name        string
	description string
	critical    bool
	config      HTTPProbeConfig

	client HTTPDoer
}

var _ health.Probe = (*HTTPProbe)(nil)

// NewHTTPProbe 외부 API 프로브를 생성합니다.
//
// 매개변수:
//   - client: 요청에 사용할 HTTP 클라이언트 (nil이면 기본 클라이언트 생성)
//   - config: 프로브 설정. URL이 비어있으면 panic이 발생합니다.
func NewHTTPProbe(client HTTPDoer, config HTTPProbeConfig) *HTTPProbe {
	if config.URL == "" {
		panic("외부 API 프로브의 URL은 필수입니다")
	}
	if config.Name == "" {
		config.Name = "external-api"
	}
	if config.Description == "" {
		config.Description = fmt.Sprintf("외부 API(%s)", config.URL)
	}
	if config.Method == "" {
		config.Method = http.MethodGet
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultProbeTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &HTTPProbe{
		name:        config.Name,
		description: config.Description,
		critical:    config.Critical,
		config:      config,
		client:      client,
	}
}

// Name 프로브의 식별자를 반환합니다.
func (p *HTTPProbe) Name() string {
	return p.name
}

// Kind 의존성 종류를 반환합니다.
func (p *HTTPProbe) Kind() health.DependencyKind {
	return health.KindExternalAPI
}

// Description 의존성 설명을 반환합니다.
func (p *HTTPProbe) Description() string {
	return p.description
}

// Critical 준비 상태 판정 포함 여부를 반환합니다.
func (p *HTTPProbe) Critical() bool {
	return p.critical
}

// Probe 외부 API의 응답 상태를 측정합니다.
func (p *HTTPProbe) Probe(ctx context.Context) health.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, p.config.Method, p.config.URL, nil)
	if err != nil {
		return health.NewUnhealthyResult("외부 API 요청 생성에 실패하였습니다.", 0).WithError(err)
	}
	for key, value := range p.config.Headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		return health.NewUnhealthyResult("외부 API 요청 전송에 실패하였습니다.", latency).WithError(err)
	}
	defer resp.Body.Close()

	details := map[string]any{
		"url":         p.config.URL,
		"status_code": resp.StatusCode,
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return health.NewUnhealthyResult(
			fmt.Sprintf("외부 API가 비정상 상태 코드를 반환하였습니다. (status:%s)", resp.Status), latency).
			WithDetails(details)
	}

	if result, ok := p.verifyBody(resp, latency, details); !ok {
		return result
	}

	if p.config.DegradedLatency > 0 && latency > p.config.DegradedLatency {
		return health.NewDegradedResult(
			fmt.Sprintf("외부 API 응답이 지연되고 있습니다. (%.0fms > %.0fms)",
				float64(latency.Milliseconds()), float64(p.config.DegradedLatency.Milliseconds())), latency).
			WithDetails(details)
	}

	return health.NewHealthyResult("외부 API가 정상 응답하고 있습니다.", latency).WithDetails(details)
}

// verifyBody 설정된 응답 본문 검증을 수행합니다. 검증에 실패하면
// 해당 프로브 결과와 false를 반환합니다.
func (p *HTTPProbe) verifyBody(resp *http.Response, latency time.Duration, details map[string]any) (health.ProbeResult, bool) {
	if p.config.JSONPath == "" && p.config.HTMLSelector == "" {
		return health.ProbeResult{}, true
	}

	// Content-Type 헤더를 기반으로 인코딩을 UTF-8로 변환
	utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return health.NewUnhealthyResult("외부 API 응답의 인코딩 변환이 실패하였습니다.", latency).
			WithError(err).
			WithDetails(details), false
	}

	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return health.NewUnhealthyResult("외부 API 응답 본문을 읽을 수 없습니다.", latency).
			WithError(err).
			WithDetails(details), false
	}

	if p.config.JSONPath != "" {
		value := gjson.GetBytes(body, p.config.JSONPath)
		if !value.Exists() {
			return health.NewUnhealthyResult(
				fmt.Sprintf("외부 API 응답에서 기대한 JSON 경로(%s)를 찾을 수 없습니다.", p.config.JSONPath), latency).
				WithDetails(details), false
		}
		if p.config.JSONValue != "" && value.String() != p.config.JSONValue {
			return health.NewUnhealthyResult(
				fmt.Sprintf("외부 API 응답의 JSON 경로(%s) 값이 기대값과 다릅니다. (%q != %q)",
					p.config.JSONPath, value.String(), p.config.JSONValue), latency).
				WithDetails(details), false
		}
	}

	if p.config.HTMLSelector != "" {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return health.NewUnhealthyResult("외부 API 응답 문서의 파싱이 실패하였습니다.", latency).
				WithError(err).
				WithDetails(details), false
		}
		if doc.Find(p.config.HTMLSelector).Length() <= 0 {
			return health.NewUnhealthyResult(
				fmt.Sprintf("외부 API 응답 문서에서 기대한 요소(%s)를 찾을 수 없습니다.", p.config.HTMLSelector), latency).
				WithDetails(details), false
		}
	}

	return health.ProbeResult{}, true
}
