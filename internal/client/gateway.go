// 인증 게이트웨이(Remote Auth Gateway)와 HTTP 통신하는 transport 정의
//
// 환경변수:
//   - PHAZEL_API_URL: 게이트웨이 URL (예: http://localhost:8080/api)
//   - PHAZEL_API_TIMEOUT: 요청 타임아웃 (default: 10s)
//
// 모든 실패는 *RemoteError 하나의 형태로 정규화된다.
//   - 응답 있음: body의 message -> error 필드, 없으면 기본 메시지
//   - 응답 없음: "cannot reach server"
// 재시도는 하지 않는다.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/phazelsound/client/internal/config"
	"github.com/phazelsound/client/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// 에러 body 읽기 상한
const maxErrorBody = 64 << 10

// Gateway - 게이트웨이 transport
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	messages   Messages
	log        *logrus.Logger
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithHTTPClient replaces the underlying http.Client. The timeout of the
// given client is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Gateway) {
		g.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logrus.Logger) Option {
	return func(g *Gateway) {
		g.log = l
	}
}

// Gateway 객체 생성
func NewGateway(cfg config.APIConfig, opts ...Option) *Gateway {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	g := &Gateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		messages: MessagesFor(cfg.Locale),
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BaseURL returns the gateway base address.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Messages returns the localized fallback messages in use.
func (g *Gateway) Messages() Messages {
	return g.messages
}

// Send performs one request against the gateway and returns the raw success
// body. body is JSON encoded when non-nil; params is encoded as the query
// string when non-nil.
func (g *Gateway) Send(ctx context.Context, method, path string, body, params any) ([]byte, error) {
	target, err := g.buildURL(path, params)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	entry := g.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		entry.WithError(err).WithField("duration", time.Since(start)).Warn("gateway unreachable")
		return nil, &RemoteError{Message: g.messages.Unreachable, cause: fmt.Errorf("%w: %w", ErrUnreachable, err)}
	}
	defer resp.Body.Close()

	entry = entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		remoteErr := &RemoteError{
			Status:  resp.StatusCode,
			Message: extractMessage(resp.Header.Get("Content-Type"), raw, g.messages.Fallback),
		}
		entry.WithField("error", remoteErr.Message).Warn("gateway returned error")
		return nil, remoteErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		// 본문 수신 중 연결이 끊긴 경우도 응답 없음으로 취급
		entry.WithError(err).Warn("failed to read gateway response")
		return nil, &RemoteError{Message: g.messages.Unreachable, cause: fmt.Errorf("%w: %w", ErrUnreachable, err)}
	}

	entry.Debug("gateway request completed")
	return data, nil
}

func (g *Gateway) buildURL(path string, params any) (string, error) {
	target := g.baseURL + "/" + strings.TrimLeft(path, "/")
	if params == nil {
		return target, nil
	}
	values, err := query.Values(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode query: %w", err)
	}
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target, nil
}

// extractMessage picks the user-facing message out of an error body:
// message, then error, of a JSON object; a JSON string literal; or a
// text/plain body. Anything else yields fallback.
func extractMessage(contentType string, raw []byte, fallback string) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fallback
	}

	switch trimmed[0] {
	case '{':
		var body struct {
			Message any `json:"message"`
			Error   any `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return fallback
		}
		if msg := stringField(body.Message); msg != "" {
			return msg
		}
		if msg := stringField(body.Error); msg != "" {
			return msg
		}
		return fallback
	case '"':
		var msg string
		if err := json.Unmarshal(trimmed, &msg); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
		return fallback
	}

	if strings.HasPrefix(strings.ToLower(contentType), "text/plain") {
		return string(trimmed)
	}
	return fallback
}

func stringField(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
