package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/phazelsound/client/internal/model"
)

// AuthAPI - 게이트웨이 인증 엔드포인트 1:1 래퍼
type AuthAPI interface {
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
	VerifyOTP(ctx context.Context, email, code string) (string, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	ResendRegisterOTP(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req model.ResetPasswordRequest) (string, error)
}

// AuthClient implements AuthAPI over a Gateway.
type AuthClient struct {
	gw *Gateway
}

var _ AuthAPI = (*AuthClient)(nil)

// AuthClient 객체 생성
func NewAuthClient(gw *Gateway) *AuthClient {
	return &AuthClient{gw: gw}
}

// Messages returns the localized messages of the underlying transport.
func (c *AuthClient) Messages() Messages {
	return c.gw.Messages()
}

// POST /auth/register - 가입 후 서버가 OTP 메일 발송
func (c *AuthClient) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	return c.confirm(ctx, "/auth/register", req, nil)
}

// POST /auth/verify?email&otp - 계정 활성화
func (c *AuthClient) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	return c.confirm(ctx, "/auth/verify", nil, model.VerifyQuery{Email: email, OTP: code})
}

// POST /auth/login - 인증된 세션을 얻는 유일한 경로
func (c *AuthClient) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	body, err := c.gw.Send(ctx, http.MethodPost, "/auth/login", req, nil)
	if err != nil {
		return nil, err
	}

	var authResp model.AuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	return &authResp, nil
}

// POST /auth/resend-register-otp?email
func (c *AuthClient) ResendRegisterOTP(ctx context.Context, email string) (string, error) {
	return c.confirm(ctx, "/auth/resend-register-otp", nil, model.EmailQuery{Email: email})
}

// POST /auth/forgot-password?email
func (c *AuthClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.confirm(ctx, "/auth/forgot-password", nil, model.EmailQuery{Email: email})
}

// POST /auth/reset-password
func (c *AuthClient) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) (string, error) {
	return c.confirm(ctx, "/auth/reset-password", req, nil)
}

func (c *AuthClient) confirm(ctx context.Context, path string, body, params any) (string, error) {
	raw, err := c.gw.Send(ctx, http.MethodPost, path, body, params)
	if err != nil {
		return "", err
	}
	return decodeConfirmation(raw), nil
}

// decodeConfirmation accepts a plain-text body or a JSON string literal.
func decodeConfirmation(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal([]byte(text), &s); err == nil {
			return s
		}
	}
	return text
}
