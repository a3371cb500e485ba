// 인증 화면 컨트롤러
//
// 처리 흐름:
//  1. 입력 검증 (실패 시 요청하지 않음)
//  2. 버튼별 action으로 중복 실행 방지
//  3. AuthAPI 호출
//  4. 로그인 성공 시 session store 갱신
//  5. 모든 실패는 *Notice 하나로 변환

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/phazelsound/client/internal/action"
	"github.com/phazelsound/client/internal/client"
	"github.com/phazelsound/client/internal/logging"
	"github.com/phazelsound/client/internal/model"
	"github.com/phazelsound/client/internal/session"
	"github.com/phazelsound/client/internal/validation"
)

var (
	ErrCodeIncomplete = errors.New("otp code incomplete")
	ErrResendLocked   = errors.New("otp resend not yet allowed")
	ErrMissingTokens  = errors.New("login response carries no tokens")
)

// Button - 화면의 제출 버튼
type Button string

const (
	ButtonRegister Button = "register"
	ButtonVerify   Button = "verify"
	ButtonResend   Button = "resend"
	ButtonLogin    Button = "login"
	ButtonForgot   Button = "forgot-password"
	ButtonReset    Button = "reset-password"
)

var buttons = []Button{ButtonRegister, ButtonVerify, ButtonResend, ButtonLogin, ButtonForgot, ButtonReset}

// 작업별 기본 실패 메시지
const (
	registerFailed = "Registration failed"
	verifyFailed   = "Verification failed"
	resendFailed   = "Could not resend the OTP code"
	loginFailed    = "Login failed"
	forgotFailed   = "Could not send the OTP code"
	resetFailed    = "Could not reset the password"
)

// AuthService drives the authentication screens.
type AuthService struct {
	api       client.AuthAPI
	store     *session.Store
	validator *validation.Validator
	actions   map[Button]*action.Action
	messages  client.Messages
	log       *logrus.Logger
}

// 연결 실패 메시지를 transport와 맞추기 위해 api가 구현할 수 있는 인터페이스
type messageSource interface {
	Messages() client.Messages
}

// AuthService 객체 생성. notify는 버튼 상태 변경(busy 표시)을 받는다
func NewAuthService(api client.AuthAPI, store *session.Store, validator *validation.Validator, log *logrus.Logger, notify func(Button, action.State)) *AuthService {
	if log == nil {
		log = logging.Discard()
	}
	s := &AuthService{
		api:       api,
		store:     store,
		validator: validator,
		actions:   make(map[Button]*action.Action, len(buttons)),
		messages:  client.MessagesFor(""),
		log:       log,
	}
	if src, ok := api.(messageSource); ok {
		s.messages = src.Messages()
	}
	for _, b := range buttons {
		b := b
		var fn func(action.State)
		if notify != nil {
			fn = func(st action.State) { notify(b, st) }
		}
		s.actions[b] = action.New(fn)
	}
	return s
}

// Busy reports whether the action behind b is in flight.
func (s *AuthService) Busy(b Button) bool {
	a, ok := s.actions[b]
	return ok && a.InFlight()
}

// Store returns the session store the service writes to.
func (s *AuthService) Store() *session.Store {
	return s.store
}

func (s *AuthService) Register(ctx context.Context, form validation.RegisterForm) (string, error) {
	if err := s.validator.Validate(form); err != nil {
		return "", toNotice(err, registerFailed, s.messages)
	}

	req := model.RegisterRequest{
		Name:        strings.TrimSpace(form.Name),
		Email:       strings.TrimSpace(form.Email),
		PhoneNumber: strings.TrimSpace(form.PhoneNumber),
		Password:    form.Password,
	}

	var msg string
	err := s.actions[ButtonRegister].Run(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.api.Register(ctx, req)
		return err
	})
	if err != nil {
		return "", toNotice(err, registerFailed, s.messages)
	}

	s.log.WithField("op", "register").Info("registration accepted")
	return msg, nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, screen *OTPScreen) (string, error) {
	form := validation.VerifyForm{Email: screen.Email, OTP: screen.Input.Code()}
	if err := s.validator.Validate(form); err != nil {
		return "", toNotice(errors.Join(ErrCodeIncomplete, err), verifyFailed, s.messages)
	}

	var msg string
	err := s.actions[ButtonVerify].Run(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.api.VerifyOTP(ctx, strings.TrimSpace(form.Email), form.OTP)
		return err
	})
	if err != nil {
		return "", toNotice(err, verifyFailed, s.messages)
	}
	return msg, nil
}

// ResendOTP asks for a new registration code. It is refused until the
// screen countdown ran out; on success the countdown restarts and the
// input is cleared.
func (s *AuthService) ResendOTP(ctx context.Context, screen *OTPScreen) (string, error) {
	if !screen.CanResend() {
		return "", &Notice{
			Kind:    KindValidation,
			Title:   noticeTitle,
			Message: "Please wait " + screen.Countdown.Format() + " before requesting a new code",
			cause:   ErrResendLocked,
		}
	}

	var msg string
	err := s.actions[ButtonResend].Run(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.api.ResendRegisterOTP(ctx, strings.TrimSpace(screen.Email))
		return err
	})
	if err != nil {
		return "", toNotice(err, resendFailed, s.messages)
	}

	screen.restart()
	return msg, nil
}

// Login is the only path into an authenticated session.
func (s *AuthService) Login(ctx context.Context, form validation.LoginForm) (*model.Session, error) {
	if err := s.validator.Validate(form); err != nil {
		return nil, toNotice(err, loginFailed, s.messages)
	}

	req := model.LoginRequest{
		Identifier: strings.TrimSpace(form.Identifier),
		Password:   form.Password,
	}

	var resp *model.AuthResponse
	err := s.actions[ButtonLogin].Run(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.api.Login(ctx, req)
		if err != nil {
			return err
		}
		if !resp.HasTokens() {
			return ErrMissingTokens
		}
		return nil
	})
	if err != nil {
		return nil, toNotice(err, loginFailed, s.messages)
	}

	s.store.SetSession(resp.AccessToken, resp.RefreshToken)

	// 프로필은 토큰에서 읽을 수 있을 때만 설정
	if claims, err := client.ParseClaims(resp.AccessToken); err == nil {
		s.store.SetUser(claims.User)
	} else {
		s.log.WithError(err).Debug("access token carries no profile")
	}

	s.log.WithField("op", "login").Info("session established")
	snap := s.store.Snapshot()
	return &snap, nil
}

// Logout clears the session.
func (s *AuthService) Logout() {
	s.store.Clear()
	s.log.WithField("op", "logout").Info("session cleared")
}

func (s *AuthService) ForgotPassword(ctx context.Context, form validation.ForgotPasswordForm) (string, error) {
	if err := s.validator.Validate(form); err != nil {
		return "", toNotice(err, forgotFailed, s.messages)
	}

	var msg string
	err := s.actions[ButtonForgot].Run(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.api.ForgotPassword(ctx, strings.TrimSpace(form.Email))
		return err
	})
	if err != nil {
		return "", toNotice(err, forgotFailed, s.messages)
	}
	return msg, nil
}

// ResetPassword submits the code entered on screen with the new password.
func (s *AuthService) ResetPassword(ctx context.Context, screen *OTPScreen, newPassword, confirmPassword string) (string, error) {
	form := validation.ResetPasswordForm{
		Email:           screen.Email,
		OTP:             screen.Input.Code(),
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	}
	if err := s.validator.Validate(form); err != nil {
		return "", toNotice(err, resetFailed, s.messages)
	}

	req := model.ResetPasswordRequest{
		Email:       strings.TrimSpace(form.Email),
		OTP:         form.OTP,
		NewPassword: form.NewPassword,
	}

	var msg string
	err := s.actions[ButtonReset].Run(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.api.ResetPassword(ctx, req)
		return err
	})
	if err != nil {
		return "", toNotice(err, resetFailed, s.messages)
	}
	return msg, nil
}
