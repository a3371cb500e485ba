// 개발용 인증 게이트웨이 서비스
//
// 클라이언트가 호출하는 /auth/* 계약을 그대로 구현한다.
//   - 회원가입: UNVERIFIED 상태로 저장 후 OTP 발송
//   - 인증: OTP 확인 후 ACTIVE 전환
//   - 로그인: email 또는 전화번호 + 비밀번호, access/refresh JWT 발급
//   - 비밀번호 재설정: 별도 OTP(OTP_FORGOT) 사용

package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/phazelsound/client/internal/logging"
	"github.com/phazelsound/client/internal/model"
	"github.com/phazelsound/client/internal/template"
)

type AuthService struct {
	users  UserRepository
	otps   *OTPStore
	tokens *TokenIssuer
	mailer Mailer
	log    *logrus.Logger
	now    func() time.Time
}

// AuthService 객체 생성
func NewAuthService(users UserRepository, otps *OTPStore, tokens *TokenIssuer, mailer Mailer, log *logrus.Logger) *AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &AuthService{
		users:  users,
		otps:   otps,
		tokens: tokens,
		mailer: mailer,
		log:    log,
		now:    time.Now,
	}
}

func (s *AuthService) Tokens() *TokenIssuer {
	return s.tokens
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.PhoneNumber)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", reject(msgEmailExists)
	}
	if phone != "" {
		exists, err := s.users.ExistsByPhone(ctx, phone)
		if err != nil {
			return "", err
		}
		if exists {
			return "", reject(msgPhoneExists)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := s.now()
	account := &model.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Phone:        phone,
		FullName:     strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Status:       model.UserStatusUnverified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, account); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			return "", reject(msgEmailExists)
		case errors.Is(err, ErrDuplicatePhone):
			return "", reject(msgPhoneExists)
		}
		return "", err
	}

	if err := s.sendOTP(ctx, template.PurposeRegister, account); err != nil {
		return "", err
	}

	s.log.WithField("user_id", account.ID).Info("user registered")
	return msgRegistered, nil
}

func (s *AuthService) VerifyRegisterOTP(ctx context.Context, email, code string) (string, error) {
	stored, err := s.otps.Lookup(ctx, template.PurposeRegister, email)
	if err != nil {
		return "", err
	}
	if stored == "" {
		return "", reject(msgRegisterOTPInvalid)
	}
	if stored != code {
		return "", reject(msgOTPIncorrect)
	}

	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", reject(msgUserNotFound)
		}
		return "", err
	}

	if account.Status == model.UserStatusActive {
		_ = s.otps.Delete(ctx, template.PurposeRegister, email)
		return msgAlreadyActive, nil
	}

	if err := s.users.UpdateStatus(ctx, account.ID, model.UserStatusActive); err != nil {
		return "", err
	}
	if err := s.otps.Delete(ctx, template.PurposeRegister, email); err != nil {
		s.log.WithError(err).Warn("failed to delete register OTP")
	}

	s.log.WithField("user_id", account.ID).Info("user activated")
	return msgActivated, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	account, err := s.users.FindByIdentifier(ctx, strings.TrimSpace(req.Identifier))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, reject(msgUserNotFound)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &RejectError{Status: http.StatusUnauthorized, Message: msgBadCredentials}
	}
	if account.Status != model.UserStatusActive {
		return nil, &RejectError{Status: http.StatusForbidden, Message: msgNotVerified}
	}

	access, refresh, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", account.ID).Info("user logged in")
	return &model.AuthResponse{
		Message:      msgLoggedIn,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *AuthService) ResendRegisterOTP(ctx context.Context, email string) (string, error) {
	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", reject(msgEmailNotRegistered)
		}
		return "", err
	}
	if account.Status == model.UserStatusActive {
		return "", reject(msgAlreadyActive)
	}

	if err := s.sendOTP(ctx, template.PurposeRegister, account); err != nil {
		return "", err
	}
	return msgOTPResent, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", reject(msgEmailNotFound)
		}
		return "", err
	}

	if err := s.sendOTP(ctx, template.PurposeForgot, account); err != nil {
		return "", err
	}
	return msgForgotSent, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) (string, error) {
	email := strings.TrimSpace(req.Email)

	stored, err := s.otps.Lookup(ctx, template.PurposeForgot, email)
	if err != nil {
		return "", err
	}
	if stored == "" {
		return "", reject(msgForgotOTPInvalid)
	}
	if stored != req.OTP {
		return "", reject(msgOTPIncorrect)
	}

	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", reject(msgUserNotFound)
		}
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdatePassword(ctx, account.ID, string(hash)); err != nil {
		return "", err
	}
	if err := s.otps.Delete(ctx, template.PurposeForgot, email); err != nil {
		s.log.WithError(err).Warn("failed to delete forgot-password OTP")
	}

	s.log.WithField("user_id", account.ID).Info("password reset")
	return msgPasswordReset, nil
}

// Profile returns the stored profile of the account behind email.
func (s *AuthService) Profile(ctx context.Context, email string) (model.User, error) {
	account, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, err
	}
	return account.Profile(), nil
}

func (s *AuthService) sendOTP(ctx context.Context, purpose template.Purpose, account *model.Account) error {
	code, err := s.otps.Issue(ctx, purpose, account.Email)
	if err != nil {
		return err
	}

	mail := template.RenderOTPMail(template.MailData{
		Name:    account.FullName,
		Email:   account.Email,
		Code:    code,
		TTL:     s.otps.TTL(),
		Purpose: purpose,
	})
	// 발송 실패는 요청 실패로 보지 않음
	if err := s.mailer.Send(ctx, mail); err != nil {
		s.log.WithError(err).WithField("to", account.Email).Error("failed to send OTP mail")
	}
	return nil
}
