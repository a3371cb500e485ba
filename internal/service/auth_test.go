package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phazelsound/client/internal/action"
	"github.com/phazelsound/client/internal/client"
	"github.com/phazelsound/client/internal/config"
	"github.com/phazelsound/client/internal/model"
	"github.com/phazelsound/client/internal/session"
	"github.com/phazelsound/client/internal/validation"
)

type fakeAuthAPI struct {
	mu    sync.Mutex
	calls map[string]int

	registerReq model.RegisterRequest
	loginReq    model.LoginRequest
	resetReq    model.ResetPasswordRequest
	verifyArgs  [2]string
	emailArg    string

	message   string
	loginResp *model.AuthResponse
	err       error
	block     chan struct{}
}

func newFakeAuthAPI() *fakeAuthAPI {
	return &fakeAuthAPI{calls: map[string]int{}, message: "ok"}
}

func (f *fakeAuthAPI) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
}

func (f *fakeAuthAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAuthAPI) Register(_ context.Context, req model.RegisterRequest) (string, error) {
	f.record("register")
	f.registerReq = req
	return f.message, f.err
}

func (f *fakeAuthAPI) VerifyOTP(_ context.Context, email, code string) (string, error) {
	f.record("verify")
	f.verifyArgs = [2]string{email, code}
	return f.message, f.err
}

func (f *fakeAuthAPI) Login(_ context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	f.record("login")
	f.loginReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.loginResp, nil
}

func (f *fakeAuthAPI) ResendRegisterOTP(_ context.Context, email string) (string, error) {
	f.record("resend")
	f.emailArg = email
	return f.message, f.err
}

func (f *fakeAuthAPI) ForgotPassword(_ context.Context, email string) (string, error) {
	f.record("forgot")
	f.emailArg = email
	return f.message, f.err
}

func (f *fakeAuthAPI) ResetPassword(_ context.Context, req model.ResetPasswordRequest) (string, error) {
	f.record("reset")
	f.resetReq = req
	return f.message, f.err
}

func newTestService(api client.AuthAPI) *AuthService {
	return NewAuthService(api, session.New(), validation.New("en"), nil, nil)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func validRegisterForm() validation.RegisterForm {
	return validation.RegisterForm{
		Name:            "  Nguyen An ",
		Email:           " an@phazel.vn ",
		PhoneNumber:     "0901234567",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegister(t *testing.T) {
	api := newFakeAuthAPI()
	api.message = "Registration successful. Please check your email to verify your account!"
	svc := newTestService(api)

	msg, err := svc.Register(context.Background(), validRegisterForm())
	require.NoError(t, err)
	assert.Equal(t, api.message, msg)
	assert.Equal(t, model.RegisterRequest{Name: "Nguyen An", Email: "an@phazel.vn", PhoneNumber: "0901234567", Password: "secret1"}, api.registerReq)
}

func TestRegisterValidationSkipsRequest(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *validation.RegisterForm)
		wantField string
	}{
		{name: "short-name", mutate: func(f *validation.RegisterForm) { f.Name = " A " }, wantField: "name"},
		{name: "bad-email", mutate: func(f *validation.RegisterForm) { f.Email = "an@phazel" }, wantField: "email"},
		{name: "short-password", mutate: func(f *validation.RegisterForm) { f.Password, f.ConfirmPassword = "12345", "12345" }, wantField: "password"},
		{name: "mismatch", mutate: func(f *validation.RegisterForm) { f.ConfirmPassword = "secret2" }, wantField: "confirmPassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAuthAPI()
			svc := newTestService(api)
			form := validRegisterForm()
			tt.mutate(&form)

			_, err := svc.Register(context.Background(), form)
			require.Error(t, err)

			notice, ok := AsNotice(err)
			require.True(t, ok)
			assert.Equal(t, KindValidation, notice.Kind)
			assert.Contains(t, notice.Fields, tt.wantField)
			assert.Equal(t, 0, api.count("register"))
		})
	}
}

func TestRemoteFailureBecomesNotice(t *testing.T) {
	api := newFakeAuthAPI()
	api.err = &client.RemoteError{Message: "Email already exist!", Status: http.StatusBadRequest}
	svc := newTestService(api)

	_, err := svc.Register(context.Background(), validRegisterForm())
	notice, ok := AsNotice(err)
	require.True(t, ok)
	assert.Equal(t, KindRemote, notice.Kind)
	assert.Equal(t, "Email already exist!", notice.Message)
	assert.False(t, svc.Busy(ButtonRegister))
}

func TestConnectivityFailureBecomesNotice(t *testing.T) {
	api := newFakeAuthAPI()
	api.err = &client.RemoteError{Message: "cannot reach server"}
	svc := newTestService(api)

	_, err := svc.ForgotPassword(context.Background(), validation.ForgotPasswordForm{Email: "an@phazel.vn"})
	notice, ok := AsNotice(err)
	require.True(t, ok)
	assert.Equal(t, "cannot reach server", notice.Message)
}

func TestUnexpectedFailureUsesFallback(t *testing.T) {
	api := newFakeAuthAPI()
	api.err = errors.New("decode failure")
	svc := newTestService(api)

	_, err := svc.ForgotPassword(context.Background(), validation.ForgotPasswordForm{Email: "an@phazel.vn"})
	notice, ok := AsNotice(err)
	require.True(t, ok)
	assert.Equal(t, KindRemote, notice.Kind)
	assert.Equal(t, forgotFailed, notice.Message)
}

func TestLogin(t *testing.T) {
	access := signedToken(t, jwt.MapClaims{"sub": "u-1", "email": "an@phazel.vn", "name": "An", "role": "USER"})
	api := newFakeAuthAPI()
	api.loginResp = &model.AuthResponse{Message: "Login successfully.", AccessToken: access, RefreshToken: "refresh"}
	svc := newTestService(api)

	got, err := svc.Login(context.Background(), validation.LoginForm{Identifier: " an@phazel.vn ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "an@phazel.vn", api.loginReq.Identifier)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, access, got.AccessToken)
	assert.Equal(t, "refresh", got.RefreshToken)
	require.NotNil(t, got.User)
	assert.Equal(t, "An", got.User.FullName)
	assert.True(t, svc.Store().IsAuthenticated())
}

func TestLoginOpaqueTokenKeepsUserEmpty(t *testing.T) {
	api := newFakeAuthAPI()
	api.loginResp = &model.AuthResponse{AccessToken: "opaque", RefreshToken: "refresh"}
	svc := newTestService(api)

	got, err := svc.Login(context.Background(), validation.LoginForm{Identifier: "0901234567", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, got.IsAuthenticated)
	assert.Nil(t, got.User)
}

func TestLoginMissingTokens(t *testing.T) {
	api := newFakeAuthAPI()
	api.loginResp = &model.AuthResponse{Message: "Login successfully."}
	svc := newTestService(api)

	_, err := svc.Login(context.Background(), validation.LoginForm{Identifier: "an@phazel.vn", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingTokens))
	assert.False(t, svc.Store().IsAuthenticated())
}

func TestLoginRejectsPartialTokens(t *testing.T) {
	for _, resp := range []*model.AuthResponse{
		{AccessToken: "a"},
		{RefreshToken: "r"},
	} {
		api := newFakeAuthAPI()
		api.loginResp = resp
		svc := newTestService(api)

		_, err := svc.Login(context.Background(), validation.LoginForm{Identifier: "an@phazel.vn", Password: "secret1"})
		require.ErrorIs(t, err, ErrMissingTokens)
		assert.Equal(t, model.Session{}, svc.Store().Snapshot())
	}
}

func TestLoginFailureLeavesSession(t *testing.T) {
	api := newFakeAuthAPI()
	api.err = &client.RemoteError{Message: "Bad credentials", Status: http.StatusUnauthorized}
	svc := newTestService(api)

	_, err := svc.Login(context.Background(), validation.LoginForm{Identifier: "an@phazel.vn", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "Bad credentials", err.Error())
	assert.Equal(t, model.Session{}, svc.Store().Snapshot())
}

func TestLoginInFlightRejectsSecondSubmit(t *testing.T) {
	api := newFakeAuthAPI()
	api.block = make(chan struct{})
	api.loginResp = &model.AuthResponse{AccessToken: "a", RefreshToken: "r"}

	var mu sync.Mutex
	var states []action.State
	svc := NewAuthService(api, session.New(), validation.New("en"), nil, func(b Button, st action.State) {
		if b == ButtonLogin {
			mu.Lock()
			states = append(states, st)
			mu.Unlock()
		}
	})
	form := validation.LoginForm{Identifier: "an@phazel.vn", Password: "secret1"}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Login(context.Background(), form)
		done <- err
	}()
	require.Eventually(t, func() bool { return svc.Busy(ButtonLogin) }, time.Second, time.Millisecond)

	_, err := svc.Login(context.Background(), form)
	assert.ErrorIs(t, err, action.ErrInFlight)

	close(api.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, api.count("login"))
	assert.False(t, svc.Busy(ButtonLogin))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []action.State{action.Running, action.Succeeded}, states)
}

func TestLogout(t *testing.T) {
	svc := newTestService(newFakeAuthAPI())
	svc.Store().SetSession("a", "r")

	svc.Logout()
	assert.Equal(t, model.Session{}, svc.Store().Snapshot())
}

func TestVerifyOTP(t *testing.T) {
	api := newFakeAuthAPI()
	api.message = "Verification successful. Account has been activated."
	svc := newTestService(api)

	screen := OpenOTPScreen(context.Background(), "an@phazel.vn", time.Minute)
	defer screen.Close()
	screen.Input.Change(0, "123456")

	msg, err := svc.VerifyOTP(context.Background(), screen)
	require.NoError(t, err)
	assert.Equal(t, api.message, msg)
	assert.Equal(t, [2]string{"an@phazel.vn", "123456"}, api.verifyArgs)
}

func TestVerifyOTPIncomplete(t *testing.T) {
	api := newFakeAuthAPI()
	svc := newTestService(api)

	screen := OpenOTPScreen(context.Background(), "an@phazel.vn", time.Minute)
	defer screen.Close()
	screen.Input.Change(0, "123")

	_, err := svc.VerifyOTP(context.Background(), screen)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCodeIncomplete)
	notice, ok := AsNotice(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, notice.Kind)
	assert.Equal(t, 0, api.count("verify"))
}

func TestResendOTPLockedWhileCounting(t *testing.T) {
	api := newFakeAuthAPI()
	svc := newTestService(api)

	screen := OpenOTPScreen(context.Background(), "an@phazel.vn", time.Minute)
	defer screen.Close()

	_, err := svc.ResendOTP(context.Background(), screen)
	assert.ErrorIs(t, err, ErrResendLocked)
	assert.Equal(t, 0, api.count("resend"))
}

func TestResendOTPAfterExpiry(t *testing.T) {
	api := newFakeAuthAPI()
	api.message = "The OTP has been sent. Please check your email or spam folder."
	svc := newTestService(api)

	screen := OpenExpiredOTPScreen(context.Background(), "an@phazel.vn")
	defer screen.Close()
	screen.Input.Change(0, "99")

	msg, err := svc.ResendOTP(context.Background(), screen)
	require.NoError(t, err)
	assert.Equal(t, api.message, msg)
	assert.Equal(t, "an@phazel.vn", api.emailArg)
	assert.False(t, screen.CanResend())
	assert.Equal(t, "", screen.Input.Code())
}

func TestForgotPassword(t *testing.T) {
	api := newFakeAuthAPI()
	svc := newTestService(api)

	_, err := svc.ForgotPassword(context.Background(), validation.ForgotPasswordForm{Email: " an@phazel.vn "})
	require.NoError(t, err)
	assert.Equal(t, "an@phazel.vn", api.emailArg)
}

func TestResetPassword(t *testing.T) {
	api := newFakeAuthAPI()
	api.message = "Password reset successful"
	svc := newTestService(api)

	screen := OpenOTPScreen(context.Background(), "an@phazel.vn", time.Minute)
	defer screen.Close()
	screen.Input.Change(0, "654321")

	msg, err := svc.ResetPassword(context.Background(), screen, "newpass", "newpass")
	require.NoError(t, err)
	assert.Equal(t, "Password reset successful", msg)
	assert.Equal(t, model.ResetPasswordRequest{Email: "an@phazel.vn", OTP: "654321", NewPassword: "newpass"}, api.resetReq)
}

func TestResetPasswordMismatch(t *testing.T) {
	api := newFakeAuthAPI()
	svc := newTestService(api)

	screen := OpenOTPScreen(context.Background(), "an@phazel.vn", time.Minute)
	defer screen.Close()
	screen.Input.Change(0, "654321")

	_, err := svc.ResetPassword(context.Background(), screen, "newpass", "other")
	notice, ok := AsNotice(err)
	require.True(t, ok)
	assert.Contains(t, notice.Fields, "confirmPassword")
	assert.Equal(t, 0, api.count("reset"))
}

func TestLoginCancelledBeforeRequest(t *testing.T) {
	tests := []struct {
		name    string
		ctx     func() (context.Context, context.CancelFunc)
		wantErr error
	}{
		{
			name: "canceled",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			wantErr: context.Canceled,
		},
		{
			name: "deadline-exceeded",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
			},
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAuthAPI()
			svc := newTestService(api)
			ctx, cancel := tt.ctx()
			defer cancel()

			_, err := svc.Login(ctx, validation.LoginForm{Identifier: "an@phazel.vn", Password: "secret1"})
			notice, ok := AsNotice(err)
			require.True(t, ok)
			assert.Equal(t, KindConnectivity, notice.Kind)
			assert.Equal(t, "cannot reach server", notice.Message)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Equal(t, 0, api.count("login"))
			assert.False(t, svc.Store().IsAuthenticated())
		})
	}
}

func TestCancelledUsesTransportLocale(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	}))
	defer srv.Close()

	api := client.NewAuthClient(client.NewGateway(config.APIConfig{BaseURL: srv.URL, Timeout: time.Second, Locale: "vi"}))
	svc := NewAuthService(api, session.New(), validation.New("vi"), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Login(ctx, validation.LoginForm{Identifier: "an@phazel.vn", Password: "secret1"})
	notice, ok := AsNotice(err)
	require.True(t, ok)
	assert.Equal(t, KindConnectivity, notice.Kind)
	assert.Equal(t, "Không thể kết nối đến server", notice.Message)
}
