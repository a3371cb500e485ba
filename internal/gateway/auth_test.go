package gateway

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phazelsound/client/internal/model"
)

func registerRequest() model.RegisterRequest {
	return model.RegisterRequest{Name: "Nguyen An", Email: "an@phazel.vn", PhoneNumber: "0901234567", Password: "secret1"}
}

func requireReject(t *testing.T, err error, status int, msg string) {
	t.Helper()
	rErr, ok := AsReject(err)
	require.True(t, ok, "expected RejectError, got %v", err)
	assert.Equal(t, status, rErr.Status)
	assert.Equal(t, msg, rErr.Message)
}

func (e *testEnv) pendingOTP(t *testing.T, key string) string {
	t.Helper()
	code, err := e.mr.Get(key)
	require.NoError(t, err)
	return code
}

func TestRegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	msg, err := env.svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.Equal(t, msgRegistered, msg)

	account, err := env.users.FindByEmail(ctx, "an@phazel.vn")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusUnverified, account.Status)
	assert.NotEqual(t, "secret1", account.PasswordHash)

	code := env.pendingOTP(t, "OTP_REGISTER:an@phazel.vn")
	assert.Contains(t, env.mailer.last().Body, code)

	_, err = env.svc.VerifyRegisterOTP(ctx, "an@phazel.vn", "xxxxxx")
	requireReject(t, err, http.StatusBadRequest, msgOTPIncorrect)

	msg, err = env.svc.VerifyRegisterOTP(ctx, "an@phazel.vn", code)
	require.NoError(t, err)
	assert.Equal(t, msgActivated, msg)
	assert.False(t, env.mr.Exists("OTP_REGISTER:an@phazel.vn"))

	// OTP는 한 번만 사용
	_, err = env.svc.VerifyRegisterOTP(ctx, "an@phazel.vn", code)
	requireReject(t, err, http.StatusBadRequest, msgRegisterOTPInvalid)
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = env.svc.Register(ctx, registerRequest())
	requireReject(t, err, http.StatusBadRequest, msgEmailExists)

	other := registerRequest()
	other.Email = "other@phazel.vn"
	_, err = env.svc.Register(ctx, other)
	requireReject(t, err, http.StatusBadRequest, msgPhoneExists)

	other.PhoneNumber = ""
	_, err = env.svc.Register(ctx, other)
	require.NoError(t, err)
}

func TestLoginFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, model.LoginRequest{Identifier: "an@phazel.vn", Password: "secret1"})
	requireReject(t, err, http.StatusForbidden, msgNotVerified)

	_, err = env.svc.VerifyRegisterOTP(ctx, "an@phazel.vn", env.pendingOTP(t, "OTP_REGISTER:an@phazel.vn"))
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, model.LoginRequest{Identifier: "an@phazel.vn", Password: "wrong-pass"})
	requireReject(t, err, http.StatusUnauthorized, msgBadCredentials)

	_, err = env.svc.Login(ctx, model.LoginRequest{Identifier: "nobody@phazel.vn", Password: "secret1"})
	requireReject(t, err, http.StatusBadRequest, msgUserNotFound)

	for _, identifier := range []string{"an@phazel.vn", "0901234567"} {
		resp, err := env.svc.Login(ctx, model.LoginRequest{Identifier: identifier, Password: "secret1"})
		require.NoError(t, err, identifier)
		assert.Equal(t, msgLoggedIn, resp.Message)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	}
}

func TestVerifyAlreadyActive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	_, err = env.svc.VerifyRegisterOTP(ctx, "an@phazel.vn", env.pendingOTP(t, "OTP_REGISTER:an@phazel.vn"))
	require.NoError(t, err)

	_, err = env.svc.ResendRegisterOTP(ctx, "an@phazel.vn")
	requireReject(t, err, http.StatusBadRequest, msgAlreadyActive)

	require.NoError(t, env.mr.Set("OTP_REGISTER:an@phazel.vn", "123456"))
	msg, err := env.svc.VerifyRegisterOTP(ctx, "an@phazel.vn", "123456")
	require.NoError(t, err)
	assert.Equal(t, msgAlreadyActive, msg)
}

func TestResendRegisterOTP(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.ResendRegisterOTP(ctx, "an@phazel.vn")
	requireReject(t, err, http.StatusBadRequest, msgEmailNotRegistered)

	_, err = env.svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	require.NoError(t, env.mr.Set("OTP_REGISTER:an@phazel.vn", "stale!"))

	msg, err := env.svc.ResendRegisterOTP(ctx, "an@phazel.vn")
	require.NoError(t, err)
	assert.Equal(t, msgOTPResent, msg)
	assert.Regexp(t, `^[0-9]{6}$`, env.pendingOTP(t, "OTP_REGISTER:an@phazel.vn"))
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.ForgotPassword(ctx, "an@phazel.vn")
	requireReject(t, err, http.StatusBadRequest, msgEmailNotFound)

	_, err = env.svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	_, err = env.svc.VerifyRegisterOTP(ctx, "an@phazel.vn", env.pendingOTP(t, "OTP_REGISTER:an@phazel.vn"))
	require.NoError(t, err)

	_, err = env.svc.ResetPassword(ctx, model.ResetPasswordRequest{Email: "an@phazel.vn", OTP: "123456", NewPassword: "newpass"})
	requireReject(t, err, http.StatusBadRequest, msgForgotOTPInvalid)

	msg, err := env.svc.ForgotPassword(ctx, "an@phazel.vn")
	require.NoError(t, err)
	assert.Equal(t, msgForgotSent, msg)
	code := env.pendingOTP(t, "OTP_FORGOT:an@phazel.vn")
	assert.True(t, strings.Contains(env.mailer.last().Subject, "reset"))

	_, err = env.svc.ResetPassword(ctx, model.ResetPasswordRequest{Email: "an@phazel.vn", OTP: "000000x", NewPassword: "newpass"})
	requireReject(t, err, http.StatusBadRequest, msgOTPIncorrect)

	msg, err = env.svc.ResetPassword(ctx, model.ResetPasswordRequest{Email: "an@phazel.vn", OTP: code, NewPassword: "newpass"})
	require.NoError(t, err)
	assert.Equal(t, msgPasswordReset, msg)

	_, err = env.svc.Login(ctx, model.LoginRequest{Identifier: "an@phazel.vn", Password: "secret1"})
	requireReject(t, err, http.StatusUnauthorized, msgBadCredentials)
	_, err = env.svc.Login(ctx, model.LoginRequest{Identifier: "an@phazel.vn", Password: "newpass"})
	require.NoError(t, err)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	user, err := env.svc.Profile(ctx, "an@phazel.vn")
	require.NoError(t, err)
	assert.Equal(t, "Nguyen An", user.FullName)
	assert.Equal(t, "0901234567", user.Phone)

	_, err = env.svc.Profile(ctx, "missing@phazel.vn")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
