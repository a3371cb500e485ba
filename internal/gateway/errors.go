package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicatePhone = errors.New("phone already registered")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrMisconfigured  = errors.New("gateway config invalid")
)

// 게이트웨이 응답 메시지
const (
	msgEmailExists        = "Email already exist!"
	msgPhoneExists        = "Phone number already exist!"
	msgRegistered         = "Registration successful. Please check your email to verify your account!"
	msgRegisterOTPInvalid = "The OTP code has expired or is incorrect."
	msgOTPIncorrect       = "OTP incorrect."
	msgAlreadyActive      = "This account has been activated."
	msgActivated          = "Verification successful. Account has been activated."
	msgUserNotFound       = "Not found user."
	msgLoggedIn           = "Login successfully."
	msgBadCredentials     = "Bad credentials"
	msgNotVerified        = "Account is not verified."
	msgEmailNotRegistered = "Email not registered."
	msgOTPResent          = "The OTP has been sent. Please check your email or spam folder."
	msgEmailNotFound      = "Email not found."
	msgForgotSent         = "The password reset OTP has been sent. Please check your email or spam folder."
	msgForgotOTPInvalid   = "The OTP has expired or does not exist."
	msgPasswordReset      = "Password reset successful"
)

// RejectError is a request the gateway refuses with a user-facing message.
type RejectError struct {
	Status  int
	Message string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func reject(msg string) error {
	return &RejectError{Status: http.StatusBadRequest, Message: msg}
}

// AsReject unwraps err into a *RejectError.
func AsReject(err error) (*RejectError, bool) {
	var rErr *RejectError
	if errors.As(err, &rErr) {
		return rErr, true
	}
	return nil, false
}
