package service

import (
	"context"
	"time"

	"github.com/phazelsound/client/internal/otp"
)

// OTPScreen - OTP 입력 화면 상태 (verify / reset-password 공용)
//
// 화면이 열릴 때 카운트다운이 시작되고 Close에서 정리된다.
type OTPScreen struct {
	Email     string
	Input     *otp.Input
	Countdown *otp.Countdown

	ctx    context.Context
	cancel context.CancelFunc
}

// OpenOTPScreen starts the validity countdown for email. The countdown
// stops when ctx is done or Close is called.
func OpenOTPScreen(ctx context.Context, email string, ttl time.Duration) *OTPScreen {
	screenCtx, cancel := context.WithCancel(ctx)
	s := &OTPScreen{
		Email:     email,
		Input:     otp.NewInput(),
		Countdown: otp.NewCountdown(ttl),
		ctx:       screenCtx,
		cancel:    cancel,
	}
	s.Countdown.Start(screenCtx)
	return s
}

// CanResend reports whether a new code may be requested.
func (s *OTPScreen) CanResend() bool {
	return s.Countdown.Expired()
}

func (s *OTPScreen) restart() {
	s.Countdown.Restart(s.ctx)
	s.Input.Reset()
}

// Close tears the screen down.
func (s *OTPScreen) Close() {
	s.cancel()
	s.Countdown.Stop()
}

// OpenExpiredOTPScreen returns a screen whose countdown already ran out,
// for callers that did not witness the previous send.
func OpenExpiredOTPScreen(ctx context.Context, email string) *OTPScreen {
	s := OpenOTPScreen(ctx, email, otp.DefaultTTL)
	s.Countdown.Expire()
	return s
}
