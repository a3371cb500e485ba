// Package template provides OTP mail body rendering.
//
// 지원하는 변수 형식:
//
//	{{user.name}}, {{user.email}}
//	{{otp.code}}, {{otp.ttl_minutes}}, {{otp.purpose}}
package template

import (
	"strconv"
	"strings"
	"time"
)

// Purpose - OTP 발송 목적
type Purpose string

const (
	PurposeRegister Purpose = "register"
	PurposeForgot   Purpose = "forgot-password"
)

const (
	RegisterSubject = "[Phazel Sound] Account verification code"
	ForgotSubject   = "[Phazel Sound] Password reset code"
)

const registerBody = `Hello {{user.name}},

Your Phazel Sound verification code is {{otp.code}}.
The code expires in {{otp.ttl_minutes}} minutes.`

const forgotBody = `Hello {{user.name}},

Use {{otp.code}} to reset the password of {{user.email}}.
The code expires in {{otp.ttl_minutes}} minutes. Ignore this mail if you did not ask for it.`

// MailData - 템플릿 렌더링에 사용할 데이터
type MailData struct {
	Name    string
	Email   string
	Code    string
	TTL     time.Duration
	Purpose Purpose
}

// Mail is a rendered OTP message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// RenderBody - body 템플릿의 변수를 실제 값으로 치환
func RenderBody(body string, data MailData) string {
	name := data.Name
	if strings.TrimSpace(name) == "" {
		name = data.Email
	}
	return strings.NewReplacer(
		"{{user.name}}", name,
		"{{user.email}}", data.Email,
		"{{otp.code}}", data.Code,
		"{{otp.ttl_minutes}}", strconv.Itoa(ttlMinutes(data.TTL)),
		"{{otp.purpose}}", string(data.Purpose),
	).Replace(body)
}

// RenderOTPMail renders the built-in mail for data.Purpose.
func RenderOTPMail(data MailData) Mail {
	subject, body := RegisterSubject, registerBody
	if data.Purpose == PurposeForgot {
		subject, body = ForgotSubject, forgotBody
	}
	return Mail{
		To:      data.Email,
		Subject: subject,
		Body:    RenderBody(body, data),
	}
}

// 1분 미만은 올림
func ttlMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}
