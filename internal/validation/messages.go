package validation

import (
	"fmt"
	"strings"
)

// 언어 -> 태그 -> 메시지. "field.tag" 키가 있으면 우선 사용
var errorMessages = map[string]map[string]string{
	"en": {
		"required":                 "%s is required",
		"trimrequired":             "%s is required",
		"simpleemail":              "%s is not a valid email address",
		"min":                      "%s must be at least %s characters",
		"trimmin":                  "%s must be at least %s characters",
		"eqfield":                  "Passwords do not match",
		"otpcode":                  "Please enter all 6 digits",
		"confirmPassword.required": "Please confirm your password",
	},
	"vi": {
		"required":                 "%s không được để trống",
		"trimrequired":             "%s không được để trống",
		"simpleemail":              "%s không hợp lệ",
		"min":                      "%s phải có ít nhất %s ký tự",
		"trimmin":                  "%s phải có ít nhất %s ký tự",
		"eqfield":                  "Mật khẩu không khớp",
		"otpcode":                  "Vui lòng nhập đủ 6 số",
		"confirmPassword.required": "Vui lòng xác nhận mật khẩu",
	},
}

var fieldLabels = map[string]map[string]string{
	"en": {
		"name":            "Name",
		"email":           "Email",
		"identifier":      "Email or phone number",
		"password":        "Password",
		"newPassword":     "New password",
		"confirmPassword": "Password confirmation",
		"otp":             "OTP",
	},
	"vi": {
		"name":            "Tên",
		"email":           "Email",
		"identifier":      "Email hoặc số điện thoại",
		"password":        "Mật khẩu",
		"newPassword":     "Mật khẩu mới",
		"confirmPassword": "Xác nhận mật khẩu",
		"otp":             "OTP",
	},
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if _, ok := errorMessages[locale]; ok {
		return locale
	}
	return "en"
}

func parseMessage(locale, field, tag, param string) string {
	msgs := errorMessages[locale]
	label := field
	if l, ok := fieldLabels[locale][field]; ok {
		label = l
	}

	msg, ok := msgs[field+"."+tag]
	if !ok {
		msg, ok = msgs[tag]
	}
	if !ok {
		return fmt.Sprintf("%s is invalid: %s", label, tag)
	}

	switch strings.Count(msg, "%s") {
	case 0:
		return msg
	case 1:
		return fmt.Sprintf(msg, label)
	default:
		return fmt.Sprintf(msg, label, param)
	}
}
