// Package validation rejects malformed form input before any request is sent.
// It is advisory only; the gateway remains the authority.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// OTPLength - OTP 자리 수
const OTPLength = 6

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpPattern   = regexp.MustCompile(`^[0-9]{6}$`)
)

// FieldErrors maps json field names to a user-facing message.
type FieldErrors map[string]string

// ValidationError is returned when a form fails validation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

type Validator struct {
	validate *validator.Validate
	locale   string
}

// New returns a Validator producing messages in locale (en or vi).
func New(locale string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// 등록 실패는 태그 이름 오류이므로 panic
	mustRegister(v, "trimrequired", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "trimmin", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	})
	mustRegister(v, "simpleemail", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	mustRegister(v, "otpcode", func(fl validator.FieldLevel) bool {
		return IsOTP(fl.Field().String())
	})

	return &Validator{validate: v, locale: normalizeLocale(locale)}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Validate checks form and returns a *ValidationError listing the first
// failing rule of each field, or nil.
func (v *Validator) Validate(form any) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	fields := make(FieldErrors, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Field()
		if _, exists := fields[field]; exists {
			continue
		}
		fields[field] = parseMessage(v.locale, field, e.Tag(), e.Param())
	}
	return &ValidationError{Fields: fields}
}

// IsEmail reports whether s, trimmed, looks like local@domain.tld.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsOTP reports whether s is exactly six digits.
func IsOTP(s string) bool {
	return otpPattern.MatchString(s)
}
