package validation

// RegisterForm - 회원가입 화면 입력
type RegisterForm struct {
	Name            string `json:"name" validate:"trimrequired,trimmin=2"`
	Email           string `json:"email" validate:"trimrequired,simpleemail"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginForm - Identifier는 email 또는 전화번호
type LoginForm struct {
	Identifier string `json:"identifier" validate:"trimrequired"`
	Password   string `json:"password" validate:"required,min=6"`
}

type ForgotPasswordForm struct {
	Email string `json:"email" validate:"trimrequired,simpleemail"`
}

type VerifyForm struct {
	Email string `json:"email" validate:"trimrequired,simpleemail"`
	OTP   string `json:"otp" validate:"otpcode"`
}

type ResetPasswordForm struct {
	Email           string `json:"email" validate:"trimrequired,simpleemail"`
	OTP             string `json:"otp" validate:"otpcode"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}
