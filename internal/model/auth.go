package model

import "time"

// Role - 사용자 권한
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// RegisterRequest - POST /auth/register body
type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Password    string `json:"password" binding:"required,min=6"`
}

// LoginRequest - POST /auth/login body. Identifier는 email 또는 전화번호
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// ResetPasswordRequest - POST /auth/reset-password body
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// EmailQuery - ?email=... 쿼리 파라미터
type EmailQuery struct {
	Email string `url:"email" form:"email" binding:"required"`
}

// VerifyQuery - POST /auth/verify?email=...&otp=...
type VerifyQuery struct {
	Email string `url:"email" form:"email" binding:"required"`
	OTP   string `url:"otp" form:"otp" binding:"required"`
}

// AuthResponse - 로그인 성공 응답
type AuthResponse struct {
	Message      string `json:"message,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// HasTokens reports whether both tokens are present.
func (r AuthResponse) HasTokens() bool {
	return r.AccessToken != "" && r.RefreshToken != ""
}

// User - 인증된 사용자 프로필
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Role      Role   `json:"role"`
}

// UserStatus - 게이트웨이 측 계정 상태
type UserStatus string

const (
	UserStatusUnverified UserStatus = "UNVERIFIED"
	UserStatusActive     UserStatus = "ACTIVE"
)

// Account - 개발용 게이트웨이에 저장되는 계정
type Account struct {
	ID           string
	Email        string
	Phone        string
	FullName     string
	AvatarURL    string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile projects the account onto the client-facing User.
func (a *Account) Profile() User {
	return User{
		ID:        a.ID,
		Email:     a.Email,
		FullName:  a.FullName,
		Phone:     a.Phone,
		AvatarURL: a.AvatarURL,
		Role:      a.Role,
	}
}
