package client

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/phazelsound/client/internal/model"
)

// ErrNoClaims is returned when an access token carries nothing usable.
var ErrNoClaims = errors.New("access token carries no profile claims")

// AccessClaims - access token에서 읽어낸 표시용 정보
type AccessClaims struct {
	User      model.User
	ExpiresAt time.Time
}

type accessClaims struct {
	Email    string `json:"email,omitempty"`
	FullName string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the access token payload without verifying its
// signature. The client has no key and the gateway stays the authority;
// the result is only used to show who is logged in.
func ParseClaims(accessToken string) (*AccessClaims, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}

	// 백엔드에 따라 subject가 user id 또는 email
	id, email := claims.Subject, claims.Email
	if email == "" && strings.Contains(id, "@") {
		id, email = "", id
	}
	if email == "" {
		return nil, ErrNoClaims
	}

	role := model.Role(claims.Role)
	if !role.Valid() {
		role = model.RoleUser
	}

	out := &AccessClaims{
		User: model.User{
			ID:       id,
			Email:    email,
			FullName: claims.FullName,
			Role:     role,
		},
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
