package gateway

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phazelsound/client/internal/template"
)

// Redis key prefix
const (
	registerOTPPrefix = "OTP_REGISTER:"
	forgotOTPPrefix   = "OTP_FORGOT:"
)

// OTPStore keeps one pending code per purpose and email in Redis.
type OTPStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOTPStore(rdb *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{rdb: rdb, ttl: ttl}
}

func (s *OTPStore) TTL() time.Duration {
	return s.ttl
}

// Issue generates a new code for email, replacing any pending one.
func (s *OTPStore) Issue(ctx context.Context, purpose template.Purpose, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}
	if err := s.rdb.Set(ctx, otpKey(purpose, email), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store OTP in redis: %w", err)
	}
	return code, nil
}

// Lookup returns the pending code, or "" when none is stored or it expired.
func (s *OTPStore) Lookup(ctx context.Context, purpose template.Purpose, email string) (string, error) {
	code, err := s.rdb.Get(ctx, otpKey(purpose, email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read OTP from redis: %w", err)
	}
	return code, nil
}

func (s *OTPStore) Delete(ctx context.Context, purpose template.Purpose, email string) error {
	return s.rdb.Del(ctx, otpKey(purpose, email)).Err()
}

func otpKey(purpose template.Purpose, email string) string {
	if purpose == template.PurposeForgot {
		return forgotOTPPrefix + email
	}
	return registerOTPPrefix + email
}

// 000000 ~ 999999
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
