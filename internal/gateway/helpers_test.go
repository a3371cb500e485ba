package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/phazelsound/client/internal/config"
	"github.com/phazelsound/client/internal/template"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type captureMailer struct {
	mu    sync.Mutex
	mails []template.Mail
}

func (m *captureMailer) Send(_ context.Context, mail template.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mails = append(m.mails, mail)
	return nil
}

func (m *captureMailer) last() template.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.mails) == 0 {
		return template.Mail{}
	}
	return m.mails[len(m.mails)-1]
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: "test-secret", JWTAccessTTL: "15m", JWTRefreshTTL: "168h"}
}

type testEnv struct {
	svc    *AuthService
	users  *MemoryRepository
	mr     *miniredis.Miniredis
	mailer *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, rdb := setupTestRedis(t)
	tokens, err := NewTokenIssuer(testAuthConfig())
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}
	users := NewMemoryRepository()
	mailer := &captureMailer{}
	svc := NewAuthService(users, NewOTPStore(rdb, 5*time.Minute), tokens, mailer, nil)
	return &testEnv{svc: svc, users: users, mr: mr, mailer: mailer}
}
