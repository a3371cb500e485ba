package gateway

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/phazelsound/client/internal/db"
	"github.com/phazelsound/client/internal/model"
)

// UserRepository stores gateway accounts.
type UserRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	// identifier는 email 또는 전화번호
	FindByIdentifier(ctx context.Context, identifier string) (*model.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status model.UserStatus) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// MemoryRepository keeps accounts in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*model.Account
	byEmail map[string]string
	byPhone map[string]string
	nowFunc func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*model.Account),
		byEmail: make(map[string]string),
		byPhone: make(map[string]string),
		nowFunc: time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(account.Email)
	if _, ok := r.byEmail[email]; ok {
		return ErrDuplicateEmail
	}
	if account.Phone != "" {
		if _, ok := r.byPhone[account.Phone]; ok {
			return ErrDuplicatePhone
		}
	}

	stored := *account
	r.byID[stored.ID] = &stored
	r.byEmail[email] = stored.ID
	if stored.Phone != "" {
		r.byPhone[stored.Phone] = stored.ID
	}
	return nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return r.copyOf(id), nil
}

func (r *MemoryRepository) FindByIdentifier(_ context.Context, identifier string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.byEmail[normalizeEmail(identifier)]; ok {
		return r.copyOf(id), nil
	}
	if id, ok := r.byPhone[identifier]; ok {
		return r.copyOf(id), nil
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[normalizeEmail(email)]
	return ok, nil
}

func (r *MemoryRepository) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byPhone[phone]
	return ok, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, status model.UserStatus) error {
	return r.update(id, func(a *model.Account) { a.Status = status })
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.update(id, func(a *model.Account) { a.PasswordHash = passwordHash })
}

func (r *MemoryRepository) update(id string, mutate func(*model.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	mutate(account)
	account.UpdatedAt = r.nowFunc()
	return nil
}

// r.mu를 잡은 상태에서 호출
func (r *MemoryRepository) copyOf(id string) *model.Account {
	out := *r.byID[id]
	return &out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PostgresRepository adapts db.Postgres to UserRepository.
type PostgresRepository struct {
	db *db.Postgres
}

func NewPostgresRepository(pg *db.Postgres) *PostgresRepository {
	return &PostgresRepository{db: pg}
}

func (r *PostgresRepository) Create(ctx context.Context, account *model.Account) error {
	err := r.db.CreateUser(ctx, account)
	if db.IsUniqueViolation(err) {
		// 이메일/전화번호 중 어느 쪽인지 다시 확인
		if exists, _ := r.db.ExistsByEmail(ctx, account.Email); exists {
			return ErrDuplicateEmail
		}
		return ErrDuplicatePhone
	}
	return err
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	return notFound(r.db.GetUserByEmail(ctx, email))
}

func (r *PostgresRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.Account, error) {
	return notFound(r.db.GetUserByIdentifier(ctx, identifier))
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.db.ExistsByEmail(ctx, email)
}

func (r *PostgresRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.db.ExistsByPhone(ctx, phone)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status model.UserStatus) error {
	_, err := notFound(nil, r.db.UpdateUserStatus(ctx, id, status))
	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := notFound(nil, r.db.UpdateUserPassword(ctx, id, passwordHash))
	return err
}

func notFound(account *model.Account, err error) (*model.Account, error) {
	if db.IsNoRows(err) {
		return nil, ErrUserNotFound
	}
	return account, err
}
