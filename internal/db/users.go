package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phazelsound/client/internal/model"
)

const userColumns = `id, email, COALESCE(phone, ''), full_name, COALESCE(avatar_url, ''), password_hash, role, status, created_at, updated_at`

func (db *Postgres) EnsureUserSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			phone TEXT UNIQUE,
			full_name TEXT NOT NULL,
			avatar_url TEXT,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER',
			status TEXT NOT NULL DEFAULT 'UNVERIFIED',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS users_status_idx ON users(status)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// CreateUser inserts account. ID, CreatedAt and UpdatedAt must be set by
// the caller.
func (db *Postgres) CreateUser(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO users (id, email, phone, full_name, avatar_url, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, $8, $9, $10)
	`
	_, err := db.Pool.Exec(ctx, query,
		account.ID,
		account.Email,
		account.Phone,
		account.FullName,
		account.AvatarURL,
		account.PasswordHash,
		string(account.Role),
		string(account.Status),
		account.CreatedAt,
		account.UpdatedAt,
	)
	return err
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanAccount(db.Pool.QueryRow(ctx, query, email))
}

// email 또는 전화번호로 조회
func (db *Postgres) GetUserByIdentifier(ctx context.Context, identifier string) (*model.Account, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR phone = $1 LIMIT 1`
	return scanAccount(db.Pool.QueryRow(ctx, query, identifier))
}

func (db *Postgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (db *Postgres) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE phone = $1)`, phone).Scan(&exists)
	return exists, err
}

func (db *Postgres) UpdateUserStatus(ctx context.Context, id string, status model.UserStatus) error {
	query := `
		UPDATE users
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := db.Pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (db *Postgres) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := db.Pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var (
		account model.Account
		role    string
		status  string
	)
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Phone,
		&account.FullName,
		&account.AvatarURL,
		&account.PasswordHash,
		&role,
		&status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	account.Role = model.Role(role)
	account.Status = model.UserStatus(status)
	return &account, nil
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
