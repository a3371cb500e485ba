package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phazelsound/client/internal/config"
)

func TestBuildPostgresURL(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.PostgresConfig
		want    string
		wantErr bool
	}{
		{
			name: "database-url-wins",
			cfg:  config.PostgresConfig{DatabaseURL: "postgres://a@b/c", User: "x", Database: "y"},
			want: "postgres://a@b/c",
		},
		{
			name: "from-parts",
			cfg:  config.PostgresConfig{User: "phazel", Password: "pw", Database: "phazel", Host: "db", Port: "5433", SSLMode: "require"},
			want: "postgres://phazel:pw@db:5433/phazel?sslmode=require",
		},
		{
			name: "defaults",
			cfg:  config.PostgresConfig{User: "phazel", Database: "phazel"},
			want: "postgres://phazel@localhost:5432/phazel?sslmode=disable",
		},
		{
			name:    "missing",
			cfg:     config.PostgresConfig{Host: "db"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildPostgresURL(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildPostgresURL() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("BuildPostgresURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsNoRows(fmt.Errorf("lookup: %w", pgx.ErrNoRows)) {
		t.Fatalf("wrapped ErrNoRows not detected")
	}
	if IsNoRows(errors.New("other")) {
		t.Fatalf("unexpected no-rows match")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("unique violation not detected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation reported as unique")
	}
}
