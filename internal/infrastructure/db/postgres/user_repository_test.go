package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/realworld/conduit-api/internal/core/domain"
)

func TestMapWriteError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		exists bool
	}{
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}, true},
		{"wrapped unique violation", errors.Join(errors.New("tx"), &pgconn.PgError{Code: pgUniqueViolation}), true},
		{"other pg error", &pgconn.PgError{Code: "23502"}, false},
		{"plain error", errors.New("conn reset"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapWriteError("insert user", tc.err)
			if errors.Is(got, domain.ErrUserExists) != tc.exists {
				t.Fatalf("mapWriteError(%v) = %v, exists=%v", tc.err, got, tc.exists)
			}
			if !tc.exists && !errors.Is(got, tc.err) {
				t.Fatalf("expected cause to be wrapped, got %v", got)
			}
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 migration files, got %d", len(entries))
	}
}
