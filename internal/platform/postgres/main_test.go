package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
)

// newTestTx opens a transaction against the database named by
// DATABASE_URL and creates temporary decks/cards tables inside it. The
// temp tables shadow any real ones for the lifetime of the transaction,
// and the rollback in cleanup leaves the database untouched.
// Tests are skipped entirely when DATABASE_URL is unset.
func newTestTx(t *testing.T) *sql.Tx {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping postgres integration test")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		// Rollback after commit-free tests; ErrTxDone only if a test
		// committed, which none should.
		_ = tx.Rollback()
	})

	for _, ddl := range []string{
		`CREATE TEMP TABLE decks (
			id BIGSERIAL PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name VARCHAR(255) NOT NULL,
			description VARCHAR(1000),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		) ON COMMIT DROP`,
		`CREATE TEMP TABLE cards (
			id BIGSERIAL PRIMARY KEY,
			deck_id BIGINT NOT NULL REFERENCES decks (id) ON DELETE CASCADE,
			front VARCHAR(2000) NOT NULL,
			back VARCHAR(2000) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		) ON COMMIT DROP`,
	} {
		_, err := tx.ExecContext(ctx, ddl)
		require.NoError(t, err)
	}

	return tx
}
