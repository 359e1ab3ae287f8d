package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countProducts(t *testing.T, db *sqlx.DB) int {
	t.Helper()

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM products"))
	return n
}

func TestWithTransactionCommits(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db))

	err := WithTransaction(ctx, db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO products (name) VALUES (?)", "Ring")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countProducts(t, db))
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db))

	errBoom := errors.New("boom")
	err := WithTransaction(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO products (name) VALUES (?)", "Ring"); err != nil {
			return err
		}
		return errBoom
	})
	assert.Same(t, errBoom, err)
	assert.Zero(t, countProducts(t, db))
}
