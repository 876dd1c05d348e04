package product_repo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stokpanel/internal/core/id"
	"stokpanel/internal/domain/product"
)

func TestPageQuery_FirstPage(t *testing.T) {
	repo := New(nil)

	sql, args, err := repo.pageQuery(50, nil).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, barcode, name, stock, price, created_at, updated_at FROM products "+
			"ORDER BY created_at DESC, id DESC LIMIT 50",
		sql)
	assert.Empty(t, args)
}

func TestPageQuery_AfterCursor(t *testing.T) {
	repo := New(nil)
	cursor := &product.Cursor{
		CreatedAt: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		ID:        id.New(),
	}

	sql, args, err := repo.pageQuery(50, cursor).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, barcode, name, stock, price, created_at, updated_at FROM products "+
			"WHERE (created_at, id) < ($1, $2) ORDER BY created_at DESC, id DESC LIMIT 50",
		sql)
	require.Len(t, args, 2)
	assert.Equal(t, cursor.CreatedAt, args[0])
	assert.Equal(t, cursor.ID, args[1])
}

func TestInsertQuery_UsesAllColumns(t *testing.T) {
	repo := New(nil)
	p := product.New("8690001", "Çay", 12, decimal.RequireFromString("19.99"))

	sql, args, err := repo.insertQuery(p).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO products")
	for _, col := range []string{"id", "barcode", "name", "stock", "price", "created_at", "updated_at"} {
		assert.Contains(t, sql, col)
	}
	assert.Len(t, args, 7)
}

func TestUpdateQuery_NeverRewritesID(t *testing.T) {
	repo := New(nil)
	p := product.New("8690001", "Çay", 12, decimal.RequireFromString("19.99"))

	sql, _, err := repo.updateQuery(p).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE products SET")
	assert.Contains(t, sql, "WHERE id = ")
	assert.NotContains(t, sql, "id = $1, ")
	assert.NotContains(t, sql, "SET id")
}

func TestBatchWrite_Limits(t *testing.T) {
	repo := New(nil)
	ctx := context.Background()

	// Empty batch is a no-op and never touches the database.
	require.NoError(t, repo.BatchWrite(ctx, nil))

	// Oversized batches are rejected before any statement is built.
	ops := make([]product.BatchOp, product.BatchLimit+1)
	for i := range ops {
		ops[i] = product.BatchOp{
			Kind: product.BatchCreate,
			Item: product.New("b", "n", 1, decimal.Zero),
		}
	}
	assert.ErrorIs(t, repo.BatchWrite(ctx, ops), product.ErrBatchTooLarge)
}
