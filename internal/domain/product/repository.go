package product

import (
	"context"
	"errors"
	"time"

	"stokpanel/internal/core/id"
)

// BatchLimit is the hard per-batch cardinality cap of the store.
// Writers chunk their work so a single batch never exceeds it.
const BatchLimit = 500

// ErrBatchTooLarge is returned when a caller hands the store more
// operations than one batch may carry.
var ErrBatchTooLarge = errors.New("batch exceeds per-batch operation limit")

// Cursor is an opaque reference to the last-returned record of the
// prior page. Owned exclusively by the catalogue controller.
type Cursor struct {
	CreatedAt time.Time
	ID        id.ID
}

// BatchOpKind discriminates batched write operations.
type BatchOpKind int

const (
	BatchCreate BatchOpKind = iota
	BatchUpdate
)

// BatchOp is one operation inside a batched multi-write.
type BatchOp struct {
	Kind BatchOpKind
	Item *Product
}

// Repository defines the catalogue store adapter contract.
type Repository interface {
	// ListPage returns up to limit items ordered by creation time
	// descending, strictly after the cursor when one is given.
	ListPage(ctx context.Context, limit int, after *Cursor) ([]*Product, error)

	// ListAll returns the entire collection, unbounded. Used by search only.
	ListAll(ctx context.Context) ([]*Product, error)

	// GetByID performs a point lookup.
	GetByID(ctx context.Context, itemID id.ID) (*Product, error)

	// Create inserts a new item.
	Create(ctx context.Context, item *Product) error

	// Update overwrites an existing item.
	Update(ctx context.Context, item *Product) error

	// Delete removes an item by identifier.
	Delete(ctx context.Context, itemID id.ID) error

	// BatchWrite commits all operations as one atomic batch.
	// Returns ErrBatchTooLarge when len(ops) > BatchLimit.
	BatchWrite(ctx context.Context, ops []BatchOp) error
}
