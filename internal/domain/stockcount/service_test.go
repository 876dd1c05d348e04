package stockcount

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/core/id"
	"stokpanel/internal/domain/catalogue"
	"stokpanel/internal/domain/product"
)

// countRepo records batches and serves a fixed catalogue page.
type countRepo struct {
	page     []*product.Product
	batches  [][]product.BatchOp
	batchErr error
}

func (r *countRepo) ListPage(ctx context.Context, limit int, after *product.Cursor) ([]*product.Product, error) {
	return r.page, nil
}

func (r *countRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	return r.page, nil
}

func (r *countRepo) GetByID(ctx context.Context, itemID id.ID) (*product.Product, error) {
	return nil, apperror.NewNotFound("products", itemID.String())
}

func (r *countRepo) Create(ctx context.Context, item *product.Product) error { return nil }
func (r *countRepo) Update(ctx context.Context, item *product.Product) error { return nil }
func (r *countRepo) Delete(ctx context.Context, itemID id.ID) error          { return nil }

func (r *countRepo) BatchWrite(ctx context.Context, ops []product.BatchOp) error {
	if r.batchErr != nil {
		return r.batchErr
	}
	r.batches = append(r.batches, ops)
	return nil
}

func newFixture(t *testing.T, page []*product.Product) (*Service, *countRepo) {
	t.Helper()
	repo := &countRepo{page: page}
	ctl := catalogue.NewController(catalogue.Config{Repo: repo})
	require.NoError(t, ctl.LoadFirstPage(context.Background()))
	return NewService(repo, ctl), repo
}

func TestSubmitScan_AccumulatesSameBarcode(t *testing.T) {
	svc, _ := newFixture(t, nil)

	entry, msg, err := svc.SubmitScan("8690001", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.Quantity)
	assert.Equal(t, "Barkod 8690001 eklendi: 2 adet", msg)

	entry, msg, err = svc.SubmitScan("8690001", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), entry.Quantity)
	// The confirmation names the submitted quantity, not the total.
	assert.Equal(t, "Barkod 8690001 eklendi: 3 adet", msg)

	entries := svc.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(5), entries[0].Quantity)
}

func TestSubmitScan_DefaultsQuantityToOne(t *testing.T) {
	svc, _ := newFixture(t, nil)

	entry, _, err := svc.SubmitScan("8690001", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.Quantity)

	entry, _, err = svc.SubmitScan("8690002", -7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.Quantity)
}

func TestSubmitScan_RejectsEmptyBarcode(t *testing.T) {
	svc, _ := newFixture(t, nil)

	_, _, err := svc.SubmitScan("", 1)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRemoveEntry(t *testing.T) {
	svc, _ := newFixture(t, nil)
	_, _, _ = svc.SubmitScan("A", 1)
	_, _, _ = svc.SubmitScan("B", 1)

	svc.RemoveEntry("A")
	entries := svc.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].Barcode)

	// Unknown barcode is a no-op.
	svc.RemoveEntry("missing")
	assert.Len(t, svc.Entries(), 1)
}

func TestSave_OverwritesMatchedAndCreatesUnmatched(t *testing.T) {
	known := product.New("8690001", "Çay", 10, decimal.RequireFromString("4.50"))
	svc, repo := newFixture(t, []*product.Product{known})

	_, _, _ = svc.SubmitScan("8690001", 4)
	_, _, _ = svc.SubmitScan("0000009", 2)

	saved, err := svc.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	require.Len(t, repo.batches, 1)
	ops := repo.batches[0]
	require.Len(t, ops, 2)

	// Matched barcode: stock overwritten to the counted quantity.
	assert.Equal(t, product.BatchUpdate, ops[0].Kind)
	assert.Equal(t, known.ID, ops[0].Item.ID)
	assert.Equal(t, int64(4), ops[0].Item.Stock)
	assert.Equal(t, "Çay", ops[0].Item.Name)
	assert.NotNil(t, ops[0].Item.UpdatedAt)

	// Unmatched barcode: bare-bones item with empty name and zero price.
	assert.Equal(t, product.BatchCreate, ops[1].Kind)
	assert.Equal(t, "0000009", ops[1].Item.Barcode)
	assert.Equal(t, "", ops[1].Item.Name)
	assert.Equal(t, int64(2), ops[1].Item.Stock)
	assert.True(t, ops[1].Item.Price.IsZero())

	// List cleared after a successful save.
	assert.Empty(t, svc.Entries())
}

func TestSave_EmptyListRejected(t *testing.T) {
	svc, _ := newFixture(t, nil)

	_, err := svc.Save(context.Background())
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSave_FailureKeepsEntries(t *testing.T) {
	svc, repo := newFixture(t, nil)
	repo.batchErr = assert.AnError

	_, _, _ = svc.SubmitScan("8690001", 3)
	_, err := svc.Save(context.Background())

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDatabase, appErr.Code)
	assert.Len(t, svc.Entries(), 1)
}
