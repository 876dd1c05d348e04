// Package product provides the catalogue item model and store contract.
// A product is identified by its barcode from the operator's point of view,
// but the store key is an opaque time-ordered ID assigned at creation.
package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/core/id"
)

// Product represents a catalogue item.
type Product struct {
	// ID is the store-assigned identifier, stable for the item's lifetime
	ID id.ID `db:"id" json:"id"`

	// Barcode is intended unique but not enforced
	Barcode string `db:"barcode" json:"barcode"`

	// Name may be empty (stock-count-created placeholder items)
	Name string `db:"name" json:"name"`

	// Stock is the quantity on hand
	Stock int64 `db:"stock" json:"stock"`

	// Price uses a two-fraction-digit display convention
	Price decimal.Decimal `db:"price" json:"price"`

	// CreatedAt is set once at creation and is the sole pagination sort key
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// UpdatedAt is absent until the first mutation
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// New creates a Product with a generated ID and creation timestamp.
func New(barcode, name string, stock int64, price decimal.Decimal) *Product {
	return &Product{
		ID:        id.New(),
		Barcode:   barcode,
		Name:      name,
		Stock:     stock,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks item invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Barcode == "" && p.Name == "" {
		return apperror.NewValidation("barcode or name is required").
			WithDetail("field", "barcode")
	}

	if p.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock").
			WithDetail("value", p.Stock)
	}

	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price").
			WithDetail("value", p.Price.String())
	}

	return nil
}

// Touch stamps UpdatedAt. Called on every mutation after creation.
func (p *Product) Touch() {
	now := time.Now().UTC()
	p.UpdatedAt = &now
}

// DisplayPrice renders the price with two fraction digits.
func (p *Product) DisplayPrice() string {
	return p.Price.StringFixed(2)
}

// Value returns stock multiplied by price (for the totals bar).
func (p *Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.Stock))
}

// Clone returns a copy safe to mutate without touching the view.
func (p *Product) Clone() *Product {
	cp := *p
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		cp.UpdatedAt = &t
	}
	return &cp
}
