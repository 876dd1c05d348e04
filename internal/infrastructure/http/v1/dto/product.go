package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stokpanel/internal/domain/catalogue"
	"stokpanel/internal/domain/product"
)

// ProductResponse is the wire form of a catalogue item. Price goes out
// as a fixed two-decimal string.
type ProductResponse struct {
	ID        string     `json:"id"`
	Barcode   string     `json:"barcode"`
	Name      string     `json:"name"`
	Stock     int64      `json:"stock"`
	Price     string     `json:"price"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// FromProduct creates ProductResponse from a product.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID.String(),
		Barcode:   p.Barcode,
		Name:      p.Name,
		Stock:     p.Stock,
		Price:     p.DisplayPrice(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// FromProducts maps a list.
func FromProducts(items []*product.Product) []ProductResponse {
	res := make([]ProductResponse, len(items))
	for i, p := range items {
		res[i] = FromProduct(p)
	}
	return res
}

// ProductListResponse is one page of the catalogue view.
type ProductListResponse struct {
	Items   []ProductResponse `json:"items"`
	HasMore bool              `json:"hasMore"`
}

// FromView creates ProductListResponse from the controller snapshot.
func FromView(v catalogue.View) ProductListResponse {
	return ProductListResponse{
		Items:   FromProducts(v.Items),
		HasMore: v.HasMore,
	}
}

// StatsResponse carries the totals bar numbers.
type StatsResponse struct {
	TotalItems int    `json:"totalItems"`
	TotalStock int64  `json:"totalStock"`
	TotalValue string `json:"totalValue"`
}

// FromStats creates StatsResponse from controller stats.
func FromStats(s catalogue.Stats) StatsResponse {
	return StatsResponse{
		TotalItems: s.TotalItems,
		TotalStock: s.TotalStock,
		TotalValue: s.TotalValue.StringFixed(2),
	}
}

// CreateProductRequest for adding one product from the form.
type CreateProductRequest struct {
	Barcode string `json:"barcode"`
	Name    string `json:"name"`
	Stock   int64  `json:"stock"`
	Price   string `json:"price"`
}

// ToProduct builds the domain product. A blank or invalid price
// becomes zero; validation of the whole item happens in the domain.
func (r CreateProductRequest) ToProduct() *product.Product {
	return product.New(r.Barcode, r.Name, r.Stock, ParsePrice(r.Price))
}

// UpdateProductRequest replaces all editable fields of a product.
type UpdateProductRequest struct {
	Barcode string `json:"barcode"`
	Name    string `json:"name"`
	Stock   int64  `json:"stock"`
	Price   string `json:"price"`
}

// SearchRequest carries the filter term.
type SearchRequest struct {
	Term string `form:"q"`
}

// ParsePrice reads a decimal price from the wire; blank or malformed
// input becomes zero.
func ParsePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
