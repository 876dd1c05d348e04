package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"İsim", "Isim"},
		{"  Barkod ", "Barkod"},
		{"Ürün", "Urun"},
		{"STOK", "STOK"},
		{"Fiyat", "Fiyat"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeHeader(tt.in), "input %q", tt.in)
	}
}

func TestRowField_HeaderVariants(t *testing.T) {
	tests := []struct {
		name   string
		row    Row
		field  string
		want   string
	}{
		{"lowercase base", Row{"barcode": "123"}, "barcode", "123"},
		{"turkish alias", Row{"barkod": "123"}, "barcode", "123"},
		{"uppercase alias", Row{"STOK": "12"}, "stock", "12"},
		{"capitalized alias", Row{"Fiyat": "19.99"}, "price", "19.99"},
		{"normalized dotless capital", Row{"Isim": "Çay"}, "name", "Çay"},
		{"urun alias", Row{"urun": "Kahve"}, "name", "Kahve"},
		{"missing field", Row{"other": "x"}, "name", ""},
		{"empty value falls through", Row{"name": "", "isim": "Su"}, "name", "Su"},
		{"value gets trimmed", Row{"barkod": " 99 "}, "barcode", "99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.Field(tt.field))
		})
	}
}

func TestCoerceStock(t *testing.T) {
	assert.Equal(t, int64(12), coerceStock("12"))
	assert.Equal(t, int64(12), coerceStock("12.7"))
	assert.Equal(t, int64(0), coerceStock(""))
	assert.Equal(t, int64(0), coerceStock("abc"))
	assert.Equal(t, int64(0), coerceStock("-5"))
}

func TestCoercePrice(t *testing.T) {
	assert.Equal(t, "19.99", coercePrice("19.99").String())
	assert.True(t, coercePrice("").IsZero())
	assert.True(t, coercePrice("n/a").IsZero())
	assert.True(t, coercePrice("-1.50").IsZero())
}
