package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/domain/stockcount"
)

func TestTemplate(t *testing.T) {
	data, err := Template()
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, BOM), "template must start with a UTF-8 BOM")

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(content, BOM), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Barkod,İsim,Stok,Fiyat", lines[0])

	// Sample rows carry well-formed numbers.
	for _, line := range lines[1:] {
		fields := strings.Split(line, ",")
		require.Len(t, fields, 4)
	}
}

func TestStockCountCSV(t *testing.T) {
	entries := []stockcount.Entry{
		{Barcode: "8690001", Quantity: 4},
		{Barcode: "8690002", Quantity: 1},
	}
	now := time.Date(2025, 3, 14, 17, 30, 0, 0, time.UTC)

	filename, data, err := StockCountCSV(entries, now)
	require.NoError(t, err)
	assert.Equal(t, "stok_sayim_2025-03-14.csv", filename)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, BOM))
	assert.Contains(t, content, "Barkod,Stok\n")
	assert.Contains(t, content, "8690001,4\n")
	assert.Contains(t, content, "8690002,1\n")
}

func TestStockCountCSV_EmptyRejected(t *testing.T) {
	_, _, err := StockCountCSV(nil, time.Now())
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
