package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/domain/stockcount"
)

// BOM is prepended to every CSV download so Excel detects UTF-8 and
// renders Turkish characters correctly.
const BOM = "\uFEFF"

// TemplateFilename is the download name for the import template.
const TemplateFilename = "urun_sablonu.csv"

var templateHeader = []string{"Barkod", "İsim", "Stok", "Fiyat"}

// Template renders the import template: the Turkish header row plus
// two sample rows showing the expected value formats.
func Template() ([]byte, error) {
	return render([][]string{
		templateHeader,
		{"8690000000001", "Örnek Ürün 1", "10", "25.50"},
		{"8690000000002", "Ornek Urun 2", "5", "12.00"},
	})
}

// StockCountCSV renders the current count entries as Barkod,Stok
// pairs. The filename carries the count date.
func StockCountCSV(entries []stockcount.Entry, now time.Time) (filename string, data []byte, err error) {
	if len(entries) == 0 {
		return "", nil, apperror.NewValidation("no stock count entries to export")
	}
	records := make([][]string, 0, len(entries)+1)
	records = append(records, []string{"Barkod", "Stok"})
	for _, e := range entries {
		records = append(records, []string{e.Barcode, fmt.Sprintf("%d", e.Quantity)})
	}
	data, err = render(records)
	if err != nil {
		return "", nil, err
	}
	filename = fmt.Sprintf("stok_sayim_%s.csv", now.Format("2006-01-02"))
	return filename, data, nil
}

func render(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(BOM)
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
