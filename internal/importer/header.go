package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/shopspring/decimal"
)

// fieldAliases maps each logical field to its accepted header names,
// base language first, Turkish spreadsheet aliases after.
var fieldAliases = map[string][]string{
	"barcode": {"barcode", "barkod"},
	"name":    {"name", "isim", "urun", "ürün"},
	"stock":   {"stock", "stok"},
	"price":   {"price", "fiyat"},
}

// stripMarks decomposes and drops combining marks, so "İsim" and
// "Isim" resolve to the same header.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// turkishASCII maps Turkish-specific letters to their unaccented forms.
var turkishASCII = strings.NewReplacer(
	"ı", "i", "İ", "I",
	"ş", "s", "Ş", "S",
	"ğ", "g", "Ğ", "G",
	"ü", "u", "Ü", "U",
	"ö", "o", "Ö", "O",
	"ç", "c", "Ç", "C",
)

// normalizeHeader strips accents and surrounding whitespace from an
// incoming column header.
func normalizeHeader(h string) string {
	out, _, err := transform.String(stripMarks, h)
	if err != nil {
		return strings.TrimSpace(h)
	}
	return strings.TrimSpace(out)
}

// candidateKeys lists the header spellings tried for one alias:
// lowercase, uppercase, capitalized and transliterated.
func candidateKeys(alias string) []string {
	return []string{
		strings.ToLower(alias),
		strings.ToUpper(alias),
		capitalize(alias),
		turkishASCII.Replace(alias),
	}
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}

// Row is one parsed data row keyed by normalized header name.
type Row map[string]string

// Field resolves a logical field against the row headers. The first
// alias spelling with a non-empty value wins; unresolved fields are "".
func (r Row) Field(field string) string {
	for _, alias := range fieldAliases[field] {
		for _, key := range candidateKeys(alias) {
			if v, ok := r[key]; ok {
				if trimmed := strings.TrimSpace(v); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

// coerceStock parses an integer quantity. Parse failure, empty input
// and negative values all map to zero; a row never fails on numbers.
func coerceStock(s string) int64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0
	}
	return d.IntPart()
}

// coercePrice parses a decimal price with the same never-fail rule.
func coercePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
