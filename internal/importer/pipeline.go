package importer

import (
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/domain/product"
	"stokpanel/pkg/logger"
)

// State reports where a running import currently is.
type State string

const (
	StateIdle       State = "idle"
	StateParsing    State = "parsing"
	StateRowMapping State = "row_mapping"
	StateBatching   State = "batching"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Result summarizes a finished import.
type Result struct {
	Imported int                `json:"imported"`
	Batches  int                `json:"batches"`
	Items    []*product.Product `json:"-"`
}

// Pipeline turns an uploaded CSV or XLSX file into persisted products.
// Rows are parsed and mapped fully before the first write, then
// committed in sequential batches.
type Pipeline struct {
	repo product.Repository

	mu    sync.Mutex
	state State
}

func NewPipeline(repo product.Repository) *Pipeline {
	return &Pipeline{repo: repo, state: StateIdle}
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Run executes a full import. The filename extension selects the
// parser. On a batch failure the earlier batches stay committed; the
// error details carry how many rows made it in.
func (p *Pipeline) Run(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	p.setState(StateParsing)
	rows, err := parseFile(filename, r)
	if err != nil {
		p.setState(StateFailed)
		return nil, apperror.NewValidation("file could not be parsed").
			WithDetail("filename", filename).
			WithDetail("error", err.Error())
	}

	p.setState(StateRowMapping)
	items := mapRows(rows)
	if len(items) == 0 {
		p.setState(StateDone)
		return &Result{}, nil
	}

	p.setState(StateBatching)
	res := &Result{Items: items}
	for start := 0; start < len(items); start += product.BatchLimit {
		end := start + product.BatchLimit
		if end > len(items) {
			end = len(items)
		}
		ops := make([]product.BatchOp, 0, end-start)
		for _, item := range items[start:end] {
			ops = append(ops, product.BatchOp{Kind: product.BatchCreate, Item: item})
		}
		if err := p.repo.BatchWrite(ctx, ops); err != nil {
			p.setState(StateFailed)
			logger.Error(ctx, "import batch failed",
				"batch", res.Batches+1, "committed_rows", res.Imported, "error", err)
			return nil, apperror.NewDatabase(err).
				WithDetail("committed_rows", res.Imported).
				WithDetail("committed_batches", res.Batches)
		}
		res.Imported += end - start
		res.Batches++
	}

	p.setState(StateDone)
	logger.Info(ctx, "import finished",
		"filename", filename, "imported", res.Imported, "batches", res.Batches)
	return res, nil
}

// mapRows converts parsed rows into products. A row survives when it
// has at least a barcode or a name; everything else is dropped.
func mapRows(rows []Row) []*product.Product {
	items := make([]*product.Product, 0, len(rows))
	for _, row := range rows {
		barcode := row.Field("barcode")
		name := row.Field("name")
		if barcode == "" && name == "" {
			continue
		}
		items = append(items, product.New(
			barcode,
			name,
			coerceStock(row.Field("stock")),
			coercePrice(row.Field("price")),
		))
	}
	return items
}

func parseFile(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return parseXLSX(r)
	default:
		return parseCSV(r)
	}
}

func parseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return buildRows(records), nil
}

// buildRows maps the header record onto the data records. The first
// cell may carry a UTF-8 BOM from Excel exports; fully empty records
// are skipped.
func buildRows(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = normalizeHeader(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		empty := true
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		row := make(Row, len(keys))
		for i, key := range keys {
			if key == "" || i >= len(rec) {
				continue
			}
			row[key] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows
}
