// Package stockcount implements the barcode-scanning stock count and
// its reconciliation against the loaded catalogue.
package stockcount

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/domain/catalogue"
	"stokpanel/internal/domain/product"
	"stokpanel/pkg/logger"
)

// ConfirmTTL is how long the scan confirmation message stays visible
// before the client auto-clears it.
const ConfirmTTL = 2 * time.Second

// Entry is one ephemeral (barcode, accumulated quantity) pair.
// Never persisted directly; only its reconciliation effect is durable.
type Entry struct {
	Barcode  string `json:"barcode"`
	Quantity int64  `json:"quantity"`
}

// Service owns the ordered ephemeral scan list.
type Service struct {
	repo      product.Repository
	catalogue *catalogue.Controller

	mu      sync.Mutex
	entries []Entry
}

// NewService creates an empty stock count.
func NewService(repo product.Repository, ctl *catalogue.Controller) *Service {
	return &Service{repo: repo, catalogue: ctl}
}

// SubmitScan accumulates quantity onto an existing entry with the same
// barcode, or appends a new one. Returns the resulting entry and the
// transient confirmation message.
func (s *Service) SubmitScan(barcode string, quantity int64) (Entry, string, error) {
	if barcode == "" {
		return Entry{}, "", apperror.NewValidation("barcode is required").
			WithDetail("field", "barcode")
	}
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Barcode == barcode {
			s.entries[i].Quantity += quantity
			e := s.entries[i]
			return e, scanConfirmation(barcode, quantity), nil
		}
	}

	e := Entry{Barcode: barcode, Quantity: quantity}
	s.entries = append(s.entries, e)
	return e, scanConfirmation(barcode, quantity), nil
}

// RemoveEntry deletes the matching entry. Unknown barcodes are a no-op.
func (s *Service) RemoveEntry(barcode string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Barcode == barcode {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Clear drops the whole ephemeral list.
func (s *Service) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

// Entries returns a snapshot of the scan list in submission order.
func (s *Service) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Save reconciles every entry against the currently loaded catalogue
// list: a barcode match overwrites that item's stock (not adds), an
// unmatched barcode creates a bare-bones item. All writes form a single
// atomic batch. On success the list is cleared and a fresh catalogue
// load is triggered; on failure the list stays intact.
func (s *Service) Save(ctx context.Context) (int, error) {
	s.mu.Lock()
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	if len(entries) == 0 {
		return 0, apperror.NewValidation("add at least one entry before saving")
	}

	loaded := s.catalogue.View().Items

	ops := make([]product.BatchOp, 0, len(entries))
	for _, e := range entries {
		if existing := matchByBarcode(loaded, e.Barcode); existing != nil {
			updated := existing.Clone()
			updated.Stock = e.Quantity
			updated.Touch()
			ops = append(ops, product.BatchOp{Kind: product.BatchUpdate, Item: updated})
		} else {
			created := product.New(e.Barcode, "", e.Quantity, decimal.Zero)
			ops = append(ops, product.BatchOp{Kind: product.BatchCreate, Item: created})
		}
	}

	if err := s.repo.BatchWrite(ctx, ops); err != nil {
		return 0, apperror.NewDatabase(err)
	}

	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()

	if err := s.catalogue.LoadFirstPage(ctx); err != nil {
		// The save itself succeeded; the stale view recovers on the next load.
		logger.Warn(ctx, "catalogue reload after stock count save failed", "error", err)
	}

	return len(ops), nil
}

func matchByBarcode(items []*product.Product, barcode string) *product.Product {
	for _, p := range items {
		if p.Barcode == barcode {
			return p
		}
	}
	return nil
}

func scanConfirmation(barcode string, quantity int64) string {
	return fmt.Sprintf("Barkod %s eklendi: %d adet", barcode, quantity)
}
