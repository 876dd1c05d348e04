// Package catalogue orchestrates catalogue loading, pagination, search
// and mutations against the product store, maintaining the in-memory
// list that represents the currently displayed page(s).
package catalogue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/core/id"
	"stokpanel/internal/domain/product"
	"stokpanel/internal/netstatus"
	"stokpanel/pkg/logger"
)

const (
	// DefaultPageSize is the number of items per page.
	DefaultPageSize = 50

	// DefaultLoadTimeout aborts an unresponsive backend load.
	DefaultLoadTimeout = 15 * time.Second
)

// ErrLoadInFlight means a competing load/search arrived while one was
// outstanding. The newcomer is dropped, not queued; callers re-trigger
// manually.
var ErrLoadInFlight = errors.New("a load is already in flight")

// Config configures the controller.
type Config struct {
	Repo        product.Repository
	Monitor     netstatus.Monitor
	PageSize    int
	LoadTimeout time.Duration
}

// Controller owns the in-memory product list and the pagination cursor.
// All state transitions go through its operations; presentation code
// only ever reads snapshots.
type Controller struct {
	repo        product.Repository
	monitor     netstatus.Monitor
	pageSize    int
	loadTimeout time.Duration

	mu       sync.Mutex
	items    []*product.Product
	cursor   *product.Cursor
	hasMore  bool
	inFlight bool
}

// NewController creates a controller with defaults applied.
func NewController(cfg Config) *Controller {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.Monitor == nil {
		cfg.Monitor = netstatus.NewFlag(true)
	}
	return &Controller{
		repo:        cfg.Repo,
		monitor:     cfg.Monitor,
		pageSize:    cfg.PageSize,
		loadTimeout: cfg.LoadTimeout,
	}
}

// beginLoad claims the single in-flight slot. Returns false when a
// load/search is already outstanding.
func (c *Controller) beginLoad() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return false
	}
	c.inFlight = true
	return true
}

func (c *Controller) endLoad() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// LoadFirstPage fetches the newest page and replaces the current list.
// The last returned item becomes the pagination cursor; has-more is the
// heuristic "returned count equals page size" (no total count query).
func (c *Controller) LoadFirstPage(ctx context.Context) error {
	if !c.beginLoad() {
		logger.Warn(ctx, "first-page load dropped, another load in flight")
		return ErrLoadInFlight
	}
	defer c.endLoad()

	if !c.monitor.Online() {
		return apperror.NewOffline()
	}

	loadCtx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	items, err := c.repo.ListPage(loadCtx, c.pageSize, nil)
	if err != nil {
		// First-page failure clears the view and surfaces a retryable state.
		c.mu.Lock()
		c.items = nil
		c.cursor = nil
		c.hasMore = false
		c.mu.Unlock()
		return c.loadError(err)
	}

	c.mu.Lock()
	c.items = items
	c.cursor = cursorAfter(items)
	c.hasMore = len(items) == c.pageSize
	c.mu.Unlock()

	return nil
}

// LoadNextPage fetches the page strictly after the held cursor and
// appends it. A missing cursor makes this a no-op.
func (c *Controller) LoadNextPage(ctx context.Context) error {
	c.mu.Lock()
	after := c.cursor
	c.mu.Unlock()
	if after == nil {
		return nil
	}

	if !c.beginLoad() {
		logger.Warn(ctx, "next-page load dropped, another load in flight")
		return ErrLoadInFlight
	}
	defer c.endLoad()

	if !c.monitor.Online() {
		return apperror.NewOffline()
	}

	loadCtx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	items, err := c.repo.ListPage(loadCtx, c.pageSize, after)
	if err != nil {
		return c.loadError(err)
	}

	c.mu.Lock()
	c.items = append(c.items, items...)
	if next := cursorAfter(items); next != nil {
		c.cursor = next
	}
	c.hasMore = len(items) == c.pageSize
	c.mu.Unlock()

	return nil
}

// Search retrieves the entire collection and filters it client-side by
// case-insensitive substring match on name or barcode. An empty term
// degrades to LoadFirstPage. Search results are never paginated further.
func (c *Controller) Search(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return c.LoadFirstPage(ctx)
	}

	if !c.beginLoad() {
		logger.Warn(ctx, "search dropped, another load in flight")
		return ErrLoadInFlight
	}
	defer c.endLoad()

	if !c.monitor.Online() {
		return apperror.NewOffline()
	}

	all, err := c.repo.ListAll(ctx)
	if err != nil {
		c.mu.Lock()
		c.items = nil
		c.cursor = nil
		c.hasMore = false
		c.mu.Unlock()
		return c.loadError(err)
	}

	needle := strings.ToLower(term)
	filtered := make([]*product.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Barcode), needle) {
			filtered = append(filtered, p)
		}
	}

	c.mu.Lock()
	c.items = filtered
	c.cursor = nil
	c.hasMore = false
	c.mu.Unlock()

	return nil
}

// Create writes the item to the store, then prepends it to the list
// (consistent with descending creation-time ordering). The list is
// untouched when the write fails.
func (c *Controller) Create(ctx context.Context, item *product.Product) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}
	if !c.monitor.Online() {
		return apperror.NewOffline()
	}

	if err := c.repo.Create(ctx, item); err != nil {
		return apperror.NewDatabase(err)
	}

	c.mu.Lock()
	c.items = append([]*product.Product{item}, c.items...)
	c.mu.Unlock()

	return nil
}

// Update overwrites the item in the store, then replaces the matching
// entry in place.
func (c *Controller) Update(ctx context.Context, item *product.Product) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}
	if !c.monitor.Online() {
		return apperror.NewOffline()
	}

	item.Touch()
	if err := c.repo.Update(ctx, item); err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewDatabase(err)
	}

	c.mu.Lock()
	for i, p := range c.items {
		if p.ID == item.ID {
			c.items[i] = item
			break
		}
	}
	c.mu.Unlock()

	return nil
}

// Delete removes the item from the store, then from the list.
func (c *Controller) Delete(ctx context.Context, itemID id.ID) error {
	if !c.monitor.Online() {
		return apperror.NewOffline()
	}

	if err := c.repo.Delete(ctx, itemID); err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewDatabase(err)
	}

	c.mu.Lock()
	for i, p := range c.items {
		if p.ID == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	return nil
}

// PrependAll puts freshly imported items at the head of the list.
// Callers follow up with LoadFirstPage to reconcile ordering.
func (c *Controller) PrependAll(items []*product.Product) {
	if len(items) == 0 {
		return
	}
	c.mu.Lock()
	c.items = append(append([]*product.Product{}, items...), c.items...)
	c.mu.Unlock()
}

// View is a read-only snapshot of the controller state.
type View struct {
	Items   []*product.Product
	HasMore bool
}

// View returns the current list and has-more flag.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]*product.Product, len(c.items))
	copy(items, c.items)
	return View{Items: items, HasMore: c.hasMore}
}

// Cursor returns the held pagination cursor, or nil.
func (c *Controller) Cursor() *product.Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Stats aggregates the loaded list for the totals bar.
type Stats struct {
	TotalItems int             `json:"totalItems"`
	TotalStock int64           `json:"totalStock"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// Stats computes totals over the loaded list only.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{TotalItems: len(c.items), TotalValue: decimal.Zero}
	for _, p := range c.items {
		s.TotalStock += p.Stock
		s.TotalValue = s.TotalValue.Add(p.Value())
	}
	return s
}

// loadError maps backend failures: a deadline hit becomes the distinct
// "backend unresponsive" error, anything else a retryable load failure.
func (c *Controller) loadError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewBackendTimeout(err)
	}
	dbErr := apperror.NewDatabase(err)
	dbErr.Retryable = true
	return dbErr
}

func cursorAfter(items []*product.Product) *product.Cursor {
	if len(items) == 0 {
		return nil
	}
	last := items[len(items)-1]
	return &product.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
}
