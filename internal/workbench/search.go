package workbench

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/abhishake-droid/pos-console/internal/client"
	"github.com/abhishake-droid/pos-console/internal/order"
)

// DefaultDebounce is the delay between the last keystroke and the
// search request it triggers.
const DefaultDebounce = 200 * time.Millisecond

// scanPageSize is the page size used by the full-scan fallback.
const scanPageSize = 100

// Debouncer coalesces rapid calls: each Do cancels the pending timer
// and restarts it, so only the last scheduled function fires.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a Debouncer. A non-positive delay falls back to
// DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Do schedules fn after the debounce delay, cancelling any pending
// earlier call.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// ProductAPI is the product surface the search helper needs.
// Satisfied by *client.Client.
type ProductAPI interface {
	SearchProducts(ctx context.Context, query string, page, size int) (*client.ProductPage, error)
	ListProducts(ctx context.Context, page, size int) (*client.ProductPage, error)
}

// ProductSearch resolves autocomplete queries. The server-side filtered
// endpoint is preferred; backends without it answer 404, and the search
// falls back to scanning all pages and filtering client-side. The
// fallback is an explicit degraded mode, not the default.
type ProductSearch struct {
	api      ProductAPI
	debounce *Debouncer
}

// NewProductSearch creates a ProductSearch with the given debounce
// delay.
func NewProductSearch(api ProductAPI, debounce time.Duration) *ProductSearch {
	return &ProductSearch{api: api, debounce: NewDebouncer(debounce)}
}

// Search runs one query immediately. Use Debounced from keystroke
// handlers.
func (s *ProductSearch) Search(ctx context.Context, query string) ([]order.Product, error) {
	page, err := s.api.SearchProducts(ctx, query, 0, scanPageSize)
	if err == nil {
		return page.Content, nil
	}
	if !client.IsUnavailable(err) {
		return nil, err
	}

	all, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterProducts(all, query), nil
}

// Debounced schedules query after the debounce delay, delivering the
// outcome to done. Keystrokes arriving before the delay elapses cancel
// the pending query, so only the last one fires.
func (s *ProductSearch) Debounced(ctx context.Context, query string, done func([]order.Product, error)) {
	s.debounce.Do(func() {
		done(s.Search(ctx, query))
	})
}

// Stop cancels any pending debounced query.
func (s *ProductSearch) Stop() {
	s.debounce.Stop()
}

// scanAll walks the product list page by page, sequentially, stopping
// as soon as the backend reports no further pages.
func (s *ProductSearch) scanAll(ctx context.Context) ([]order.Product, error) {
	var all []order.Product
	for page := 0; ; page++ {
		p, err := s.api.ListProducts(ctx, page, scanPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Content...)
		if len(p.Content) == 0 || page+1 >= p.TotalPages {
			return all, nil
		}
	}
}

func filterProducts(products []order.Product, query string) []order.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	var out []order.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Barcode), q) {
			out = append(out, p)
		}
	}
	return out
}
