package catalog

import (
	"context"
	"sync"
	"time"

	"storefront-client/internal/domain"
	"storefront-client/pkg/logger"
)

// Searcher runs the navbar's live search: keystrokes arrive faster than we
// want to hit the API, so queries are debounced on the trailing edge and
// only the latest one is executed. Results from a superseded query are
// dropped rather than delivered out of order.
type Searcher struct {
	api   domain.CatalogAPI
	delay time.Duration
	limit int

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewSearcher(api domain.CatalogAPI, delay time.Duration, limit int) *Searcher {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	if limit <= 0 {
		limit = 10
	}
	return &Searcher{api: api, delay: delay, limit: limit}
}

// Search schedules query after the debounce delay and delivers results to
// deliver. A transport failure degrades to an empty result list. An empty
// query cancels any pending search and delivers nothing.
func (s *Searcher) Search(ctx context.Context, query string, deliver func([]domain.Product)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if query == "" {
		return
	}

	s.timer = time.AfterFunc(s.delay, func() {
		s.run(ctx, gen, query, deliver)
	})
}

// Flush cancels any pending search without executing it.
func (s *Searcher) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Searcher) run(ctx context.Context, gen uint64, query string, deliver func([]domain.Product)) {
	page, err := s.api.ListProducts(ctx, domain.ListQuery{Search: query, Limit: s.limit})
	if err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("Live search failed")
		page = domain.ProductPage{}
	}

	s.mu.Lock()
	stale := gen != s.gen
	s.mu.Unlock()
	if stale {
		return
	}

	deliver(page.Data)
}
