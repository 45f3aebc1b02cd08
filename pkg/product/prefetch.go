package product

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PrefetchConfig holds prefetcher configuration.
type PrefetchConfig struct {
	// MaxConcurrency is the maximum number of detail requests in flight.
	MaxConcurrency int

	// Timeout bounds each detail fetch.
	Timeout time.Duration
}

// DefaultPrefetchConfig returns the default prefetcher configuration.
func DefaultPrefetchConfig() PrefetchConfig {
	return PrefetchConfig{
		MaxConcurrency: 5,
		Timeout:        15 * time.Second,
	}
}

// PrefetchResult summarizes a prefetch run.
type PrefetchResult struct {
	Fetched  int
	NotFound []string
	Failed   map[string]error
}

// Err returns a summary error when any fetch failed.
func (r PrefetchResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("prefetch: %d of %d products failed", len(r.Failed), r.Fetched+len(r.NotFound)+len(r.Failed))
}

// Prefetcher warms the per-product cache entries in parallel.
type Prefetcher struct {
	repo   *Repository
	config PrefetchConfig
	logger zerolog.Logger
}

// NewPrefetcher creates a prefetcher over repo.
func NewPrefetcher(repo *Repository, config PrefetchConfig, logger zerolog.Logger) *Prefetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &Prefetcher{
		repo:   repo,
		config: config,
		logger: logger,
	}
}

// Prefetch loads the detail of every id through the repository so that later
// FindByID calls are served from the cache. Individual failures are collected
// in the result rather than aborting the run; the returned error is non-nil
// only when ctx ends first.
func (p *Prefetcher) Prefetch(ctx context.Context, ids []string) (PrefetchResult, error) {
	start := time.Now()
	result := PrefetchResult{Failed: make(map[string]error)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.MaxConcurrency)

	for _, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, p.config.Timeout)
			defer cancel()

			product, err := p.repo.FindByID(fetchCtx, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed[id] = err
				p.logger.Warn().Err(err).Str("id", id).Msg("Failed to prefetch product")
			case product == nil:
				result.NotFound = append(result.NotFound, id)
			default:
				result.Fetched++
			}
			return nil
		})
	}
	_ = g.Wait()

	p.logger.Info().
		Int("requested", len(ids)).
		Int("fetched", result.Fetched).
		Int("not_found", len(result.NotFound)).
		Int("failed", len(result.Failed)).
		Dur("duration", time.Since(start)).
		Msg("Product prefetch completed")

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("prefetch interrupted: %w", err)
	}
	return result, nil
}

// PrefetchAll loads the product list and then prefetches every listed id.
func (p *Prefetcher) PrefetchAll(ctx context.Context) (PrefetchResult, error) {
	products, err := p.repo.FindAll(ctx)
	if err != nil {
		return PrefetchResult{}, fmt.Errorf("list products: %w", err)
	}

	ids := make([]string, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}
	return p.Prefetch(ctx, ids)
}
