// Command storefront serves the product catalog and cart over HTTP, backed
// by the product API with a read-through cache.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/storefront-core/pkg/cache"
	"github.com/Sternrassler/storefront-core/pkg/cart"
	"github.com/Sternrassler/storefront-core/pkg/client"
	"github.com/Sternrassler/storefront-core/pkg/config"
	"github.com/Sternrassler/storefront-core/pkg/logging"
	"github.com/Sternrassler/storefront-core/pkg/product"
	"github.com/Sternrassler/storefront-core/pkg/store"
	"github.com/Sternrassler/storefront-core/pkg/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const requestTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.Config{
		Level:   logging.LogLevel(cfg.LogLevel),
		Pretty:  cfg.LogPretty,
		Output:  os.Stderr,
		Service: "storefront",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// app is the wired object graph.
type app struct {
	server     *server
	prefetcher *product.Prefetcher
	closers    []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("Close failed")
		}
	}
}

// build constructs every dependency once. The returned app owns the Redis
// connection, if any.
func build(cfg config.Config, httpClient *http.Client) (*app, error) {
	clientCfg := client.DefaultConfig(cfg.APIBaseURL)
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}
	apiClient, err := client.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	a := &app{}

	var kv store.Store
	if cfg.UseRedis() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, redisClient.Close)
		kv = store.NewRedisStore(redisClient, cfg.StoreNamespace, logging.NewLogger(logging.ComponentStore))
	} else {
		kv = store.NewMemoryStore(logging.NewLogger(logging.ComponentStore))
	}

	cacheManager := cache.NewManager(cache.Config{
		TTL:        cfg.CacheTTL,
		MaxEntries: cfg.CacheMaxEntries,
	})

	products := product.NewRepository(apiClient, cacheManager, logging.NewLogger(logging.ComponentProducts))
	carts := cart.NewRepository(apiClient, kv, logging.NewLogger(logging.ComponentCart))

	a.prefetcher = product.NewPrefetcher(products, product.PrefetchConfig{
		MaxConcurrency: cfg.PrefetchConcurrency,
	}, logging.NewLogger(logging.ComponentPrefetch))

	a.server = &server{
		catalog: usecase.NewCatalog(products),
		cart:    usecase.NewCart(carts),
		store:   kv,
		logger:  logging.NewLogger(logging.ComponentServer),
		timeout: requestTimeout,
	}
	return a, nil
}

func run(ctx context.Context, cfg config.Config) error {
	a, err := build(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	logger := a.server.logger

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = a.server.store.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("store not reachable: %w", err)
	}

	if cfg.Prefetch {
		go func() {
			if _, err := a.prefetcher.PrefetchAll(ctx); err != nil {
				logger.Warn().Err(err).Msg("Startup prefetch incomplete")
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.server.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("api_base_url", cfg.APIBaseURL).
			Bool("redis", cfg.UseRedis()).
			Dur("cache_ttl", cfg.CacheTTL).
			Msg("Starting storefront server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("Server exited")
	return nil
}
