package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Sternrassler/storefront-core/pkg/domain"
	"github.com/Sternrassler/storefront-core/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const maxRequestBodySize = 1 << 20

// catalogService is the catalog use case the facade serves.
type catalogService interface {
	Products(ctx context.Context) ([]domain.Product, error)
	ProductByID(ctx context.Context, id string) (domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Refresh(ids ...string)
}

// cartService is the cart use case the facade serves.
type cartService interface {
	Add(ctx context.Context, productID string, colorCode, storageCode int) (int, error)
	Count(ctx context.Context) (int, error)
}

// pinger reports backend readiness.
type pinger interface {
	Ping(ctx context.Context) error
}

type server struct {
	catalog catalogService
	cart    cartService
	store   pinger
	logger  zerolog.Logger
	timeout time.Duration
}

type productResponse struct {
	domain.Product
	FormattedPrice string `json:"formattedPrice"`
}

type addToCartRequest struct {
	ID          string `json:"id"`
	ColorCode   int    `json:"colorCode"`
	StorageCode int    `json:"storageCode"`
}

type countResponse struct {
	Count int `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status_code", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request served")
	}))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.handleProducts)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/{id}", s.handleProduct)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Post("/", s.handleAddToCart)
		r.Get("/count", s.handleCartCount)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Store not reachable")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Store not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

func (s *server) handleProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	var (
		products []domain.Product
		err      error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		products, err = s.catalog.Search(ctx, q)
	} else {
		products, err = s.catalog.Products(ctx)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{Product: p, FormattedPrice: p.FormattedPrice()})
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *server) handleProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	p, err := s.catalog.ProductByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, productResponse{Product: p, FormattedPrice: p.FormattedPrice()})
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.catalog.Refresh(r.URL.Query()["id"]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	var req addToCartRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		s.respondError(w, r, domain.Validation("invalid request body"))
		return
	}

	count, err := s.cart.Add(ctx, req.ID, req.ColorCode, req.StorageCode)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, countResponse{Count: count})
}

func (s *server) handleCartCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.cart.Count(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, countResponse{Count: count})
}

// statusFor maps a domain error kind to the facade status code. A deadline
// anywhere in the chain wins over the kind, so upstream timeouts are 504.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNetwork:
		return http.StatusBadGateway
	case domain.KindCache:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func (s *server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	event := hlog.FromRequest(r).Error()
	if status < http.StatusInternalServerError {
		event = hlog.FromRequest(r).Debug()
	}
	event.Err(err).
		Str("kind", string(domain.KindOf(err))).
		Int("status_code", status).
		Msg("Request failed")

	s.respondJSON(w, status, errorResponse{Error: err.Error(), Kind: string(domain.KindOf(err))})
}

func (s *server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode response")
	}
}
