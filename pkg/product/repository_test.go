package product

import (
	"context"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/storefront-core/internal/testutil"
	"github.com/Sternrassler/storefront-core/pkg/cache"
	"github.com/Sternrassler/storefront-core/pkg/client"
	"github.com/Sternrassler/storefront-core/pkg/domain"
	"github.com/rs/zerolog"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupRepository(t *testing.T) (*Repository, *testutil.MockAPI, *testClock) {
	t.Helper()

	mock := testutil.NewMockAPI()
	t.Cleanup(mock.Close)
	mock.AddProduct(testutil.SampleProduct("1", "Apple", "iPhone 13", "€799.00"))
	mock.AddProduct(testutil.SampleProduct("2", "Samsung", "Galaxy S21", "€1,199.00"))
	mock.AddProduct(testutil.SampleProduct("3", "Apple", "iPhone 12 mini", "€599.00"))

	apiClient, err := client.New(client.DefaultConfig(mock.URL()))
	if err != nil {
		t.Fatalf("client.New() failed: %v", err)
	}

	clock := &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	manager := cache.NewManager(cache.Config{TTL: time.Hour, Now: clock.Now})

	return NewRepository(apiClient, manager, zerolog.Nop()), mock, clock
}

func TestRepository_FindAll_CachesWithinTTL(t *testing.T) {
	repo, mock, clock := setupRepository(t)
	ctx := context.Background()

	first, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() failed: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("FindAll() returned %d products, want 3", len(first))
	}
	if first[1].Price != 119900 {
		t.Errorf("Price = %d, want 119900", first[1].Price)
	}

	clock.Advance(59 * time.Minute)
	second, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("cached FindAll() result differs from the first one")
	}
	if got := mock.RequestCount(http.MethodGet, "/api/product"); got != 1 {
		t.Errorf("list requests = %d, want 1", got)
	}

	clock.Advance(2 * time.Minute)
	if _, err := repo.FindAll(ctx); err != nil {
		t.Fatalf("FindAll() failed: %v", err)
	}
	if got := mock.RequestCount(http.MethodGet, "/api/product"); got != 2 {
		t.Errorf("list requests after expiry = %d, want 2", got)
	}
}

func TestRepository_FindAll_EmptyList(t *testing.T) {
	repo, mock, _ := setupRepository(t)
	mock.SetResponse("/api/product", testutil.MockResponse{StatusCode: http.StatusOK, Body: `null`})

	products, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll() failed: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Errorf("FindAll() = %#v, want empty slice", products)
	}
}

func TestRepository_FindAll_ErrorNotCached(t *testing.T) {
	repo, mock, _ := setupRepository(t)
	mock.SetResponse("/api/product", testutil.NewServerErrorResponse())
	ctx := context.Background()

	_, err := repo.FindAll(ctx)
	if domain.KindOf(err) != domain.KindNetwork {
		t.Fatalf("FindAll() error kind = %q, want %q (err: %v)", domain.KindOf(err), domain.KindNetwork, err)
	}
	if domain.StatusCodeOf(err) != http.StatusInternalServerError {
		t.Errorf("StatusCodeOf() = %d, want 500", domain.StatusCodeOf(err))
	}

	if _, err := repo.FindAll(ctx); err == nil {
		t.Fatal("second FindAll() should hit the API again and fail")
	}
	if got := mock.RequestCount(http.MethodGet, "/api/product"); got != 2 {
		t.Errorf("list requests = %d, want 2", got)
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock, _ := setupRepository(t)
	ctx := context.Background()

	p, err := repo.FindByID(ctx, "2")
	if err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if p == nil || p.Brand != "Samsung" || p.Model != "Galaxy S21" {
		t.Fatalf("FindByID() = %+v", p)
	}

	again, err := repo.FindByID(ctx, "2")
	if err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if again != p {
		t.Error("second FindByID() should return the cached product")
	}
	if got := mock.RequestCount(http.MethodGet, "/api/product/2"); got != 1 {
		t.Errorf("detail requests = %d, want 1", got)
	}
}

func TestRepository_FindByID_NotFoundIsNotCached(t *testing.T) {
	repo, mock, _ := setupRepository(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p, err := repo.FindByID(ctx, "missing")
		if err != nil {
			t.Fatalf("FindByID() error = %v, want nil", err)
		}
		if p != nil {
			t.Fatalf("FindByID() = %+v, want nil", p)
		}
	}
	if got := mock.RequestCount(http.MethodGet, "/api/product/missing"); got != 2 {
		t.Errorf("detail requests = %d, want 2", got)
	}
}

func TestRepository_FindByID_BlankID(t *testing.T) {
	repo, mock, _ := setupRepository(t)

	for _, id := range []string{"", "   "} {
		p, err := repo.FindByID(context.Background(), id)
		if err != nil || p != nil {
			t.Errorf("FindByID(%q) = %v, %v; want nil, nil", id, p, err)
		}
	}
	if mock.TotalRequests() != 0 {
		t.Errorf("blank ids made %d requests", mock.TotalRequests())
	}
}

func TestRepository_FindByID_PropagatesStatus(t *testing.T) {
	repo, mock, _ := setupRepository(t)
	mock.SetResponse("/api/product/1", testutil.NewStatusResponse(http.StatusServiceUnavailable))

	p, err := repo.FindByID(context.Background(), "1")
	if p != nil {
		t.Errorf("FindByID() = %+v, want nil", p)
	}
	if domain.KindOf(err) != domain.KindNetwork {
		t.Fatalf("FindByID() error kind = %q, want %q", domain.KindOf(err), domain.KindNetwork)
	}
	if domain.StatusCodeOf(err) != http.StatusServiceUnavailable {
		t.Errorf("StatusCodeOf() = %d, want 503", domain.StatusCodeOf(err))
	}
}

func TestRepository_Search(t *testing.T) {
	repo, mock, _ := setupRepository(t)
	ctx := context.Background()

	tests := []struct {
		query string
		want  []string
	}{
		{query: "apple", want: []string{"1", "3"}},
		{query: "GALAXY", want: []string{"2"}},
		{query: "mini", want: []string{"3"}},
		{query: "", want: []string{"1", "2", "3"}},
		{query: "nokia", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("Search() failed: %v", err)
			}
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("Search(%q) ids = %v, want %v", tt.query, ids, tt.want)
			}
		})
	}

	if got := mock.RequestCount(http.MethodGet, "/api/product"); got != 1 {
		t.Errorf("list requests = %d, want 1", got)
	}
}

func TestRepository_Invalidate(t *testing.T) {
	repo, mock, _ := setupRepository(t)
	ctx := context.Background()

	if _, err := repo.FindAll(ctx); err != nil {
		t.Fatalf("FindAll() failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, "1"); err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}

	repo.Invalidate("1")

	if _, err := repo.FindAll(ctx); err != nil {
		t.Fatalf("FindAll() failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, "1"); err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}
	if got := mock.RequestCount(http.MethodGet, "/api/product"); got != 2 {
		t.Errorf("list requests = %d, want 2", got)
	}
	if got := mock.RequestCount(http.MethodGet, "/api/product/1"); got != 2 {
		t.Errorf("detail requests = %d, want 2", got)
	}
}
