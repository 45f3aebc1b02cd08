package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Sternrassler/storefront-core/pkg/domain"
)

type fakeProducts struct {
	products    []domain.Product
	err         error
	invalidated []string
}

func (f *fakeProducts) FindAll(context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func (f *fakeProducts) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) Search(_ context.Context, query string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if p.MatchesSearch(query) {
			out = append(out, p)
		}
	}
	return out, f.err
}

func (f *fakeProducts) Invalidate(ids ...string) {
	f.invalidated = append(f.invalidated, ids...)
}

type fakeCart struct {
	added []domain.CartItem
	count int
	err   error
}

func (f *fakeCart) AddItem(_ context.Context, item domain.CartItem) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.added = append(f.added, item)
	f.count++
	return f.count, nil
}

func (f *fakeCart) GetCount(context.Context) (int, error) {
	return f.count, f.err
}

func TestCatalog_ProductByID(t *testing.T) {
	repo := &fakeProducts{products: []domain.Product{{ID: "1", Brand: "Apple"}}}
	catalog := NewCatalog(repo)
	ctx := context.Background()

	p, err := catalog.ProductByID(ctx, "1")
	if err != nil {
		t.Fatalf("ProductByID() failed: %v", err)
	}
	if p.Brand != "Apple" {
		t.Errorf("Brand = %q, want Apple", p.Brand)
	}

	_, err = catalog.ProductByID(ctx, "42")
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected *domain.Error, got %v", err)
	}
	if domainErr.Kind != domain.KindNotFound || domainErr.Entity != "Product" || domainErr.ID != "42" {
		t.Errorf("error = %+v", domainErr)
	}
	if err.Error() != "Product with id 42 not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCatalog_PropagatesErrors(t *testing.T) {
	want := domain.Network("HTTP 500: Internal Server Error", 500, nil)
	catalog := NewCatalog(&fakeProducts{err: want})
	ctx := context.Background()

	if _, err := catalog.Products(ctx); !errors.Is(err, want) {
		t.Errorf("Products() error = %v, want %v", err, want)
	}
	if _, err := catalog.ProductByID(ctx, "1"); !errors.Is(err, want) {
		t.Errorf("ProductByID() error = %v, want %v", err, want)
	}
	if _, err := catalog.Search(ctx, "x"); !errors.Is(err, want) {
		t.Errorf("Search() error = %v, want %v", err, want)
	}
}

func TestCatalog_SearchAndRefresh(t *testing.T) {
	repo := &fakeProducts{products: []domain.Product{
		{ID: "1", Brand: "Apple", Model: "iPhone 13"},
		{ID: "2", Brand: "Samsung", Model: "Galaxy S21"},
	}}
	catalog := NewCatalog(repo)

	got, err := catalog.Search(context.Background(), "galaxy")
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Search() = %v", got)
	}

	catalog.Refresh("1", "2")
	if len(repo.invalidated) != 2 {
		t.Errorf("invalidated = %v", repo.invalidated)
	}
}

func TestCart_Add(t *testing.T) {
	repo := &fakeCart{}
	cart := NewCart(repo)
	ctx := context.Background()

	count, err := cart.Add(ctx, "1", 1000, 2000)
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if len(repo.added) != 1 || repo.added[0] != (domain.CartItem{ProductID: "1", ColorCode: 1000, StorageCode: 2000}) {
		t.Errorf("added = %v", repo.added)
	}

	total, err := cart.Count(ctx)
	if err != nil || total != 1 {
		t.Errorf("Count() = %d, %v; want 1, nil", total, err)
	}
}

func TestCart_Add_RequiresProductID(t *testing.T) {
	repo := &fakeCart{}
	cart := NewCart(repo)

	for _, id := range []string{"", "  "} {
		_, err := cart.Add(context.Background(), id, 1, 2)
		if domain.KindOf(err) != domain.KindValidation {
			t.Errorf("Add(%q) error kind = %q, want %q", id, domain.KindOf(err), domain.KindValidation)
		}
	}
	if len(repo.added) != 0 {
		t.Errorf("invalid adds reached the repository: %v", repo.added)
	}
}
