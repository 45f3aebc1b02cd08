package domain

import "testing"

func testProduct() Product {
	return Product{
		ID:    "1",
		Brand: "Apple",
		Model: "iPhone 13",
		Price: 79900,
		Options: Options{
			Colors:   []Color{{Code: 1, Name: "Black"}, {Code: 2, Name: "White"}},
			Storages: []Storage{{Code: 1, Name: "128GB"}, {Code: 2, Name: "256GB"}},
		},
	}
}

func TestProduct_MatchesSearch(t *testing.T) {
	p := testProduct()

	tests := []struct {
		query string
		want  bool
	}{
		{query: "apple", want: true},
		{query: "APPLE", want: true},
		{query: "13", want: true},
		{query: "iphone", want: true},
		{query: "", want: true},
		{query: "   ", want: true},
		{query: "Samsung", want: false},
		{query: "pixel", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := p.MatchesSearch(tt.query); got != tt.want {
				t.Errorf("MatchesSearch(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestProduct_FormattedPrice(t *testing.T) {
	tests := []struct {
		name  string
		price Money
		want  string
	}{
		{name: "whole euros", price: 79900, want: "Price: €799.00"},
		{name: "with cents", price: 119950, want: "Price: €1199.50"},
		{name: "unknown", price: 0, want: "Price: Not Known"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: tt.price}
			if got := p.FormattedPrice(); got != tt.want {
				t.Errorf("FormattedPrice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProduct_Options(t *testing.T) {
	p := testProduct()

	if c, ok := p.DefaultColor(); !ok || c.Code != 1 {
		t.Errorf("DefaultColor() = %+v, %v", c, ok)
	}
	if s, ok := p.DefaultStorage(); !ok || s.Name != "128GB" {
		t.Errorf("DefaultStorage() = %+v, %v", s, ok)
	}
	if c, ok := p.FindColorByCode(2); !ok || c.Name != "White" {
		t.Errorf("FindColorByCode(2) = %+v, %v", c, ok)
	}
	if _, ok := p.FindColorByCode(9); ok {
		t.Error("FindColorByCode(9) should not be found")
	}
	if s, ok := p.FindStorageByCode(2); !ok || s.Name != "256GB" {
		t.Errorf("FindStorageByCode(2) = %+v, %v", s, ok)
	}

	var empty Product
	if _, ok := empty.DefaultColor(); ok {
		t.Error("DefaultColor() on product without options should be false")
	}
	if _, ok := empty.DefaultStorage(); ok {
		t.Error("DefaultStorage() on product without options should be false")
	}
}
