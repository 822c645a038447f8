package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"listing-tracker/internal/domain"
)

const feedDoc = `{
	"HomeList": [
		{
			"ULIKey": "100",
			"Address": "123 Begonia Ct",
			"Village": "Fenney",
			"County": "Sumter",
			"Model": "Gardenia",
			"Price": "$355,000",
			"Bedrooms": 3,
			"Baths": 2,
			"SquareFeet": 1862,
			"Garage": "2 Car",
			"Pool": "N",
			"GISLat": 28.8,
			"GISLong": -82.0,
			"ListingStatus": "A",
			"SaleType": "P",
			"VLSNumber": "VLS-100"
		},
		{
			"ULIKey": "200",
			"Address": "9 Palmetto Way",
			"Price": "",
			"ListingStatus": "U",
			"SaleType": "P"
		},
		{
			"ULIKey": "",
			"Address": "keyless row is dropped"
		}
	]
}`

func TestClientFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(feedDoc))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	listings, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("expected 2 listings (keyless dropped), got %d", len(listings))
	}

	first := listings[0]
	if first.Key != "100" {
		t.Errorf("Key = %s, want 100", first.Key)
	}
	if first.Price != "355000" {
		t.Errorf("Price = %q, want normalized 355000", first.Price)
	}
	if first.Bedrooms == nil || *first.Bedrooms != 3 {
		t.Errorf("Bedrooms = %v, want 3", first.Bedrooms)
	}
	if first.Status != domain.StatusActive || first.SaleType != domain.SaleTypePreOwned {
		t.Errorf("status/sale type not mapped: %s/%s", first.Status, first.SaleType)
	}

	second := listings[1]
	if second.Price != "" {
		t.Errorf("missing price must stay unknown, got %q", second.Price)
	}
	if second.Bedrooms != nil {
		t.Errorf("absent Bedrooms should be nil, got %v", second.Bedrooms)
	}
}

func TestClientFetchAllHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	if _, err := client.FetchAll(context.Background()); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestClientFetchAllBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	if _, err := client.FetchAll(context.Background()); err == nil {
		t.Fatal("expected error on malformed body")
	}
}

func TestFilter(t *testing.T) {
	listings := []*domain.Listing{
		{Key: "1", Status: domain.StatusActive, SaleType: domain.SaleTypePreOwned},
		{Key: "2", Status: "U", SaleType: domain.SaleTypePreOwned},
		{Key: "3", Status: domain.StatusActive, SaleType: "N"},
		{Key: "4", Status: domain.StatusActive, SaleType: domain.SaleTypePreOwned},
	}

	got := Filter(listings, domain.SaleTypePreOwned, domain.StatusActive)
	if len(got) != 2 || got[0].Key != "1" || got[1].Key != "4" {
		t.Errorf("Filter returned %+v, want keys 1 and 4", got)
	}
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"$355,000", "355000"},
		{"355000", "355000"},
		{"$1,234,567.89", "1234567.89"},
		{"", ""},
		{"call for price", ""},
		{"  $99 ", "99"},
	}
	for _, tt := range tests {
		if got := NormalizePrice(tt.raw); got != tt.want {
			t.Errorf("NormalizePrice(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestPriceValue(t *testing.T) {
	if v, ok := PriceValue("355000"); !ok || v != 355000 {
		t.Errorf("PriceValue(355000) = %f, %v", v, ok)
	}
	if _, ok := PriceValue(""); ok {
		t.Error("unknown price must not parse")
	}
}
