// Package feed fetches the upstream listing feed and normalizes its
// records at the ingestion boundary, so downstream logic never needs
// per-field existence checks.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"listing-tracker/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Fetcher retrieves the complete, unfiltered listing collection for the
// current run.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]*domain.Listing, error)
}

// Client fetches the feed over HTTP.
type Client struct {
	url    string
	client *http.Client
}

// NewClient constructs a Client with a bounded request timeout.
// A zero timeout falls back to the default.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// feedResponse mirrors the top-level feed JSON document.
type feedResponse struct {
	HomeList []feedRecord `json:"HomeList"`
}

// feedRecord mirrors a single upstream listing. Numeric fields are
// pointers because the feed omits them freely.
type feedRecord struct {
	ULIKey        string   `json:"ULIKey"`
	Address       string   `json:"Address"`
	Village       string   `json:"Village"`
	County        string   `json:"County"`
	Model         string   `json:"Model"`
	Price         string   `json:"Price"`
	Bedrooms      *int     `json:"Bedrooms"`
	Baths         *float64 `json:"Baths"`
	SquareFeet    *int     `json:"SquareFeet"`
	Garage        string   `json:"Garage"`
	Pool          string   `json:"Pool"`
	GISLat        *float64 `json:"GISLat"`
	GISLong       *float64 `json:"GISLong"`
	ListingStatus string   `json:"ListingStatus"`
	SaleType      string   `json:"SaleType"`
	YouTubeVideo  string   `json:"YouTubeVideoId"`
	FeedNumber    string   `json:"VLSNumber"`
}

// FetchAll retrieves and normalizes the full raw feed. Any HTTP or decode
// failure is fatal to the run; records with a missing key are dropped,
// and malformed individual fields are normalized to absent instead of
// failing the fetch.
func (c *Client) FetchAll(ctx context.Context) ([]*domain.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %d: %s", resp.StatusCode, string(body))
	}

	var doc feedResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	listings := make([]*domain.Listing, 0, len(doc.HomeList))
	for _, r := range doc.HomeList {
		if r.ULIKey == "" {
			continue
		}
		listings = append(listings, r.toListing())
	}
	return listings, nil
}

func (r feedRecord) toListing() *domain.Listing {
	return &domain.Listing{
		Key:        r.ULIKey,
		Address:    r.Address,
		Community:  r.Village,
		County:     r.County,
		Model:      r.Model,
		Price:      NormalizePrice(r.Price),
		Bedrooms:   r.Bedrooms,
		Baths:      r.Baths,
		SquareFeet: r.SquareFeet,
		Garage:     r.Garage,
		Pool:       r.Pool,
		Latitude:   r.GISLat,
		Longitude:  r.GISLong,
		Status:     domain.Status(r.ListingStatus),
		SaleType:   domain.SaleType(r.SaleType),
		MediaID:    r.YouTubeVideo,
		FeedNumber: r.FeedNumber,
	}
}

// Filter returns the listings matching the configured sale-type and
// status codes, preserving feed order.
func Filter(listings []*domain.Listing, saleType domain.SaleType, status domain.Status) []*domain.Listing {
	var out []*domain.Listing
	for _, l := range listings {
		if l.SaleType == saleType && l.Status == status {
			out = append(out, l)
		}
	}
	return out
}

// Verify interface compliance at compile time.
var _ Fetcher = (*Client)(nil)
