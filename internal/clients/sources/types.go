package sources

import (
	"context"
	"errors"
	"time"
)

// ErrMalformedResponse marks a 2xx response whose body could not be interpreted.
var ErrMalformedResponse = errors.New("malformed source response")

type VPNData struct {
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Website      string   `json:"website"`
	ServerCount  int      `json:"serverCount"`
	CountryCount int      `json:"countryCount"`
	Rating       float64  `json:"rating"`
	Protocols    []string `json:"protocols,omitempty"`
}

type PricingPlan struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	BillingCycle string  `json:"billingCycle,omitempty"`
}

type PricingSnapshot struct {
	VPNSlug   string        `json:"vpnSlug"`
	SourceURL string        `json:"sourceUrl"`
	Plans     []PricingPlan `json:"plans"`
	FetchedAt time.Time     `json:"fetchedAt"`
}

type NewsItem struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Summary     string     `json:"summary,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type CountryVPN struct {
	VPNSlug     string  `json:"vpnSlug"`
	Score       float64 `json:"score"`
	ServerCount int     `json:"serverCount"`
	Streaming   bool    `json:"streaming"`
}

type CountryVPNReport struct {
	CountrySlug string       `json:"countrySlug"`
	CountryName string       `json:"countryName"`
	VPNs        []CountryVPN `json:"vpns"`
}

type VPNDataSource interface {
	FetchCatalog(ctx context.Context) ([]VPNData, error)
}

type PricingSource interface {
	FetchPricing(ctx context.Context, vpnSlug string) (*PricingSnapshot, error)
}

type NewsSource interface {
	FetchNews(ctx context.Context) ([]NewsItem, error)
}

type CountryVPNSource interface {
	FetchCountryVPNs(ctx context.Context, countrySlug string) (*CountryVPNReport, error)
}
