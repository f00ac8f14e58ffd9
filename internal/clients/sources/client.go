package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yungbote/vpnscout-backend/internal/pkg/httpx"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

const maxBodyBytes = 8 << 20

type Config struct {
	VPNCatalogURL         string
	PricingURLTemplate    string
	NewsURL               string
	CountryVPNURLTemplate string
	UserAgent             string
	RequestTimeout        time.Duration
	MaxRetries            int
	RetryBackoff          time.Duration
}

// Client implements every scrape source over plain HTTP. Endpoints left
// empty in Config make the matching Fetch call fail with a config error.
type Client struct {
	cfg  Config
	http *http.Client
	log  *logger.Logger
}

func NewClient(cfg Config, baseLog *logger.Logger) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "vpnscout-sync/1.0"
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.RequestTimeout},
		log:  baseLog.With("client", "SourceClient"),
	}
}

var (
	_ VPNDataSource    = (*Client)(nil)
	_ PricingSource    = (*Client)(nil)
	_ NewsSource       = (*Client)(nil)
	_ CountryVPNSource = (*Client)(nil)
)

func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	var body []byte
	err := httpx.Retry(ctx, c.cfg.MaxRetries, c.cfg.RetryBackoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", accept)
		req.Header.Set("User-Agent", c.cfg.UserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("read %s: %w", rawURL, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &httpx.StatusError{
				URL:        rawURL,
				Status:     resp.StatusCode,
				Body:       string(data),
				RetryAfter: httpx.RetryAfterDuration(resp, 0, time.Minute),
			}
		}
		body = data
		return nil
	})
	if err != nil {
		c.log.Warn("Source request failed", "url", rawURL, "error", err)
		return nil, err
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	body, err := c.get(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, rawURL, err)
	}
	return nil
}

func (c *Client) getDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, err := c.get(ctx, rawURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrMalformedResponse, rawURL, err)
	}
	return doc, nil
}

func expandTemplate(tmpl, key string) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		return "", fmt.Errorf("source endpoint not configured")
	}
	if !strings.Contains(tmpl, "%s") {
		return "", fmt.Errorf("source url template %q has no %%s placeholder", tmpl)
	}
	return fmt.Sprintf(tmpl, url.PathEscape(key)), nil
}

func requireURL(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("source endpoint not configured")
	}
	return raw, nil
}
