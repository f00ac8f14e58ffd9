package linktracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/pkg/httpx"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

var ErrMalformedResponse = errors.New("malformed link tracker response")

// maxPages bounds paging against a tracker that never returns a short page.
const maxPages = 1000

// LinkInventorySource returns the complete link inventory in one call.
type LinkInventorySource interface {
	ListLinks(ctx context.Context) ([]types.ExternalLink, error)
}

type Config struct {
	BaseURL        string
	APIKey         string
	PageSize       int
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *logger.Logger
}

func NewClient(cfg Config, baseLog *logger.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.RequestTimeout},
		log:  baseLog.With("client", "LinkTrackerClient"),
	}
}

var _ LinkInventorySource = (*Client)(nil)

type linkItem struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	URL    string `json:"url"`
	Clicks int64  `json:"clicks"`
}

type linkPage struct {
	Links []linkItem `json:"links"`
}

func (c *Client) ListLinks(ctx context.Context) ([]types.ExternalLink, error) {
	if c.cfg.BaseURL == "" {
		return nil, fmt.Errorf("link tracker: LINK_TRACKER_URL not configured")
	}
	var out []types.ExternalLink
	for page := 1; page <= maxPages; page++ {
		items, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if strings.TrimSpace(it.ID) == "" {
				return nil, fmt.Errorf("%w: link without id on page %d", ErrMalformedResponse, page)
			}
			out = append(out, types.ExternalLink{
				ExternalID:  it.ID,
				Path:        it.Key,
				OriginalURL: it.URL,
				Clicks:      it.Clicks,
			})
		}
		if len(items) < c.cfg.PageSize {
			c.log.Debug("Link inventory fetched", "links", len(out), "pages", page)
			return out, nil
		}
	}
	return nil, fmt.Errorf("link tracker: inventory exceeds %d pages", maxPages)
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]linkItem, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(c.cfg.PageSize))
	endpoint := c.cfg.BaseURL + "/links?" + q.Encode()

	var body []byte
	err := httpx.Retry(ctx, c.cfg.MaxRetries, c.cfg.RetryBackoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
		if err != nil {
			return fmt.Errorf("read %s: %w", endpoint, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &httpx.StatusError{
				URL:        endpoint,
				Status:     resp.StatusCode,
				Body:       string(data),
				RetryAfter: httpx.RetryAfterDuration(resp, 0, time.Minute),
			}
		}
		body = data
		return nil
	})
	if err != nil {
		c.log.Warn("Link tracker request failed", "page", page, "error", err)
		return nil, fmt.Errorf("link tracker page %d: %w", page, err)
	}
	var p linkPage
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrMalformedResponse, page, err)
	}
	return p.Links, nil
}
