package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func (c *Client) FetchNews(ctx context.Context) ([]NewsItem, error) {
	endpoint, err := requireURL(c.cfg.NewsURL)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	doc, err := c.getDocument(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse(endpoint)
	items := parseArticles(doc, base)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no articles found on %s", ErrMalformedResponse, endpoint)
	}
	return items, nil
}

func parseArticles(doc *goquery.Document, base *url.URL) []NewsItem {
	var items []NewsItem
	seen := map[string]bool{}
	doc.Find("article").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("h1 a, h2 a, h3 a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return
		}
		abs := resolveURL(base, href)
		if seen[abs] {
			return
		}
		seen[abs] = true
		item := NewsItem{
			Title:   title,
			URL:     abs,
			Summary: strings.TrimSpace(s.Find("p").First().Text()),
		}
		if dt, ok := s.Find("time[datetime]").First().Attr("datetime"); ok {
			if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(dt)); err == nil {
				ts = ts.UTC()
				item.PublishedAt = &ts
			}
		}
		items = append(items, item)
	})
	return items
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
