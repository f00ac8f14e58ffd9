package sources

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FetchPricing reads schema.org Offer markup from the provider's pricing page.
func (c *Client) FetchPricing(ctx context.Context, vpnSlug string) (*PricingSnapshot, error) {
	vpnSlug = strings.ToLower(strings.TrimSpace(vpnSlug))
	if vpnSlug == "" {
		return nil, fmt.Errorf("pricing: vpn slug is required")
	}
	pageURL, err := expandTemplate(c.cfg.PricingURLTemplate, vpnSlug)
	if err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	doc, err := c.getDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	plans := parseOffers(doc)
	if len(plans) == 0 {
		return nil, fmt.Errorf("%w: no offers found on %s", ErrMalformedResponse, pageURL)
	}
	return &PricingSnapshot{
		VPNSlug:   vpnSlug,
		SourceURL: pageURL,
		Plans:     plans,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func parseOffers(doc *goquery.Document) []PricingPlan {
	var plans []PricingPlan
	doc.Find(`[itemtype$="schema.org/Offer"]`).Each(func(_ int, s *goquery.Selection) {
		price, ok := parsePrice(itemprop(s, "price"))
		if !ok {
			return
		}
		plans = append(plans, PricingPlan{
			Name:         itemprop(s, "name"),
			Price:        price,
			Currency:     strings.ToUpper(itemprop(s, "priceCurrency")),
			BillingCycle: itemprop(s, "eligibleDuration"),
		})
	})
	return plans
}

// itemprop prefers the content attribute, which carries the machine value.
func itemprop(s *goquery.Selection, name string) string {
	el := s.Find(`[itemprop="` + name + `"]`).First()
	if el.Length() == 0 {
		return ""
	}
	if v, ok := el.Attr("content"); ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(el.Text())
}

func parsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimLeft(raw, "$€£ ")
	raw = strings.ReplaceAll(raw, ",", ".")
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
