package sources

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

func (c *Client) FetchCountryVPNs(ctx context.Context, countrySlug string) (*CountryVPNReport, error) {
	countrySlug = strings.ToLower(strings.TrimSpace(countrySlug))
	if countrySlug == "" {
		return nil, fmt.Errorf("country vpns: country slug is required")
	}
	endpoint, err := expandTemplate(c.cfg.CountryVPNURLTemplate, countrySlug)
	if err != nil {
		return nil, fmt.Errorf("country vpns: %w", err)
	}
	var report CountryVPNReport
	if err := c.getJSON(ctx, endpoint, &report); err != nil {
		return nil, err
	}
	if report.CountrySlug == "" {
		report.CountrySlug = countrySlug
	}
	sort.SliceStable(report.VPNs, func(i, j int) bool { return report.VPNs[i].Score > report.VPNs[j].Score })
	return &report, nil
}
