package sources

import (
	"context"
	"fmt"
	"strings"
)

type catalogEnvelope struct {
	VPNs []VPNData `json:"vpns"`
}

func (c *Client) FetchCatalog(ctx context.Context) ([]VPNData, error) {
	endpoint, err := requireURL(c.cfg.VPNCatalogURL)
	if err != nil {
		return nil, fmt.Errorf("vpn catalog: %w", err)
	}
	var env catalogEnvelope
	if err := c.getJSON(ctx, endpoint, &env); err != nil {
		return nil, err
	}
	out := make([]VPNData, 0, len(env.VPNs))
	for _, v := range env.VPNs {
		v.Slug = strings.ToLower(strings.TrimSpace(v.Slug))
		if v.Slug == "" {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: vpn catalog is empty", ErrMalformedResponse)
	}
	return out, nil
}
