package operations

import (
	"fmt"

	"github.com/yungbote/vpnscout-backend/internal/clients/sources"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/jobs/runtime"
)

type Sources struct {
	VPNData    sources.VPNDataSource
	Pricing    sources.PricingSource
	News       sources.NewsSource
	CountryVPN sources.CountryVPNSource
}

// RegisterAll registers one operation per configured source.
func RegisterAll(reg *runtime.Registry, src Sources) error {
	var ops []runtime.Operation
	if src.VPNData != nil {
		ops = append(ops, NewVPNData(src.VPNData))
	}
	if src.Pricing != nil {
		ops = append(ops, NewPricing(src.Pricing))
	}
	if src.News != nil {
		ops = append(ops, NewNews(src.News))
	}
	if src.CountryVPN != nil {
		ops = append(ops, NewCountryVPN(src.CountryVPN))
	}
	for _, op := range ops {
		if err := reg.Register(op); err != nil {
			return fmt.Errorf("register %s: %w", op.Type(), err)
		}
	}
	return nil
}

type vpnData struct{ src sources.VPNDataSource }

func NewVPNData(src sources.VPNDataSource) runtime.Operation { return &vpnData{src: src} }

func (o *vpnData) Type() types.JobType  { return types.JobTypeVPNData }
func (o *vpnData) SubjectParam() string { return "" }
func (o *vpnData) Run(jc *runtime.Context) (any, error) {
	vpns, err := o.src.FetchCatalog(jc.Ctx)
	if err != nil {
		return nil, err
	}
	jc.Log.Debug("Fetched vpn catalog", "vpns", len(vpns))
	return vpns, nil
}

type pricing struct{ src sources.PricingSource }

func NewPricing(src sources.PricingSource) runtime.Operation { return &pricing{src: src} }

func (o *pricing) Type() types.JobType  { return types.JobTypePricing }
func (o *pricing) SubjectParam() string { return "vpnSlug" }
func (o *pricing) Run(jc *runtime.Context) (any, error) {
	snap, err := o.src.FetchPricing(jc.Ctx, jc.Subject)
	if err != nil {
		return nil, err
	}
	jc.Log.Debug("Fetched pricing", "vpn_slug", jc.Subject, "plans", len(snap.Plans))
	return snap, nil
}

type news struct{ src sources.NewsSource }

func NewNews(src sources.NewsSource) runtime.Operation { return &news{src: src} }

func (o *news) Type() types.JobType  { return types.JobTypeNews }
func (o *news) SubjectParam() string { return "" }
func (o *news) Run(jc *runtime.Context) (any, error) {
	items, err := o.src.FetchNews(jc.Ctx)
	if err != nil {
		return nil, err
	}
	jc.Log.Debug("Fetched news", "items", len(items))
	return items, nil
}

type countryVPN struct{ src sources.CountryVPNSource }

func NewCountryVPN(src sources.CountryVPNSource) runtime.Operation { return &countryVPN{src: src} }

func (o *countryVPN) Type() types.JobType  { return types.JobTypeCountryVPN }
func (o *countryVPN) SubjectParam() string { return "countrySlug" }
func (o *countryVPN) Run(jc *runtime.Context) (any, error) {
	report, err := o.src.FetchCountryVPNs(jc.Ctx, jc.Subject)
	if err != nil {
		return nil, err
	}
	jc.Log.Debug("Fetched country vpns", "country_slug", jc.Subject, "vpns", len(report.VPNs))
	return report, nil
}
