package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/vpnscout-backend/internal/clients/sources"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/jobs/runtime"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

type fakePricing struct {
	gotSlug string
	err     error
}

func (f *fakePricing) FetchPricing(_ context.Context, slug string) (*sources.PricingSnapshot, error) {
	f.gotSlug = slug
	if f.err != nil {
		return nil, f.err
	}
	return &sources.PricingSnapshot{VPNSlug: slug, Plans: []sources.PricingPlan{{Name: "1 month", Price: 9.99}}}, nil
}

type fakeNews struct{}

func (fakeNews) FetchNews(context.Context) ([]sources.NewsItem, error) {
	return []sources.NewsItem{{Title: "t", URL: "u"}}, nil
}

func TestRegisterAllSkipsMissingSources(t *testing.T) {
	reg := runtime.NewRegistry()
	require.NoError(t, RegisterAll(reg, Sources{Pricing: &fakePricing{}, News: fakeNews{}}))

	_, ok := reg.Get(types.JobTypePricing)
	assert.True(t, ok)
	_, ok = reg.Get(types.JobTypeNews)
	assert.True(t, ok)
	_, ok = reg.Get(types.JobTypeVPNData)
	assert.False(t, ok)

	assert.Error(t, RegisterAll(reg, Sources{News: fakeNews{}}))
}

func TestPricingPassesSubject(t *testing.T) {
	src := &fakePricing{}
	op := NewPricing(src)
	assert.Equal(t, "vpnSlug", op.SubjectParam())

	jc := runtime.NewContext(context.Background(), nil, "nordvpn", logger.Nop())
	out, err := op.Run(jc)
	require.NoError(t, err)
	assert.Equal(t, "nordvpn", src.gotSlug)
	snap, ok := out.(*sources.PricingSnapshot)
	require.True(t, ok)
	assert.Len(t, snap.Plans, 1)
}

func TestPricingPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	jc := runtime.NewContext(context.Background(), nil, "nordvpn", logger.Nop())
	_, err := NewPricing(&fakePricing{err: boom}).Run(jc)
	assert.ErrorIs(t, err, boom)
}

func TestSubjectParams(t *testing.T) {
	assert.Equal(t, "", NewNews(fakeNews{}).SubjectParam())
	assert.Equal(t, "", NewVPNData(nil).SubjectParam())
	assert.Equal(t, "countrySlug", NewCountryVPN(nil).SubjectParam())
}
