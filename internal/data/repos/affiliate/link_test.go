package affiliate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/vpnscout-backend/internal/data/dberr"
	"github.com/yungbote/vpnscout-backend/internal/data/repos/testutil"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	"github.com/yungbote/vpnscout-backend/internal/pkg/pointers"
)

func TestLinkRepoCreateAndOverwrite(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewLinkRepo(db, testutil.Logger(t))

	missing, err := repo.GetByExternalID(dbc, "lnk_1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	synced := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Create(dbc, &types.AffiliateLink{
		ExternalID:   "lnk_1",
		Path:         "nordvpn",
		OriginalURL:  "https://nordvpn.com/?aff=1",
		VPNSlug:      pointers.String("nordvpn"),
		Clicks:       12,
		LastSyncedAt: synced,
	}))

	// Renamed path clears the slug; nil and zero values must still be written.
	ok, err := repo.OverwriteSynced(dbc, "lnk_1", &types.AffiliateLink{
		Path:         "spring-deal",
		OriginalURL:  "https://nordvpn.com/?aff=2",
		VPNSlug:      nil,
		Clicks:       0,
		LastSyncedAt: synced.Add(time.Hour),
	})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByExternalID(dbc, "lnk_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "spring-deal", got.Path)
	assert.Equal(t, "https://nordvpn.com/?aff=2", got.OriginalURL)
	assert.Nil(t, got.VPNSlug)
	assert.EqualValues(t, 0, got.Clicks)
	assert.True(t, got.LastSyncedAt.After(synced))

	ok, err = repo.OverwriteSynced(dbc, "lnk_missing", &types.AffiliateLink{Path: "x"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLinkRepoRejectsDuplicateExternalID(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewLinkRepo(db, testutil.Logger(t))

	first := &types.AffiliateLink{ExternalID: "lnk_dup", Path: "surfshark", OriginalURL: "https://surfshark.com", LastSyncedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(dbc, first))

	second := &types.AffiliateLink{ExternalID: "lnk_dup", Path: "surfshark-2", OriginalURL: "https://surfshark.com", LastSyncedAt: time.Now().UTC()}
	err := repo.Create(dbc, second)
	require.Error(t, err)
	assert.True(t, dberr.IsUniqueViolation(err), "got %v", err)
	assert.EqualValues(t, 1, testutil.CountRows(t, db, &types.AffiliateLink{}))
}

func TestLinkRepoListByVPNSlug(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewLinkRepo(db, testutil.Logger(t))
	now := time.Now().UTC()

	for _, l := range []*types.AffiliateLink{
		{ExternalID: "a", Path: "nordvpn", OriginalURL: "https://a", VPNSlug: pointers.String("nordvpn"), Clicks: 5, LastSyncedAt: now},
		{ExternalID: "b", Path: "nordvpn-25", OriginalURL: "https://b", VPNSlug: pointers.String("nordvpn"), Clicks: 50, LastSyncedAt: now},
		{ExternalID: "c", Path: "misc", OriginalURL: "https://c", LastSyncedAt: now},
	} {
		require.NoError(t, repo.Create(dbc, l))
	}

	nord, err := repo.ListByVPNSlug(dbc, "nordvpn")
	require.NoError(t, err)
	require.Len(t, nord, 2)
	assert.Equal(t, "b", nord[0].ExternalID)

	unassigned, err := repo.ListByVPNSlug(dbc, "")
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Equal(t, "c", unassigned[0].ExternalID)
}
