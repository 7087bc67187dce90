package attribution

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radiusdt/roas-attribution/internal/adplatform"
	"github.com/radiusdt/roas-attribution/internal/models"
)

// fakePlatform serves canned ad metadata and records lookup order.
type fakePlatform struct {
	client *fakeClient
}

func (p fakePlatform) ForUser(userID string) adplatform.Client { return p.client }

type fakeClient struct {
	cache     map[string]adplatform.Ad
	remote    map[string]adplatform.Ad
	adSets    map[string]adplatform.AdSet
	campaigns map[string]adplatform.Campaign

	cacheErr  map[string]error
	remoteErr map[string]error

	lookups []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		cache:     map[string]adplatform.Ad{},
		remote:    map[string]adplatform.Ad{},
		adSets:    map[string]adplatform.AdSet{},
		campaigns: map[string]adplatform.Campaign{},
		cacheErr:  map[string]error{},
		remoteErr: map[string]error{},
	}
}

func (c *fakeClient) AdFromCache(ctx context.Context, adID string) (adplatform.Ad, error) {
	c.lookups = append(c.lookups, "cache:"+adID)
	if err := c.cacheErr[adID]; err != nil {
		return adplatform.Ad{}, err
	}
	return c.cache[adID], nil
}

func (c *fakeClient) Ad(ctx context.Context, adID, date, accountID string) (adplatform.Ad, error) {
	c.lookups = append(c.lookups, "remote:"+adID)
	if err := c.remoteErr[adID]; err != nil {
		return adplatform.Ad{}, err
	}
	return c.remote[adID], nil
}

func (c *fakeClient) AdSet(ctx context.Context, adSetID, date, accountID string) (adplatform.AdSet, error) {
	return c.adSets[adSetID], nil
}

func (c *fakeClient) Campaign(ctx context.Context, campaignID, date, accountID string) (adplatform.Campaign, error) {
	return c.campaigns[campaignID], nil
}

func newTestEnricher(client *fakeClient) *Enricher {
	return NewEnricher(fakePlatform{client: client}, nil, zap.NewNop())
}

func TestEnrichFromCache(t *testing.T) {
	client := newFakeClient()
	client.cache["42"] = adplatform.Ad{
		AccountID: "act_1",
		Details: &adplatform.AdDetails{
			AdID:         "42",
			AdName:       "Spring Sale",
			AdSetID:      "as_1",
			AdSetName:    "Prospecting",
			CampaignID:   "c_1",
			CampaignName: "Spring Launch",
		},
	}

	out, err := newTestEnricher(client).Enrich(context.Background(),
		[]models.AttributedAd{{AdID: "42", Timestamp: 1700000000}},
		"user-1", "act_1", "2023-11-14")
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, models.EnrichedAd{
		AccountID:    "act_1",
		AssetID:      "42",
		AssetName:    "Spring Sale",
		CampaignID:   "c_1",
		CampaignName: "Spring Launch",
		AdSetID:      "as_1",
		AdSetName:    "Prospecting",
		AdID:         "42",
		AdName:       "Spring Sale",
		Name:         "Spring Sale",
		Timestamp:    1700000000,
	}, out[0])

	// Cache hit never reaches the remote API.
	assert.Equal(t, []string{"cache:42"}, client.lookups)
}

func TestEnrichRemoteFallback(t *testing.T) {
	client := newFakeClient()
	client.remote["42"] = adplatform.Ad{
		ID:         "42",
		Name:       "Spring Sale",
		AccountID:  "act_1",
		AdSetID:    "as_1",
		CampaignID: "c_1",
	}
	client.adSets["as_1"] = adplatform.AdSet{ID: "as_1", Name: "Prospecting"}
	client.campaigns["c_1"] = adplatform.Campaign{ID: "c_1", Name: "Spring Launch"}

	out, err := newTestEnricher(client).Enrich(context.Background(),
		[]models.AttributedAd{{AdID: "42", Timestamp: 1700000000}},
		"user-1", "act_1", "2023-11-14")
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "Spring Sale", out[0].AdName)
	assert.Equal(t, "Prospecting", out[0].AdSetName)
	assert.Equal(t, "Spring Launch", out[0].CampaignName)
	assert.Equal(t, int64(1700000000), out[0].Timestamp)
	assert.Equal(t, []string{"cache:42", "remote:42"}, client.lookups)
}

func TestEnrichNotFoundDroppedSilently(t *testing.T) {
	client := newFakeClient()

	out, err := newTestEnricher(client).Enrich(context.Background(),
		[]models.AttributedAd{{AdID: "404"}},
		"user-1", "act_1", "2023-11-14")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEnrichDegradeAndContinue(t *testing.T) {
	client := newFakeClient()
	client.cacheErr["99"] = errors.New("cache unavailable")
	client.cache["42"] = adplatform.Ad{
		AccountID: "act_1",
		Details:   &adplatform.AdDetails{AdID: "42", AdName: "Spring Sale"},
	}

	out, err := newTestEnricher(client).Enrich(context.Background(),
		[]models.AttributedAd{
			{AdID: "99", Timestamp: 200},
			{AdID: "42", Timestamp: 100},
		},
		"user-1", "act_1", "2023-11-14")
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, models.EnrichedAd{AdID: "99", Timestamp: 200, Error: true}, out[0])
	assert.Equal(t, "42", out[1].AdID)
	assert.False(t, out[1].Error)
}

func TestEnrichRemoteErrorDegrades(t *testing.T) {
	client := newFakeClient()
	client.remoteErr["99"] = errors.New("api 500")

	out, err := newTestEnricher(client).Enrich(context.Background(),
		[]models.AttributedAd{{AdID: "99", Timestamp: 1}},
		"user-1", "act_1", "2023-11-14")
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.True(t, out[0].Error)
	assert.Equal(t, "99", out[0].AdID)
}

func TestEnrichMissingArguments(t *testing.T) {
	client := newFakeClient()
	en := newTestEnricher(client)
	ads := []models.AttributedAd{{AdID: "42"}}

	_, err := en.Enrich(context.Background(), ads, "", "act_1", "2023-11-14")
	assert.True(t, IsMissingArgument(err))

	_, err = en.Enrich(context.Background(), ads, "user-1", "", "2023-11-14")
	assert.True(t, IsMissingArgument(err))

	_, err = en.Enrich(context.Background(), ads, "user-1", "act_1", "")
	assert.True(t, IsMissingArgument(err))

	_, err = en.Enrich(context.Background(),
		[]models.AttributedAd{{AdID: ""}}, "user-1", "act_1", "2023-11-14")
	assert.True(t, IsMissingArgument(err))
}

func TestEnrichPreservesInputOrder(t *testing.T) {
	client := newFakeClient()
	for _, id := range []string{"1", "2", "3"} {
		client.cache[id] = adplatform.Ad{
			Details: &adplatform.AdDetails{AdID: id, AdName: "ad " + id},
		}
	}

	out, err := newTestEnricher(client).Enrich(context.Background(),
		[]models.AttributedAd{{AdID: "2"}, {AdID: "3"}, {AdID: "1"}},
		"user-1", "act_1", "2023-11-14")
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, "2", out[0].AdID)
	assert.Equal(t, "3", out[1].AdID)
	assert.Equal(t, "1", out[2].AdID)
	assert.Equal(t, []string{"cache:2", "cache:3", "cache:1"}, client.lookups)
}
