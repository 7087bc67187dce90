package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/radiusdt/roas-attribution/internal/models"
)

func TestAdIDPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		event models.AdEvent
		want  string
	}{
		{"explicit ad_id wins", models.AdEvent{AdID: "1", FBAdID: "2", HAdID: "3"}, "1"},
		{"equal fb and h ids", models.AdEvent{FBAdID: "10", HAdID: "10"}, "10"},
		{"conflicting ids prefer h_ad_id", models.AdEvent{FBAdID: "10", HAdID: "20"}, "20"},
		{"fb_ad_id alone", models.AdEvent{FBAdID: "10"}, "10"},
		{"h_ad_id alone", models.AdEvent{HAdID: "20"}, "20"},
		{"fb_id alone does not resolve", models.AdEvent{FBID: "30"}, ""},
		{"nothing present", models.AdEvent{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdID(tt.event))
		})
	}
}

func TestCandidateAdID(t *testing.T) {
	tests := []struct {
		name  string
		event models.AdEvent
		want  string
	}{
		{"fb_ad_id scanned first", models.AdEvent{FBAdID: "10", HAdID: "20", AdID: "30"}, "10"},
		{"falls through blanks", models.AdEvent{FBID: "30", AdID: "40"}, "30"},
		{"ad_id last", models.AdEvent{AdID: "40"}, "40"},
		{"placeholder rejected", models.AdEvent{FBAdID: "{{ad.id}}", HAdID: "20"}, "20"},
		{"encoded placeholder rejected", models.AdEvent{FBAdID: "%7B%7Bad.id%7D%7D"}, ""},
		{"all placeholders", models.AdEvent{AdID: "{{ad.id}}"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateAdID(tt.event))
		})
	}
}

func TestTimestampPrecedence(t *testing.T) {
	r := NewResolver(zap.NewNop())

	ts, ok := r.Timestamp(models.AdEvent{CreatedAtUnixTimestamp: 1700000000, UTCUnixTime: 5})
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), ts)

	ts, ok = r.Timestamp(models.AdEvent{UTCUnixTime: 1700000000})
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), ts)

	ts, ok = r.Timestamp(models.AdEvent{UTCISODatetime: "2023-11-14T22:13:20Z"})
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), ts)

	ts, ok = r.Timestamp(models.AdEvent{UnixDatetime: 1700000000})
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), ts)

	// Milliseconds are normalized to seconds.
	ts, ok = r.Timestamp(models.AdEvent{CreatedAtUnixTimestamp: 1700000000000})
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), ts)

	_, ok = r.Timestamp(models.AdEvent{})
	assert.False(t, ok)
}

func TestCandidateAds(t *testing.T) {
	r := NewResolver(zap.NewNop())

	events := []models.AdEvent{
		{FBAdID: "1", CreatedAtUnixTimestamp: 100},
		{FBAdID: "2", CreatedAtUnixTimestamp: 300},
		{FBAdID: "1", CreatedAtUnixTimestamp: 200}, // duplicate ad id
		{FBAdID: "3", CreatedAtUnixTimestamp: 300}, // duplicate timestamp
		{UserAgent: "no ids"},                      // no identifier at all
		{FBAdID: "{{ad.id}}", CreatedAtUnixTimestamp: 400},
	}

	ads := r.CandidateAds(events, "1.2.3.4")

	assert.Equal(t, []models.AttributedAd{
		{AdID: "2", Timestamp: 300, IP: "1.2.3.4"},
		{AdID: "1", Timestamp: 100, IP: "1.2.3.4"},
	}, ads)
}

func TestCandidateAdsEmpty(t *testing.T) {
	r := NewResolver(zap.NewNop())
	assert.Empty(t, r.CandidateAds(nil, "1.2.3.4"))
	assert.Empty(t, r.CandidateAds([]models.AdEvent{{UserAgent: "x"}}, "1.2.3.4"))
}

func TestDedupeByAdIDIdempotent(t *testing.T) {
	ads := []models.AttributedAd{
		{AdID: "1", Timestamp: 1},
		{AdID: "2", Timestamp: 2},
		{AdID: "1", Timestamp: 3},
	}
	once := DedupeByAdID(ads)
	twice := DedupeByAdID(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, []models.AttributedAd{
		{AdID: "1", Timestamp: 1},
		{AdID: "2", Timestamp: 2},
	}, once)
}

func TestOrderByTimestampDescStable(t *testing.T) {
	ads := []models.AttributedAd{
		{AdID: "a", Timestamp: 100},
		{AdID: "b", Timestamp: 200},
		{AdID: "c", Timestamp: 100},
	}
	OrderByTimestampDesc(ads)
	assert.Equal(t, []models.AttributedAd{
		{AdID: "b", Timestamp: 200},
		{AdID: "a", Timestamp: 100},
		{AdID: "c", Timestamp: 100},
	}, ads)
}
