package attribution

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/radiusdt/roas-attribution/internal/models"
	"github.com/radiusdt/roas-attribution/internal/timeutil"
)

// Placeholder tokens that appear as ad ids when a redirect template was
// never expanded. They must never survive resolution.
const (
	placeholderAdID        = "{{ad.id}}"
	placeholderAdIDEncoded = "%7B%7Bad.id%7D%7D"
)

func isPlaceholderAdID(id string) bool {
	return id == placeholderAdID || id == placeholderAdIDEncoded
}

// AdID resolves the single authoritative ad identifier from a typed
// event. Precedence, in order:
//
//  1. an explicit ad_id wins outright;
//  2. with both fb_ad_id and h_ad_id set, equal values use either,
//     conflicting values use h_ad_id (the click-side identifier);
//  3. fb_ad_id alone;
//  4. h_ad_id alone;
//  5. otherwise "" — the caller filters the event out.
func AdID(e models.AdEvent) string {
	if e.AdID != "" {
		return e.AdID
	}
	if e.FBAdID != "" && e.HAdID != "" {
		if e.FBAdID == e.HAdID {
			return e.FBAdID
		}
		return e.HAdID
	}
	if e.FBAdID != "" {
		return e.FBAdID
	}
	return e.HAdID
}

// CandidateAdID resolves an ad id from a raw cross-referenced event:
// it scans fb_ad_id, h_ad_id, fb_id, ad_id in that order and returns
// the first value that is neither blank nor a placeholder token.
func CandidateAdID(e models.AdEvent) string {
	for _, id := range []string{e.FBAdID, e.HAdID, e.FBID, e.AdID} {
		if id == "" || isPlaceholderAdID(id) {
			continue
		}
		return id
	}
	return ""
}

// Resolver extracts attribution candidates from correlated events.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates an ad-id resolver.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Timestamp extracts the event's timestamp in epoch seconds. Field
// precedence: created_at_unix_timestamp, utc_unix_time,
// utc_iso_datetime, unix_datetime. Epoch fields are unit-normalized.
// A missing timestamp is logged, never an error.
func (r *Resolver) Timestamp(e models.AdEvent) (int64, bool) {
	if e.CreatedAtUnixTimestamp != 0 {
		return timeutil.ToSeconds(int64(e.CreatedAtUnixTimestamp)), true
	}
	if e.UTCUnixTime != 0 {
		return timeutil.ToSeconds(int64(e.UTCUnixTime)), true
	}
	if e.UTCISODatetime != "" {
		if t, err := time.Parse(time.RFC3339, e.UTCISODatetime); err == nil {
			return t.Unix(), true
		}
	}
	if e.UnixDatetime != 0 {
		return timeutil.ToSeconds(int64(e.UnixDatetime)), true
	}

	r.logger.Warn("event carries no timestamp", zap.String("ad_id", CandidateAdID(e)))
	return 0, false
}

// CandidateAds maps correlated events to attribution candidates: each
// event resolves to an {ad_id, timestamp} pair, events without a usable
// ad id are dropped, the list is deduplicated by ad id and then by
// timestamp (first occurrence wins), and ordered most recent first. An
// empty result means no attribution, not an error.
func (r *Resolver) CandidateAds(events []models.AdEvent, ip string) []models.AttributedAd {
	ads := make([]models.AttributedAd, 0, len(events))
	for _, e := range events {
		if !e.HasAdID() {
			continue
		}
		id := CandidateAdID(e)
		if id == "" {
			continue
		}
		ts, _ := r.Timestamp(e)
		ads = append(ads, models.AttributedAd{AdID: id, Timestamp: ts, IP: ip})
	}

	ads = DedupeByAdID(ads)
	ads = dedupeByTimestamp(ads)
	OrderByTimestampDesc(ads)

	return ads
}

// OrderByTimestampDesc sorts in place, most recent interaction first.
// The sort is stable: equal timestamps keep their input order.
func OrderByTimestampDesc(ads []models.AttributedAd) {
	sort.SliceStable(ads, func(i, j int) bool {
		return ads[i].Timestamp > ads[j].Timestamp
	})
}

// DedupeByAdID keeps the first occurrence of each ad id. Idempotent.
func DedupeByAdID(ads []models.AttributedAd) []models.AttributedAd {
	seen := make(map[string]bool, len(ads))
	out := make([]models.AttributedAd, 0, len(ads))
	for _, ad := range ads {
		if seen[ad.AdID] {
			continue
		}
		seen[ad.AdID] = true
		out = append(out, ad)
	}
	return out
}

func dedupeByTimestamp(ads []models.AttributedAd) []models.AttributedAd {
	seen := make(map[int64]bool, len(ads))
	out := make([]models.AttributedAd, 0, len(ads))
	for _, ad := range ads {
		if seen[ad.Timestamp] {
			continue
		}
		seen[ad.Timestamp] = true
		out = append(out, ad)
	}
	return out
}
