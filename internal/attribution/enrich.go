package attribution

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/radiusdt/roas-attribution/internal/adplatform"
	"github.com/radiusdt/roas-attribution/internal/metrics"
	"github.com/radiusdt/roas-attribution/internal/models"
)

// Enricher resolves ad metadata for attribution candidates, cache
// first, then the remote API. Candidates are processed one at a time in
// input order: the remote API is rate limited and fanning out per ad
// would blow through it. Per-ad failures degrade to an error record;
// only missing arguments abort the batch.
type Enricher struct {
	platform adplatform.Platform
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewEnricher creates an ad enricher. m may be nil.
func NewEnricher(platform adplatform.Platform, m *metrics.Metrics, logger *zap.Logger) *Enricher {
	return &Enricher{platform: platform, metrics: m, logger: logger}
}

// Enrich resolves metadata for each candidate, preserving input order
// and each candidate's timestamp. Ads the remote API does not know are
// dropped silently; failed lookups yield {ad_id, error:true} records.
func (en *Enricher) Enrich(ctx context.Context, ads []models.AttributedAd, userID, accountID, date string) ([]models.EnrichedAd, error) {
	if userID == "" {
		return nil, missingArg("ads.details.get", "user_id")
	}
	if accountID == "" {
		return nil, missingArg("ads.details.get", "fb_ad_account_id")
	}
	if date == "" {
		return nil, missingArg("ads.details.get", "date")
	}

	client := en.platform.ForUser(userID)

	out := make([]models.EnrichedAd, 0, len(ads))
	for _, ad := range ads {
		if ad.AdID == "" {
			return nil, missingArg("ad.get", "ad_id")
		}

		started := time.Now()
		rec, err := en.enrichOne(ctx, client, ad.AdID, date, accountID)
		if en.metrics != nil {
			en.metrics.EnrichmentLatency.Observe(time.Since(started).Seconds())
		}

		if err != nil {
			if IsMissingArgument(err) {
				return nil, err
			}
			en.logger.Warn("ad enrichment degraded",
				zap.String("ad_id", ad.AdID),
				zap.Error(err),
			)
			if en.metrics != nil {
				en.metrics.EnrichmentErrors.Inc()
			}
			out = append(out, models.EnrichedAd{AdID: ad.AdID, Timestamp: ad.Timestamp, Error: true})
			continue
		}
		if rec == nil {
			// Unknown to the platform; dropped from the output.
			continue
		}

		rec.Timestamp = ad.Timestamp
		out = append(out, *rec)
	}

	return out, nil
}

// enrichOne resolves one ad id. A nil record with nil error means the
// platform does not know the ad.
func (en *Enricher) enrichOne(ctx context.Context, client adplatform.Client, adID, date, accountID string) (*models.EnrichedAd, error) {
	cached, err := client.AdFromCache(ctx, adID)
	if err != nil {
		en.countCache("error")
		return nil, err
	}
	if !cached.IsEmpty() {
		en.countCache("hit")
		rec := projectAd(cached)
		return &rec, nil
	}
	en.countCache("miss")

	remote, err := client.Ad(ctx, adID, date, accountID)
	if err != nil {
		en.countRemote("error")
		return nil, err
	}
	if remote.ID == "" {
		en.countRemote("not_found")
		return nil, nil
	}
	en.countRemote("hit")

	if remote.AdSetID == "" {
		return nil, fmt.Errorf("ad %s: remote record carries no adset_id", adID)
	}
	if remote.CampaignID == "" {
		return nil, fmt.Errorf("ad %s: remote record carries no campaign_id", adID)
	}

	// The two name lookups are independent; fan out exactly two and join.
	var adSet adplatform.AdSet
	var campaign adplatform.Campaign

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		adSet, err = client.AdSet(gctx, remote.AdSetID, date, accountID)
		return err
	})
	g.Go(func() error {
		var err error
		campaign, err = client.Campaign(gctx, remote.CampaignID, date, accountID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	remote.AdSetName = adSet.Name
	remote.CampaignName = campaign.Name

	rec := projectAd(remote)
	return &rec, nil
}

func (en *Enricher) countCache(result string) {
	if en.metrics != nil {
		en.metrics.AdCacheLookups.WithLabelValues(result).Inc()
	}
}

func (en *Enricher) countRemote(result string) {
	if en.metrics != nil {
		en.metrics.AdRemoteLookups.WithLabelValues(result).Inc()
	}
}

// projectAd maps a platform ad record onto the canonical ad-detail
// shape. asset_id/asset_name alias ad_id/ad_name for consumers that
// expect a generic asset.
func projectAd(ad adplatform.Ad) models.EnrichedAd {
	if ad.Details != nil {
		d := ad.Details
		return models.EnrichedAd{
			AccountID:    ad.AccountID,
			AssetID:      d.AdID,
			AssetName:    d.AdName,
			CampaignID:   d.CampaignID,
			CampaignName: d.CampaignName,
			AdSetID:      d.AdSetID,
			AdSetName:    d.AdSetName,
			AdID:         d.AdID,
			AdName:       d.AdName,
			Name:         d.AdName,
		}
	}
	return models.EnrichedAd{
		AccountID:    ad.AccountID,
		AssetID:      ad.ID,
		AssetName:    ad.Name,
		CampaignID:   ad.CampaignID,
		CampaignName: ad.CampaignName,
		AdSetID:      ad.AdSetID,
		AdSetName:    ad.AdSetName,
		AdID:         ad.ID,
		AdName:       ad.Name,
		Name:         ad.Name,
	}
}
