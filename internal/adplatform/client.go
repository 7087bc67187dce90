// Package adplatform talks to the advertising platform's metadata API
// and its local cache. The attribution pipeline only reads ad, ad-set
// and campaign names/ids through the Client contract; fetching and
// authentication details stay behind it.
package adplatform

import "context"

// Ad is ad metadata as returned by the platform. Cached records carry a
// nested Details block written by the sync job; records fetched live
// from the API carry flat fields instead.
type Ad struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name,omitempty"`
	AccountID    string     `json:"account_id,omitempty"`
	AdSetID      string     `json:"adset_id,omitempty"`
	AdSetName    string     `json:"adset_name,omitempty"`
	CampaignID   string     `json:"campaign_id,omitempty"`
	CampaignName string     `json:"campaign_name,omitempty"`
	Details      *AdDetails `json:"details,omitempty"`
}

// AdDetails is the nested shape cached ad documents use.
type AdDetails struct {
	AdID         string `json:"ad_id,omitempty"`
	AdName       string `json:"ad_name,omitempty"`
	AdSetID      string `json:"adset_id,omitempty"`
	AdSetName    string `json:"adset_name,omitempty"`
	CampaignID   string `json:"campaign_id,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
}

// IsEmpty reports whether the record carries no usable ad identity.
func (a Ad) IsEmpty() bool {
	return a.ID == "" && a.Details == nil
}

// AdSet is ad-set metadata.
type AdSet struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Campaign is campaign metadata.
type Campaign struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Client is a per-user-authenticated handle onto the ads platform.
// Empty results are returned as zero values, never as errors.
type Client interface {
	// AdFromCache looks the ad up in the local metadata cache only.
	AdFromCache(ctx context.Context, adID string) (Ad, error)
	// Ad fetches the ad from the remote API.
	Ad(ctx context.Context, adID, date, accountID string) (Ad, error)
	AdSet(ctx context.Context, adSetID, date, accountID string) (AdSet, error)
	Campaign(ctx context.Context, campaignID, date, accountID string) (Campaign, error)
}

// Platform mints per-user clients.
type Platform interface {
	ForUser(userID string) Client
}
