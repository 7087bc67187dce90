package models

// EnrichedAd is an AttributedAd joined with ad-platform metadata. The
// asset_* fields alias ad_id/ad_name for consumers expecting a generic
// asset shape. On a failed metadata lookup only AdID and Error are set.
type EnrichedAd struct {
	AccountID    string `json:"account_id,omitempty"`
	AssetID      string `json:"asset_id,omitempty"`
	AssetName    string `json:"asset_name,omitempty"`
	CampaignID   string `json:"campaign_id,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
	AdSetID      string `json:"adset_id,omitempty"`
	AdSetName    string `json:"adset_name,omitempty"`
	AdID         string `json:"ad_id,omitempty"`
	AdName       string `json:"ad_name,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Timestamp    int64  `json:"timestamp,omitempty"`
	Error        bool   `json:"error,omitempty"`
}

// ReportCustomer is one customer entry in the final report, keyed by
// lower-cased email.
type ReportCustomer struct {
	Email          string       `json:"email"`
	LowerCaseEmail string       `json:"lower_case_email"`
	GeoCountry     string       `json:"geo_country,omitempty"`
	Cart           []CartItem   `json:"cart"`
	Ads            []EnrichedAd `json:"ads"`
	Stats          Stats        `json:"stats"`
}

// Report is the per-user, per-date revenue attribution report.
type Report struct {
	Customers map[string]ReportCustomer `json:"customers"`
	Date      string                    `json:"date"`
	UserID    string                    `json:"user_id"`
	Totals    Stats                     `json:"totals"`
}

// EmptyReport is the value returned when the pipeline fails or yields
// nothing: a report with no customers, never a nil map.
func EmptyReport(date, userID string) Report {
	return Report{
		Customers: map[string]ReportCustomer{},
		Date:      date,
		UserID:    userID,
	}
}
