package models

// AdEvent is a raw click/view/impression record correlated to a
// customer by IP address. Identifier and timestamp fields are sparsely
// populated depending on which pixel or redirect produced the event;
// the resolver in internal/attribution decides which ones win.
type AdEvent struct {
	AdID       string `json:"ad_id,omitempty"`
	FBAdID     string `json:"fb_ad_id,omitempty"`
	HAdID      string `json:"h_ad_id,omitempty"`
	FBID       string `json:"fb_id,omitempty"`
	RoasUserID string `json:"roas_user_id,omitempty"`
	IPv4       string `json:"ipv4,omitempty"`
	IPv6       string `json:"ipv6,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`

	// Timestamp encodings, at most one of which is usually set. Epoch
	// values may be seconds or milliseconds; timeutil.ToSeconds
	// normalizes them.
	CreatedAtUnixTimestamp float64 `json:"created_at_unix_timestamp,omitempty"`
	UTCUnixTime            float64 `json:"utc_unix_time,omitempty"`
	UTCISODatetime         string  `json:"utc_iso_datetime,omitempty"`
	UnixDatetime           float64 `json:"unix_datetime,omitempty"`
}

// HasAdID reports whether any of the candidate identifier fields is
// populated. Events with no identifier at all can never attribute.
func (e AdEvent) HasAdID() bool {
	return e.AdID != "" || e.FBAdID != "" || e.HAdID != "" || e.FBID != ""
}

// AttributedAd is the ad identifier resolved from one AdEvent, with the
// event's timestamp in epoch seconds.
type AttributedAd struct {
	AdID      string `json:"ad_id"`
	Timestamp int64  `json:"timestamp"`
	IP        string `json:"ip,omitempty"`
}
