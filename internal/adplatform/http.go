package adplatform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/radiusdt/roas-attribution/internal/config"
)

// HTTPPlatform is the remote ads metadata API plus the local cache.
// It implements Platform; per-user handles share the underlying
// http.Client and cache.
type HTTPPlatform struct {
	baseURL string
	token   string
	http    *http.Client
	cache   *RedisAdCache
	logger  *zap.Logger
}

// NewHTTPPlatform creates the platform handle. cache may be nil, in
// which case every cache lookup is a miss and all metadata comes from
// the remote API.
func NewHTTPPlatform(cfg config.AdPlatformConfig, cache *RedisAdCache, logger *zap.Logger) *HTTPPlatform {
	return &HTTPPlatform{
		baseURL: cfg.BaseURL,
		token:   cfg.AccessToken,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   cache,
		logger:  logger,
	}
}

// ForUser returns a client scoped to one user's ad account access.
func (p *HTTPPlatform) ForUser(userID string) Client {
	return &userClient{platform: p, userID: userID}
}

type userClient struct {
	platform *HTTPPlatform
	userID   string
}

func (c *userClient) AdFromCache(ctx context.Context, adID string) (Ad, error) {
	if c.platform.cache == nil {
		return Ad{}, nil
	}
	return c.platform.cache.Get(ctx, c.userID, adID)
}

func (c *userClient) Ad(ctx context.Context, adID, date, accountID string) (Ad, error) {
	var ad Ad
	err := c.getFirst(ctx, "/ads/"+adID, date, accountID, &ad)
	return ad, err
}

func (c *userClient) AdSet(ctx context.Context, adSetID, date, accountID string) (AdSet, error) {
	var adSet AdSet
	err := c.getFirst(ctx, "/adsets/"+adSetID, date, accountID, &adSet)
	return adSet, err
}

func (c *userClient) Campaign(ctx context.Context, campaignID, date, accountID string) (Campaign, error) {
	var campaign Campaign
	err := c.getFirst(ctx, "/campaigns/"+campaignID, date, accountID, &campaign)
	return campaign, err
}

// getFirst performs a GET and decodes the first entry of the id-keyed
// object the API responds with. A 404 or an empty object decodes into
// the zero value; callers treat that as not-found, not as an error.
func (c *userClient) getFirst(ctx context.Context, path, date, accountID string, out any) error {
	q := url.Values{}
	q.Set("date", date)
	q.Set("account_id", accountID)
	q.Set("user_id", c.userID)

	u := c.platform.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	if c.platform.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.platform.token)
	}

	resp, err := c.platform.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: status %d: %s", path, resp.StatusCode, body)
	}

	var keyed map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&keyed); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	for _, raw := range keyed {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s entry: %w", path, err)
		}
		return nil
	}
	return nil
}
