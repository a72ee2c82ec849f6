// Package riot is a small rate-limited client for the Riot match-v5 and
// account-v1 APIs, plus the adapter into match records.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	statusEndpoint = "/lol/status/v4/platform-data"
)

var (
	ErrMissingAPIKey = errors.New("riot API key not set")
	ErrForbidden     = errors.New("API returned 403 Forbidden - check if your API key is valid")
	ErrNotFound      = errors.New("API returned 404 Not Found - player/match may not exist")
	ErrRateLimited   = errors.New("API returned 429 Too Many Requests")
)

// Option configures a Client
type Option func(*Client)

// WithBaseURL sends both regional and platform requests to baseURL (useful for testing)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.regionalURL = baseURL
		c.platformURL = baseURL
	}
}

// WithPlatform sets the platform routing value used for status checks (na1, euw1, ...)
func WithPlatform(platform string) Option {
	return func(c *Client) {
		if platform != "" {
			c.platformURL = fmt.Sprintf("https://%s.api.riotgames.com", platform)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimits overrides the per-second and per-two-minute request caps.
// Zero disables a window.
func WithRateLimits(perSecond, per2Min int) Option {
	return func(c *Client) {
		c.limiter = newRateLimiter(perSecond, per2Min)
	}
}

// Client is a rate-limited Riot API client
type Client struct {
	apiKey      string
	httpClient  *http.Client
	regionalURL string
	platformURL string
	limiter     *rateLimiter
}

// NewClient creates a client for a regional route (americas, europe, asia, sea)
func NewClient(apiKey, region string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if region == "" {
		region = "americas"
	}

	c := &Client{
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		regionalURL: fmt.Sprintf("https://%s.api.riotgames.com", region),
		platformURL: "https://na1.api.riotgames.com",
		limiter:     newRateLimiter(defaultPerSecond, defaultPer2Min),
	}
	for _, opt := range opts {
		opt(c)
	}

	if len(apiKey) > 12 {
		log.Printf("[Riot] Using API key: %s...%s", apiKey[:8], apiKey[len(apiKey)-4:])
	}
	return c, nil
}

// doRequest makes a rate-limited GET and decodes the JSON body into result.
// A 429 is reported, not retried.
func (c *Client) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := c.limiter.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w (retry after %q)", ErrRateLimited, resp.Header.Get("Retry-After"))
	default:
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetAccountByRiotID resolves gameName#tagLine to an account
func (c *Client) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*AccountResponse, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.regionalURL, url.PathEscape(gameName), url.PathEscape(tagLine))

	var account AccountResponse
	if err := c.doRequest(ctx, u, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetMatchIDs fetches the most recent match ids for a player, newest first
func (c *Client) GetMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	if count <= 0 || count > 100 {
		count = 100
	}
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d",
		c.regionalURL, url.PathEscape(puuid), count)

	var matchIDs []string
	if err := c.doRequest(ctx, u, &matchIDs); err != nil {
		return nil, err
	}
	return matchIDs, nil
}

// GetMatch fetches match details and returns the raw body alongside the
// decoded match so callers can cache it
func (c *Client) GetMatch(ctx context.Context, matchID string) (*MatchResponse, json.RawMessage, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionalURL, url.PathEscape(matchID))

	var raw json.RawMessage
	if err := c.doRequest(ctx, u, &raw); err != nil {
		return nil, nil, err
	}

	var m MatchResponse
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("failed to parse match %s: %w", matchID, err)
	}
	return &m, raw, nil
}

// ValidateKey checks the client's key against the platform status endpoint.
// Returns:
//   - (true, nil) if the key is valid
//   - (false, nil) if the key is invalid (401/403)
//   - (false, error) if there was a network/server error (key validity unknown)
func (c *Client) ValidateKey(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.platformURL+statusEndpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
