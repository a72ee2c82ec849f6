// Package lcu talks to the locally running League Client: who is logged in,
// and when a game ends.
package lcu

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Summoner is the locally logged-in account
type Summoner struct {
	PUUID       string `json:"puuid"`
	GameName    string `json:"gameName"`
	TagLine     string `json:"tagLine"`
	DisplayName string `json:"displayName"`
}

// RiotID returns "GameName#TagLine", falling back to the display name
func (s *Summoner) RiotID() string {
	if s.GameName == "" {
		return s.DisplayName
	}
	if s.TagLine == "" {
		return s.GameName
	}
	return s.GameName + "#" + s.TagLine
}

// Client represents a connection to the League Client
type Client struct {
	credentials *Credentials
	httpClient  *http.Client
	baseURL     string
	authHeader  string
}

// NewClient creates a client for the given credentials
func NewClient(creds *Credentials) *Client {
	return &Client{
		credentials: creds,
		httpClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true, // LCU uses self-signed cert
				},
			},
			Timeout: 2 * time.Second, // Short timeout for quick disconnect detection
		},
		baseURL:    fmt.Sprintf("https://127.0.0.1:%s", creds.Port),
		authHeader: "Basic " + basicAuth(creds.Password),
	}
}

// Connect finds the lockfile (override may be empty) and returns a client
// that has answered at least one request
func Connect(ctx context.Context, override string) (*Client, error) {
	path, err := FindLockfile(override)
	if err != nil {
		return nil, err
	}
	creds, err := ParseLockfile(path)
	if err != nil {
		return nil, err
	}

	c := NewClient(creds)
	if _, err := c.CurrentSummoner(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to LCU: %w", err)
	}
	return c, nil
}

// Credentials returns the current LCU credentials
func (c *Client) Credentials() *Credentials {
	return c.credentials
}

// get performs a GET against the LCU API and decodes the JSON body
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	if c.credentials == nil {
		return ErrLeagueNotRunning
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CurrentSummoner returns the logged-in account
func (c *Client) CurrentSummoner(ctx context.Context) (*Summoner, error) {
	var s Summoner
	if err := c.get(ctx, "/lol-summoner/v1/current-summoner", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GameflowPhase returns the current gameflow phase (Lobby, InProgress, EndOfGame, ...)
func (c *Client) GameflowPhase(ctx context.Context) (string, error) {
	var phase string
	if err := c.get(ctx, "/lol-gameflow/v1/gameflow-phase", &phase); err != nil {
		return "", err
	}
	return phase, nil
}

func basicAuth(password string) string {
	return base64.StdEncoding.EncodeToString([]byte("riot:" + password))
}
