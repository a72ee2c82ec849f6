// Package discord posts finished-game summaries to a Discord webhook.
package discord

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"

	"matchhistory/internal/history"
	"matchhistory/internal/playedwith"
)

const (
	// Embed colors per outcome
	colorWin    = 5763719  // 0x57F287
	colorLoss   = 15158332 // 0xE74C3C
	colorRemake = 9807270  // 0x95A5A6

	defaultWebhookTimeout = 10 * time.Second

	// Max retries for rate limiting
	maxRetries = 3

	// Allies listed under a game summary
	maxAllies = 3
)

// WebhookPayload represents a Discord webhook message
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed represents a Discord embed
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField represents a field in a Discord embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter represents the footer of a Discord embed
type EmbedFooter struct {
	Text string `json:"text"`
}

func outcomeColor(o history.Outcome) int {
	switch o {
	case history.Win:
		return colorWin
	case history.Loss:
		return colorLoss
	default:
		return colorRemake
	}
}

// NewGameResultPayload builds the embed for one finished game. allies are
// the acting user's current allies; the best few are listed.
func NewGameResultPayload(user string, g history.DerivedGame, allies []*playedwith.Relationship) WebhookPayload {
	fields := []EmbedField{
		{Name: "Score", Value: fmt.Sprintf("%s (%s KDA)", g.Score, g.KDAText), Inline: true},
		{Name: "Kill Participation", Value: fmt.Sprintf("%d%%", g.KillParticipation), Inline: true},
		{Name: "CS", Value: perMinute(strconv.Itoa(g.CS), g.CSPerMin, "%.1f"), Inline: true},
		{Name: "Damage", Value: damageValue(g), Inline: true},
		{Name: "Vision", Value: perMinute(strconv.Itoa(g.Vision), g.VisionPerMin, "%.2f"), Inline: true},
		{Name: "Duration", Value: g.Duration, Inline: true},
	}

	if len(allies) > 0 {
		var b bytes.Buffer
		for i, rel := range allies {
			if i == maxAllies {
				break
			}
			wins, losses := rel.Record()
			fmt.Fprintf(&b, "%s: %d-%d (%.1f%%)\n", rel.Username, wins, losses, rel.WinRate())
		}
		fields = append(fields, EmbedField{Name: "Top Allies", Value: b.String()})
	}

	title := fmt.Sprintf("%s on %s", g.Outcome, g.Champion)
	if g.Role != "" {
		title += fmt.Sprintf(" (%s)", g.Role)
	}

	embed := Embed{
		Title:       title,
		Description: fmt.Sprintf("%s · %s", user, g.Queue),
		Color:       outcomeColor(g.Outcome),
		Fields:      fields,
		Footer:      &EmbedFooter{Text: g.MatchID},
	}
	if !g.CreatedAt.IsZero() {
		embed.Timestamp = g.CreatedAt.UTC().Format(time.RFC3339)
	}
	return WebhookPayload{Embeds: []Embed{embed}}
}

func perMinute(total string, rate *float64, format string) string {
	if rate == nil {
		return total
	}
	return fmt.Sprintf("%s ("+format+"/min)", total, *rate)
}

func damageValue(g history.DerivedGame) string {
	v := humanize.Comma(int64(g.Damage))
	if g.DamageShare != nil {
		v += fmt.Sprintf(" (%d%%)", *g.DamageShare)
	}
	return v
}

// WebhookClient sends notifications to Discord webhooks
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new WebhookClient
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: defaultWebhookTimeout,
		},
	}
}

// SendGameResult posts a game summary
func (c *WebhookClient) SendGameResult(ctx context.Context, user string, g history.DerivedGame, allies []*playedwith.Relationship) error {
	return c.sendPayload(ctx, NewGameResultPayload(user, g, allies))
}

// sendPayload sends a webhook payload with retry on rate limiting
func (c *WebhookClient) sendPayload(ctx context.Context, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		resp.Body.Close()

		// Discord returns 204 No Content
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
			return nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := time.Second
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				wait = time.Duration(seconds) * time.Second
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook request failed after %d retries", maxRetries)
}
