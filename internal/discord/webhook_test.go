package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchhistory/internal/history"
	"matchhistory/internal/playedwith"
)

func sampleGame() history.DerivedGame {
	cs := 7.4
	share := 28
	return history.DerivedGame{
		MatchID:           "NA1_5001",
		Queue:             "Ranked Solo/Duo",
		Outcome:           history.Win,
		Champion:          "Ahri",
		Role:              "MIDDLE",
		Duration:          "31:12",
		Score:             "8/2/11",
		KDAText:           "9.5",
		KillParticipation: 63,
		CS:                231,
		CSPerMin:          &cs,
		Damage:            31250,
		DamageShare:       &share,
		Vision:            18,
		CreatedAt:         time.Date(2026, 10, 16, 17, 0, 0, 0, time.UTC),
	}
}

func TestGameResultPayload_Format(t *testing.T) {
	agg := playedwith.NewAggregator()
	agg.Add("Duo#NA1", playedwith.Encounter{Outcome: playedwith.Win, Ally: true})
	agg.Add("Duo#NA1", playedwith.Encounter{Outcome: playedwith.Loss, Ally: true})

	payload := NewGameResultPayload("Me#NA1", sampleGame(), agg.Allies())
	require.Len(t, payload.Embeds, 1)

	embed := payload.Embeds[0]
	assert.Equal(t, "Win on Ahri (MIDDLE)", embed.Title)
	assert.Equal(t, "Me#NA1 · Ranked Solo/Duo", embed.Description)
	assert.Equal(t, colorWin, embed.Color)
	assert.Equal(t, "2026-10-16T17:00:00Z", embed.Timestamp)
	assert.Equal(t, "NA1_5001", embed.Footer.Text)

	values := map[string]string{}
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "8/2/11 (9.5 KDA)", values["Score"])
	assert.Equal(t, "63%", values["Kill Participation"])
	assert.Equal(t, "231 (7.4/min)", values["CS"])
	assert.Equal(t, "31,250 (28%)", values["Damage"])
	assert.Equal(t, "18", values["Vision"])
	assert.Equal(t, "Duo#NA1: 1-1 (50.0%)\n", values["Top Allies"])
}

func TestGameResultPayload_RemakeWithoutAllies(t *testing.T) {
	g := history.DerivedGame{Outcome: history.Remake, Champion: "Jinx", Queue: "ARAM"}
	payload := NewGameResultPayload("Me#NA1", g, nil)

	embed := payload.Embeds[0]
	assert.Equal(t, "Remake on Jinx", embed.Title)
	assert.Equal(t, colorRemake, embed.Color)
	assert.Empty(t, embed.Timestamp)
	for _, f := range embed.Fields {
		assert.NotEqual(t, "Top Allies", f.Name)
	}
}

func TestSendGameResult(t *testing.T) {
	var received WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL)
	require.NoError(t, client.SendGameResult(context.Background(), "Me#NA1", sampleGame(), nil))
	require.Len(t, received.Embeds, 1)
	assert.Equal(t, "Win on Ahri (MIDDLE)", received.Embeds[0].Title)
}

func TestSendGameResult_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL)
	require.NoError(t, client.SendGameResult(context.Background(), "Me#NA1", sampleGame(), nil))
	assert.Equal(t, int32(2), calls.Load())
}

func TestSendGameResult_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewWebhookClient(server.URL)
	err := client.SendGameResult(context.Background(), "Me#NA1", sampleGame(), nil)
	assert.ErrorContains(t, err, "status 400")
}
