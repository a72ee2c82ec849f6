package lcu

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// EventType represents LCU WebSocket (WAMP) message types
type EventType int

const (
	EventTypeSubscribe   EventType = 5
	EventTypeUnsubscribe EventType = 6
	EventTypeEvent       EventType = 8
)

const (
	gameflowEvent = "OnJsonApiEvent_lol-gameflow_v1_gameflow-phase"

	PhaseEndOfGame = "EndOfGame"
)

// GameEnd is emitted once per finished game
type GameEnd struct {
	Phase string
	At    time.Time
}

// Watcher listens on the LCU WebSocket for the end of each game
type Watcher struct {
	url    string
	header http.Header
	dialer websocket.Dialer
}

// NewWatcher creates a watcher for the given credentials
func NewWatcher(creds *Credentials) *Watcher {
	header := http.Header{}
	header.Set("Authorization", "Basic "+basicAuth(creds.Password))

	return &Watcher{
		url:    fmt.Sprintf("wss://127.0.0.1:%s", creds.Port),
		header: header,
		dialer: websocket.Dialer{
			TLSClientConfig:  &tls.Config{InsecureSkipVerify: true},
			HandshakeTimeout: 5 * time.Second,
		},
	}
}

// Run connects, subscribes to gameflow changes and calls onEnd each time the
// client enters the end-of-game screen. It returns when ctx is cancelled
// (nil) or the connection drops (the read error).
func (w *Watcher) Run(ctx context.Context, onEnd func(GameEnd)) error {
	conn, _, err := w.dialer.DialContext(ctx, w.url, w.header)
	if err != nil {
		return fmt.Errorf("failed to connect to LCU WebSocket: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON([]any{EventTypeSubscribe, gameflowEvent}); err != nil {
		return fmt.Errorf("failed to subscribe to gameflow: %w", err)
	}
	log.Println("[LCU] WebSocket connected - waiting for games to finish...")

	stop := context.AfterFunc(ctx, func() {
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		conn.WriteJSON([]any{EventTypeUnsubscribe, gameflowEvent})
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	last := ""
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("LCU WebSocket closed: %w", err)
		}

		phase, ok := parsePhase(message)
		if !ok {
			continue
		}
		if phase == PhaseEndOfGame && last != PhaseEndOfGame && onEnd != nil {
			onEnd(GameEnd{Phase: phase, At: time.Now()})
		}
		last = phase
	}
}

// parsePhase extracts the gameflow phase from a WAMP event frame:
// [8, "<event name>", {"data": "<phase>", "eventType": "Update", "uri": "..."}]
func parsePhase(data []byte) (string, bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) < 3 {
		return "", false
	}

	var eventType EventType
	if err := json.Unmarshal(raw[0], &eventType); err != nil || eventType != EventTypeEvent {
		return "", false
	}

	var eventName string
	if err := json.Unmarshal(raw[1], &eventName); err != nil || eventName != gameflowEvent {
		return "", false
	}

	var payload struct {
		EventType string `json:"eventType"`
		Data      string `json:"data"`
	}
	if err := json.Unmarshal(raw[2], &payload); err != nil {
		return "", false
	}
	if payload.EventType == "Delete" {
		return "", true
	}
	return payload.Data, true
}
