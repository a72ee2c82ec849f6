package riot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient("RGAPI-test-key", "americas", WithBaseURL(server.URL), WithRateLimits(0, 0))
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("", "americas")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantValid bool
		wantErr   bool
	}{
		{"valid key", http.StatusOK, true, false},
		{"forbidden", http.StatusForbidden, false, false},
		{"unauthorized", http.StatusUnauthorized, false, false},
		{"server error", http.StatusInternalServerError, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, statusEndpoint, r.URL.Path)
				assert.Equal(t, "RGAPI-test-key", r.Header.Get("X-Riot-Token"))
				w.WriteHeader(tt.status)
			})

			valid, err := c.ValidateKey(context.Background())
			assert.Equal(t, tt.wantValid, valid)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateKey_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c, err := NewClient("RGAPI-test-key", "americas", WithBaseURL(server.URL))
	require.NoError(t, err)

	valid, err := c.ValidateKey(context.Background())
	assert.False(t, valid)
	assert.Error(t, err)
}

func TestGetMatchIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lol/match/v5/matches/by-puuid/puuid-1/ids", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("count"))
		w.Write([]byte(`["NA1_3","NA1_2","NA1_1"]`))
	})

	ids, err := c.GetMatchIDs(context.Background(), "puuid-1", 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"NA1_3", "NA1_2", "NA1_1"}, ids)
}

func TestGetMatch(t *testing.T) {
	body := `{"metadata":{"matchId":"NA1_1","participants":["a"]},"info":{"gameDuration":1800,"queueId":420,"mapId":11}}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lol/match/v5/matches/NA1_1", r.URL.Path)
		w.Write([]byte(body))
	})

	m, raw, err := c.GetMatch(context.Background(), "NA1_1")
	require.NoError(t, err)
	assert.Equal(t, "NA1_1", m.Metadata.MatchID)
	assert.Equal(t, 1800, m.Info.GameDuration)
	assert.JSONEq(t, body, string(raw))
}

func TestGetAccountByRiotID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/riot/account/v1/accounts/by-riot-id/Hide on bush/KR1", r.URL.Path)
		w.Write([]byte(`{"puuid":"p-1","gameName":"Hide on bush","tagLine":"KR1"}`))
	})

	acct, err := c.GetAccountByRiotID(context.Background(), "Hide on bush", "KR1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", acct.PUUID)
}

func TestDoRequest_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, _, err := c.GetMatch(context.Background(), "NA1_1")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRateLimiter_WaitsForWindow(t *testing.T) {
	l := newRateLimiter(2, 0)
	ctx := context.Background()

	require.NoError(t, l.wait(ctx))
	require.NoError(t, l.wait(ctx))

	start := time.Now()
	require.NoError(t, l.wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

func TestRateLimiter_HonorsContext(t *testing.T) {
	l := newRateLimiter(1, 0)
	require.NoError(t, l.wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.wait(ctx), context.DeadlineExceeded)
}
