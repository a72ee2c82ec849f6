package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchhistory/internal/match"
	"matchhistory/internal/playedwith"
	"matchhistory/internal/role"
)

// buildMatch creates a 5v5 where the acting user ("Me#NA1") is on team 100
// alongside "Duo#NA1"; everyone else is filler.
func buildMatch(id string, created time.Time, meWins bool, duoTeam int) match.Record {
	rec := match.Record{
		ID:        id,
		MapID:     match.SummonersRift,
		Queue:     "RANKED_SOLO_5x5",
		CreatedAt: created,
		Duration:  "00:25:00",
	}

	rec.Participants = append(rec.Participants, match.Participant{
		Name: "Me#NA1", TeamID: 100, Champion: "Ahri",
		Position: "MIDDLE",
		Stats:    match.Stats{Kills: 3, Assists: 5, Damage: 20000, Win: meWins},
	})
	rec.Participants = append(rec.Participants, match.Participant{
		Name: "Duo#NA1", TeamID: duoTeam, Champion: "Thresh",
		Stats: match.Stats{Kills: 1, Damage: 5000, Win: (duoTeam == 100) == meWins},
	})
	for i := 0; i < 3; i++ {
		rec.Participants = append(rec.Participants, match.Participant{
			Name: fmt.Sprintf("Ally%d#NA1", i), TeamID: 100,
			Stats: match.Stats{Kills: 2, Damage: 10000, Win: meWins},
		})
	}
	for i := 0; i < 4; i++ {
		rec.Participants = append(rec.Participants, match.Participant{
			Name: fmt.Sprintf("Enemy%d#NA1", i), TeamID: 200,
			Stats: match.Stats{Kills: 1, Damage: 8000, Win: !meWins},
		})
	}
	return rec
}

func newTestPipeline(agg *playedwith.Aggregator) *Pipeline {
	return NewPipeline(agg, WithCatalog(fakeCatalog{}), WithClock(fixedClock))
}

func TestProcess_OrdersNewestFirstAndCaps(t *testing.T) {
	records := []match.Record{
		buildMatch("NA1_1", testNow.Add(-72*time.Hour), true, 100),
		buildMatch("NA1_3", testNow.Add(-1*time.Hour), false, 100),
		buildMatch("NA1_2", testNow.Add(-24*time.Hour), true, 100),
	}

	games := newTestPipeline(nil).Process(records, "Me#NA1", 2)
	require.Len(t, games, 2)
	assert.Equal(t, "NA1_3", games[0].MatchID)
	assert.Equal(t, "NA1_2", games[1].MatchID)

	// caller's slice is untouched
	assert.Equal(t, "NA1_1", records[0].ID)
}

func TestProcess_DerivedFields(t *testing.T) {
	rec := buildMatch("NA1_1", testNow.Add(-2*time.Hour), true, 100)

	games := newTestPipeline(nil).Process([]match.Record{rec}, "Me#NA1", 0)
	require.Len(t, games, 1)

	g := games[0]
	assert.Equal(t, "Ranked Solo/Duo", g.Queue)
	assert.Equal(t, role.Middle, g.Role)
	assert.Equal(t, Win, g.Outcome)
	// team kills: 3 + 1 + 3*2 = 10
	assert.Equal(t, 80, g.KillParticipation)
	// team damage: 20000 + 5000 + 30000 = 55000
	require.NotNil(t, g.DamageShare)
	assert.Equal(t, 36, *g.DamageShare)
}

func TestProcess_FeedsAggregator(t *testing.T) {
	agg := playedwith.NewAggregator()
	rec := buildMatch("NA1_1", testNow.Add(-2*time.Hour), true, 100)

	newTestPipeline(agg).Process([]match.Record{rec}, "Me#NA1", 0)

	assert.Equal(t, 9, agg.Len())
	_, self := agg.Get("Me#NA1")
	assert.False(t, self, "acting user must not be recorded")

	duo, ok := agg.Get("duo#na1")
	require.True(t, ok)
	assert.True(t, duo.Ally)
	assert.Equal(t, playedwith.Win, duo.Entries[0].Outcome)

	enemy, ok := agg.Get("Enemy0#NA1")
	require.True(t, ok)
	assert.False(t, enemy.Ally)
	assert.Equal(t, playedwith.Win, enemy.Entries[0].Outcome)
}

func TestProcess_AllyFlagFromMostRecentMatch(t *testing.T) {
	agg := playedwith.NewAggregator()

	// Duo was an enemy last week and an ally today; input order is oldest first.
	records := []match.Record{
		buildMatch("NA1_1", testNow.Add(-7*24*time.Hour), true, 200),
		buildMatch("NA1_2", testNow.Add(-time.Hour), true, 100),
	}
	newTestPipeline(agg).Process(records, "Me#NA1", 0)

	duo, ok := agg.Get("Duo#NA1")
	require.True(t, ok)
	assert.True(t, duo.Ally)
	assert.Equal(t, 2, duo.Games())
}

func TestProcess_RemakeIsUnknownOutcome(t *testing.T) {
	agg := playedwith.NewAggregator()
	rec := buildMatch("NA1_1", testNow.Add(-time.Hour), true, 100)
	rec.Remake = true

	games := newTestPipeline(agg).Process([]match.Record{rec}, "Me#NA1", 0)
	require.Len(t, games, 1)
	assert.Equal(t, Remake, games[0].Outcome)

	duo, _ := agg.Get("Duo#NA1")
	assert.Equal(t, playedwith.Unknown, duo.Entries[0].Outcome)
	assert.Equal(t, 100.0, duo.WinRate())
}

func TestProcess_SkipsBadMatches(t *testing.T) {
	agg := playedwith.NewAggregator()

	noQueue := buildMatch("NA1_1", testNow.Add(-time.Hour), true, 100)
	noQueue.Queue = ""
	badDuration := buildMatch("NA1_2", testNow.Add(-2*time.Hour), true, 100)
	badDuration.Duration = "??"
	notMine := buildMatch("NA1_3", testNow.Add(-3*time.Hour), true, 100)
	notMine.Participants = notMine.Participants[1:]
	good := buildMatch("NA1_4", testNow.Add(-4*time.Hour), false, 100)

	games := newTestPipeline(agg).Process([]match.Record{noQueue, badDuration, notMine, good}, "Me#NA1", 0)
	require.Len(t, games, 1)
	assert.Equal(t, "NA1_4", games[0].MatchID)

	// skipped matches leave no trace in the aggregate
	duo, _ := agg.Get("Duo#NA1")
	assert.Equal(t, 1, duo.Games())
}

func TestProcess_DoesNotRecountProcessedMatches(t *testing.T) {
	agg := playedwith.NewAggregator()
	rec := buildMatch("NA1_1", testNow.Add(-time.Hour), true, 100)

	p := newTestPipeline(agg)
	p.Process([]match.Record{rec}, "Me#NA1", 0)
	games := p.Process([]match.Record{rec}, "Me#NA1", 0)

	assert.Len(t, games, 1, "history is still rendered")
	duo, _ := agg.Get("Duo#NA1")
	assert.Equal(t, 1, duo.Games())
}

func TestFindParticipant(t *testing.T) {
	rec := buildMatch("NA1_1", testNow, true, 100)

	tests := []struct {
		name   string
		acting string
		want   string
	}{
		{"exact riot id", "Me#NA1", "Me#NA1"},
		{"case and spaces", " me # na1", "Me#NA1"},
		{"game name only", "Duo", "Duo#NA1"},
		{"wrong tag", "Me#EUW", ""},
		{"absent", "Nobody", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindParticipant(&rec, tt.acting)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestTeamTotalsFor(t *testing.T) {
	rec := buildMatch("NA1_1", testNow, true, 100)
	assert.Equal(t, TeamTotals{Kills: 10, Damage: 55000}, TeamTotalsFor(&rec, 100))
	assert.Equal(t, TeamTotals{Kills: 4, Damage: 32000}, TeamTotalsFor(&rec, 200))
}
