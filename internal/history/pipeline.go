// Package history turns fetched matches into display-ready summaries for
// the acting user and feeds every co-player into the played-with aggregate.
package history

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"matchhistory/internal/ddragon"
	"matchhistory/internal/match"
	"matchhistory/internal/playedwith"
	"matchhistory/internal/role"
)

// ErrParticipantNotFound means the acting user did not play in the match
var ErrParticipantNotFound = errors.New("acting user not found in match")

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithCatalog sets where item, rune and spell names come from
func WithCatalog(c Catalog) PipelineOption {
	return func(p *Pipeline) {
		p.catalog = c
	}
}

// WithClock overrides the time used for age strings
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// Pipeline processes matches strictly in order, newest first. It is not
// safe for concurrent use.
type Pipeline struct {
	agg     *playedwith.Aggregator
	catalog Catalog
	now     func() time.Time
	calc    *Calculator
}

// NewPipeline creates a pipeline feeding agg. A nil agg starts a fresh one.
func NewPipeline(agg *playedwith.Aggregator, opts ...PipelineOption) *Pipeline {
	if agg == nil {
		agg = playedwith.NewAggregator()
	}
	p := &Pipeline{agg: agg}
	for _, opt := range opts {
		opt(p)
	}
	if p.catalog == nil {
		p.catalog = ddragon.NewRegistry()
	}
	p.calc = NewCalculator(p.catalog, p.now)
	return p
}

// Aggregator returns the aggregate the pipeline feeds
func (p *Pipeline) Aggregator() *playedwith.Aggregator {
	return p.agg
}

// Process summarizes up to limit of the most recent records (limit <= 0
// means all of them) for actingUser. Records are ordered newest first before
// processing so the aggregate's ally flags end up reflecting the latest
// shared game. A record that cannot be processed is logged and skipped.
func (p *Pipeline) Process(records []match.Record, actingUser string, limit int) []DerivedGame {
	ordered := make([]match.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	games := make([]DerivedGame, 0, len(ordered))
	for i := range ordered {
		g, err := p.processOne(&ordered[i], actingUser)
		if err != nil {
			log.Printf("[History] Skipping match %s: %v", ordered[i].ID, err)
			continue
		}
		games = append(games, g)
	}
	return games
}

func (p *Pipeline) processOne(rec *match.Record, actingUser string) (DerivedGame, error) {
	label, err := QueueLabel(rec.Queue)
	if err != nil {
		return DerivedGame{}, err
	}

	me := FindParticipant(rec, actingUser)
	if me == nil {
		return DerivedGame{}, fmt.Errorf("%w: %s", ErrParticipantNotFound, actingUser)
	}

	g, err := p.calc.Compute(rec, me, TeamTotalsFor(rec, me.TeamID))
	if err != nil {
		return DerivedGame{}, fmt.Errorf("failed to compute metrics: %w", err)
	}
	g.Queue = label
	g.Role = role.Infer(*me, rec.MapID == match.SummonersRift)

	p.feed(rec, me, g.Outcome)
	return g, nil
}

// feed records every other participant once per match
func (p *Pipeline) feed(rec *match.Record, me *match.Participant, outcome Outcome) {
	if rec.ID != "" && p.agg.Processed(rec.ID) {
		return
	}

	result := playedwith.Loss
	switch outcome {
	case Remake:
		result = playedwith.Unknown
	case Win:
		result = playedwith.Win
	}

	for i := range rec.Participants {
		other := &rec.Participants[i]
		if other == me || other.Name == "" {
			continue
		}
		p.agg.Add(other.Name, playedwith.Encounter{
			Champion: other.Champion,
			Outcome:  result,
			Ally:     other.TeamID == me.TeamID,
			MatchID:  rec.ID,
			PlayedAt: rec.CreatedAt,
		})
	}

	if rec.ID != "" {
		p.agg.MarkProcessed(rec.ID)
	}
}

// FindParticipant locates the acting user in a match. Names are compared
// sanitized; a name without a tag also matches on the game-name part.
func FindParticipant(rec *match.Record, actingUser string) *match.Participant {
	key := playedwith.Sanitize(actingUser)
	if key == "" {
		return nil
	}
	tagless := !strings.Contains(actingUser, "#")

	for i := range rec.Participants {
		part := &rec.Participants[i]
		if playedwith.Sanitize(part.Name) == key {
			return part
		}
		if tagless && playedwith.Sanitize(part.GameName()) == key {
			return part
		}
	}
	return nil
}

// TeamTotalsFor sums kills and damage for one side
func TeamTotalsFor(rec *match.Record, teamID int) TeamTotals {
	var t TeamTotals
	for _, part := range rec.Participants {
		if part.TeamID == teamID {
			t.Kills += part.Stats.Kills
			t.Damage += part.Stats.Damage
		}
	}
	return t
}
