// Package playedwith accumulates every co-player seen across processed
// matches and keeps per-player win rates split by alliance.
package playedwith

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/bits-and-blooms/bloom/v3"
)

// Outcome is the acting user's result in a shared match
type Outcome int8

const (
	Unknown Outcome = iota // remake or unparsable
	Win
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "Win"
	case Loss:
		return "Loss"
	default:
		return "Unknown"
	}
}

// Decidable reports whether the outcome counts towards a win rate
func (o Outcome) Decidable() bool {
	return o == Win || o == Loss
}

const (
	defaultFriendThreshold = 1

	// sizing for the seen-match filter
	filterCapacity  = 50000
	filterFalseRate = 0.001
)

// Encounter is one shared match with a co-player
type Encounter struct {
	Champion string
	Outcome  Outcome
	Ally     bool
	MatchID  string
	PlayedAt time.Time
}

// Relationship is everything known about one co-player
type Relationship struct {
	Username   string
	Ally       bool
	LastPlayed time.Time
	Entries    []Encounter

	winRate *float64
}

// Games is the number of recorded encounters
func (r *Relationship) Games() int {
	return len(r.Entries)
}

// Record returns the decidable wins and losses
func (r *Relationship) Record() (wins, losses int) {
	for _, e := range r.Entries {
		switch e.Outcome {
		case Win:
			wins++
		case Loss:
			losses++
		}
	}
	return wins, losses
}

// WinRate is wins/decidable*100 rounded to one decimal, or 100 when no
// encounter has a decidable outcome. The value is cached until the next Add.
func (r *Relationship) WinRate() float64 {
	if r.winRate != nil {
		return *r.winRate
	}

	wins, losses := r.Record()
	rate := 100.0
	if decidable := wins + losses; decidable > 0 {
		rate = math.RoundToEven(float64(wins)/float64(decidable)*1000) / 10
	}
	r.winRate = &rate
	return rate
}

// Summary is a flat, export-friendly view of a relationship
type Summary struct {
	Key        string    `json:"key"`
	Username   string    `json:"username"`
	Ally       bool      `json:"ally"`
	Games      int       `json:"games"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	WinRate    float64   `json:"winRate"`
	LastPlayed time.Time `json:"lastPlayed,omitzero"`
}

// Summary flattens the relationship
func (r *Relationship) Summary() Summary {
	wins, losses := r.Record()
	return Summary{
		Key:        Sanitize(r.Username),
		Username:   r.Username,
		Ally:       r.Ally,
		Games:      r.Games(),
		Wins:       wins,
		Losses:     losses,
		WinRate:    r.WinRate(),
		LastPlayed: r.LastPlayed,
	}
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithFriendThreshold sets how many shared games an ally needs before they
// show up in Allies
func WithFriendThreshold(n int) Option {
	return func(a *Aggregator) {
		if n >= 0 {
			a.friendThreshold = n
		}
	}
}

// Aggregator owns the relationship map for one local user
type Aggregator struct {
	mu              sync.RWMutex
	relationships   map[string]*Relationship
	seen            *bloom.BloomFilter
	friendThreshold int
}

// NewAggregator creates an empty aggregator
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		relationships:   make(map[string]*Relationship),
		seen:            bloom.NewWithEstimates(filterCapacity, filterFalseRate),
		friendThreshold: defaultFriendThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sanitize turns a display name into the relationship key
func Sanitize(name string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name))
}

// Add records one encounter with player. Encounters accumulate; the Ally
// flag is overwritten by the latest call. An encounter with a timestamp
// older than the player's last recorded game does not touch the flag, so
// feeding history out of order cannot make a stale side stick.
func (a *Aggregator) Add(player string, e Encounter) {
	key := Sanitize(player)
	if key == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	rel, ok := a.relationships[key]
	if !ok {
		rel = &Relationship{Username: player}
		a.relationships[key] = rel
	}

	rel.Entries = append(rel.Entries, e)
	rel.winRate = nil

	if e.PlayedAt.IsZero() || !e.PlayedAt.Before(rel.LastPlayed) {
		rel.Ally = e.Ally
		rel.Username = player
	}
	if e.PlayedAt.After(rel.LastPlayed) {
		rel.LastPlayed = e.PlayedAt
	}
}

// Get returns the relationship for a player, if any
func (a *Aggregator) Get(player string) (*Relationship, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	rel, ok := a.relationships[Sanitize(player)]
	return rel, ok
}

// Len returns the number of distinct co-players
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.relationships)
}

// MarkProcessed remembers that a match has been fed to the aggregator
func (a *Aggregator) MarkProcessed(matchID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seen.AddString(matchID)
}

// Processed reports whether a match has (probably) been fed already.
// False positives are possible at the configured rate; false negatives are not.
func (a *Aggregator) Processed(matchID string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.seen.TestString(matchID)
}

// All returns every relationship
func (a *Aggregator) All() []*Relationship {
	return a.filter(func(*Relationship) bool { return true })
}

// Outcomes returns relationships with at least one decidable result
func (a *Aggregator) Outcomes() []*Relationship {
	return a.filter(func(r *Relationship) bool {
		for _, e := range r.Entries {
			if e.Outcome.Decidable() {
				return true
			}
		}
		return false
	})
}

// Allies returns current allies with more shared games than the friend threshold
func (a *Aggregator) Allies() []*Relationship {
	return a.filter(func(r *Relationship) bool {
		return r.Ally && r.Games() > a.friendThreshold
	})
}

// Enemies returns players last seen on the other side
func (a *Aggregator) Enemies() []*Relationship {
	return a.filter(func(r *Relationship) bool { return !r.Ally })
}

// filter collects matching relationships sorted by win rate, then games
// played, then username.
func (a *Aggregator) filter(keep func(*Relationship) bool) []*Relationship {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*Relationship, 0, len(a.relationships))
	for _, rel := range a.relationships {
		if keep(rel) {
			rel.WinRate()
			out = append(out, rel)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		wi, wj := out[i].WinRate(), out[j].WinRate()
		if wi != wj {
			return wi > wj
		}
		if gi, gj := out[i].Games(), out[j].Games(); gi != gj {
			return gi > gj
		}
		return Sanitize(out[i].Username) < Sanitize(out[j].Username)
	})
	return out
}
