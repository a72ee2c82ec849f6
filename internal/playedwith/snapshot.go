package playedwith

import (
	"github.com/bits-and-blooms/bloom/v3"
)

// Snapshot is the persisted form of an aggregate, tagged with the local
// user it belongs to
type Snapshot struct {
	Owner         string
	Relationships map[string]*Relationship
	Seen          *bloom.BloomFilter // nil means nothing processed yet
}

// EmptySnapshot returns a snapshot with no data for owner
func EmptySnapshot(owner string) *Snapshot {
	return &Snapshot{
		Owner:         owner,
		Relationships: make(map[string]*Relationship),
	}
}

// Snapshot copies the aggregator's current state
func (a *Aggregator) Snapshot(owner string) *Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap := EmptySnapshot(owner)
	for key, rel := range a.relationships {
		snap.Relationships[key] = rel.clone()
	}
	snap.Seen = a.seen.Copy()
	return snap
}

// Restore builds an aggregator from a snapshot
func Restore(snap *Snapshot, opts ...Option) *Aggregator {
	a := NewAggregator(opts...)
	if snap == nil {
		return a
	}
	for key, rel := range snap.Relationships {
		a.relationships[key] = rel.clone()
	}
	if snap.Seen != nil {
		a.seen = snap.Seen.Copy()
	}
	return a
}

func (r *Relationship) clone() *Relationship {
	c := &Relationship{
		Username:   r.Username,
		Ally:       r.Ally,
		LastPlayed: r.LastPlayed,
		Entries:    make([]Encounter, len(r.Entries)),
	}
	copy(c.Entries, r.Entries)
	return c
}
