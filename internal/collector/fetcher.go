// Package collector fetches a player's recent matches, serving what it can
// from the local cache and fetching the rest concurrently.
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"matchhistory/internal/data"
	"matchhistory/internal/match"
	"matchhistory/internal/riot"
)

const DefaultWorkerCount = 4

// MatchSource is the part of the Riot client the fetcher needs
type MatchSource interface {
	GetMatchIDs(ctx context.Context, puuid string, count int) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (*riot.MatchResponse, json.RawMessage, error)
}

// Cache is the part of the match cache the fetcher needs
type Cache interface {
	Get(ctx context.Context, matchID string) (json.RawMessage, bool, error)
	PutMany(ctx context.Context, matches []data.CachedMatch) error
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithWorkers caps the number of concurrent match requests
func WithWorkers(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithCache serves and stores payloads through cache
func WithCache(cache Cache) Option {
	return func(f *Fetcher) {
		f.cache = cache
	}
}

// Fetcher turns a player's match id list into match records
type Fetcher struct {
	source  MatchSource
	cache   Cache
	workers int
}

// NewFetcher creates a fetcher reading from source
func NewFetcher(source MatchSource, opts ...Option) *Fetcher {
	f := &Fetcher{source: source, workers: DefaultWorkerCount}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns up to count of the player's most recent matches in the order
// the API lists them (newest first). Matches that fail to load are logged
// and left out; only a failed id lookup or cancellation is an error.
func (f *Fetcher) Fetch(ctx context.Context, puuid string, count int) ([]match.Record, error) {
	ids, err := f.source.GetMatchIDs(ctx, puuid, count)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	results := make([]*match.Record, len(ids))
	var misses []int

	for i, id := range ids {
		rec, ok := f.fromCache(ctx, id)
		if ok {
			results[i] = rec
			continue
		}
		misses = append(misses, i)
	}

	var (
		mu      sync.Mutex
		fetched []data.CachedMatch
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for _, i := range misses {
		id := ids[i]
		g.Go(func() error {
			m, raw, err := f.source.GetMatch(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("[Collector] Failed to fetch %s: %v", id, err)
				return nil
			}

			rec, err := riot.ToRecord(m)
			if err != nil {
				log.Printf("[Collector] Failed to convert %s: %v", id, err)
				return nil
			}
			results[i] = &rec

			mu.Lock()
			fetched = append(fetched, data.CachedMatch{ID: id, CreatedAt: rec.CreatedAt, Payload: raw})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if f.cache != nil && len(fetched) > 0 {
		if err := f.cache.PutMany(ctx, fetched); err != nil {
			log.Printf("[Collector] Failed to cache %d matches: %v", len(fetched), err)
		}
	}

	records := make([]match.Record, 0, len(ids))
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	log.Printf("[Collector] %d matches (%d cached, %d fetched)", len(records), len(ids)-len(misses), len(fetched))
	return records, nil
}

func (f *Fetcher) fromCache(ctx context.Context, id string) (*match.Record, bool) {
	if f.cache == nil {
		return nil, false
	}

	raw, ok, err := f.cache.Get(ctx, id)
	if err != nil {
		log.Printf("[Collector] Cache read failed for %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	rec, err := DecodeRecord(raw)
	if err != nil {
		log.Printf("[Collector] Ignoring unreadable cache entry %s: %v", id, err)
		return nil, false
	}
	return &rec, true
}

// DecodeRecord parses a raw match-v5 payload into a record
func DecodeRecord(raw json.RawMessage) (match.Record, error) {
	if len(raw) == 0 {
		return match.Record{}, errors.New("empty payload")
	}
	var m riot.MatchResponse
	if err := json.Unmarshal(raw, &m); err != nil {
		return match.Record{}, fmt.Errorf("failed to parse match: %w", err)
	}
	return riot.ToRecord(&m)
}
