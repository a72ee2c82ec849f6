package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"matchhistory/internal/collector"
	"matchhistory/internal/config"
	"matchhistory/internal/data"
	"matchhistory/internal/ddragon"
	"matchhistory/internal/history"
	"matchhistory/internal/lcu"
	"matchhistory/internal/match"
	"matchhistory/internal/playedwith"
	"matchhistory/internal/riot"
)

const (
	catalogTimeout  = 10 * time.Second
	validateTimeout = 10 * time.Second
)

// keyValidator is the part of the Riot client used to check the API key
type keyValidator interface {
	ValidateKey(ctx context.Context) (bool, error)
}

// checkAPIKey fails on a key Riot rejects. An unreachable status endpoint
// only logs, since the key may still be fine.
func checkAPIKey(ctx context.Context, v keyValidator) error {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	valid, err := v.ValidateKey(ctx)
	if err != nil {
		log.Printf("[Session] Could not validate API key: %v", err)
		return nil
	}
	if !valid {
		return fmt.Errorf("%w: RIOT_API_KEY was rejected", riot.ErrForbidden)
	}
	return nil
}

// session holds everything one command run needs: the acting identity,
// the restored aggregate and the data sources
type session struct {
	cfg      *config.Config
	offline  bool
	user     string
	puuid    string
	store    *playedwith.Store
	pipeline *history.Pipeline
	cache    *data.MatchCache
	riot     *riot.Client
}

// openSession resolves the acting user, restores their aggregate and opens
// the match cache
func openSession(ctx context.Context, cfg *config.Config, offline bool) (*session, error) {
	s := &session{cfg: cfg, offline: offline, user: cfg.User, puuid: cfg.PUUID}

	if !offline {
		client, err := riot.NewClient(cfg.APIKey, cfg.Region, riot.WithPlatform(cfg.Platform))
		if err != nil {
			return nil, err
		}
		if err := checkAPIKey(ctx, client); err != nil {
			return nil, err
		}
		s.riot = client
	}

	if err := s.resolveIdentity(ctx); err != nil {
		return nil, err
	}

	snapshotPath := cfg.SnapshotPath
	if snapshotPath == "" {
		p, err := playedwith.DefaultPath()
		if err != nil {
			return nil, err
		}
		snapshotPath = p
	}
	s.store = playedwith.NewStore(snapshotPath, s.user)

	snap, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load played-with snapshot: %w", err)
	}
	agg := playedwith.Restore(snap, playedwith.WithFriendThreshold(cfg.FriendThreshold))

	cachePath := cfg.CachePath
	if cachePath == "" {
		p, err := data.DefaultCachePath()
		if err != nil {
			return nil, err
		}
		cachePath = p
	}
	cache, err := data.OpenMatchCache(cachePath)
	if err != nil {
		return nil, err
	}
	s.cache = cache

	catalog := ddragon.NewRegistry()
	loadCtx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()
	if err := catalog.Load(loadCtx); err != nil {
		log.Printf("[Session] Data Dragon unavailable, using fallback names: %v", err)
	}

	s.pipeline = history.NewPipeline(agg, history.WithCatalog(catalog))
	return s, nil
}

// resolveIdentity fills the acting Riot ID and PUUID from config, the
// running League client, or the account API, in that order
func (s *session) resolveIdentity(ctx context.Context) error {
	if s.user == "" {
		client, err := lcu.Connect(ctx, s.cfg.Lockfile)
		if err != nil {
			if errors.Is(err, lcu.ErrLockfileNotFound) {
				return config.ErrMissingIdentity
			}
			return fmt.Errorf("%w: %v", config.ErrMissingIdentity, err)
		}
		summoner, err := client.CurrentSummoner(ctx)
		if err != nil {
			return fmt.Errorf("failed to get current summoner: %w", err)
		}
		s.user = summoner.RiotID()
		s.cfg.User = s.user
		if s.puuid == "" {
			s.puuid = summoner.PUUID
		}
		log.Printf("[Session] Using League client identity %s", s.user)
	}

	if s.puuid != "" || s.riot == nil {
		return nil
	}

	gameName, tagLine := s.cfg.GameName(), s.cfg.TagLine()
	if gameName == "" || tagLine == "" {
		return fmt.Errorf("cannot look up %q without a tag, set MATCHHISTORY_PUUID", s.user)
	}
	account, err := s.riot.GetAccountByRiotID(ctx, gameName, tagLine)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", s.user, err)
	}
	s.puuid = account.PUUID
	return nil
}

// records returns the most recent matches, from the API unless offline
func (s *session) records(ctx context.Context) ([]match.Record, error) {
	if s.offline {
		return s.cachedRecords(ctx)
	}

	fetcher := collector.NewFetcher(s.riot,
		collector.WithCache(s.cache),
		collector.WithWorkers(s.cfg.Workers))
	return fetcher.Fetch(ctx, s.puuid, s.cfg.Limit)
}

func (s *session) cachedRecords(ctx context.Context) ([]match.Record, error) {
	cached, err := s.cache.Recent(ctx, 0)
	if err != nil {
		return nil, err
	}

	records := make([]match.Record, 0, len(cached))
	for _, c := range cached {
		rec, err := collector.DecodeRecord(c.Payload)
		if err != nil {
			log.Printf("[Session] Skipping cached match %s: %v", c.ID, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// refresh fetches, processes and persists; the aggregate is saved even when
// no game could be summarized
func (s *session) refresh(ctx context.Context) ([]history.DerivedGame, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	games := s.pipeline.Process(records, s.user, s.cfg.Limit)
	if err := s.save(); err != nil {
		return games, err
	}
	return games, nil
}

func (s *session) aggregator() *playedwith.Aggregator {
	return s.pipeline.Aggregator()
}

func (s *session) save() error {
	return s.store.Save(s.aggregator().Snapshot(s.user))
}

func (s *session) close() {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			log.Printf("[Session] Failed to close cache: %v", err)
		}
	}
}
