// Package ddragon resolves item, rune, summoner spell and champion ids to
// display names and icon URLs using Riot's Data Dragon.
package ddragon

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultBaseURL = "https://ddragon.leagueoflegends.com"
	defaultTimeout = 10 * time.Second
)

// runeTree mirrors one entry of runesReforged.json
type runeTree struct {
	ID    int    `json:"id"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Slots []struct {
		Runes []struct {
			ID   int    `json:"id"`
			Key  string `json:"key"`
			Name string `json:"name"`
			Icon string `json:"icon"`
		} `json:"runes"`
	} `json:"slots"`
}

type itemFile struct {
	Data map[string]struct {
		Name string `json:"name"`
		Gold struct {
			Total int `json:"total"`
		} `json:"gold"`
	} `json:"data"`
}

type summonerFile struct {
	Data map[string]struct {
		ID   string `json:"id"`
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"data"`
}

type championFile struct {
	Data map[string]struct {
		ID   string `json:"id"`
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"data"`
}

// Option configures a Registry
type Option func(*Registry)

// WithBaseURL points the registry at a different Data Dragon host
func WithBaseURL(url string) Option {
	return func(r *Registry) {
		r.baseURL = url
	}
}

// WithHTTPClient sets the client used by Load
func WithHTTPClient(c *http.Client) Option {
	return func(r *Registry) {
		r.httpClient = c
	}
}

// Registry holds id -> name/icon mappings. It is usable before Load; names
// then come from the built-in tables.
type Registry struct {
	httpClient *http.Client
	baseURL    string

	mu        sync.RWMutex
	version   string
	items     map[int]string
	runes     map[int]string
	runeIcons map[int]string
	trees     map[int]string
	spells    map[int]spellInfo
	champions map[string]string // display name -> icon id
	loaded    bool
}

// NewRegistry creates a registry seeded with the static fallback names
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		items:      make(map[int]string),
		runes:      make(map[int]string, len(staticRunes)+len(statShards)),
		runeIcons:  make(map[int]string),
		trees:      make(map[int]string, len(staticTrees)),
		spells:     make(map[int]spellInfo, len(staticSpells)),
		champions:  make(map[string]string),
	}
	for id, name := range staticRunes {
		r.runes[id] = name
	}
	for id, name := range statShards {
		r.runes[id] = name
	}
	for id, name := range staticTrees {
		r.trees[id] = name
	}
	for id, info := range staticSpells {
		r.spells[id] = info
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load fetches the latest patch's data files. On error the registry keeps
// whatever it had before.
func (r *Registry) Load(ctx context.Context) error {
	var versions []string
	if err := r.getJSON(ctx, r.baseURL+"/api/versions.json", &versions); err != nil {
		return fmt.Errorf("failed to fetch versions: %w", err)
	}
	if len(versions) == 0 {
		return fmt.Errorf("no versions available")
	}
	version := versions[0]

	var (
		items     itemFile
		trees     []runeTree
		summoners summonerFile
		champions championFile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.getJSON(gctx, r.dataURL(version, "item.json"), &items); err != nil {
			return fmt.Errorf("failed to fetch items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.getJSON(gctx, r.dataURL(version, "runesReforged.json"), &trees); err != nil {
			return fmt.Errorf("failed to fetch runes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.getJSON(gctx, r.dataURL(version, "summoner.json"), &summoners); err != nil {
			return fmt.Errorf("failed to fetch summoner spells: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.getJSON(gctx, r.dataURL(version, "champion.json"), &champions); err != nil {
			return fmt.Errorf("failed to fetch champions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.version = version
	for idStr, item := range items.Data {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		r.items[id] = item.Name
	}
	for _, tree := range trees {
		r.trees[tree.ID] = tree.Name
		for _, slot := range tree.Slots {
			for _, rn := range slot.Runes {
				r.runes[rn.ID] = rn.Name
				r.runeIcons[rn.ID] = rn.Icon
			}
		}
	}
	for _, s := range summoners.Data {
		id, err := strconv.Atoi(s.Key)
		if err != nil {
			continue
		}
		r.spells[id] = spellInfo{Name: s.Name, Image: s.ID}
	}
	for iconID, champ := range champions.Data {
		// match-v5 reports the icon id ("MonkeyKing") as championName
		r.champions[champ.Name] = iconID
		r.champions[iconID] = iconID
	}
	r.loaded = true

	log.Printf("[DDragon] Loaded %d items, %d runes, %d spells, %d champions (v%s)",
		len(r.items), len(r.runes), len(r.spells), len(r.champions), version)
	return nil
}

func (r *Registry) dataURL(version, file string) string {
	return fmt.Sprintf("%s/cdn/%s/data/en_US/%s", r.baseURL, version, file)
}

func (r *Registry) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// IsLoaded returns whether Load has succeeded
func (r *Registry) IsLoaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Version returns the loaded patch, or "" before Load
func (r *Registry) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// ItemName returns the item name for a given ID
func (r *Registry) ItemName(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.items[id]; ok {
		return name
	}
	return fmt.Sprintf("Item %d", id)
}

// ItemIcon returns the Data Dragon icon URL for an item
func (r *Registry) ItemIcon(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.version == "" || id == 0 {
		return ""
	}
	return fmt.Sprintf("%s/cdn/%s/img/item/%d.png", r.baseURL, r.version, id)
}

// RuneName returns the rune (or stat shard) name for a given ID
func (r *Registry) RuneName(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.runes[id]; ok {
		return name
	}
	return fmt.Sprintf("Rune %d", id)
}

// RuneIcon returns the icon URL for a rune, or "" when unknown
func (r *Registry) RuneIcon(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if icon, ok := r.runeIcons[id]; ok && icon != "" {
		return r.baseURL + "/cdn/img/" + icon
	}
	return ""
}

// TreeName returns the rune tree name for a given ID
func (r *Registry) TreeName(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.trees[id]; ok {
		return name
	}
	return fmt.Sprintf("Tree %d", id)
}

// SpellName returns the summoner spell name for a given ID
func (r *Registry) SpellName(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if info, ok := r.spells[id]; ok {
		return info.Name
	}
	return fmt.Sprintf("Spell %d", id)
}

// SpellIcon returns the icon URL for a summoner spell
func (r *Registry) SpellIcon(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.spells[id]
	if !ok || r.version == "" {
		return ""
	}
	return fmt.Sprintf("%s/cdn/%s/img/spell/%s.png", r.baseURL, r.version, info.Image)
}

// ChampionIcon returns the icon URL for a champion by display name
func (r *Registry) ChampionIcon(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.version == "" {
		return ""
	}
	iconID, ok := r.champions[name]
	if !ok {
		iconID = name
	}
	return fmt.Sprintf("%s/cdn/%s/img/champion/%s.png", r.baseURL, r.version, iconID)
}
