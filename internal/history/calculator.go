package history

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"matchhistory/internal/match"
)

// epsilon keeps team-relative percentages finite when the team total is zero
const epsilon = 1e-6

// TrinketItems are the item ids shown in the separate trinket slot
var TrinketItems = map[int]bool{
	3330: true, // Scarecrow Effigy
	3340: true, // Stealth Ward
	3363: true, // Farsight Alteration
	3364: true, // Oracle Lens
	3513: true, // Eye of the Herald
	2052: true, // Poro-Snax
}

// Calculator derives the numeric and display fields of a DerivedGame
type Calculator struct {
	catalog Catalog
	now     func() time.Time
}

// NewCalculator creates a calculator resolving names through catalog.
// now may be nil, in which case time.Now is used.
func NewCalculator(catalog Catalog, now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{catalog: catalog, now: now}
}

// Compute builds the DerivedGame for participant p of rec. Role and queue
// label are left for the caller. The only error is an unparsable duration.
func (c *Calculator) Compute(rec *match.Record, p *match.Participant, totals TeamTotals) (DerivedGame, error) {
	minutes, err := match.ParseDuration(rec.Duration)
	if err != nil {
		return DerivedGame{}, err
	}

	s := p.Stats
	g := DerivedGame{
		MatchID:      rec.ID,
		MapID:        rec.MapID,
		CreatedAt:    rec.CreatedAt,
		Champion:     p.Champion,
		ChampionIcon: c.catalog.ChampionIcon(p.Champion),
		Duration:     rec.Duration,
		Minutes:      minutes,
		Age:          fmt.Sprintf("%dm · %s", int(math.RoundToEven(minutes)), humanize.RelTime(rec.CreatedAt, c.now(), "ago", "from now")),
		Kills:        s.Kills,
		Deaths:       s.Deaths,
		Assists:      s.Assists,
		Score:        fmt.Sprintf("%d/%d/%d", s.Kills, s.Deaths, s.Assists),
		CS:           s.MinionsKilled + s.NeutralMinionsKilled,
		Damage:       s.Damage,
		Vision:       s.VisionScore,
	}

	switch {
	case rec.Remake:
		g.Outcome = Remake
	case s.Win:
		g.Outcome = Win
	default:
		g.Outcome = Loss
	}
	g.Color = g.Outcome.Color()

	g.KDA = KDA(s.Kills, s.Deaths, s.Assists)
	g.KDAText = fmt.Sprintf("%.1f", g.KDA)
	g.KillParticipation = KillParticipation(s.Kills, s.Assists, totals.Kills)

	if !isFreeForAll(rec.Queue) {
		share := int(math.RoundToEven(float64(s.Damage) / (float64(totals.Damage) + epsilon) * 100))
		g.DamageShare = &share
	}

	if minutes > 0 {
		g.CSPerMin = ptr(roundTo(float64(g.CS)/minutes, 1))
		g.DamagePerMin = ptr(roundTo(float64(s.Damage)/minutes, 0))
		g.VisionPerMin = ptr(roundTo(float64(s.VisionScore)/minutes, 2))
	}

	g.Items, g.Trinket = c.items(p.Items)
	g.Runes = c.runes(p.Runes)
	for i, id := range p.Spells {
		g.Spells[i] = SpellEntry{ID: id}
		if id != 0 {
			g.Spells[i].Name = c.catalog.SpellName(id)
			g.Spells[i].Icon = c.catalog.SpellIcon(id)
		}
	}

	return g, nil
}

// KDA is (kills+assists)/deaths with zero deaths counted as one, rounded to
// two decimals
func KDA(kills, deaths, assists int) float64 {
	return roundTo(float64(kills+assists)/float64(max(deaths, 1)), 2)
}

// KillParticipation is the whole-number percentage of the team's kills the
// player took part in
func KillParticipation(kills, assists, teamKills int) int {
	return int(math.RoundToEven(float64(kills+assists) / (float64(teamKills) + epsilon) * 100))
}

// items compacts the six main slots and picks the trinket. The last slot is
// the trinket slot; a trinket id anywhere else is only used when that slot is
// empty. Trinket ids are never shown among the main six.
func (c *Calculator) items(slots [match.ItemSlots]int) ([DisplaySlots]ItemEntry, ItemEntry) {
	var main [DisplaySlots]ItemEntry
	trinket := ItemEntry{Empty: true}

	entry := func(id int) ItemEntry {
		return ItemEntry{ID: id, Name: c.catalog.ItemName(id), Icon: c.catalog.ItemIcon(id)}
	}

	last := slots[match.ItemSlots-1]
	if TrinketItems[last] {
		trinket = entry(last)
	}

	n := 0
	for i, id := range slots {
		if id == 0 {
			continue
		}
		if TrinketItems[id] {
			if i < match.ItemSlots-1 && last == 0 && trinket.Empty {
				trinket = entry(id)
			}
			continue
		}
		if n < DisplaySlots {
			main[n] = entry(id)
			n++
		}
	}
	for ; n < DisplaySlots; n++ {
		main[n] = ItemEntry{Empty: true}
	}
	return main, trinket
}

func (c *Calculator) runes(r *match.Runes) RuneSet {
	if r == nil || len(r.Selections) == 0 {
		return RuneSet{NotApplicable: true}
	}

	set := RuneSet{
		Primary:   RuneEntry{ID: r.PrimaryStyle, Name: c.catalog.TreeName(r.PrimaryStyle)},
		Secondary: RuneEntry{ID: r.SubStyle, Name: c.catalog.TreeName(r.SubStyle)},
		Selected:  make([]RuneEntry, 0, len(r.Selections)),
	}
	for _, id := range r.Selections {
		set.Selected = append(set.Selected, RuneEntry{ID: id, Name: c.catalog.RuneName(id), Icon: c.catalog.RuneIcon(id)})
	}
	set.Keystone = set.Selected[0]
	return set
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.RoundToEven(v*scale) / scale
}

func ptr[T any](v T) *T {
	return &v
}
