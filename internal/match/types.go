package match

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SummonersRift is the map id of the primary 5v5 map. Roles only mean
// something there.
const SummonersRift = 11

// ItemSlots is the fixed inventory size reported per participant
// (six item slots plus the trinket slot).
const ItemSlots = 7

// Record is one already-fetched match as supplied by the data-fetch layer
type Record struct {
	ID           string
	MapID        int
	Queue        string // raw queue identifier, e.g. RANKED_SOLO_5x5; empty if unreadable
	Remake       bool
	CreatedAt    time.Time
	Duration     string // HH:MM:SS or MM:SS
	Participants []Participant
}

// Participant is a single player's view of a match
type Participant struct {
	Name     string // Riot id, "GameName#TagLine"
	TeamID   int
	Champion string

	// Position is the API's explicit position (TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY).
	// Lane and Role are the older, looser hints (e.g. MIDDLE / SOLO).
	Position string
	Lane     string
	Role     string

	Spells [2]int
	Items  [ItemSlots]int // 0 = empty slot
	Runes  *Runes         // nil when the mode carries no rune data
	Stats  Stats
}

// Stats holds the per-match counters for one participant
type Stats struct {
	Kills                int
	Deaths               int
	Assists              int
	Damage               int // damage dealt to champions
	VisionScore          int
	MinionsKilled        int
	NeutralMinionsKilled int
	Win                  bool
}

// Runes is a participant's rune page
type Runes struct {
	PrimaryStyle int
	SubStyle     int
	Selections   []int // ordered; the first is the keystone
}

// GameName returns the name part of a Riot id (everything before '#')
func (p *Participant) GameName() string {
	if i := strings.IndexByte(p.Name, '#'); i >= 0 {
		return p.Name[:i]
	}
	return p.Name
}

// HasItem reports whether any inventory slot holds one of the given items
func (p *Participant) HasItem(set map[int]bool) bool {
	for _, id := range p.Items {
		if id != 0 && set[id] {
			return true
		}
	}
	return false
}

// HasSpell reports whether the participant took the given summoner spell
func (p *Participant) HasSpell(id int) bool {
	return p.Spells[0] == id || p.Spells[1] == id
}

// ParseDuration converts "HH:MM:SS" (or "MM:SS") into minutes,
// H*60 + M + S/60, rounded to two decimals.
func ParseDuration(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q: expected HH:MM:SS", s)
	}

	nums := make([]int, 0, 3)
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q: bad component %q", s, part)
		}
		nums = append(nums, n)
	}
	if len(nums) == 2 {
		nums = append([]int{0}, nums...)
	}

	minutes := float64(nums[0]*60+nums[1]) + float64(nums[2])/60
	return math.RoundToEven(minutes*100) / 100, nil
}

// FormatDuration renders a length of time as HH:MM:SS
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
