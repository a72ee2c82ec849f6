package history

import (
	"time"

	"matchhistory/internal/role"
)

// Outcome is the acting user's result as shown in the history list
type Outcome string

const (
	Win    Outcome = "Win"
	Loss   Outcome = "Loss"
	Remake Outcome = "Remake"
)

// Background color tags per outcome (RGBA hex)
const (
	ColorRemake = "#8080801A"
	ColorLoss   = "#9E3B3B80"
	ColorWin    = "#3B9E5A80"
)

// Color returns the background tag for an outcome
func (o Outcome) Color() string {
	switch o {
	case Win:
		return ColorWin
	case Loss:
		return ColorLoss
	default:
		return ColorRemake
	}
}

// DisplaySlots is the number of main item slots; the trinket is shown apart
const DisplaySlots = 6

// TeamTotals are summed over every participant on the acting player's side
type TeamTotals struct {
	Kills  int
	Damage int
}

// ItemEntry is one item slot. Empty slots are filler entries.
type ItemEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Empty bool   `json:"empty,omitempty"`
}

// RuneEntry is a single named rune or tree
type RuneEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// RuneSet is the display form of a rune page. NotApplicable is set for
// modes that carry no rune data.
type RuneSet struct {
	NotApplicable bool        `json:"notApplicable,omitempty"`
	Keystone      RuneEntry   `json:"keystone"`
	Primary       RuneEntry   `json:"primary"`
	Secondary     RuneEntry   `json:"secondary"`
	Selected      []RuneEntry `json:"selected,omitempty"`
}

// SpellEntry is one summoner spell
type SpellEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// DerivedGame is the display-ready summary of one match from the acting
// user's perspective. Pointer fields are nil when the value is unavailable.
type DerivedGame struct {
	MatchID      string     `json:"matchId"`
	MapID        int        `json:"mapId"`
	Queue        string     `json:"queue"`
	CreatedAt    time.Time  `json:"createdAt"`
	Outcome      Outcome    `json:"outcome"`
	Color        string     `json:"color"`
	Champion     string     `json:"champion"`
	ChampionIcon string     `json:"championIcon,omitempty"`
	Role         role.Label `json:"role,omitempty"`

	Duration string  `json:"duration"`
	Minutes  float64 `json:"minutes"`
	Age      string  `json:"age"`

	Kills   int     `json:"kills"`
	Deaths  int     `json:"deaths"`
	Assists int     `json:"assists"`
	Score   string  `json:"score"`
	KDA     float64 `json:"kda"`
	KDAText string  `json:"kdaText"`

	KillParticipation int `json:"killParticipation"`

	CS       int      `json:"cs"`
	CSPerMin *float64 `json:"csPerMin,omitempty"`

	Damage       int      `json:"damage"`
	DamagePerMin *float64 `json:"damagePerMin,omitempty"`
	DamageShare  *int     `json:"damageShare,omitempty"`

	Vision       int      `json:"vision"`
	VisionPerMin *float64 `json:"visionPerMin,omitempty"`

	Items   [DisplaySlots]ItemEntry `json:"items"`
	Trinket ItemEntry               `json:"trinket"`
	Runes   RuneSet                 `json:"runes"`
	Spells  [2]SpellEntry           `json:"spells"`
}

// Catalog resolves ids to display names and icons
type Catalog interface {
	ItemName(id int) string
	ItemIcon(id int) string
	RuneName(id int) string
	RuneIcon(id int) string
	TreeName(id int) string
	SpellName(id int) string
	SpellIcon(id int) string
	ChampionIcon(name string) string
}
