// Package role guesses which position a participant played from the
// lane/role hints, their items and their summoner spells.
package role

import (
	"strings"

	"matchhistory/internal/match"
)

// Label is a display-ready position name
type Label string

const (
	None    Label = ""
	Top     Label = "Top"
	Jungle  Label = "Jungle"
	Middle  Label = "Middle"
	Bottom  Label = "Bottom"
	Support Label = "Support"
)

// Summoner spell ids used as role signals
const (
	SpellHeal     = 7
	SpellSmite    = 11
	SpellTeleport = 12
)

// SupportItems are the support quest items and their upgrades
var SupportItems = map[int]bool{
	3850: true, // Spellthief's Edge
	3851: true, // Frostfang
	3853: true, // Shard of True Ice
	3854: true, // Steel Shoulderguards
	3855: true, // Runesteel Spaulders
	3857: true, // Pauldrons of Whiterock
	3858: true, // Relic Shield
	3859: true, // Targon's Buckler
	3860: true, // Bulwark of the Mountain
	3862: true, // Spectral Sickle
	3863: true, // Harrowing Crescent
	3864: true, // Black Mist Scythe
	3865: true, // World Atlas
	3866: true, // Runic Compass
	3867: true, // Bounty of Worlds
	3869: true, // Celestial Opposition
	3870: true, // Dream Maker
	3871: true, // Zaz'Zak's Realmspike
	3876: true, // Solstice Sleigh
	3877: true, // Bloodsong
}

// Infer classifies the position p played. Outside the primary map it always
// returns None. The API's explicit position wins when present; otherwise
// the lane/role hints are tried first and the item/spell signals after.
func Infer(p match.Participant, isRift bool) Label {
	if !isRift {
		return None
	}

	if label := FromPosition(p.Position); label != None {
		return label
	}

	lane := strings.ToLower(p.Lane)
	hint := strings.ToLower(p.Role)

	if label := fromHints(lane, hint); label != None {
		return label
	}

	switch {
	case p.HasItem(SupportItems):
		return Support
	case p.HasSpell(SpellSmite):
		return Jungle
	case p.HasSpell(SpellHeal):
		return Bottom
	case strings.Contains(lane, "mid"):
		return Middle
	case strings.Contains(lane, "top"), p.HasSpell(SpellTeleport):
		return Top
	}

	return None
}

// fromHints is the primary pass over the lowercased lane and role hints.
// Roles like "none" or an empty hint outside the jungle stay unassigned.
func fromHints(lane, hint string) Label {
	switch {
	case strings.Contains(hint, "solo"):
		if strings.Contains(lane, "mid") {
			return Middle
		}
		return Top
	case strings.Contains(lane, "jungle"):
		return Jungle
	case strings.Contains(hint, "support"):
		return Support
	case strings.Contains(hint, "duo"), strings.Contains(hint, "carry"):
		return Bottom
	}
	return None
}

// FromPosition maps the API position names onto labels.
// UTILITY is shown as Support.
func FromPosition(position string) Label {
	switch strings.ToUpper(strings.TrimSpace(position)) {
	case "TOP":
		return Top
	case "JUNGLE":
		return Jungle
	case "MIDDLE", "MID":
		return Middle
	case "BOTTOM", "BOT", "ADC":
		return Bottom
	case "UTILITY", "SUPPORT":
		return Support
	}
	return None
}
