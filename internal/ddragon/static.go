package ddragon

// Names used until (or when) Data Dragon cannot be reached. Stat shards are
// not part of runesReforged.json at all, so they always come from here.

var staticTrees = map[int]string{
	8000: "Precision",
	8100: "Domination",
	8200: "Sorcery",
	8300: "Inspiration",
	8400: "Resolve",
}

var staticRunes = map[int]string{
	// Precision
	8005: "Press the Attack",
	8008: "Lethal Tempo",
	8021: "Fleet Footwork",
	8010: "Conqueror",
	9101: "Absorb Life",
	9111: "Triumph",
	8009: "Presence of Mind",
	9104: "Legend: Alacrity",
	9105: "Legend: Haste",
	9103: "Legend: Bloodline",
	8014: "Coup de Grace",
	8017: "Cut Down",
	8299: "Last Stand",

	// Domination
	8112: "Electrocute",
	8124: "Predator",
	8128: "Dark Harvest",
	9923: "Hail of Blades",
	8126: "Cheap Shot",
	8139: "Taste of Blood",
	8143: "Sudden Impact",
	8136: "Zombie Ward",
	8120: "Ghost Poro",
	8138: "Eyeball Collection",
	8135: "Treasure Hunter",
	8134: "Ingenious Hunter",
	8105: "Relentless Hunter",
	8106: "Ultimate Hunter",

	// Sorcery
	8214: "Summon Aery",
	8229: "Arcane Comet",
	8230: "Phase Rush",
	8224: "Nullifying Orb",
	8226: "Manaflow Band",
	8275: "Nimbus Cloak",
	8210: "Transcendence",
	8234: "Celerity",
	8233: "Absolute Focus",
	8237: "Scorch",
	8232: "Waterwalking",
	8236: "Gathering Storm",

	// Resolve
	8437: "Grasp of the Undying",
	8439: "Aftershock",
	8465: "Guardian",
	8446: "Demolish",
	8463: "Font of Life",
	8401: "Shield Bash",
	8429: "Conditioning",
	8444: "Second Wind",
	8473: "Bone Plating",
	8451: "Overgrowth",
	8453: "Revitalize",
	8242: "Unflinching",

	// Inspiration
	8351: "Glacial Augment",
	8360: "Unsealed Spellbook",
	8369: "First Strike",
	8306: "Hextech Flashtraption",
	8304: "Magical Footwear",
	8313: "Triple Tonic",
	8321: "Cash Back",
	8316: "Minion Dematerializer",
	8345: "Biscuit Delivery",
	8347: "Cosmic Insight",
	8410: "Approach Velocity",
	8352: "Time Warp Tonic",
	8358: "Jack of All Trades",
}

var statShards = map[int]string{
	5001: "Health Scaling",
	5002: "Armor",
	5003: "Magic Resist",
	5005: "Attack Speed",
	5007: "Ability Haste",
	5008: "Adaptive Force",
	5010: "Move Speed",
	5011: "Health",
	5013: "Tenacity",
}

// spellInfo pairs a summoner spell's display name with its image key
type spellInfo struct {
	Name  string
	Image string
}

var staticSpells = map[int]spellInfo{
	1:    {"Cleanse", "SummonerBoost"},
	3:    {"Exhaust", "SummonerExhaust"},
	4:    {"Flash", "SummonerFlash"},
	6:    {"Ghost", "SummonerHaste"},
	7:    {"Heal", "SummonerHeal"},
	11:   {"Smite", "SummonerSmite"},
	12:   {"Teleport", "SummonerTeleport"},
	13:   {"Clarity", "SummonerMana"},
	14:   {"Ignite", "SummonerDot"},
	21:   {"Barrier", "SummonerBarrier"},
	32:   {"Mark", "SummonerSnowball"},
	2201: {"Flee", "SummonerCherryHold"},
	2202: {"Flash", "SummonerCherryFlash"},
}
