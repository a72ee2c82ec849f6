package riot

import (
	"errors"
	"time"

	"matchhistory/internal/match"
)

// queueNames maps queue ids to the raw queue identifiers used in match records
var queueNames = map[int]string{
	400:  "NORMAL_DRAFT",
	420:  "RANKED_SOLO_5x5",
	430:  "NORMAL_BLIND",
	440:  "RANKED_FLEX_SR",
	450:  "ARAM",
	480:  "SWIFTPLAY",
	490:  "QUICKPLAY",
	700:  "CLASH",
	720:  "ARAM_CLASH",
	900:  "URF",
	1020: "ONEFORALL",
	1300: "NEXUSBLITZ",
	1700: "CHERRY",
	1710: "CHERRY",
	1900: "URF",
}

// QueueName returns the raw identifier for a queue id. Unlisted queues fall
// back to the game mode (e.g. ULTBOOK); an empty result means unreadable.
func QueueName(queueID int, gameMode string) string {
	if name, ok := queueNames[queueID]; ok {
		return name
	}
	return gameMode
}

// ToRecord adapts a match-v5 response into a match record
func ToRecord(m *MatchResponse) (match.Record, error) {
	if m == nil {
		return match.Record{}, errors.New("nil match")
	}

	info := m.Info
	created := info.GameCreation
	if info.GameStartTimestamp > 0 {
		created = info.GameStartTimestamp
	}

	rec := match.Record{
		ID:           m.Metadata.MatchID,
		MapID:        info.MapID,
		Queue:        QueueName(info.QueueID, info.GameMode),
		CreatedAt:    time.UnixMilli(created).UTC(),
		Duration:     match.FormatDuration(time.Duration(info.GameDuration) * time.Second),
		Participants: make([]match.Participant, 0, len(info.Participants)),
	}

	for _, mp := range info.Participants {
		if mp.GameEndedInEarlySurrender {
			rec.Remake = true
		}
		rec.Participants = append(rec.Participants, toParticipant(mp))
	}
	return rec, nil
}

func toParticipant(mp MatchParticipant) match.Participant {
	name := mp.SummonerName
	if mp.RiotIdGameName != "" {
		name = mp.RiotIdGameName
		if mp.RiotIdTagline != "" {
			name += "#" + mp.RiotIdTagline
		}
	}

	team := mp.TeamID
	if mp.SubteamID > 0 {
		team = mp.SubteamID
	}

	return match.Participant{
		Name:     name,
		TeamID:   team,
		Champion: mp.ChampionName,
		Position: mp.TeamPosition,
		Lane:     mp.Lane,
		Role:     mp.Role,
		Spells:   [2]int{mp.Summoner1ID, mp.Summoner2ID},
		Items:    [match.ItemSlots]int{mp.Item0, mp.Item1, mp.Item2, mp.Item3, mp.Item4, mp.Item5, mp.Item6},
		Runes:    toRunes(mp.Perks),
		Stats: match.Stats{
			Kills:                mp.Kills,
			Deaths:               mp.Deaths,
			Assists:              mp.Assists,
			Damage:               mp.TotalDamageDealtToChampions,
			VisionScore:          mp.VisionScore,
			MinionsKilled:        mp.TotalMinionsKilled,
			NeutralMinionsKilled: mp.NeutralMinionsKilled,
			Win:                  mp.Win,
		},
	}
}

// toRunes flattens primary, secondary and stat shard picks in that order.
// Modes without a rune page return nil.
func toRunes(p *Perks) *match.Runes {
	if p == nil || len(p.Styles) == 0 {
		return nil
	}

	r := &match.Runes{}
	var primary, sub *PerkStyle
	for i := range p.Styles {
		switch p.Styles[i].Description {
		case "primaryStyle":
			primary = &p.Styles[i]
		case "subStyle":
			sub = &p.Styles[i]
		}
	}
	if primary == nil {
		primary = &p.Styles[0]
	}

	r.PrimaryStyle = primary.Style
	for _, s := range primary.Selections {
		r.Selections = append(r.Selections, s.Perk)
	}
	if sub != nil {
		r.SubStyle = sub.Style
		for _, s := range sub.Selections {
			r.Selections = append(r.Selections, s.Perk)
		}
	}
	for _, shard := range []int{p.StatPerks.Offense, p.StatPerks.Flex, p.StatPerks.Defense} {
		if shard != 0 {
			r.Selections = append(r.Selections, shard)
		}
	}

	if len(r.Selections) == 0 {
		return nil
	}
	return r
}
