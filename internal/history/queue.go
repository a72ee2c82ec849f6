package history

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnreadableQueue marks a match whose queue type could not be read
var ErrUnreadableQueue = errors.New("unreadable queue type")

var queueLabels = map[string]string{
	"RANKED_SOLO_5x5": "Ranked Solo/Duo",
	"RANKED_FLEX_SR":  "Ranked Flex",
	"CLASH":           "Clash",
	"ARAM_CLASH":      "ARAM Clash",
	"NORMAL_BLIND":    "Normal Blind",
	"NORMAL_DRAFT":    "Normal Draft",
	"QUICKPLAY":       "Quickplay",
	"ARAM":            "ARAM",
	"CHERRY":          "Arena",
	"URF":             "URF",
	"ONEFORALL":       "One for All",
	"NEXUSBLITZ":      "Nexus Blitz",
	"BOT":             "Co-op vs. AI",
	"SWIFTPLAY":       "Swiftplay",
}

// queues without a meaningful team, so no damage share
var freeForAll = map[string]bool{
	"CHERRY": true,
}

// QueueLabel returns the display name of a raw queue identifier. Unknown
// identifiers are title-cased; an empty one is an error.
func QueueLabel(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrUnreadableQueue
	}
	if label, ok := queueLabels[raw]; ok {
		return label, nil
	}
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(raw), "_", " ")), nil
}

func isFreeForAll(raw string) bool {
	return freeForAll[raw]
}
