package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"matchhistory/internal/history"
	"matchhistory/internal/playedwith"
)

// formatGame renders one history row
func formatGame(g history.DerivedGame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-18s %-12s", g.Outcome, g.Queue, g.Champion)
	if g.Role != "" {
		fmt.Fprintf(&b, " %-7s", g.Role)
	} else {
		b.WriteString("        ")
	}
	fmt.Fprintf(&b, " %-9s %s KDA", g.Score, g.KDAText)
	fmt.Fprintf(&b, "  KP %d%%", g.KillParticipation)
	fmt.Fprintf(&b, "  CS %d", g.CS)
	if g.CSPerMin != nil {
		fmt.Fprintf(&b, " (%.1f)", *g.CSPerMin)
	}
	fmt.Fprintf(&b, "  DMG %s", humanize.Comma(int64(g.Damage)))
	if g.DamageShare != nil {
		fmt.Fprintf(&b, " (%d%%)", *g.DamageShare)
	}
	fmt.Fprintf(&b, "  %s", g.Age)
	return b.String()
}

// formatItems renders the item row with the trinket apart
func formatItems(g history.DerivedGame) string {
	names := make([]string, 0, len(g.Items))
	for _, it := range g.Items {
		if it.Empty {
			names = append(names, "-")
			continue
		}
		names = append(names, it.Name)
	}
	trinket := "-"
	if !g.Trinket.Empty {
		trinket = g.Trinket.Name
	}
	return fmt.Sprintf("[%s] | %s", strings.Join(names, ", "), trinket)
}

// formatRunes renders keystone and secondary tree
func formatRunes(g history.DerivedGame) string {
	if g.Runes.NotApplicable {
		return "N/A"
	}
	return fmt.Sprintf("%s / %s", g.Runes.Keystone.Name, g.Runes.Secondary.Name)
}

// formatRelationship renders one played-with row
func formatRelationship(s playedwith.Summary, now time.Time) string {
	side := "enemy"
	if s.Ally {
		side = "ally"
	}
	last := "never"
	if !s.LastPlayed.IsZero() {
		last = humanize.RelTime(s.LastPlayed, now, "ago", "from now")
	}
	return fmt.Sprintf("%-24s %-5s %3d games  %d-%d  %5.1f%%  %s",
		s.Username, side, s.Games, s.Wins, s.Losses, s.WinRate, last)
}

func writeGames(w io.Writer, games []history.DerivedGame, verbose bool) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No games to show.")
		return
	}
	for _, g := range games {
		fmt.Fprintln(w, formatGame(g))
		if verbose {
			fmt.Fprintf(w, "       %s\n", formatItems(g))
			fmt.Fprintf(w, "       %s  %s + %s\n", formatRunes(g), g.Spells[0].Name, g.Spells[1].Name)
		}
	}
}

func writeRelationships(w io.Writer, rels []*playedwith.Relationship, now time.Time) {
	if len(rels) == 0 {
		fmt.Fprintln(w, "Nobody to show yet.")
		return
	}
	for _, rel := range rels {
		fmt.Fprintln(w, formatRelationship(rel.Summary(), now))
	}
}
