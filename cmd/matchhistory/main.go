// Package main provides the matchhistory CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"matchhistory/internal/config"
)

// rootFlags are persistent flags that override the environment
type rootFlags struct {
	user      string
	puuid     string
	limit     int
	threshold int
	snapshot  string
	cache     string
	offline   bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "matchhistory",
		Short: "Match history and played-with stats for League of Legends",
		Long: `matchhistory summarizes your recent League of Legends matches and keeps a
running record of everyone you have played with or against.

Commands:
  history     Show recent games with derived stats
  playedwith  Show win rates with and against other players
  watch       Refresh automatically whenever a game ends
  export      Write games and relationships to JSONL or Postgres`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			flags.apply(cmd, loaded)
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.user, "user", "u", "", "Riot ID of the acting player (Name#TAG)")
	pf.StringVar(&flags.puuid, "puuid", "", "PUUID of the acting player")
	pf.IntVarP(&flags.limit, "limit", "n", 0, "number of recent matches to process")
	pf.IntVar(&flags.threshold, "friend-threshold", 0, "shared games an ally needs beyond this to be listed")
	pf.StringVar(&flags.snapshot, "snapshot", "", "played-with snapshot path")
	pf.StringVar(&flags.cache, "cache", "", "match cache database path")
	pf.BoolVar(&flags.offline, "offline", false, "use cached matches only")

	getConfig := func() *config.Config { return cfg }
	rootCmd.AddCommand(
		newHistoryCommand(getConfig, flags),
		newPlayedWithCommand(getConfig, flags),
		newWatchCommand(getConfig, flags),
		newExportCommand(getConfig, flags),
	)
	return rootCmd
}

// apply copies explicitly set flags over cfg
func (f *rootFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("user") {
		cfg.User = f.user
	}
	if changed("puuid") {
		cfg.PUUID = f.puuid
	}
	if changed("limit") {
		cfg.Limit = f.limit
	}
	if changed("friend-threshold") {
		cfg.FriendThreshold = f.threshold
	}
	if changed("snapshot") {
		cfg.SnapshotPath = f.snapshot
	}
	if changed("cache") {
		cfg.CachePath = f.cache
	}
}
