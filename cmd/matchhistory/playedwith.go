package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"matchhistory/internal/collector"
	"matchhistory/internal/config"
	"matchhistory/internal/playedwith"
)

// Relationship views accepted by --filter
const (
	filterAll      = "all"
	filterOutcomes = "outcomes"
	filterAllies   = "allies"
	filterEnemies  = "enemies"
)

// selectRelationships returns the view named by filter
func selectRelationships(agg *playedwith.Aggregator, filter string) ([]*playedwith.Relationship, error) {
	switch filter {
	case filterAll, "":
		return agg.All(), nil
	case filterOutcomes:
		return agg.Outcomes(), nil
	case filterAllies:
		return agg.Allies(), nil
	case filterEnemies:
		return agg.Enemies(), nil
	default:
		return nil, fmt.Errorf("unknown filter %q (want all, outcomes, allies or enemies)", filter)
	}
}

func newPlayedWithCommand(getConfig func() *config.Config, flags *rootFlags) *cobra.Command {
	var (
		filter  string
		noFetch bool
	)

	cmd := &cobra.Command{
		Use:   "playedwith",
		Short: "Show win rates with and against other players",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// validate before any network work
			if _, err := selectRelationships(playedwith.NewAggregator(), filter); err != nil {
				return err
			}

			ctx, cancel := collector.SignalContext(cmd.Context(), nil)
			defer cancel()

			s, err := openSession(ctx, getConfig(), flags.offline)
			if err != nil {
				return err
			}
			defer s.close()

			if !noFetch {
				if _, err := s.refresh(ctx); err != nil {
					return err
				}
			}

			rels, _ := selectRelationships(s.aggregator(), filter)
			writeRelationships(cmd.OutOrStdout(), rels, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", filterAll, "all, outcomes, allies or enemies")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "show the saved aggregate without processing new matches")
	return cmd
}
