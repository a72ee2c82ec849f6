package main

import (
	"github.com/spf13/cobra"

	"matchhistory/internal/collector"
	"matchhistory/internal/config"
)

func newHistoryCommand(getConfig func() *config.Config, flags *rootFlags) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent games with derived stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := collector.SignalContext(cmd.Context(), nil)
			defer cancel()

			s, err := openSession(ctx, getConfig(), flags.offline)
			if err != nil {
				return err
			}
			defer s.close()

			games, err := s.refresh(ctx)
			if err != nil {
				return err
			}
			writeGames(cmd.OutOrStdout(), games, verbose)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show items, runes and spells")
	return cmd
}
