package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"matchhistory/internal/collector"
	"matchhistory/internal/config"
	"matchhistory/internal/discord"
	"matchhistory/internal/lcu"
)

// Match-v5 lags the end-of-game screen by a little while
const defaultSettleDelay = 30 * time.Second

func newWatchCommand(getConfig func() *config.Config, flags *rootFlags) *cobra.Command {
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh automatically whenever a game ends",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()

			ctx, cancel := collector.SignalContext(cmd.Context(), func() {
				log.Println("[Watch] Shutting down...")
			})
			defer cancel()

			client, err := lcu.Connect(ctx, cfg.Lockfile)
			if err != nil {
				return err
			}

			s, err := openSession(ctx, cfg, flags.offline)
			if err != nil {
				return err
			}
			defer s.close()

			var webhook *discord.WebhookClient
			if cfg.DiscordWebhookURL != "" {
				webhook = discord.NewWebhookClient(cfg.DiscordWebhookURL)
			}

			out := cmd.OutOrStdout()
			refresh := func(notify bool) {
				games, err := s.refresh(ctx)
				if err != nil {
					log.Printf("[Watch] Refresh failed: %v", err)
					return
				}
				if len(games) == 0 {
					return
				}
				fmt.Fprintln(out, formatGame(games[0]))
				if notify && webhook != nil {
					if err := webhook.SendGameResult(ctx, s.user, games[0], s.aggregator().Allies()); err != nil {
						log.Printf("[Watch] Failed to post to Discord: %v", err)
					}
				}
			}

			refresh(false)
			watcher := lcu.NewWatcher(client.Credentials())
			return watcher.Run(ctx, func(end lcu.GameEnd) {
				log.Printf("[Watch] Game ended at %s, refreshing in %s", end.At.Format(time.Kitchen), settle)
				if !sleepCtx(ctx, settle) {
					return
				}
				refresh(true)
			})
		},
	}

	cmd.Flags().DurationVar(&settle, "settle", defaultSettleDelay, "wait after a game ends before fetching")
	return cmd
}

// sleepCtx waits for d or until ctx is done; it reports whether d elapsed
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
