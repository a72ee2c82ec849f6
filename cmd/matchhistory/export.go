package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"matchhistory/internal/collector"
	"matchhistory/internal/config"
	"matchhistory/internal/db"
	"matchhistory/internal/storage"
)

func newExportCommand(getConfig func() *config.Config, flags *rootFlags) *cobra.Command {
	var (
		outPath  string
		postgres bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write games and relationships to JSONL or Postgres",
		Long: `Export the processed games and the full played-with aggregate.

A path ending in .gz is gzip-compressed. With --postgres the same data is
upserted into the database named by DATABASE_URL.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			if outPath == "" && !postgres {
				return fmt.Errorf("nothing to do: pass --out and/or --postgres")
			}

			ctx, cancel := collector.SignalContext(cmd.Context(), nil)
			defer cancel()

			s, err := openSession(ctx, cfg, flags.offline)
			if err != nil {
				return err
			}
			defer s.close()

			games, err := s.refresh(ctx)
			if err != nil {
				return err
			}
			rels := s.aggregator().All()

			if outPath != "" {
				exp, err := storage.NewExporter(outPath, s.user)
				if err != nil {
					return err
				}
				if err := exp.WriteGames(games); err != nil {
					exp.Close()
					return err
				}
				if err := exp.WriteRelationships(rels); err != nil {
					exp.Close()
					return err
				}
				if err := exp.Close(); err != nil {
					return err
				}
				log.Printf("[Export] Wrote %d records to %s", exp.Lines(), outPath)
			}

			if postgres {
				database, err := db.New(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer database.Close()

				if err := database.CreateTables(ctx); err != nil {
					return err
				}
				if err := database.ExportGames(ctx, s.user, games); err != nil {
					return err
				}
				if err := database.ExportRelationships(ctx, s.user, rels); err != nil {
					return err
				}
				log.Printf("[Export] Exported %d games and %d relationships to Postgres", len(games), len(rels))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "JSONL output path (.gz to compress)")
	cmd.Flags().BoolVar(&postgres, "postgres", false, "also export to DATABASE_URL")
	return cmd
}
