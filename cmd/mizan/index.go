package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"mizan/internal/embedding"
	"mizan/internal/vector"
)

var flagIndexWorkers int

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed every hadith into the qdrant collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		workers := a.cfg.Vector.Workers
		if flagIndexWorkers > 0 {
			workers = flagIndexWorkers
		}

		db, err := vector.Connect(a.cfg.Vector.Addr, a.cfg.Vector.Collection)
		if err != nil {
			return fmt.Errorf("connecting to qdrant: %w", err)
		}
		defer db.Close()

		indexer := vector.NewIndexer(a.store, embedding.NewClient(a.cfg.Embedding.URL, a.cfg.Embedding.Model), db, workers, a.logger)
		start := time.Now()
		n, err := indexer.Run(cmd.Context())
		a.logger.Info("Indexing finished", zap.Int("hadiths", n), zap.Duration("took", time.Since(start)))
		if err != nil {
			return err
		}

		points, err := db.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d hadiths; collection %q holds %d points\n", n, a.cfg.Vector.Collection, points)
		return nil
	},
}

func init() {
	indexCmd.Flags().IntVar(&flagIndexWorkers, "workers", 0, "embedding workers (default vector.workers)")
	rootCmd.AddCommand(indexCmd)
}
