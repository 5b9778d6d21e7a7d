package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/source"
	"github.com/rxtech-lab/argo-streamer/internal/storage"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const seedBatchSize = 1000

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Fill the database with a synthetic random walk history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "symbol",
				Usage: "Instrument to generate (defaults to the configured synthetic symbol)",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of ticks",
				Value: 24 * 60 * 60,
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Spacing between ticks",
				Value: time.Second,
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Random walk seed",
				Value: 42,
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Also export the tick table to this parquet file",
			},
		},
		Action: seedAction,
	}
}

// seedTicks generates count ticks ending at end, oldest first.
func seedTicks(walk *source.RandomWalk, count int, interval time.Duration, end time.Time) []types.Tick {
	ticks := make([]types.Tick, count)
	start := end.Add(-time.Duration(count-1) * interval)

	for i := range ticks {
		ticks[i] = walk.Next(start.Add(time.Duration(i) * interval))
	}

	return ticks
}

func seedAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	symbol := cmd.String("symbol")
	if symbol == "" {
		symbol = cfg.Source.Symbol
	}

	count := int(cmd.Int("count"))
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	store, err := storage.NewDuckDBStore(cfg.Storage.Path, log)
	if err != nil {
		return err
	}
	defer store.Close()

	walk := source.NewRandomWalk(symbol, cfg.Source.StartPrice, cfg.Source.Step, cmd.Int("seed"))
	ticks := seedTicks(walk, count, cmd.Duration("interval"), time.Now())

	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(fmt.Sprintf("Seeding %s", symbol)),
		progressbar.OptionShowCount(),
	)

	for start := 0; start < len(ticks); start += seedBatchSize {
		end := min(start+seedBatchSize, len(ticks))

		if err := store.SaveTicks(ctx, ticks[start:end]); err != nil {
			return err
		}

		_ = bar.Add(end - start)
	}

	_ = bar.Finish()

	log.Info("Seeded ticks",
		zap.String("symbol", symbol),
		zap.Int("count", count),
		zap.String("path", store.Path()),
	)

	if path := cmd.String("export"); path != "" {
		if err := store.ExportTicks(ctx, path); err != nil {
			return err
		}

		log.Info("Exported ticks", zap.String("path", path))
	}

	return nil
}
