package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/source"
	"github.com/urfave/cli/v3"
)

func produceCommand() *cli.Command {
	return &cli.Command{
		Name:  "produce",
		Usage: "Write synthetic tick messages to stdout as JSON lines",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "symbol",
				Usage: "Instrument to generate (defaults to the configured synthetic symbol)",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Spacing between ticks (defaults to the configured interval)",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Stop after this many ticks, 0 runs until interrupted",
			},
		},
		Action: produceAction,
	}
}

func produceAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	symbol := cmd.String("symbol")
	if symbol == "" {
		symbol = cfg.Source.Symbol
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = cfg.Source.Interval
	}

	seed := cfg.Source.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	walk := source.NewRandomWalk(symbol, cfg.Source.StartPrice, cfg.Source.Step, seed)
	src := source.NewSynthetic(source.NewTimeTicker(interval), walk)

	return produce(ctx, src, os.Stdout, int(cmd.Int("count")))
}

// produce writes up to limit ticks of src to w. A limit of 0 means no limit.
func produce(ctx context.Context, src source.Source, w io.Writer, limit int) error {
	encoder := json.NewEncoder(w)
	written := 0

	for tick, err := range src.Stream(ctx) {
		if err != nil {
			return err
		}

		if err := encoder.Encode(tick.Message()); err != nil {
			return fmt.Errorf("failed to write tick: %w", err)
		}

		written++
		if limit > 0 && written >= limit {
			return nil
		}
	}

	return nil
}
