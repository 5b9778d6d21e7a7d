package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rxtech-lab/argo-streamer/internal/backtest"
	"github.com/rxtech-lab/argo-streamer/internal/storage"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func backtestCommand() *cli.Command {
	defaults := backtest.DefaultQuery()

	return &cli.Command{
		Name:  "backtest",
		Usage: "Run the SMA crossover backtest over stored or exported ticks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "range",
				Usage: "History window (1h, 24h, 7d)",
				Value: defaults.Range,
			},
			&cli.IntFlag{
				Name:  "short",
				Usage: "Short SMA period",
				Value: int64(defaults.ShortPeriod),
			},
			&cli.IntFlag{
				Name:  "long",
				Usage: "Long SMA period",
				Value: int64(defaults.LongPeriod),
			},
			&cli.StringFlag{
				Name:  "initial-balance",
				Usage: "Starting cash",
				Value: defaults.InitialBalance.String(),
			},
			&cli.StringFlag{
				Name:  "parquet",
				Usage: "Read ticks from a parquet export instead of the database (range is ignored)",
			},
			&cli.StringFlag{
				Name:  "symbol",
				Usage: "Instrument to backtest (defaults to the configured reference symbol)",
			},
		},
		Action: backtestAction,
	}
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	balance, err := decimal.NewFromString(cmd.String("initial-balance"))
	if err != nil {
		return fmt.Errorf("invalid initial balance %q: %w", cmd.String("initial-balance"), err)
	}

	query := backtest.Query{
		Range:          cmd.String("range"),
		ShortPeriod:    int(cmd.Int("short")),
		LongPeriod:     int(cmd.Int("long")),
		InitialBalance: balance,
	}

	if err := query.Validate(); err != nil {
		return err
	}

	symbol := cmd.String("symbol")
	if symbol == "" {
		symbol = cfg.Backtest.Symbol
	}

	var result types.BacktestResult

	if path := cmd.String("parquet"); path != "" {
		store, err := storage.NewDuckDBStore(storage.MemoryPath, log)
		if err != nil {
			return err
		}
		defer store.Close()

		ticks, err := store.ReadParquetTicks(ctx, path, symbol)
		if err != nil {
			return err
		}

		log.Info("Loaded ticks from parquet", zap.String("path", path), zap.Int("ticks", len(ticks)))

		ctx, cancel := context.WithTimeout(ctx, cfg.Backtest.Timeout)
		defer cancel()

		result, err = backtest.NewSimulator(log).Run(ctx, ticks, query.ShortPeriod, query.LongPeriod, query.InitialBalance)
		if err != nil {
			return err
		}
	} else {
		store, err := storage.NewDuckDBStore(cfg.Storage.Path, log)
		if err != nil {
			return err
		}
		defer store.Close()

		service := backtest.NewService(store, symbol, cfg.Backtest.Timeout, nil, log)

		result, err = service.RunSMACrossover(ctx, query)
		if err != nil {
			return err
		}
	}

	out, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = os.Stdout.Write(out)

	return err
}
