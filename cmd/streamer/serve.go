package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/alert"
	"github.com/rxtech-lab/argo-streamer/internal/api"
	"github.com/rxtech-lab/argo-streamer/internal/backtest"
	"github.com/rxtech-lab/argo-streamer/internal/broadcast"
	"github.com/rxtech-lab/argo-streamer/internal/cache"
	"github.com/rxtech-lab/argo-streamer/internal/config"
	"github.com/rxtech-lab/argo-streamer/internal/indicator"
	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/metrics"
	"github.com/rxtech-lab/argo-streamer/internal/pipeline"
	"github.com/rxtech-lab/argo-streamer/internal/prediction"
	"github.com/rxtech-lab/argo-streamer/internal/source"
	"github.com/rxtech-lab/argo-streamer/internal/storage"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Ingest live ticks and serve the API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: fmt.Sprintf("Override the tick source (%s, %s, %s)", config.SourceSynthetic, config.SourceBinance, config.SourceStdin),
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if kind := cmd.String("source"); kind != "" {
		cfg.Source.Kind = kind
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewDuckDBStore(cfg.Storage.Path, log)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New()
	hub := broadcast.NewHub(log)
	defer hub.Close()

	aggregator, err := indicator.NewAggregator(cfg.Indicator.ShortPeriod, cfg.Indicator.LongPeriod)
	if err != nil {
		return err
	}

	evaluator := alert.NewEvaluator(store, cfg.Alerts.RefreshInterval, log)
	dispatcher := pipeline.NewDispatcher(cfg.Dispatcher.Workers, cfg.Dispatcher.QueueSize, cfg.Dispatcher.Timeout, m, log)

	deps := pipeline.Dependencies{
		Aggregator:  aggregator,
		Evaluator:   evaluator,
		Recent:      cache.NewRecentTicks(cfg.Prediction.Buffer),
		Dispatcher:  dispatcher,
		TickStore:   store,
		AlertStore:  store,
		Broadcaster: hub,
		Predictor:   nil,
		Metrics:     m,
		Logger:      log.Named("pipeline"),
	}

	if cfg.Prediction.URL != "" {
		deps.Predictor = prediction.NewClient(cfg.Prediction.URL, cfg.Prediction.Timeout, log)
	} else {
		log.Info("Prediction service not configured, predictions disabled")
	}

	processor := pipeline.New(deps, pipeline.Options{
		MinPredictionTicks: cfg.Prediction.MinTicks,
		PredictionTimeout:  cfg.Prediction.Timeout,
		PredictionSymbols:  cfg.Prediction.Symbols,
	})

	server := api.NewServer(api.Dependencies{
		Alerts:    alert.NewService(store, evaluator, log),
		Backtests: backtest.NewService(store, cfg.Backtest.Symbol, cfg.Backtest.Timeout, m, log),
		Ticks:     store,
		Live:      hub,
		Metrics:   m,
		Logger:    log.Named("api"),
	})

	if err := server.Start(cfg.HTTP.Address); err != nil {
		return err
	}

	src, err := newSource(cfg, log)
	if err != nil {
		return err
	}

	log.Info("Streaming ticks",
		zap.String("source", cfg.Source.Kind),
		zap.Int("short_period", cfg.Indicator.ShortPeriod),
		zap.Int("long_period", cfg.Indicator.LongPeriod),
	)

	runErr := pipeline.NewRouter(processor, pipeline.DefaultWorkerBuffer, log.Named("router")).Run(ctx, src)

	dispatcher.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown failed", zap.Error(err))
	}

	return runErr
}

func newSource(cfg config.Config, log *logger.Logger) (source.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceSynthetic:
		seed := cfg.Source.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		walk := source.NewRandomWalk(cfg.Source.Symbol, cfg.Source.StartPrice, cfg.Source.Step, seed)

		return source.NewSynthetic(source.NewTimeTicker(cfg.Source.Interval), walk), nil
	case config.SourceBinance:
		return source.NewBinance(cfg.Source.BinancePairs(), log.Named("binance")), nil
	case config.SourceStdin:
		return source.NewJSONLines(os.Stdin), nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source.Kind)
	}
}
