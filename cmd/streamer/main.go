package main

import (
	"context"
	"log"
	"os"

	"github.com/rxtech-lab/argo-streamer/internal/config"
	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "streamer",
		Usage:   "Stream prices, evaluate alerts and backtest the SMA crossover strategy",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Sources: cli.EnvVars("STREAMER_CONFIG"),
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Env files to load before reading the config (default .env if present)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			backtestCommand(),
			seedCommand(),
			produceCommand(),
			configSchemaCommand(),
		},
	}
}

// loadConfig reads the config named by the root flags.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"), cmd.StringSlice("env-file")...)
	if err != nil {
		return config.Config{}, err
	}

	if level := cmd.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	return logger.NewLoggerWithLevel(cfg.Log.Level)
}
