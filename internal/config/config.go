// Package config loads the streamer configuration from a YAML file,
// an optional .env file and STREAMER_* environment variables.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-streamer/internal/version"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvPredictionURL = "STREAMER_ML_URL"
	EnvDatabasePath  = "STREAMER_DB_PATH"
	EnvHTTPAddress   = "STREAMER_HTTP_ADDR"
	EnvLogLevel      = "STREAMER_LOG_LEVEL"
)

// Source kinds.
const (
	SourceSynthetic = "synthetic"
	SourceBinance   = "binance"
	SourceStdin     = "stdin"
)

type Config struct {
	// Version is the streamer release the file was written for. Empty skips the check.
	Version    string           `json:"version,omitempty" yaml:"version,omitempty" jsonschema:"description=Streamer version the file targets"`
	HTTP       HTTPConfig       `json:"http" yaml:"http" jsonschema:"description=HTTP API settings"`
	Storage    StorageConfig    `json:"storage" yaml:"storage" jsonschema:"description=Tick and alert store"`
	Source     SourceConfig     `json:"source" yaml:"source" jsonschema:"description=Where live ticks come from"`
	Indicator  IndicatorConfig  `json:"indicator" yaml:"indicator" jsonschema:"description=Moving average periods"`
	Alerts     AlertsConfig     `json:"alerts" yaml:"alerts" jsonschema:"description=Alert evaluation"`
	Prediction PredictionConfig `json:"prediction" yaml:"prediction" jsonschema:"description=Remote prediction service"`
	Dispatcher DispatcherConfig `json:"dispatcher" yaml:"dispatcher" jsonschema:"description=Async persistence and broadcast queue"`
	Backtest   BacktestConfig   `json:"backtest" yaml:"backtest" jsonschema:"description=Backtest and diagnostic endpoints"`
	Log        LogConfig        `json:"log" yaml:"log" jsonschema:"description=Logging"`
}

type HTTPConfig struct {
	Address string `json:"address" yaml:"address" jsonschema:"description=Listen address,default=:8080" validate:"required"`
}

type StorageConfig struct {
	// Path of the DuckDB database file. ":memory:" keeps everything in memory.
	Path string `json:"path" yaml:"path" jsonschema:"description=DuckDB database path,default=streamer.duckdb" validate:"required"`
}

type SourceConfig struct {
	Kind       string        `json:"kind" yaml:"kind" jsonschema:"description=Tick source,enum=synthetic,enum=binance,enum=stdin,default=synthetic" validate:"required,oneof=synthetic binance stdin"`
	Symbol     string        `json:"symbol" yaml:"symbol" jsonschema:"description=Synthetic instrument,default=BTC-USD" validate:"required"`
	StartPrice float64       `json:"start_price" yaml:"start_price" jsonschema:"description=Synthetic starting price,default=60000" validate:"gt=0"`
	Step       float64       `json:"step" yaml:"step" jsonschema:"description=Maximum synthetic move per tick,default=100" validate:"gte=0"`
	Interval   time.Duration `json:"interval" yaml:"interval" jsonschema:"description=Synthetic tick interval" validate:"gt=0"`
	Seed       int64         `json:"seed" yaml:"seed" jsonschema:"description=Random walk seed (0 uses the clock)"`
	// Binance maps exchange pairs (BTCUSDT) to published symbols (BTC-USD).
	Binance map[string]string `json:"binance" yaml:"binance" jsonschema:"description=Binance pair to symbol mapping"`
}

// BinancePairs returns the configured pair mapping, or BTCUSDT to Symbol
// when none is set.
func (s SourceConfig) BinancePairs() map[string]string {
	if len(s.Binance) > 0 {
		return s.Binance
	}

	return map[string]string{"BTCUSDT": s.Symbol}
}

type IndicatorConfig struct {
	ShortPeriod int `json:"short_period" yaml:"short_period" jsonschema:"default=10" validate:"gt=0"`
	LongPeriod  int `json:"long_period" yaml:"long_period" jsonschema:"default=30" validate:"gt=0,gtfield=ShortPeriod"`
}

type AlertsConfig struct {
	RefreshInterval time.Duration `json:"refresh_interval" yaml:"refresh_interval" jsonschema:"description=How often active alerts are reloaded" validate:"gt=0"`
}

type PredictionConfig struct {
	// URL of the prediction service. Empty disables predictions.
	URL      string        `json:"url" yaml:"url" jsonschema:"description=Prediction service base URL" validate:"omitempty,url"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout" jsonschema:"description=Per call timeout" validate:"gt=0"`
	MinTicks int           `json:"min_ticks" yaml:"min_ticks" jsonschema:"default=10" validate:"gt=0,ltefield=Buffer"`
	Buffer   int           `json:"buffer" yaml:"buffer" jsonschema:"description=Recent ticks kept per symbol,default=15" validate:"gt=0"`
	Symbols  []string      `json:"symbols" yaml:"symbols" jsonschema:"description=Symbols to predict, empty means all"`
}

type DispatcherConfig struct {
	Workers   int           `json:"workers" yaml:"workers" jsonschema:"default=4" validate:"gt=0"`
	QueueSize int           `json:"queue_size" yaml:"queue_size" jsonschema:"default=1024" validate:"gt=0"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout" jsonschema:"description=Per job timeout" validate:"gt=0"`
}

type BacktestConfig struct {
	// Symbol is the reference instrument of backtests and /test-signals.
	Symbol  string        `json:"symbol" yaml:"symbol" jsonschema:"default=BTC-USD" validate:"required"`
	Timeout time.Duration `json:"timeout" yaml:"timeout" jsonschema:"description=Backtest time limit" validate:"gt=0"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Version: "",
		HTTP:    HTTPConfig{Address: ":8080"},
		Storage: StorageConfig{Path: "streamer.duckdb"},
		Source: SourceConfig{
			Kind:       SourceSynthetic,
			Symbol:     "BTC-USD",
			StartPrice: 60000,
			Step:       100,
			Interval:   time.Second,
			Seed:       0,
			Binance:    nil,
		},
		Indicator: IndicatorConfig{ShortPeriod: 10, LongPeriod: 30},
		Alerts:    AlertsConfig{RefreshInterval: 5 * time.Second},
		Prediction: PredictionConfig{
			URL:      "",
			Timeout:  2 * time.Second,
			MinTicks: 10,
			Buffer:   15,
			Symbols:  nil,
		},
		Dispatcher: DispatcherConfig{Workers: 4, QueueSize: 1024, Timeout: 5 * time.Second},
		Backtest:   BacktestConfig{Symbol: "BTC-USD", Timeout: 30 * time.Second},
		Log:        LogConfig{Level: "info"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then environment overrides. envFiles are loaded into
// the environment first without replacing variables that are already set;
// with none given, a .env in the working directory is used if present.
func Load(path string, envFiles ...string) (Config, error) {
	if err := loadEnv(envFiles); err != nil {
		return Config{}, err
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
		}

		if err := version.CheckConfig(version.Version, cfg.Version); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadEnv(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}

		files = []string{".env"}
	}

	if err := godotenv.Load(files...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to load env file", err)
	}

	return nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvPredictionURL); ok {
		c.Prediction.URL = v
	}

	if v, ok := os.LookupEnv(EnvDatabasePath); ok && v != "" {
		c.Storage.Path = v
	}

	if v, ok := os.LookupEnv(EnvHTTPAddress); ok && v != "" {
		c.HTTP.Address = v
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid streamer config", err)
	}

	return nil
}

// Schema returns the JSON schema of the configuration file.
func Schema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(&Config{})

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
