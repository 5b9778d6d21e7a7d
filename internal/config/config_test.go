package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/version"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.T().Chdir(suite.dir)

	for _, key := range []string{EnvPredictionURL, EnvDatabasePath, EnvHTTPAddress, EnvLogLevel} {
		suite.T().Setenv(key, "")
		suite.Require().NoError(os.Unsetenv(key))
	}
}

func (suite *ConfigTestSuite) write(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	return path
}

func (suite *ConfigTestSuite) TestDefaultsAreValid() {
	cfg, err := Load("")
	suite.Require().NoError(err)

	suite.Equal(Default(), cfg)
	suite.Equal(10, cfg.Indicator.ShortPeriod)
	suite.Equal(30, cfg.Indicator.LongPeriod)
	suite.Equal(15, cfg.Prediction.Buffer)
	suite.Empty(cfg.Prediction.URL)
	suite.Equal(map[string]string{"BTCUSDT": "BTC-USD"}, cfg.Source.BinancePairs())
}

func (suite *ConfigTestSuite) TestLoadYAML() {
	path := suite.write("streamer.yaml", `
http:
  address: ":9090"
source:
  kind: binance
  binance:
    ETHUSDT: ETH-USD
alerts:
  refresh_interval: 30s
prediction:
  url: http://ml:5000
  timeout: 500ms
  symbols: [BTC-USD]
`)

	cfg, err := Load(path)
	suite.Require().NoError(err)

	suite.Equal(":9090", cfg.HTTP.Address)
	suite.Equal(SourceBinance, cfg.Source.Kind)
	suite.Equal(map[string]string{"ETHUSDT": "ETH-USD"}, cfg.Source.BinancePairs())
	suite.Equal(30*time.Second, cfg.Alerts.RefreshInterval)
	suite.Equal("http://ml:5000", cfg.Prediction.URL)
	suite.Equal(500*time.Millisecond, cfg.Prediction.Timeout)
	suite.Equal([]string{"BTC-USD"}, cfg.Prediction.Symbols)
	suite.Equal("BTC-USD", cfg.Source.Symbol)
}

func (suite *ConfigTestSuite) TestEnvironmentOverridesFile() {
	path := suite.write("streamer.yaml", "storage:\n  path: file.duckdb\n")
	suite.T().Setenv(EnvDatabasePath, "env.duckdb")
	suite.T().Setenv(EnvHTTPAddress, "127.0.0.1:7000")

	cfg, err := Load(path)
	suite.Require().NoError(err)

	suite.Equal("env.duckdb", cfg.Storage.Path)
	suite.Equal("127.0.0.1:7000", cfg.HTTP.Address)
}

func (suite *ConfigTestSuite) TestDotEnvFile() {
	suite.write(".env", EnvPredictionURL+"=http://localhost:5000\n"+EnvLogLevel+"=debug\n")
	defer func() {
		_ = os.Unsetenv(EnvPredictionURL)
		_ = os.Unsetenv(EnvLogLevel)
	}()

	cfg, err := Load("")
	suite.Require().NoError(err)

	suite.Equal("http://localhost:5000", cfg.Prediction.URL)
	suite.Equal("debug", cfg.Log.Level)
}

func (suite *ConfigTestSuite) TestMissingEnvFileFails() {
	_, err := Load("", filepath.Join(suite.dir, "missing.env"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestInvalidConfig() {
	tests := []struct {
		name    string
		content string
	}{
		{name: "long not above short", content: "indicator:\n  short_period: 30\n  long_period: 10\n"},
		{name: "unknown source", content: "source:\n  kind: kafka\n"},
		{name: "bad url", content: "prediction:\n  url: not a url\n"},
		{name: "min ticks above buffer", content: "prediction:\n  min_ticks: 20\n  buffer: 15\n"},
		{name: "bad level", content: "log:\n  level: verbose\n"},
		{name: "malformed yaml", content: "http: [\n"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := Load(suite.write("bad.yaml", tc.content))
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration), "%v", err)
		})
	}
}

func (suite *ConfigTestSuite) TestConfigVersionCheck() {
	original := version.Version
	version.Version = "1.2.0"
	defer func() { version.Version = original }()

	_, err := Load(suite.write("ok.yaml", "version: 1.1.0\n"))
	suite.NoError(err)

	_, err = Load(suite.write("new.yaml", "version: 1.5.0\n"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestMissingFile() {
	_, err := Load(filepath.Join(suite.dir, "nope.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestSchema() {
	schema, err := Schema()
	suite.Require().NoError(err)

	suite.Contains(schema, `"refresh_interval"`)
	suite.Contains(schema, `"synthetic"`)
	suite.Contains(schema, "Prediction service base URL")
}
