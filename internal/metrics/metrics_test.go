package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
	metrics *Metrics
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) SetupTest() {
	suite.metrics = New()
}

func (suite *MetricsTestSuite) TestCounters() {
	suite.metrics.TickProcessed("BTC-USD")
	suite.metrics.TickProcessed("BTC-USD")
	suite.metrics.AlertTriggered("BTC-USD")
	suite.metrics.PredictionObserved(false, 0.2)
	suite.metrics.Dropped("persist_tick")
	suite.metrics.BacktestObserved(0.01)

	suite.Equal(2.0, testutil.ToFloat64(suite.metrics.TicksTotal.WithLabelValues("BTC-USD")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.AlertsTriggered.WithLabelValues("BTC-USD")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.Predictions.WithLabelValues(OutcomeError)))
	suite.Equal(0.0, testutil.ToFloat64(suite.metrics.Predictions.WithLabelValues(OutcomeOK)))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.DispatchDropped.WithLabelValues("persist_tick")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.BacktestRuns))
}

func (suite *MetricsTestSuite) TestNilMetricsIsNoop() {
	var m *Metrics

	suite.NotPanics(func() {
		m.TickProcessed("X")
		m.AlertTriggered("X")
		m.PredictionObserved(true, 1)
		m.Dropped("broadcast")
		m.BacktestObserved(1)
	})
}

func (suite *MetricsTestSuite) TestHandlerExposesMetrics() {
	suite.metrics.TickProcessed("ETH-USD")

	rec := httptest.NewRecorder()
	suite.metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	suite.Require().NoError(err)
	suite.Contains(string(body), `streamer_ticks_total{symbol="ETH-USD"} 1`)
}
