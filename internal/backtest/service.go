package backtest

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/metrics"
	"github.com/rxtech-lab/argo-streamer/internal/persistence"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Query parameters of an SMA crossover backtest.
type Query struct {
	Range          string          `json:"range" yaml:"range"`
	ShortPeriod    int             `json:"shortPeriod" yaml:"short_period"`
	LongPeriod     int             `json:"longPeriod" yaml:"long_period"`
	InitialBalance decimal.Decimal `json:"initialBalance" yaml:"initial_balance"`
}

// DefaultQuery returns the parameters used when a request omits them.
func DefaultQuery() Query {
	return Query{
		Range:          string(types.Range24h),
		ShortPeriod:    10,
		LongPeriod:     30,
		InitialBalance: decimal.NewFromInt(10000),
	}
}

// Validate rejects non-positive periods and balances.
func (q Query) Validate() error {
	if q.ShortPeriod <= 0 || q.LongPeriod <= 0 {
		return errors.Newf(errors.ErrCodeBacktestConfigError,
			"periods must be positive, got short=%d long=%d", q.ShortPeriod, q.LongPeriod)
	}

	if !q.InitialBalance.IsPositive() {
		return errors.New(errors.ErrCodeBacktestConfigError, "initial balance must be positive")
	}

	return nil
}

// Service runs backtests over the stored history of the reference instrument.
type Service struct {
	store     persistence.TickStore
	simulator *Simulator
	symbol    string
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    *logger.Logger
	clock     func() time.Time
}

func NewService(
	store persistence.TickStore,
	symbol string,
	timeout time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		store:     store,
		simulator: NewSimulator(log),
		symbol:    symbol,
		timeout:   timeout,
		metrics:   m,
		logger:    log,
		clock:     time.Now,
	}
}

// Symbol returns the reference instrument.
func (s *Service) Symbol() string {
	return s.symbol
}

// RunSMACrossover loads the history for the query range and simulates the
// strategy over it, bounded by the configured timeout.
func (s *Service) RunSMACrossover(ctx context.Context, q Query) (types.BacktestResult, error) {
	if err := q.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start, end := types.ResolveRange(q.Range, s.clock())

	ticks, err := s.store.TicksBetween(ctx, s.symbol, start, end)
	if err != nil {
		return types.BacktestResult{}, errors.Wrap(errors.ErrCodeBacktestHistory, "failed to load backtest history", err)
	}

	began := time.Now()

	result, err := s.simulator.Run(ctx, ticks, q.ShortPeriod, q.LongPeriod, q.InitialBalance)
	if err != nil {
		return types.BacktestResult{}, err
	}

	s.metrics.BacktestObserved(time.Since(began).Seconds())

	s.logger.Info("Backtest completed",
		zap.String("symbol", s.symbol),
		zap.String("range", string(types.ParseHistoryRange(q.Range))),
		zap.Int("ticks", len(ticks)),
		zap.Int("trades", result.TotalTrades),
		zap.String("final_balance", result.FinalBalance.String()),
	)

	return result, nil
}
