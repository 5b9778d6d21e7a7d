// Package backtest replays historical ticks through the SMA crossover
// strategy and reports the resulting performance.
package backtest

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/signal"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// cancelCheckEvery is how many ticks are replayed between context checks.
const cancelCheckEvery = 1024

// Trade is one executed portfolio transition.
type Trade struct {
	Index      int
	Signal     types.Signal
	Price      decimal.Decimal
	Units      decimal.Decimal
	CashBefore decimal.Decimal
	CashAfter  decimal.Decimal
}

// Simulator runs deterministic single-strategy backtests.
type Simulator struct {
	logger *logger.Logger
}

func NewSimulator(log *logger.Logger) *Simulator {
	return &Simulator{logger: log}
}

// StrategyLabel names the strategy in a result.
func StrategyLabel(shortPeriod, longPeriod int) string {
	return fmt.Sprintf("SMA Crossover (%d, %d)", shortPeriod, longPeriod)
}

// Run simulates the SMA crossover strategy over ticks.
//
// The signal of index i-1 is executed at the price of tick i. A series
// shorter than longPeriod yields a neutral result. The only error is the
// cancellation of ctx.
func (s *Simulator) Run(
	ctx context.Context,
	ticks []types.Tick,
	shortPeriod, longPeriod int,
	initialBalance decimal.Decimal,
) (types.BacktestResult, error) {
	result, _, err := s.simulate(ctx, ticks, shortPeriod, longPeriod, initialBalance)

	return result, err
}

func (s *Simulator) simulate(
	ctx context.Context,
	ticks []types.Tick,
	shortPeriod, longPeriod int,
	initialBalance decimal.Decimal,
) (types.BacktestResult, []Trade, error) {
	initial := initialBalance
	label := StrategyLabel(shortPeriod, longPeriod)

	if len(ticks) < longPeriod || len(ticks) == 0 {
		return neutralResult(label, initial), []Trade{}, nil
	}

	signals := signal.SMACrossover(types.Prices(ticks), shortPeriod, longPeriod)
	account := newPortfolio(initial)
	trades := []Trade{}

	for i := max(longPeriod, 1); i < len(ticks); i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return types.BacktestResult{}, nil, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", err)
			}
		}

		price := decimal.NewFromFloat(ticks[i].Price)
		cashBefore := account.cash

		var executed bool

		switch signals[i-1] {
		case types.SignalBuy:
			executed = account.buy(price)
		case types.SignalSell:
			executed = account.sell(price)
		case types.SignalHold:
		}

		if executed {
			trades = append(trades, Trade{
				Index:      i,
				Signal:     signals[i-1],
				Price:      price,
				Units:      account.units,
				CashBefore: cashBefore,
				CashAfter:  account.cash,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return types.BacktestResult{}, nil, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", err)
	}

	last := decimal.NewFromFloat(ticks[len(ticks)-1].Price)
	change := account.value(last).Sub(initial)
	pnl := change.Round(2)

	result := types.BacktestResult{
		Strategy:         label,
		InitialBalance:   initial,
		FinalBalance:     initial.Add(pnl),
		ProfitOrLoss:     pnl,
		ProfitPercentage: percentage(change, initial),
		TotalTrades:      account.trades,
	}

	s.logger.Debug("Backtest finished",
		zap.String("strategy", label),
		zap.Int("ticks", len(ticks)),
		zap.Int("trades", account.trades),
		zap.String("profit_or_loss", pnl.String()),
	)

	return result, trades, nil
}

// percentage returns the unrounded balance change over initial, rounded
// half-up to 4 places, times 100.
func percentage(change, initial decimal.Decimal) float64 {
	if initial.IsZero() {
		return 0
	}

	return change.DivRound(initial, 4).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func neutralResult(label string, initial decimal.Decimal) types.BacktestResult {
	return types.BacktestResult{
		Strategy:         label,
		InitialBalance:   initial,
		FinalBalance:     initial,
		ProfitOrLoss:     decimal.Zero,
		ProfitPercentage: 0,
		TotalTrades:      0,
	}
}
