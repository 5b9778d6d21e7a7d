// Package signal classifies moving-average series into crossover signals.
package signal

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-streamer/internal/indicator"
	"github.com/rxtech-lab/argo-streamer/internal/types"
)

// Detect classifies every index of two aligned average series.
//
// Index 0 and any index where the current or previous value of either
// series is unavailable is HOLD. Equality counts as not yet crossed, so a
// move from equal to strictly above is a BUY and from equal to strictly
// below is a SELL. The output has the length of the shorter input.
func Detect(short, long []optional.Option[float64]) []types.Signal {
	n := min(len(short), len(long))
	signals := make([]types.Signal, n)

	for i := 0; i < n; i++ {
		signals[i] = classify(short, long, i)
	}

	return signals
}

func classify(short, long []optional.Option[float64], i int) types.Signal {
	if i == 0 {
		return types.SignalHold
	}

	if short[i].IsNone() || long[i].IsNone() || short[i-1].IsNone() || long[i-1].IsNone() {
		return types.SignalHold
	}

	s, l := short[i].Unwrap(), long[i].Unwrap()
	prevS, prevL := short[i-1].Unwrap(), long[i-1].Unwrap()

	switch {
	case s > l && prevS <= prevL:
		return types.SignalBuy
	case s < l && prevS >= prevL:
		return types.SignalSell
	default:
		return types.SignalHold
	}
}

// SMACrossover computes short and long SMAs over prices and detects
// crossovers. A series shorter than longPeriod yields an empty result.
func SMACrossover(prices []float64, shortPeriod, longPeriod int) []types.Signal {
	if len(prices) < longPeriod {
		return []types.Signal{}
	}

	return Detect(indicator.SMASeries(prices, shortPeriod), indicator.SMASeries(prices, longPeriod))
}
