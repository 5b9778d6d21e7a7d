package types

// Signal is the classification of one step of an SMA crossover series.
type Signal string

const (
	// SignalBuy means the short average crossed strictly above the long average.
	SignalBuy Signal = "BUY"
	// SignalSell means the short average crossed strictly below the long average.
	SignalSell Signal = "SELL"
	// SignalHold means no crossover happened at this step.
	SignalHold Signal = "HOLD"
)
