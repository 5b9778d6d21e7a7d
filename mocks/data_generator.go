package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/types"
)

// TickGenerator generates realistic tick series for testing and benchmarking.
type TickGenerator struct {
	rng *rand.Rand
}

// NewTickGenerator creates a new TickGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewTickGenerator(seed int64) *TickGenerator {
	return &TickGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how ticks are generated.
type GeneratorConfig struct {
	// Symbol is the instrument symbol (e.g., "BTC-USD")
	Symbol string
	// StartTime is the timestamp of the first tick
	StartTime time.Time
	// Interval is the duration between ticks
	Interval time.Duration
	// Count is the number of ticks to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement per tick (0.01 = 1%)
	Volatility float64
	// Trend is the total drift over the series (-0.1 to 0.1 for bearish to bullish)
	Trend float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "BTC-USD",
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:     time.Second,
		Count:        10000,
		InitialPrice: 60000.0,
		Volatility:   0.002,
		Trend:        0.0,
	}
}

// Generate creates a tick series following a geometric Brownian motion.
func (g *TickGenerator) Generate(config GeneratorConfig) []types.Tick {
	ticks := make([]types.Tick, config.Count)
	price := config.InitialPrice
	current := config.StartTime

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for a standard normal sample
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		next := price * (1 + config.Volatility*z + drift)
		if next <= 0 {
			next = price * 0.99
		}

		ticks[i] = types.Tick{
			ID:     "",
			Symbol: config.Symbol,
			Price:  roundToDecimals(next, 2),
			Time:   current,
		}

		price = next
		current = current.Add(config.Interval)
	}

	return ticks
}

// TicksFromPrices builds a one-second spaced series from literal prices.
func TicksFromPrices(symbol string, prices ...float64) []types.Tick {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := make([]types.Tick, len(prices))

	for i, p := range prices {
		ticks[i] = types.Tick{
			ID:     "",
			Symbol: symbol,
			Price:  p,
			Time:   start.Add(time.Duration(i) * time.Second),
		}
	}

	return ticks
}

// Generate10K is a convenience function to generate 10,000 ticks
// with default settings for benchmarking.
func Generate10K(symbol string) []types.Tick {
	gen := NewTickGenerator(42)
	config := DefaultConfig()
	config.Symbol = symbol

	return gen.Generate(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
