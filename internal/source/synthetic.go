package source

import (
	"context"
	"iter"
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/types"
)

// Ticker delivers the instants at which synthetic ticks are produced.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

// NewTimeTicker returns a Ticker backed by time.Ticker.
func NewTimeTicker(interval time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(interval)}
}

func (t *timeTicker) C() <-chan time.Time {
	return t.t.C
}

func (t *timeTicker) Stop() {
	t.t.Stop()
}

// RandomWalk is the generator state of one synthetic symbol. Each step
// moves the last price by a uniform amount in [-step, step).
type RandomWalk struct {
	symbol string
	last   float64
	step   float64
	rng    *rand.Rand
}

func NewRandomWalk(symbol string, start, step float64, seed int64) *RandomWalk {
	return &RandomWalk{
		symbol: symbol,
		last:   start,
		step:   step,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Next advances the walk and returns a tick stamped at now. Prices are
// rounded to cents and never drop below one cent.
func (w *RandomWalk) Next(now time.Time) types.Tick {
	next := w.last + (w.rng.Float64()*2-1)*w.step
	next = math.Round(next*100) / 100

	if next < 0.01 {
		next = 0.01
	}

	w.last = next

	return types.Tick{
		ID:     "",
		Symbol: w.symbol,
		Price:  next,
		Time:   now.UTC(),
	}
}

func (w *RandomWalk) Symbol() string {
	return w.symbol
}

func (w *RandomWalk) Last() float64 {
	return w.last
}

// Synthetic emits one tick per walk on every ticker fire.
type Synthetic struct {
	ticker Ticker
	walks  []*RandomWalk
}

func NewSynthetic(ticker Ticker, walks ...*RandomWalk) *Synthetic {
	return &Synthetic{ticker: ticker, walks: walks}
}

func (s *Synthetic) Stream(ctx context.Context) iter.Seq2[types.Tick, error] {
	return func(yield func(types.Tick, error) bool) {
		defer s.ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now, ok := <-s.ticker.C():
				if !ok {
					return
				}

				for _, walk := range s.walks {
					if !yield(walk.Next(now), nil) {
						return
					}
				}
			}
		}
	}
}
