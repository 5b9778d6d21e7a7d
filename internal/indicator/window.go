package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"github.com/shopspring/decimal"
)

// Window is a fixed-capacity, oldest-evicted price buffer with a running sum.
// The sum is kept in decimal so that incremental averages are identical to
// averages recomputed from the raw prices.
//
// A Window is not safe for concurrent use; SymbolWindows guards it.
type Window struct {
	period int
	prices []decimal.Decimal
	head   int
	size   int
	sum    decimal.Decimal
}

// NewWindow creates a window holding the most recent period prices.
func NewWindow(period int) (*Window, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return &Window{
		period: period,
		prices: make([]decimal.Decimal, period),
		head:   0,
		size:   0,
		sum:    decimal.Zero,
	}, nil
}

// Push appends a price, evicting the oldest one once the window is full.
func (w *Window) Push(price float64) {
	value := decimal.NewFromFloat(price)

	if w.size == w.period {
		// head points at the oldest entry when full
		w.sum = w.sum.Sub(w.prices[w.head])
		w.prices[w.head] = value
		w.head = (w.head + 1) % w.period
	} else {
		w.prices[(w.head+w.size)%w.period] = value
		w.size++
	}

	w.sum = w.sum.Add(value)
}

// Average returns the simple moving average, or None until the window is full.
func (w *Window) Average() optional.Option[float64] {
	if w.size < w.period {
		return optional.None[float64]()
	}

	return optional.Some(w.sum.Div(decimal.NewFromInt(int64(w.period))).InexactFloat64())
}

// Period returns the window capacity.
func (w *Window) Period() int {
	return w.period
}

// Len returns the number of prices currently held.
func (w *Window) Len() int {
	return w.size
}

// Full reports whether the window holds period prices.
func (w *Window) Full() bool {
	return w.size == w.period
}

// Sum returns the running sum of the held prices.
func (w *Window) Sum() decimal.Decimal {
	return w.sum
}

// Values returns a copy of the held prices, oldest first.
func (w *Window) Values() []float64 {
	values := make([]float64, w.size)
	for i := 0; i < w.size; i++ {
		values[i] = w.prices[(w.head+i)%w.period].InexactFloat64()
	}

	return values
}

// SMASeries computes the simple moving average at every index of a price
// series. Entries before index period-1 are None. A non-positive period
// yields a series with no available values.
func SMASeries(prices []float64, period int) []optional.Option[float64] {
	series := make([]optional.Option[float64], len(prices))

	window, err := NewWindow(period)
	if err != nil {
		for i := range series {
			series[i] = optional.None[float64]()
		}

		return series
	}

	for i, price := range prices {
		window.Push(price)
		series[i] = window.Average()
	}

	return series
}
