// Package cache holds the bounded per-symbol buffer of recent ticks that
// feeds the prediction service.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/types"
)

// DefaultCapacity is the number of ticks kept per symbol.
const DefaultCapacity = 15

// RecentTicks keeps the most recent ticks of every symbol, ordered by time
// (oldest first). When a symbol's buffer is full the oldest tick is evicted.
// Readers always receive copies.
type RecentTicks struct {
	capacity int
	data     map[string][]types.Tick
	mu       sync.RWMutex
}

func NewRecentTicks(capacity int) *RecentTicks {
	return &RecentTicks{
		capacity: capacity,
		data:     make(map[string][]types.Tick),
		mu:       sync.RWMutex{},
	}
}

// Add inserts a tick and returns the resulting buffer size of its symbol.
// A tick with the same timestamp as a buffered one replaces it.
func (c *RecentTicks) Add(tick types.Tick) int {
	if c.capacity <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ticks, ok := c.data[tick.Symbol]
	if !ok {
		ticks = make([]types.Tick, 0, c.capacity)
	}

	if n := len(ticks); n > 0 {
		last := ticks[n-1].Time

		switch {
		case tick.Time.After(last):
			ticks = append(ticks, tick)
		case tick.Time.Equal(last):
			ticks[n-1] = tick
		default:
			ticks = insertSorted(ticks, tick)
		}
	} else {
		ticks = append(ticks, tick)
	}

	if len(ticks) > c.capacity {
		// copy down so the backing array does not grow without bound
		ticks = append(ticks[:0], ticks[len(ticks)-c.capacity:]...)
	}

	c.data[tick.Symbol] = ticks

	return len(ticks)
}

func insertSorted(ticks []types.Tick, tick types.Tick) []types.Tick {
	idx := sort.Search(len(ticks), func(i int) bool {
		return !ticks[i].Time.Before(tick.Time)
	})

	if idx < len(ticks) && ticks[idx].Time.Equal(tick.Time) {
		ticks[idx] = tick

		return ticks
	}

	ticks = append(ticks, types.Tick{}) //nolint:exhaustruct // placeholder for slice expansion
	copy(ticks[idx+1:], ticks[idx:])
	ticks[idx] = tick

	return ticks
}

// Recent returns a copy of the buffered ticks of a symbol, oldest first.
func (c *RecentTicks) Recent(symbol string) []types.Tick {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ticks := c.data[symbol]
	out := make([]types.Tick, len(ticks))
	copy(out, ticks)

	return out
}

// Range returns the buffered ticks of a symbol with start <= time <= end.
func (c *RecentTicks) Range(symbol string, start, end time.Time) []types.Tick {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ticks := c.data[symbol]

	from := sort.Search(len(ticks), func(i int) bool {
		return !ticks[i].Time.Before(start)
	})
	to := sort.Search(len(ticks), func(i int) bool {
		return ticks[i].Time.After(end)
	})

	if from >= to {
		return []types.Tick{}
	}

	out := make([]types.Tick, to-from)
	copy(out, ticks[from:to])

	return out
}

// Last returns the most recent tick of a symbol.
func (c *RecentTicks) Last(symbol string) (types.Tick, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ticks := c.data[symbol]
	if len(ticks) == 0 {
		return types.Tick{}, false //nolint:exhaustruct // zero value for not found
	}

	return ticks[len(ticks)-1], true
}

// Symbols returns the symbols with at least one buffered tick, sorted.
func (c *RecentTicks) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	symbols := make([]string, 0, len(c.data))
	for symbol, ticks := range c.data {
		if len(ticks) > 0 {
			symbols = append(symbols, symbol)
		}
	}

	sort.Strings(symbols)

	return symbols
}

func (c *RecentTicks) Size(symbol string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data[symbol])
}

func (c *RecentTicks) Capacity() int {
	return c.capacity
}

// Clear drops every buffered tick.
func (c *RecentTicks) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string][]types.Tick)
}
