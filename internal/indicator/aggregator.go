package indicator

import (
	"sort"
	"sync"

	"github.com/moznion/go-optional"
)

// Snapshot is a point-in-time copy of one symbol's window state.
type Snapshot struct {
	Symbol    string
	LastPrice float64
	Count     int
	Averages  map[int]optional.Option[float64]
}

// Average returns the average for a period, None if unavailable or not tracked.
func (s Snapshot) Average(period int) optional.Option[float64] {
	avg, ok := s.Averages[period]
	if !ok {
		return optional.None[float64]()
	}

	return avg
}

// SymbolWindows holds the windows of one symbol, one per configured period.
// Only the symbol's worker writes; readers get copies under the read lock.
type SymbolWindows struct {
	symbol    string
	windows   []*Window
	lastPrice float64
	count     int
	mu        sync.RWMutex
}

func newSymbolWindows(symbol string, periods []int) (*SymbolWindows, error) {
	windows := make([]*Window, 0, len(periods))

	for _, period := range periods {
		w, err := NewWindow(period)
		if err != nil {
			return nil, err
		}

		windows = append(windows, w)
	}

	return &SymbolWindows{
		symbol:    symbol,
		windows:   windows,
		lastPrice: 0,
		count:     0,
		mu:        sync.RWMutex{},
	}, nil
}

// Update pushes a price into every window and returns the new state.
func (s *SymbolWindows) Update(price float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.windows {
		w.Push(price)
	}

	s.lastPrice = price
	s.count++

	return s.snapshotLocked()
}

// Average returns the current average for a tracked period.
func (s *SymbolWindows) Average(period int) optional.Option[float64] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.windows {
		if w.Period() == period {
			return w.Average()
		}
	}

	return optional.None[float64]()
}

// Snapshot returns a copy of the current state.
func (s *SymbolWindows) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *SymbolWindows) snapshotLocked() Snapshot {
	averages := make(map[int]optional.Option[float64], len(s.windows))
	for _, w := range s.windows {
		averages[w.Period()] = w.Average()
	}

	return Snapshot{
		Symbol:    s.symbol,
		LastPrice: s.lastPrice,
		Count:     s.count,
		Averages:  averages,
	}
}

// Aggregator maintains per-symbol moving averages for a fixed set of periods.
// Each symbol's state has its own lock so unrelated symbols never contend.
type Aggregator struct {
	periods []int
	symbols sync.Map // symbol -> *SymbolWindows
}

// NewAggregator creates an aggregator tracking the given periods for every symbol.
func NewAggregator(periods ...int) (*Aggregator, error) {
	unique := make(map[int]struct{}, len(periods))
	normalized := make([]int, 0, len(periods))

	for _, p := range periods {
		if _, ok := unique[p]; ok {
			continue
		}

		unique[p] = struct{}{}
		normalized = append(normalized, p)
	}

	sort.Ints(normalized)

	// validate once up front so symbol creation cannot fail later
	if _, err := newSymbolWindows("", normalized); err != nil {
		return nil, err
	}

	return &Aggregator{periods: normalized}, nil
}

// Periods returns the tracked periods in ascending order.
func (a *Aggregator) Periods() []int {
	out := make([]int, len(a.periods))
	copy(out, a.periods)

	return out
}

// Symbol returns the windows of a symbol, creating them on first use.
func (a *Aggregator) Symbol(symbol string) *SymbolWindows {
	if existing, ok := a.symbols.Load(symbol); ok {
		return existing.(*SymbolWindows)
	}

	created, _ := newSymbolWindows(symbol, a.periods)
	actual, _ := a.symbols.LoadOrStore(symbol, created)

	return actual.(*SymbolWindows)
}

// Update records a new price for a symbol.
func (a *Aggregator) Update(symbol string, price float64) Snapshot {
	return a.Symbol(symbol).Update(price)
}

// CurrentAverage returns the moving average of a symbol for a period,
// None when the window is not yet full or the period is not tracked.
func (a *Aggregator) CurrentAverage(symbol string, period int) optional.Option[float64] {
	existing, ok := a.symbols.Load(symbol)
	if !ok {
		return optional.None[float64]()
	}

	return existing.(*SymbolWindows).Average(period)
}

// Snapshot returns a copy of a symbol's state.
func (a *Aggregator) Snapshot(symbol string) (Snapshot, bool) {
	existing, ok := a.symbols.Load(symbol)
	if !ok {
		return Snapshot{}, false //nolint:exhaustruct // zero value for not found
	}

	return existing.(*SymbolWindows).Snapshot(), true
}
