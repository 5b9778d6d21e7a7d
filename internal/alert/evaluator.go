package alert

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/persistence"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultRefreshInterval is how long a symbol's active set is trusted
// before it is reloaded from the store.
const DefaultRefreshInterval = 5 * time.Second

// DefaultRefreshTimeout bounds one reload of a symbol's active set.
const DefaultRefreshTimeout = 2 * time.Second

// entry is the in-memory copy of one active alert. triggered is the only
// guard against a double fire.
type entry struct {
	alert     types.Alert
	triggered atomic.Bool
}

type symbolAlerts struct {
	mu          sync.Mutex
	refreshedAt time.Time
	entries     map[string]*entry
}

// Evaluator checks incoming ticks against the active alerts of their symbol.
// Each alert fires at most once per process: once its status flips to
// TRIGGERED it is never evaluated again, even if a later refresh still
// reports it as ACTIVE.
type Evaluator struct {
	store           persistence.AlertStore
	refreshInterval time.Duration
	refreshTimeout  time.Duration
	logger          *logger.Logger
	clock           func() time.Time

	mu      sync.Mutex
	symbols map[string]*symbolAlerts
	fired   sync.Map
}

func NewEvaluator(store persistence.AlertStore, refreshInterval time.Duration, log *logger.Logger) *Evaluator {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}

	return &Evaluator{
		store:           store,
		refreshInterval: refreshInterval,
		refreshTimeout:  DefaultRefreshTimeout,
		logger:          log,
		clock:           time.Now,
		mu:              sync.Mutex{},
		symbols:         make(map[string]*symbolAlerts),
		fired:           sync.Map{},
	}
}

func (e *Evaluator) symbol(symbol string) *symbolAlerts {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.symbols[symbol]
	if !ok {
		s = &symbolAlerts{mu: sync.Mutex{}, refreshedAt: time.Time{}, entries: make(map[string]*entry)}
		e.symbols[symbol] = s
	}

	return s
}

// Evaluate returns one notification for every active alert of the tick's
// symbol whose condition the tick price satisfies. The status flip happens
// before the notification is built.
func (e *Evaluator) Evaluate(ctx context.Context, tick types.Tick) []types.Notification {
	s := e.symbol(tick.Symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	e.refreshLocked(ctx, tick.Symbol, s)

	price := decimal.NewFromFloat(tick.Price)
	notifications := []types.Notification{}

	for id, en := range s.entries {
		if en.triggered.Load() || !en.alert.Matches(price) {
			continue
		}

		if !en.triggered.CompareAndSwap(false, true) {
			continue
		}

		e.fired.Store(id, struct{}{})
		delete(s.entries, id)

		notifications = append(notifications, types.Notification{
			UserID:  en.alert.UserID,
			AlertID: en.alert.ID,
			Symbol:  en.alert.Symbol,
			Message: FormatMessage(en.alert, price),
		})
	}

	return notifications
}

// refreshLocked reloads the active set once it is older than the refresh
// interval. The read is bounded by refreshTimeout. A failed reload keeps
// the current set.
func (e *Evaluator) refreshLocked(ctx context.Context, symbol string, s *symbolAlerts) {
	now := e.clock()
	if !s.refreshedAt.IsZero() && now.Sub(s.refreshedAt) < e.refreshInterval {
		return
	}

	s.refreshedAt = now

	ctx, cancel := context.WithTimeout(ctx, e.refreshTimeout)
	defer cancel()

	alerts, err := e.store.ListActiveBySymbol(ctx, symbol)
	if err != nil {
		e.logger.Error("Failed to refresh active alerts",
			zap.String("symbol", symbol),
			zap.Error(err),
		)

		return
	}

	entries := make(map[string]*entry, len(alerts))

	for _, a := range alerts {
		if a.Status != types.AlertStatusActive || a.Symbol != symbol {
			continue
		}

		if _, fired := e.fired.Load(a.ID); fired {
			continue
		}

		if existing, ok := s.entries[a.ID]; ok {
			entries[a.ID] = existing

			continue
		}

		entries[a.ID] = &entry{alert: a, triggered: atomic.Bool{}}
	}

	s.entries = entries
}

// Admit adds a newly created alert without waiting for the next refresh.
func (e *Evaluator) Admit(alert types.Alert) {
	if alert.Status != types.AlertStatusActive {
		return
	}

	if _, fired := e.fired.Load(alert.ID); fired {
		return
	}

	s := e.symbol(alert.Symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[alert.ID]; !ok {
		s.entries[alert.ID] = &entry{alert: alert, triggered: atomic.Bool{}}
	}
}

// Active returns a copy of the alerts currently held for a symbol.
func (e *Evaluator) Active(symbol string) []types.Alert {
	s := e.symbol(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	alerts := make([]types.Alert, 0, len(s.entries))
	for _, en := range s.entries {
		alerts = append(alerts, en.alert)
	}

	return alerts
}
