// Package persistence declares the storage collaborators used by the
// streaming and backtest paths. Implementations live in internal/storage.
package persistence

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/types"
)

// TickStore persists consumed ticks and serves history windows.
type TickStore interface {
	// SaveTick stores one tick. Symbol and timestamp must be set.
	SaveTick(ctx context.Context, tick types.Tick) error
	// TicksBetween returns the ticks of a symbol with start <= time <= end,
	// ordered by time ascending.
	TicksBetween(ctx context.Context, symbol string, start, end time.Time) ([]types.Tick, error)
}

// AlertStore persists alerts and their one-way status transition.
type AlertStore interface {
	CreateAlert(ctx context.Context, alert types.Alert) error
	ListActiveByUser(ctx context.Context, userID string) ([]types.Alert, error)
	ListActiveBySymbol(ctx context.Context, symbol string) ([]types.Alert, error)
	// MarkTriggered moves an ACTIVE alert to TRIGGERED. Marking an alert
	// that is already TRIGGERED is a no-op.
	MarkTriggered(ctx context.Context, alertID string) error
}
