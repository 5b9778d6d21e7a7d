// Package source provides tick streams: a synthetic random walk, the
// Binance aggregate trade stream and JSON lines read from a reader.
package source

import (
	"context"
	"iter"

	"github.com/rxtech-lab/argo-streamer/internal/types"
)

// Source yields ticks in per-symbol arrival order until ctx is cancelled
// or the underlying stream ends. A yielded error is not fatal unless the
// iterator stops after it.
type Source interface {
	Stream(ctx context.Context) iter.Seq2[types.Tick, error]
}
