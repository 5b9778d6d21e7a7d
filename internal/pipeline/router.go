package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/source"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkerBuffer is the per-symbol queue length.
const DefaultWorkerBuffer = 128

// Router fans a tick stream out to one worker goroutine per symbol. A
// symbol's ticks are processed in arrival order by its worker alone, while
// distinct symbols proceed in parallel.
type Router struct {
	processor Processor
	buffer    int
	logger    *logger.Logger

	mu      sync.Mutex
	workers map[string]chan types.Tick
}

func NewRouter(processor Processor, buffer int, log *logger.Logger) *Router {
	if buffer <= 0 {
		buffer = DefaultWorkerBuffer
	}

	return &Router{
		processor: processor,
		buffer:    buffer,
		logger:    log,
		mu:        sync.Mutex{},
		workers:   make(map[string]chan types.Tick),
	}
}

// Run drains src until it ends or ctx is cancelled, then waits for every
// worker to finish its queue. Stream errors are logged and skipped.
func (r *Router) Run(ctx context.Context, src source.Source) error {
	group, gctx := errgroup.WithContext(ctx)

	for tick, err := range src.Stream(gctx) {
		if err != nil {
			r.logger.Warn("Skipping bad tick from source", zap.Error(err))

			continue
		}

		if !r.route(gctx, group, tick) {
			break
		}
	}

	r.closeWorkers()

	return group.Wait()
}

// route hands the tick to its symbol's worker, starting one if needed. It
// blocks while that worker's queue is full.
func (r *Router) route(ctx context.Context, group *errgroup.Group, tick types.Tick) bool {
	r.mu.Lock()

	ch, ok := r.workers[tick.Symbol]
	if !ok {
		ch = make(chan types.Tick, r.buffer)
		r.workers[tick.Symbol] = ch

		symbol := tick.Symbol
		group.Go(func() error {
			return r.work(ctx, symbol, ch)
		})

		r.logger.Debug("Started symbol worker", zap.String("symbol", symbol))
	}

	r.mu.Unlock()

	select {
	case ch <- tick:
		return true
	case <-ctx.Done():
		return false
	}
}

func (r *Router) work(ctx context.Context, symbol string, ticks <-chan types.Tick) error {
	for tick := range ticks {
		if _, err := r.processor.Process(ctx, tick); err != nil {
			r.logger.Warn("Failed to process tick",
				zap.String("symbol", symbol),
				zap.Float64("price", tick.Price),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (r *Router) closeWorkers() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for symbol, ch := range r.workers {
		close(ch)
		delete(r.workers, symbol)
	}
}

// Symbols returns the symbols that currently have a worker.
func (r *Router) Symbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	symbols := make([]string, 0, len(r.workers))
	for symbol := range r.workers {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols
}
