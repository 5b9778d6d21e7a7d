// Package pipeline sequences the per-tick work of the streamer: window
// update, alert evaluation, async persistence and broadcast, and the
// best-effort prediction call.
package pipeline

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-streamer/internal/alert"
	"github.com/rxtech-lab/argo-streamer/internal/broadcast"
	"github.com/rxtech-lab/argo-streamer/internal/cache"
	"github.com/rxtech-lab/argo-streamer/internal/indicator"
	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/metrics"
	"github.com/rxtech-lab/argo-streamer/internal/persistence"
	"github.com/rxtech-lab/argo-streamer/internal/prediction"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"go.uber.org/zap"
)

// Processor handles one tick. It is called by exactly one goroutine per symbol.
type Processor interface {
	Process(ctx context.Context, tick types.Tick) (Result, error)
}

// Result is what one tick produced. Prediction is None when the recent
// buffer was below the prediction threshold.
type Result struct {
	Snapshot      indicator.Snapshot
	Notifications []types.Notification
	Prediction    optional.Option[types.PredictionResult]
}

// Options tunes the prediction step.
type Options struct {
	// MinPredictionTicks is the buffer fill at which predictions start.
	MinPredictionTicks int
	// PredictionTimeout bounds one prediction call.
	PredictionTimeout time.Duration
	// PredictionSymbols limits predictions to these symbols. Empty means all.
	PredictionSymbols []string
}

// Dependencies of a Pipeline. Predictor may be nil to disable predictions.
type Dependencies struct {
	Aggregator  *indicator.Aggregator
	Evaluator   *alert.Evaluator
	Recent      *cache.RecentTicks
	Dispatcher  *Dispatcher
	TickStore   persistence.TickStore
	AlertStore  persistence.AlertStore
	Broadcaster broadcast.Broadcaster
	Predictor   prediction.Predictor
	Metrics     *metrics.Metrics
	Logger      *logger.Logger
}

var _ Processor = (*Pipeline)(nil)

type Pipeline struct {
	deps              Dependencies
	minTicks          int
	predictionTimeout time.Duration
	predictSymbols    map[string]struct{}
}

func New(deps Dependencies, opts Options) *Pipeline {
	if opts.MinPredictionTicks <= 0 {
		opts.MinPredictionTicks = prediction.MinTicks
	}

	if opts.PredictionTimeout <= 0 {
		opts.PredictionTimeout = prediction.DefaultTimeout
	}

	symbols := make(map[string]struct{}, len(opts.PredictionSymbols))
	for _, s := range opts.PredictionSymbols {
		symbols[s] = struct{}{}
	}

	return &Pipeline{
		deps:              deps,
		minTicks:          opts.MinPredictionTicks,
		predictionTimeout: opts.PredictionTimeout,
		predictSymbols:    symbols,
	}
}

// Process runs the per-tick sequence. In-memory state (windows, alert
// status, recent buffer) is updated before Process returns; persistence
// and broadcast are queued on the dispatcher. A fired alert is persisted
// as TRIGGERED before its owner is notified, and its job is never dropped.
func (p *Pipeline) Process(ctx context.Context, tick types.Tick) (Result, error) {
	if err := tick.Validate(); err != nil {
		return Result{}, err
	}

	log := p.deps.Logger
	symbol := tick.Symbol

	result := Result{
		Snapshot:      p.deps.Aggregator.Update(symbol, tick.Price),
		Notifications: p.deps.Evaluator.Evaluate(ctx, tick),
		Prediction:    optional.None[types.PredictionResult](),
	}

	p.deps.Metrics.TickProcessed(symbol)

	p.deps.Dispatcher.Submit(symbol, JobPersistTick, func(ctx context.Context) error {
		return p.deps.TickStore.SaveTick(ctx, tick)
	})

	message := tick.Message()
	p.deps.Dispatcher.Submit(symbol, JobPublishPrice, func(ctx context.Context) error {
		return p.deps.Broadcaster.PublishPrice(ctx, message)
	})

	for _, n := range result.Notifications {
		p.deps.Metrics.AlertTriggered(symbol)

		log.Info("Alert triggered",
			zap.String("alert_id", n.AlertID),
			zap.String("user_id", n.UserID),
			zap.String("symbol", symbol),
			zap.Float64("price", tick.Price),
		)

		// Triggers are never dropped: they wait for queue room and run
		// inline once the dispatcher is closed or ctx ends.
		trigger := p.triggerJob(n)
		if !p.deps.Dispatcher.SubmitWait(ctx, symbol, JobTrigger, trigger) {
			p.deps.Dispatcher.Run(symbol, JobTrigger, trigger)
		}
	}

	size := p.deps.Recent.Add(tick)
	if size >= p.minTicks && p.predicts(symbol) {
		predicted := p.predict(ctx, symbol)
		result.Prediction = optional.Some(predicted)

		value := predicted.Value()
		p.deps.Dispatcher.Submit(symbol, JobPublishPrediction, func(ctx context.Context) error {
			return p.deps.Broadcaster.PublishPrediction(ctx, value)
		})
	}

	return result, nil
}

// triggerJob persists the TRIGGERED status and then notifies the owner.
// A failed write is logged and the notification is still sent: the
// in-memory flip already keeps this process from firing again.
func (p *Pipeline) triggerJob(n types.Notification) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := p.deps.AlertStore.MarkTriggered(ctx, n.AlertID); err != nil {
			p.deps.Logger.Error("Failed to persist triggered alert",
				zap.String("alert_id", n.AlertID),
				zap.Error(err),
			)
		}

		return p.deps.Broadcaster.Notify(ctx, n.UserID, n.Message)
	}
}

func (p *Pipeline) predicts(symbol string) bool {
	if p.deps.Predictor == nil {
		return false
	}

	if len(p.predictSymbols) == 0 {
		return true
	}

	_, ok := p.predictSymbols[symbol]

	return ok
}

// predict calls the predictor with the recent buffer. Failures become the
// unavailable sentinel downstream.
func (p *Pipeline) predict(ctx context.Context, symbol string) types.PredictionResult {
	ctx, cancel := context.WithTimeout(ctx, p.predictionTimeout)
	defer cancel()

	began := time.Now()
	result := p.deps.Predictor.Predict(ctx, p.deps.Recent.Recent(symbol))
	p.deps.Metrics.PredictionObserved(result.OK(), time.Since(began).Seconds())

	if !result.OK() {
		p.deps.Logger.Warn("Prediction failed, broadcasting sentinel",
			zap.String("symbol", symbol),
			zap.Error(result.Reason),
		)
	}

	return result
}
