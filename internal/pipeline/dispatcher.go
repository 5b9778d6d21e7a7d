package pipeline

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/metrics"
	"go.uber.org/zap"
)

// Job kinds, used in logs and the dropped-jobs metric.
const (
	JobPersistTick       = "persist_tick"
	JobPublishPrice      = "publish_price"
	JobPublishPrediction = "publish_prediction"
	JobTrigger           = "trigger"
)

type job struct {
	kind string
	key  string
	run  func(ctx context.Context) error
}

// Dispatcher runs persistence and broadcast work off the ingestion path.
// Jobs with the same key run on the same shard, in submission order. Submit
// drops the job when the shard is full; SubmitWait waits for room.
type Dispatcher struct {
	shards  []chan job
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts workers goroutines, each with a queue of queueSize
// jobs. Every job runs with its own timeout.
func NewDispatcher(workers, queueSize int, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}

	if queueSize <= 0 {
		queueSize = 1
	}

	d := &Dispatcher{
		shards:  make([]chan job, workers),
		timeout: timeout,
		metrics: m,
		logger:  log,
		mu:      sync.RWMutex{},
		closed:  false,
		wg:      sync.WaitGroup{},
	}

	for i := range d.shards {
		d.shards[i] = make(chan job, queueSize)
		d.wg.Add(1)

		go d.work(d.shards[i])
	}

	return d
}

// Submit queues run under key. It reports false if the job was dropped.
func (d *Dispatcher) Submit(key, kind string, run func(ctx context.Context) error) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(key, kind, "dispatcher closed")

		return false
	}

	select {
	case d.shards[d.shard(key)] <- job{kind: kind, key: key, run: run}:
		return true
	default:
		d.drop(key, kind, "queue full")

		return false
	}
}

// SubmitWait queues run under key, waiting while the shard is full. It
// reports false if ctx ends or the dispatcher is closed before the job is
// queued; the caller still owns the job then.
func (d *Dispatcher) SubmitWait(ctx context.Context, key, kind string, run func(ctx context.Context) error) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}

	select {
	case d.shards[d.shard(key)] <- job{kind: kind, key: key, run: run}:
		return true
	default:
	}

	d.logger.Debug("Waiting for queue room",
		zap.String("kind", kind),
		zap.String("key", key),
	)

	select {
	case d.shards[d.shard(key)] <- job{kind: kind, key: key, run: run}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run executes run on the calling goroutine with the job timeout.
func (d *Dispatcher) Run(key, kind string, run func(ctx context.Context) error) {
	d.run(job{kind: kind, key: key, run: run})
}

func (d *Dispatcher) drop(key, kind, reason string) {
	d.logger.Warn("Dropping async job",
		zap.String("kind", kind),
		zap.String("key", key),
		zap.String("reason", reason),
	)
	d.metrics.Dropped(kind)
}

func (d *Dispatcher) shard(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	return int(h.Sum32() % uint32(len(d.shards)))
}

func (d *Dispatcher) work(jobs <-chan job) {
	defer d.wg.Done()

	for j := range jobs {
		d.run(j)
	}
}

func (d *Dispatcher) run(j job) {
	ctx, cancel := context.Background(), context.CancelFunc(func() {})
	if d.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
	}
	defer cancel()

	if err := j.run(ctx); err != nil {
		d.logger.Error("Async job failed",
			zap.String("kind", j.kind),
			zap.String("key", j.key),
			zap.Error(err),
		)
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true

		for _, shard := range d.shards {
			close(shard)
		}
	}
	d.mu.Unlock()

	d.wg.Wait()
}
