package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
	"github.com/gigboard/marketplace/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	publishTimeout = 10 * time.Second
)

// Dispatcher routes activity events to a fixed set of workers using
// consistent hashing on the aggregate id, so events about the same job keep
// their order.
type Dispatcher struct {
	workers   []chan domain.ActivityEvent
	publisher ports.ActivityPublisher
	log       zerolog.Logger

	mu     sync.RWMutex
	closed bool
	abort  context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.ActivityPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.ActivityEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers keep draining after ctx is
// cancelled and exit once Shutdown has closed their channel. Publishes still
// in flight are aborted when the Shutdown deadline expires.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, abort := context.WithCancel(context.WithoutCancel(ctx))
	d.mu.Lock()
	d.abort = abort
	d.mu.Unlock()

	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Emit queues event for its worker. When the worker is saturated or the
// dispatcher is shut down the event is dropped and counted.
func (d *Dispatcher) Emit(event domain.ActivityEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher closed")
		return
	}

	idx := d.shardIndex(event.AggregateID)
	select {
	case d.workers[idx] <- event:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(event, "worker queue full")
	}
}

// Shutdown stops accepting events and waits for queued ones to be published.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	abort := d.abort
	d.mu.Unlock()
	if abort == nil {
		abort = func() {}
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		abort()
		return d.publisher.Close()
	case <-ctx.Done():
		abort()
		return ctx.Err()
	}
}

// shardIndex maps an aggregate id deterministically to a worker index.
func (d *Dispatcher) shardIndex(aggregateID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(aggregateID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) drop(event domain.ActivityEvent, reason string) {
	metrics.ActivityPublishedTotal.WithLabelValues(string(event.Type), "dropped").Inc()
	d.log.Warn().
		Str("type", string(event.Type)).
		Str("aggregate_id", event.AggregateID).
		Str("reason", reason).
		Msg("activity event dropped")
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.publish(ctx, id, event)
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, workerID int, event domain.ActivityEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	start := time.Now()
	err := d.publisher.Publish(ctx, event)
	metrics.ActivityPublishDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ActivityPublishedTotal.WithLabelValues(string(event.Type), "error").Inc()
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Str("aggregate_id", event.AggregateID).
			Int("worker_id", workerID).
			Msg("activity publish failed")
		return
	}
	metrics.ActivityPublishedTotal.WithLabelValues(string(event.Type), "ok").Inc()
}
