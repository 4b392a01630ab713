// Package worker drains the host inbox into the snapshot store.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/runscope/internal/adapters/mq/queue"
	"github.com/okian/runscope/internal/adapters/repository"
	"github.com/okian/runscope/pkg/logger"
	"github.com/okian/runscope/pkg/metrics"
)

// Applier folds a host message into the snapshot.
type Applier interface {
	Apply(ctx context.Context, msg queue.Message, now time.Time) repository.Outcome
}

// Queue defines how the worker receives messages.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Message
}

// Sink receives outcomes that changed a delivery. It is called on the worker
// goroutine and must not block.
type Sink func(repository.Outcome)

// Worker applies queued messages in order.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker as the single writer of the store. Host
// messages depend on each other's order, so there is exactly one.
type InMemoryWorker struct {
	queue   Queue
	applier Applier
	sink    Sink
	name    string
	now     func() time.Time

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		applier:  applier,
		name:     "worker",
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	messages := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			w.process(ctx, msg)
		}
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, msg queue.Message) {
	start := time.Now()
	out := w.applier.Apply(ctx, msg, w.now())
	if msg.Kind() == "empty" {
		metrics.RecordErrorByComponent("worker", "empty_message")
	}
	w.logger.Debug(ctx, "message applied",
		logger.String("kind", msg.Kind()),
		logger.Duration("took", time.Since(start)),
	)

	if out.Dropped > 0 {
		w.logger.Debug(ctx, "message partly dropped",
			logger.String("kind", msg.Kind()),
			logger.Int("dropped", out.Dropped),
		)
	}

	if !out.Changed() {
		return
	}

	w.logger.Debug(ctx, "delivery changed",
		logger.Bool("runs_completed", out.RunsCompleted),
		logger.Bool("metrics_completed", out.MetricsCompleted),
		logger.Int("run", out.Run),
	)
	if w.sink != nil {
		w.sink(out)
	}
}
