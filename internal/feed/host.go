// Package feed is an in-process stand-in for the paired host: it announces
// runs on start and answers metric requests with host messages.
package feed

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/runscope/internal/domain/message"
	"github.com/okian/runscope/pkg/logger"
	"github.com/okian/runscope/pkg/metrics"
)

const defaultRuns = 6

// Deliverer accepts host messages on the viewer side.
type Deliverer interface {
	Deliver(ctx context.Context, msg message.Message) bool
}

// Host serves a fixture over a Deliverer. Deliveries run on their own
// goroutines and are serialized so the viewer sees one delivery at a time.
type Host struct {
	runs    int
	latency time.Duration
	seed    int64
	fixture *Fixture

	mu        sync.Mutex
	sendMu    sync.Mutex
	deliverer Deliverer
	ctx       context.Context
	wg        sync.WaitGroup

	logger logger.Logger
}

// New builds a host. Without a fixture it generates one from the seed.
func New(opts ...Option) *Host {
	h := &Host{
		runs:   defaultRuns,
		logger: logger.Get().Named("feed"),
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.fixture == nil {
		seed := h.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		fx := Generate(rand.New(rand.NewSource(seed)), h.runs)
		h.fixture = &fx
	}

	return h
}

// Fixture returns the data the host serves.
func (h *Host) Fixture() Fixture { return *h.fixture }

// Start attaches the viewer side and announces the runs.
func (h *Host) Start(ctx context.Context, d Deliverer) {
	h.mu.Lock()
	h.deliverer = d
	h.ctx = ctx
	h.mu.Unlock()

	h.logger.Info(ctx, "announcing runs", logger.Int("runs", len(h.fixture.Runs)))

	runs := h.fixture.Runs
	msgs := make([]message.Message, 0, len(runs)+1)
	msgs = append(msgs, message.RunsCount(len(runs)))
	for _, r := range runs {
		msgs = append(msgs, r.Tuple())
	}
	h.send(ctx, d, "runs", msgs)
}

// RequestMetrics answers a metric request for the run at index.
func (h *Host) RequestMetrics(_ context.Context, index int) error {
	h.mu.Lock()
	d, ctx := h.deliverer, h.ctx
	h.mu.Unlock()

	if d == nil {
		return ErrNotStarted
	}
	if index < 0 || index >= len(h.fixture.Runs) {
		return ErrNoSuchRun
	}

	run := h.fixture.Runs[index]
	msgs := make([]message.Message, 0, len(run.Metrics)+1)
	msgs = append(msgs, message.MetricsCount(len(run.Metrics)))
	for _, m := range run.Metrics {
		msgs = append(msgs, m.Tuple())
	}

	h.logger.Debug(ctx, "serving metrics",
		logger.Int("run", index),
		logger.Int("metrics", len(run.Metrics)),
	)
	h.send(ctx, d, "metrics", msgs)

	return nil
}

// Wait blocks until every pending delivery has finished or been abandoned.
func (h *Host) Wait() { h.wg.Wait() }

func (h *Host) send(ctx context.Context, d Deliverer, what string, msgs []message.Message) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		if h.latency > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(h.latency):
			}
		}

		h.sendMu.Lock()
		defer h.sendMu.Unlock()

		for _, m := range msgs {
			if ctx.Err() != nil {
				return
			}
			if !d.Deliver(ctx, m) {
				metrics.RecordErrorByComponent("feed", "deliver_rejected")
				h.logger.Warn(ctx, "delivery rejected", logger.String("delivery", what), logger.String("kind", m.Kind()))
			}
		}
	}()
}
