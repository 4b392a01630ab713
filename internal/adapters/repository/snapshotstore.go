package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/runscope/internal/domain/message"
	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/pkg/logger"
	"github.com/okian/runscope/pkg/metrics"
)

// SnapshotStore implements Store over a single array-backed snapshot. Writes
// come from the applier goroutine, reads from the UI loop and diagnostics.
type SnapshotStore struct {
	mu       sync.RWMutex
	snap     *model.Snapshot
	delivery Delivery

	// runs delivery bookkeeping not kept by the snapshot itself
	announced     bool
	runsStartedAt time.Time

	applied uint64
	dropped uint64

	profile model.Profile
	logger  logger.Logger
}

// NewSnapshotStore constructs an empty store with configuration options.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		profile:  model.ProfileStandard,
		logger:   logger.Get().Named("repository"),
		delivery: Delivery{Run: -1},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.snap = model.NewSnapshot(s.profile)
	metrics.UpdateRunsLoaded(0)
	metrics.UpdateMetricsLoaded(0)

	return s
}

// Apply folds one host message into the snapshot. Count announcements are
// applied before the tuple carried by the same message.
func (s *SnapshotStore) Apply(ctx context.Context, msg message.Message, now time.Time) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Outcome{}
	kind := msg.Kind()
	if kind == "empty" {
		s.drop(ctx, &out, "empty", nil)
		out.Run = s.delivery.Run
		return out
	}

	if msg.RunsCount != nil {
		s.openRuns(*msg.RunsCount, now, &out)
	}
	if msg.Run != nil {
		s.applyRun(ctx, msg.Run, now, &out)
	}
	if msg.MetricsCount != nil {
		s.openMetrics(ctx, *msg.MetricsCount, now, &out)
	}
	if msg.Metric != nil {
		s.applyMetric(ctx, msg.Metric, now, &out)
	}

	s.applied++
	metrics.RecordHostMessage(kind)
	out.Run = s.delivery.Run

	return out
}

func (s *SnapshotStore) openRuns(expected int, now time.Time, out *Outcome) {
	s.snap.Reset(expected, now)
	s.announced = true
	s.runsStartedAt = now
	s.delivery = Delivery{Run: -1}
	out.RunsStarted = true

	metrics.UpdateRunsLoaded(0)
	metrics.UpdateMetricsLoaded(0)

	if s.snap.Complete {
		s.completeRuns(now, out)
	}
}

func (s *SnapshotStore) applyRun(ctx context.Context, t *message.RunTuple, now time.Time, out *Outcome) {
	switch {
	case !s.announced:
		s.drop(ctx, out, "unannounced", ErrUnopened)
		return
	case s.snap.Complete:
		s.drop(ctx, out, "late", ErrLate)
		return
	}

	if err := s.snap.AppendRun(t.ToRun()); err != nil {
		metrics.RecordCapacityDrop("runs")
		s.drop(ctx, out, "capacity", err)
	}
	metrics.UpdateRunsLoaded(s.snap.RunCount)

	if s.snap.MarkReceived(now) {
		s.completeRuns(now, out)
	}
}

func (s *SnapshotStore) completeRuns(now time.Time, out *Outcome) {
	out.RunsCompleted = true
	metrics.RecordDeliveryCompleted(string(ViewMenu), float64(now.Sub(s.runsStartedAt).Milliseconds()))
}

func (s *SnapshotStore) openMetrics(ctx context.Context, expected int, now time.Time, out *Outcome) {
	run := s.snap.Run(s.delivery.Run)
	if run == nil {
		s.drop(ctx, out, "no_target", ErrNoTarget)
		return
	}

	if expected < 0 {
		expected = 0
	}
	run.ResetMetrics()
	s.delivery = Delivery{
		Run:       s.delivery.Run,
		Expected:  expected,
		Announced: true,
		StartedAt: now,
	}
	out.MetricsStarted = true
	metrics.UpdateMetricsLoaded(0)

	if expected == 0 {
		s.completeMetrics(now, out)
	}
}

func (s *SnapshotStore) applyMetric(ctx context.Context, t *message.MetricTuple, now time.Time, out *Outcome) {
	run := s.snap.Run(s.delivery.Run)
	switch {
	case run == nil:
		s.drop(ctx, out, "no_target", ErrNoTarget)
		return
	case !s.delivery.Announced:
		s.drop(ctx, out, "unannounced", ErrUnopened)
		return
	case s.delivery.Complete:
		s.drop(ctx, out, "late", ErrLate)
		return
	}

	if err := run.AppendMetric(t.ToMetric()); err != nil {
		metrics.RecordCapacityDrop("metrics")
		s.drop(ctx, out, "capacity", err)
	}
	s.delivery.Received++
	metrics.UpdateMetricsLoaded(run.MetricCount)

	if s.delivery.Received >= s.delivery.Expected || run.Full() {
		s.completeMetrics(now, out)
	}
}

func (s *SnapshotStore) completeMetrics(now time.Time, out *Outcome) {
	s.delivery.Complete = true
	s.delivery.CompletedAt = now
	out.MetricsCompleted = true
	metrics.RecordDeliveryCompleted(string(ViewDetail), float64(now.Sub(s.delivery.StartedAt).Milliseconds()))
}

func (s *SnapshotStore) drop(ctx context.Context, out *Outcome, reason string, err error) {
	out.Dropped++
	s.dropped++
	metrics.RecordHostMessageDropped(reason)

	fields := []logger.Field{logger.String("reason", reason)}
	if err != nil && !errors.Is(err, model.ErrAtCapacity) {
		fields = append(fields, logger.Error(err))
	}
	s.logger.Debug(ctx, "host tuple dropped", fields...)
}

// Target routes subsequent metric tuples to the run at index. The run's
// metrics are kept until the host announces a new metrics count.
func (s *SnapshotStore) Target(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.Run(index) == nil {
		metrics.RecordErrorByComponent("repository", "no_such_run")
		return ErrNoSuchRun
	}

	s.delivery = Delivery{Run: index}
	s.logger.Debug(ctx, "metrics target set", logger.Int("run", index))

	return nil
}

// View calls fn with the snapshot and metric delivery under the read lock.
func (s *SnapshotStore) View(fn func(s *model.Snapshot, d Delivery)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.snap, s.delivery)
}

// Stats returns a summary of the current state.
func (s *SnapshotStore) Stats(_ context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Profile:         string(s.snap.Profile()),
		Runs:            s.snap.RunCount,
		RunsExpected:    s.snap.Expected,
		RunsReceived:    s.snap.Received,
		RunsComplete:    s.snap.Complete,
		Target:          s.delivery.Run,
		MetricsExpected: s.delivery.Expected,
		MetricsComplete: s.delivery.Complete,
		Applied:         s.applied,
		Dropped:         s.dropped,
	}
	if run := s.snap.Run(s.delivery.Run); run != nil {
		st.Metrics = run.MetricCount
	}

	return st
}
