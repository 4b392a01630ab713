// Package service wires the host inbox, the applier worker and the snapshot
// store, and exposes them to the viewer and the diagnostics API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	inbox "github.com/okian/runscope/internal/adapters/mq/queue"
	applier "github.com/okian/runscope/internal/adapters/mq/worker"
	"github.com/okian/runscope/internal/adapters/repository"
	"github.com/okian/runscope/internal/domain/message"
	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/pkg/logger"
	"github.com/okian/runscope/pkg/metrics"
)

const workerShutdownTimeout = 5 * time.Second

// Host is the data source on the other end of the link. RequestMetrics asks
// it to send the metrics of the run at index.
type Host interface {
	RequestMetrics(ctx context.Context, index int) error
}

// Service owns the ingestion path and fans delivery outcomes out to
// subscribers.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  *repository.SnapshotStore
	queue  *inbox.InMemoryQueue
	worker *applier.InMemoryWorker
	host   Host

	subsMu      sync.RWMutex
	subscribers []applier.Sink

	// Configuration
	queueSize int
	profile   model.Profile

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum number of pending host messages.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithProfile sets the deployment profile.
func WithProfile(p model.Profile) Option {
	return func(s *Service) {
		if p.Valid() {
			s.profile = p
		}
	}
}

// WithHost attaches the data source that answers metric requests.
func WithHost(h Host) Option {
	return func(s *Service) {
		s.host = h
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration. The store exists
// from construction so readers never observe a nil snapshot.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize: 256,
		profile:   model.ProfileStandard,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.store = repository.NewSnapshotStore(
		repository.WithProfile(s.profile),
		repository.WithLogger(s.logger.Named("repository")),
	)

	return s
}

// Start creates the inbox and launches the applier.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting viewer service...")

	s.queue = inbox.NewInMemoryQueue(inbox.WithCapacity(s.queueSize))
	s.worker = applier.NewInMemoryWorker(s.queue, s.store,
		applier.WithName("applier"),
		applier.WithLogger(s.logger.Named("worker")),
		applier.WithSink(s.publish),
	)
	go s.worker.Run(ctx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "viewer service started",
		logger.Int("queueSize", s.queueSize),
		logger.String("profile", string(s.profile)),
	)

	return nil
}

// Stop closes the inbox and waits for the applier to drain it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping viewer service...")

	_ = s.queue.Close()
	select {
	case <-s.worker.Done():
	case <-time.After(workerShutdownTimeout):
		if err := s.worker.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "applier did not stop", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "viewer service stopped")
}

// Deliver hands a decoded host message to the inbox. It never blocks and
// reports false when the message was dropped.
func (s *Service) Deliver(ctx context.Context, msg message.Message) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		metrics.RecordHostMessageDropped("not_started")
		return false
	}

	ok := s.queue.Enqueue(ctx, msg)
	if !ok {
		s.logger.Warn(ctx, "host message dropped", logger.String("kind", msg.Kind()))
	}
	return ok
}

// RequestMetrics targets the run at index and asks the host for its metrics.
func (s *Service) RequestMetrics(ctx context.Context, index int) error {
	if err := s.store.Target(ctx, index); err != nil {
		return fmt.Errorf("request metrics for run %d: %w", index, err)
	}
	if s.host == nil {
		return ErrNoHost
	}
	if err := s.host.RequestMetrics(ctx, index); err != nil {
		metrics.RecordErrorByComponent("service", "host_request")
		return fmt.Errorf("request metrics for run %d: %w", index, err)
	}
	return nil
}

// Subscribe registers fn to receive delivery outcomes. fn runs on the
// applier goroutine.
func (s *Service) Subscribe(fn applier.Sink) {
	if fn == nil {
		return
	}
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Service) publish(out repository.Outcome) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, fn := range s.subscribers {
		fn(out)
	}
}

// Store returns the snapshot store.
func (s *Service) Store() repository.Store { return s.store }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":   s.started,
		"queueSize": s.queueSize,
		"profile":   string(s.profile),
		"snapshot":  s.store.Stats(ctx),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["uptime"] = time.Since(s.startedAt).Round(time.Second).String()
		metrics.UpdateInboxSize(queueLen)
	}

	return stats
}
