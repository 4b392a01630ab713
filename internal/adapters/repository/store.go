// Package repository holds the snapshot store: the bounded run/metric
// collection filled from host messages.
package repository

import (
	"context"
	"time"

	"github.com/okian/runscope/internal/domain/message"
	"github.com/okian/runscope/internal/domain/model"
)

// View names the delivery a message belongs to.
type View string

// Deliveries tracked by the store.
const (
	ViewMenu   View = "menu"
	ViewDetail View = "detail"
)

// Outcome reports what applying one host message changed. A single message
// may carry both a count announcement and a tuple, so more than one flag can
// be set.
type Outcome struct {
	RunsStarted      bool
	RunsCompleted    bool
	MetricsStarted   bool
	MetricsCompleted bool
	// Run is the run index metric tuples were routed to, or -1.
	Run     int
	Dropped int
}

// Changed reports whether the outcome is worth forwarding to the viewer.
func (o Outcome) Changed() bool {
	return o.RunsStarted || o.RunsCompleted || o.MetricsStarted || o.MetricsCompleted
}

// Delivery is the bookkeeping of the metric delivery for the targeted run.
type Delivery struct {
	Run         int
	Expected    int
	Received    int
	Announced   bool
	Complete    bool
	StartedAt   time.Time
	CompletedAt time.Time
}

// Stats summarises the store for diagnostics.
type Stats struct {
	Profile         string `json:"profile"`
	Runs            int    `json:"runs"`
	RunsExpected    int    `json:"runs_expected"`
	RunsReceived    int    `json:"runs_received"`
	RunsComplete    bool   `json:"runs_complete"`
	Target          int    `json:"target"`
	Metrics         int    `json:"metrics"`
	MetricsExpected int    `json:"metrics_expected"`
	MetricsComplete bool   `json:"metrics_complete"`
	Applied         uint64 `json:"applied"`
	Dropped         uint64 `json:"dropped"`
}

// Store provides serialized writes and shared reads of the snapshot.
type Store interface {
	// Apply folds one host message into the snapshot.
	Apply(ctx context.Context, msg message.Message, now time.Time) Outcome

	// Target routes subsequent metric tuples to the run at index.
	// Returns ErrNoSuchRun if the index is out of range.
	Target(ctx context.Context, index int) error

	// View calls fn with the snapshot held under the read lock. Element
	// addresses are stable, but they may only be dereferenced inside fn.
	View(fn func(s *model.Snapshot, d Delivery))

	// Stats returns a summary of the current state.
	Stats(ctx context.Context) Stats
}
