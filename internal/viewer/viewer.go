// Package viewer is the root UI state of the run viewer: menu selection,
// delivery loading and timeouts, and the detail view's pager and scrub
// machine. It is driven from a single event loop and reads the snapshot
// store under its read lock for the duration of each call.
package viewer

import (
	"context"
	"time"

	"github.com/okian/runscope/internal/adapters/repository"
	"github.com/okian/runscope/internal/domain/anim"
	"github.com/okian/runscope/internal/domain/grouping"
	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/internal/domain/pager"
	"github.com/okian/runscope/internal/domain/scrub"
	"github.com/okian/runscope/internal/domain/series"
	"github.com/okian/runscope/pkg/logger"
	"github.com/okian/runscope/pkg/metrics"
)

// Failure texts shown when a delivery times out.
const (
	RunsFailedText    = "Could not load runs. Check your API key."
	MetricsFailedText = "Error"
	NoMetricsText     = "NO METRICS"
)

// Mode is the visible screen.
type Mode uint8

// Screens.
const (
	ModeMenu Mode = iota
	ModeDetail
)

// LoadState is the state of a delivery as the user sees it.
type LoadState uint8

// Delivery states. Failed is terminal until the view is re-entered.
const (
	Loading LoadState = iota
	Loaded
	Failed
)

// String returns the state name.
func (s LoadState) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

// Snapshots is the read side of the snapshot store.
type Snapshots interface {
	View(fn func(s *model.Snapshot, d repository.Delivery))
}

// Requester asks the host for the metrics of a run.
type Requester interface {
	RequestMetrics(ctx context.Context, index int) error
}

// Cursor is the menu selection.
type Cursor struct {
	Section int
	Row     int
}

// Viewer owns all UI state. It is not safe for concurrent use.
type Viewer struct {
	store     Snapshots
	requester Requester

	mode       Mode
	menuLoad   LoadState
	detailLoad LoadState
	menuTimer  anim.Timer
	detailTim  anim.Timer
	cursor     Cursor
	run        int

	pager *pager.Controller
	scrub *scrub.Machine

	bounds   series.Rect
	geometry series.Geometry
	points   []series.Point
	dirty    Dirty

	loadTimeout time.Duration
	pagerOpts   []pager.Option
	scrubOpts   []scrub.Option

	logger logger.Logger
}

// New constructs the viewer on the loading menu.
func New(store Snapshots, requester Requester, opts ...Option) *Viewer {
	v := &Viewer{
		store:       store,
		requester:   requester,
		run:         -1,
		bounds:      series.Rect{W: 120, H: 60},
		geometry:    series.DefaultGeometry(),
		loadTimeout: DefaultLoadTimeout,
		logger:      logger.Get().Named("viewer"),
	}

	obs := metricsObserver{}
	v.pagerOpts = []pager.Option{pager.WithObserver(obs)}
	v.scrubOpts = []scrub.Option{scrub.WithObserver(obs)}

	for _, opt := range opts {
		opt(v)
	}

	v.pager = pager.New(v.pagerOpts...)
	v.scrub = scrub.New(v.scrubOpts...)
	v.points = make([]series.Point, 0, model.MaxHistoryPoints)
	v.dirty = DirtyAll

	return v
}

// Start arms the runs delivery timeout. The host is expected to announce
// runs on its own.
func (v *Viewer) Start(now time.Time) {
	v.menuLoad = Loading
	v.menuTimer.Start(now, v.loadTimeout)
	v.store.View(func(s *model.Snapshot, _ repository.Delivery) {
		v.syncMenu(s)
	})
	v.dirty |= DirtyMenu | DirtyLoading
}

// Mode returns the visible screen.
func (v *Viewer) Mode() Mode { return v.mode }

// MenuState returns the runs delivery state.
func (v *Viewer) MenuState() LoadState { return v.menuLoad }

// DetailState returns the metrics delivery state.
func (v *Viewer) DetailState() LoadState { return v.detailLoad }

// Cursor returns the menu selection.
func (v *Viewer) Cursor() Cursor { return v.cursor }

// SelectedRun returns the run index open in the detail view, or -1.
func (v *Viewer) SelectedRun() int { return v.run }

// Pager returns the page scroll controller.
func (v *Viewer) Pager() *pager.Controller { return v.pager }

// Scrub returns the scrub state machine.
func (v *Viewer) Scrub() *scrub.Machine { return v.scrub }

// Busy reports whether a timer or animation needs frame ticks.
func (v *Viewer) Busy() bool {
	return v.menuTimer.Armed() || v.detailTim.Armed() || v.pager.Busy() || v.scrub.Busy()
}

// SetGraphBounds resizes the graph drawing region.
func (v *Viewer) SetGraphBounds(r series.Rect) {
	if r != v.bounds {
		v.bounds = r
		v.dirty |= DirtyGraph
	}
}

// HandleOutcome reacts to a delivery outcome reported by the store. The
// store itself is consulted for completion, so stale outcomes are harmless.
func (v *Viewer) HandleOutcome(ctx context.Context, now time.Time, out repository.Outcome) {
	if out.RunsStarted {
		if v.mode == ModeDetail {
			v.logger.Info(ctx, "runs replaced while viewing a run, returning to menu", logger.Int("run", v.run))
			v.closeDetail()
		}
		v.menuLoad = Loading
		v.menuTimer.Start(now, v.loadTimeout)
		v.cursor = Cursor{}
		v.dirty |= DirtyMenu | DirtyLoading
	}
	if out.MetricsStarted && v.mode == ModeDetail && out.Run == v.run {
		// The run's metrics are being replaced under the pager and scrub.
		v.pager.Cancel()
		v.scrub.Cancel()
		v.detailLoad = Loading
		v.detailTim.Start(now, v.loadTimeout)
		v.dirty |= DirtyDetail
	}

	v.store.View(func(s *model.Snapshot, d repository.Delivery) {
		v.syncMenu(s)
		v.syncDetail(s, d)
	})
}

func (v *Viewer) syncMenu(s *model.Snapshot) {
	if v.menuLoad != Loading || !s.Complete {
		return
	}
	v.menuLoad = Loaded
	v.menuTimer.Stop()
	v.clampCursor(s)
	v.dirty |= DirtyMenu | DirtyLoading
}

func (v *Viewer) syncDetail(s *model.Snapshot, d repository.Delivery) {
	if v.mode != ModeDetail || v.detailLoad != Loading {
		return
	}
	if d.Run != v.run || !d.Complete {
		return
	}
	v.detailLoad = Loaded
	v.detailTim.Stop()
	v.pager.Reset(runPages{run: s.Run(v.run)})
	v.dirty |= DirtyDetail
}

// Tick advances timers and animations for one frame and reports whether
// anything visible changed.
func (v *Viewer) Tick(now time.Time) bool {
	start := time.Now()
	defer func() {
		metrics.RecordFrameDuration(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if v.menuTimer.Fire(now) && v.menuLoad == Loading {
		v.menuLoad = Failed
		metrics.RecordLoadTimeout(string(repository.ViewMenu))
		v.dirty |= DirtyMenu | DirtyLoading
	}
	if v.detailTim.Fire(now) && v.mode == ModeDetail && v.detailLoad == Loading {
		v.detailLoad = Failed
		metrics.RecordLoadTimeout(string(repository.ViewDetail))
		v.dirty |= DirtyDetail
	}

	v.store.View(func(_ *model.Snapshot, _ repository.Delivery) {
		if v.pager.Tick(now) {
			v.dirty |= DirtyValue | DirtyName | DirtyPanels | DirtyGraph | DirtyPage
		}
		if v.scrub.Tick(now) {
			v.dirty |= DirtyValue | DirtyName | DirtyGraph
		}
	})

	return v.dirty != 0
}

// TakeDirty returns the accumulated dirty flags and clears them.
func (v *Viewer) TakeDirty() Dirty {
	d := v.dirty
	v.dirty = 0
	return d
}

func (v *Viewer) closeDetail() {
	v.pager.Cancel()
	v.scrub.Cancel()
	v.detailTim.Stop()
	v.mode = ModeMenu
	v.run = -1
	v.dirty |= DirtyAll
}

func (v *Viewer) clampCursor(s *model.Snapshot) {
	sections := grouping.SectionCount(s)
	if sections == 0 {
		v.cursor = Cursor{}
		return
	}
	if v.cursor.Section >= sections {
		v.cursor.Section = sections - 1
	}
	if rows := grouping.RowCount(s, v.cursor.Section); v.cursor.Row >= rows {
		v.cursor.Row = rows - 1
	}
}
