package viewer

import (
	"context"
	"time"

	"github.com/okian/runscope/internal/adapters/repository"
	"github.com/okian/runscope/internal/domain/grouping"
	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/internal/domain/pager"
	"github.com/okian/runscope/pkg/logger"
)

// Up handles the up button. In the menu it moves the selection; in the
// detail view it scrolls to the previous page, or steps toward newer samples
// while scrubbing.
func (v *Viewer) Up(now time.Time) { v.direction(now, -1) }

// Down handles the down button.
func (v *Viewer) Down(now time.Time) { v.direction(now, 1) }

// direction applies a menu move (-1 up, +1 down) or its detail equivalent.
func (v *Viewer) direction(now time.Time, dir int) {
	if v.mode == ModeMenu {
		if v.menuLoad != Loaded {
			return
		}
		v.store.View(func(s *model.Snapshot, _ repository.Delivery) {
			v.moveCursor(s, dir)
		})
		return
	}
	if v.detailLoad != Loaded {
		return
	}

	v.store.View(func(s *model.Snapshot, _ repository.Delivery) {
		if v.scrub.Active() {
			// Up moves toward the newest sample.
			if v.scrub.Press(now, -dir) {
				v.dirty |= DirtyValue | DirtyName | DirtyGraph
			}
			return
		}
		if v.pager.Scroll(now, runPages{run: s.Run(v.run)}, pager.Direction(dir)) != pager.Ignored {
			v.dirty |= DirtyValue | DirtyName | DirtyPanels | DirtyGraph | DirtyPage
		}
	})
}

// Hold reports whether an autorepeated key event continues the held scrub
// direction, in which case the repeat timer drives it and the event is
// consumed.
func (v *Viewer) Hold(up bool) bool {
	if v.mode != ModeDetail || !v.scrub.Active() {
		return false
	}
	dir := -1
	if up {
		dir = 1
	}
	return v.scrub.Hold(dir)
}

// Release ends a held direction.
func (v *Viewer) Release() {
	v.scrub.Release()
}

// Select opens the highlighted run from the menu, or toggles scrub mode on
// the displayed metric.
func (v *Viewer) Select(ctx context.Context, now time.Time) {
	if v.mode == ModeMenu {
		v.open(ctx, now)
		return
	}
	if v.detailLoad != Loaded {
		return
	}

	v.store.View(func(s *model.Snapshot, _ repository.Delivery) {
		run := s.Run(v.run)
		if run == nil || run.MetricCount == 0 {
			return
		}
		if !v.scrub.Active() && v.pager.Busy() {
			v.pager.Cancel()
		}
		if v.scrub.Toggle(now, run.Metric(v.pager.DisplayPage())) {
			v.dirty |= DirtyValue | DirtyName | DirtyGraph | DirtyPanels
		}
	})
}

// Back leaves the detail view. It returns false when there is nothing to go
// back to, which the surface treats as a request to quit.
func (v *Viewer) Back(ctx context.Context) bool {
	if v.mode == ModeMenu {
		return false
	}
	v.logger.Debug(ctx, "closing run", logger.Int("run", v.run))
	v.closeDetail()
	return true
}

func (v *Viewer) open(ctx context.Context, now time.Time) {
	if v.menuLoad != Loaded {
		return
	}

	index := -1
	v.store.View(func(s *model.Snapshot, _ repository.Delivery) {
		if i, ok := grouping.RunIndex(s, v.cursor.Section, v.cursor.Row); ok {
			index = i
		}
	})
	if index < 0 {
		return
	}

	v.mode = ModeDetail
	v.run = index
	v.detailLoad = Loading
	v.pager.Reset(nil)
	v.scrub.Cancel()
	v.detailTim.Start(now, v.loadTimeout)
	v.dirty |= DirtyAll

	// Target takes the store's write lock, so it must run outside View.
	if err := v.requester.RequestMetrics(ctx, index); err != nil {
		v.logger.Warn(ctx, "metrics request failed", logger.Int("run", index), logger.Error(err))
		v.detailLoad = Failed
		v.detailTim.Stop()
		return
	}
	v.logger.Debug(ctx, "metrics requested", logger.Int("run", index))

	// Data may already be complete if the host answered synchronously.
	v.store.View(func(s *model.Snapshot, d repository.Delivery) {
		v.syncDetail(s, d)
	})
}

// moveCursor steps through rows, crossing into the neighbouring section at
// either end. It stops at the first and last row.
func (v *Viewer) moveCursor(s *model.Snapshot, dir int) {
	sections := grouping.SectionCount(s)
	if sections == 0 {
		return
	}
	c := v.cursor
	c.Row += dir
	switch {
	case c.Row < 0:
		if c.Section == 0 {
			return
		}
		c.Section--
		c.Row = grouping.RowCount(s, c.Section) - 1
	case c.Row >= grouping.RowCount(s, c.Section):
		if c.Section+1 >= sections {
			return
		}
		c.Section++
		c.Row = 0
	}
	v.cursor = c
	v.dirty |= DirtyMenu
}
