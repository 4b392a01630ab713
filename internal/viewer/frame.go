package viewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/runscope/internal/adapters/repository"
	"github.com/okian/runscope/internal/domain/grouping"
	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/internal/domain/scrub"
	"github.com/okian/runscope/internal/domain/series"
)

// Dirty marks the regions of the screen that need redrawing.
type Dirty uint16

// Screen regions.
const (
	DirtyMenu Dirty = 1 << iota
	DirtyLoading
	DirtyStatus
	DirtyName
	DirtyValue
	DirtyPage
	DirtyPanels
	DirtyGraph

	DirtyDetail = DirtyLoading | DirtyStatus | DirtyName | DirtyValue | DirtyPage | DirtyPanels | DirtyGraph
	DirtyAll    = DirtyMenu | DirtyDetail
)

// Has reports whether any of flags is set.
func (d Dirty) Has(flags Dirty) bool { return d&flags != 0 }

// GraphStyle selects how the series is drawn.
type GraphStyle uint8

// Graph styles.
const (
	GraphNone GraphStyle = iota
	GraphLine
	GraphDots
)

// MenuRow is one run in a menu section.
type MenuRow struct {
	Run      int
	Name     string
	Owner    string
	Selected bool
}

// MenuSection is a status header with its runs.
type MenuSection struct {
	Header string
	Rows   []MenuRow
}

// Frame is everything the surface needs to draw one screen.
//
// Points aliases a buffer owned by the viewer and is only valid until the
// next call to Frame.
type Frame struct {
	Mode Mode

	MenuState   LoadState
	MenuMessage string
	Empty       bool
	Sections    []MenuSection
	Cursor      Cursor

	DetailState LoadState
	RunName     string
	RunStatus   string
	Name        string
	Value       string
	Page        string
	Offset      int
	Scrub       scrub.State

	Bounds       series.Rect
	Graph        GraphStyle
	Points       []series.Point
	Indicator    series.Point
	HasIndicator bool

	CompletedAt time.Time
}

// Frame renders the current state.
func (v *Viewer) Frame() Frame {
	f := Frame{
		Mode:        v.mode,
		MenuState:   v.menuLoad,
		Cursor:      v.cursor,
		DetailState: v.detailLoad,
		Scrub:       v.scrub.State(),
		Bounds:      v.bounds,
	}

	v.store.View(func(s *model.Snapshot, _ repository.Delivery) {
		f.CompletedAt = s.CompletedAt
		if v.mode == ModeMenu {
			v.menuFrame(&f, s)
			return
		}
		v.detailFrame(&f, s)
	})

	return f
}

func (v *Viewer) menuFrame(f *Frame, s *model.Snapshot) {
	switch v.menuLoad {
	case Failed:
		f.MenuMessage = RunsFailedText
		return
	case Loading:
		return
	}

	sections := grouping.Sections(s)
	f.Empty = len(sections) == 0
	f.Sections = make([]MenuSection, 0, len(sections))
	for k, sec := range sections {
		ms := MenuSection{
			Header: strings.ToUpper(sec.Status),
			Rows:   make([]MenuRow, 0, len(sec.Runs)),
		}
		for row, i := range sec.Runs {
			run := s.Run(i)
			ms.Rows = append(ms.Rows, MenuRow{
				Run:      i,
				Name:     run.Name,
				Owner:    run.Owner,
				Selected: k == v.cursor.Section && row == v.cursor.Row,
			})
		}
		f.Sections = append(f.Sections, ms)
	}
}

func (v *Viewer) detailFrame(f *Frame, s *model.Snapshot) {
	run := s.Run(v.run)
	if run == nil {
		return
	}
	f.RunName = run.Name
	f.RunStatus = run.Status

	switch v.detailLoad {
	case Failed:
		f.Name = NoMetricsText
		f.Value = MetricsFailedText
		return
	case Loading:
		return
	}

	if run.MetricCount == 0 {
		f.Name = NoMetricsText
		f.Page = "0/0"
		return
	}

	metric := run.Metric(v.pager.DisplayPage())
	if metric == nil {
		return
	}
	f.Page = fmt.Sprintf("%d/%d", v.pager.Page()+1, run.MetricCount)
	f.Offset = v.pager.Offset()
	if v.scrub.Active() {
		f.Name = v.scrub.NameLabel()
		f.Value = v.scrub.ValueText()
	} else {
		f.Name = metric.DisplayName()
		f.Value = v.pager.ValueText()
	}

	v.points = series.AppendLayout(v.points, metric.Samples(), v.bounds, v.geometry)
	f.Points = v.points
	if len(v.points) < 2 {
		return
	}

	f.HasIndicator = true
	if v.scrub.Active() {
		f.Graph = GraphDots
		f.Indicator = series.Indicator(v.points, v.scrub.DisplayedIndex())
		return
	}
	f.Graph = GraphLine
	f.Indicator, _ = series.Last(v.points)
}
