package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/okian/runscope/internal/adapters/repository"
	"github.com/okian/runscope/internal/domain/grouping"
	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/internal/domain/types"
)

// SnapshotDependencies is the read side of the snapshot store.
type SnapshotDependencies interface {
	View(fn func(s *model.Snapshot, d repository.Delivery))
}

// SnapshotHandler serves the grouped snapshot.
type SnapshotHandler struct {
	deps SnapshotDependencies
	now  func() time.Time
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps SnapshotDependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps, now: time.Now}
}

// HandleGetSnapshot handles GET /snapshot and GET /snapshot?run=N.
func (h *SnapshotHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_snapshot"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	if raw := r.URL.Query().Get("run"); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, ErrBadRequest, err))
			return
		}
		h.writeRun(w, op, index)
		return
	}

	var out types.Snapshot
	h.deps.View(func(s *model.Snapshot, _ repository.Delivery) {
		out = h.build(s)
	})
	writeJSON(w, http.StatusOK, out)
}

func (h *SnapshotHandler) writeRun(w http.ResponseWriter, op string, index int) {
	var (
		run   types.Run
		found bool
	)
	h.deps.View(func(s *model.Snapshot, _ repository.Delivery) {
		if r := s.Run(index); r != nil {
			run, found = toRun(index, r), true
		}
	})
	if !found {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *SnapshotHandler) build(s *model.Snapshot) types.Snapshot {
	out := types.Snapshot{
		Profile:  string(s.Profile()),
		Complete: s.Complete,
		Expected: s.Expected,
		Received: s.Received,
		Sections: []types.Section{},
	}
	if s.Complete {
		out.CompletedAt = s.CompletedAt.UTC()
		out.Age = humanize.RelTime(s.CompletedAt, h.now(), "ago", "from now")
	}

	for _, sec := range grouping.Sections(s) {
		ts := types.Section{Status: sec.Status, Runs: make([]types.Run, 0, len(sec.Runs))}
		for _, i := range sec.Runs {
			ts.Runs = append(ts.Runs, toRun(i, s.Run(i)))
		}
		out.Sections = append(out.Sections, ts)
	}

	return out
}

func toRun(index int, r *model.Run) types.Run {
	out := types.Run{
		Index:  index,
		Name:   r.Name,
		Owner:  r.Owner,
		Status: r.Status,
	}
	for i := 0; i < r.MetricCount; i++ {
		m := r.Metric(i)
		out.Metrics = append(out.Metrics, types.Metric{
			Name:    m.Name,
			Value:   m.Value,
			Scaled:  m.Scaled().Scaled,
			History: append([]int64{}, m.Samples()...),
		})
	}
	return out
}
