package viewer

import "github.com/okian/runscope/internal/domain/model"

// runPages exposes a run's metrics to the pager.
type runPages struct {
	run *model.Run
}

func (p runPages) Len() int {
	if p.run == nil {
		return 0
	}
	return p.run.MetricCount
}

func (p runPages) Value(i int) string { return p.run.Metric(i).Value }
