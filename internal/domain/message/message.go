// Package message defines the decoded host messages consumed by the store.
package message

import (
	"encoding/binary"

	"github.com/okian/runscope/internal/domain/model"
)

// SampleSize is the width of one history sample in a history blob.
const SampleSize = 8

// RunTuple describes one run announced by the host.
type RunTuple struct {
	Name   string `json:"name" yaml:"name"`
	Owner  string `json:"owner" yaml:"owner"`
	Status string `json:"status" yaml:"status"`
}

// MetricTuple describes one metric of the run whose metrics were requested.
// History is a packed little-endian int64 blob, oldest sample first.
type MetricTuple struct {
	Name    string `json:"name" yaml:"name"`
	Value   string `json:"value" yaml:"value"`
	History []byte `json:"history,omitempty" yaml:"history,omitempty"`
}

// Message is one decoded host message. Exactly one field is expected to be
// set; when several are, they are applied in declaration order.
type Message struct {
	RunsCount    *int
	Run          *RunTuple
	MetricsCount *int
	Metric       *MetricTuple
}

// Kind names the message for logs and metrics.
func (m Message) Kind() string {
	switch {
	case m.RunsCount != nil:
		return "runs_count"
	case m.Run != nil:
		return "run"
	case m.MetricsCount != nil:
		return "metrics_count"
	case m.Metric != nil:
		return "metric"
	default:
		return "empty"
	}
}

// RunsCount announces a new delivery of n runs.
func RunsCount(n int) Message { return Message{RunsCount: &n} }

// MetricsCount announces n metrics for the requested run.
func MetricsCount(n int) Message { return Message{MetricsCount: &n} }

// Run wraps a run tuple.
func Run(name, owner, status string) Message {
	return Message{Run: &RunTuple{Name: name, Owner: owner, Status: status}}
}

// Metric wraps a metric tuple, encoding history.
func Metric(name, value string, history []int64) Message {
	return Message{Metric: &MetricTuple{Name: name, Value: value, History: EncodeHistory(history)}}
}

// EncodeHistory packs samples as little-endian int64s. At most
// model.MaxHistoryPoints samples are written.
func EncodeHistory(samples []int64) []byte {
	if len(samples) > model.MaxHistoryPoints {
		samples = samples[:model.MaxHistoryPoints]
	}
	if len(samples) == 0 {
		return nil
	}
	out := make([]byte, 0, len(samples)*SampleSize)
	for _, v := range samples {
		out = binary.LittleEndian.AppendUint64(out, uint64(v))
	}
	return out
}

// DecodeHistory unpacks a history blob into dst and returns the number of
// samples written. Trailing bytes that do not form a full sample are ignored
// and the count is capped by len(dst).
func DecodeHistory(dst []int64, blob []byte) int {
	n := len(blob) / SampleSize
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = int64(binary.LittleEndian.Uint64(blob[i*SampleSize:]))
	}
	return n
}

// ToMetric converts the tuple into a bounded model metric.
func (t *MetricTuple) ToMetric() model.Metric {
	m := model.NewMetric(t.Name, t.Value, nil)
	m.HistoryCount = DecodeHistory(m.History[:], t.History)
	return m
}

// ToRun converts the tuple into a bounded model run.
func (t *RunTuple) ToRun() model.Run {
	return model.NewRun(t.Name, t.Owner, t.Status)
}
