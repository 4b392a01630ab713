// Package model contains the run/metric data model shared by the store, the
// viewer and the surface.
//
// Collections are fixed-capacity arrays. Inserts saturate and report
// ErrAtCapacity instead of growing, and element addresses stay stable for the
// life of a snapshot so animation state can reference metrics directly.
package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/okian/runscope/internal/domain/fixedpoint"
)

// Capacities of the bounded collections and text fields.
const (
	MaxRuns           = 10
	MaxMetricsPerRun  = 18
	MaxHistoryPoints  = 20
	MaxNameLength     = 31
	MaxValueLength    = 15
	MaxStatusLength   = 15
	compactMetricsCap = 8
)

// Profile selects deployment-dependent capacities.
type Profile string

// Known profiles.
const (
	ProfileStandard Profile = "standard"
	ProfileCompact  Profile = "compact"
)

// Valid reports whether p is a known profile.
func (p Profile) Valid() bool {
	return p == ProfileStandard || p == ProfileCompact
}

// MetricLimit returns the number of metrics a run holds under p.
func (p Profile) MetricLimit() int {
	if p == ProfileCompact {
		return compactMetricsCap
	}
	return MaxMetricsPerRun
}

// Metric is one named value with its recent history, oldest first.
type Metric struct {
	Name         string
	Value        string
	History      [MaxHistoryPoints]int64
	HistoryCount int
}

// NewMetric builds a metric, truncating text fields and history to capacity.
func NewMetric(name, value string, history []int64) Metric {
	m := Metric{
		Name:  Truncate(name, MaxNameLength),
		Value: Truncate(value, MaxValueLength),
	}
	m.SetHistory(history)
	return m
}

// SetHistory replaces the history with the first MaxHistoryPoints samples of
// values and returns how many were kept.
func (m *Metric) SetHistory(values []int64) int {
	m.HistoryCount = copy(m.History[:], values)
	return m.HistoryCount
}

// Samples returns the populated history. The slice aliases the metric.
func (m *Metric) Samples() []int64 {
	return m.History[:m.HistoryCount]
}

// HasData reports whether at least one sample is present.
func (m *Metric) HasData() bool { return m.HistoryCount > 0 }

// Newest returns the index of the newest sample, -1 when empty.
func (m *Metric) Newest() int { return m.HistoryCount - 1 }

// Scaled parses the authoritative value text.
func (m *Metric) Scaled() fixedpoint.Value { return fixedpoint.Parse(m.Value) }

// DisplayName is the upper-cased name shown in the detail view.
func (m *Metric) DisplayName() string { return strings.ToUpper(m.Name) }

// Run is a single training run and the metrics loaded for it.
type Run struct {
	Name        string
	Owner       string
	Status      string
	Metrics     [MaxMetricsPerRun]Metric
	MetricCount int

	limit int
}

// NewRun builds a run with truncated labels and no metrics.
func NewRun(name, owner, status string) Run {
	return Run{
		Name:   Truncate(name, MaxNameLength),
		Owner:  Truncate(owner, MaxNameLength),
		Status: Truncate(status, MaxStatusLength),
	}
}

// Capacity returns how many metrics the run accepts.
func (r *Run) Capacity() int {
	if r.limit <= 0 || r.limit > MaxMetricsPerRun {
		return MaxMetricsPerRun
	}
	return r.limit
}

// Full reports whether another metric would be rejected.
func (r *Run) Full() bool { return r.MetricCount >= r.Capacity() }

// ResetMetrics drops every metric.
func (r *Run) ResetMetrics() {
	r.Metrics = [MaxMetricsPerRun]Metric{}
	r.MetricCount = 0
}

// AppendMetric stores m or returns ErrAtCapacity.
func (r *Run) AppendMetric(m Metric) error {
	if r.Full() {
		return ErrAtCapacity
	}
	r.Metrics[r.MetricCount] = m
	r.MetricCount++
	return nil
}

// Metric returns the i-th metric or nil.
func (r *Run) Metric(i int) *Metric {
	if i < 0 || i >= r.MetricCount {
		return nil
	}
	return &r.Metrics[i]
}

// Snapshot is the bounded run collection plus delivery bookkeeping.
type Snapshot struct {
	Runs        [MaxRuns]Run
	RunCount    int
	Expected    int
	Received    int
	Complete    bool
	CompletedAt time.Time

	profile Profile
}

// NewSnapshot returns an empty snapshot using profile capacities.
func NewSnapshot(p Profile) *Snapshot {
	if !p.Valid() {
		p = ProfileStandard
	}
	return &Snapshot{profile: p}
}

// Profile returns the snapshot's deployment profile.
func (s *Snapshot) Profile() Profile {
	if s.profile == "" {
		return ProfileStandard
	}
	return s.profile
}

// Reset discards every run and opens a new delivery of expected runs. A
// delivery of zero runs is complete at once.
func (s *Snapshot) Reset(expected int, now time.Time) {
	p := s.profile
	*s = Snapshot{profile: p, Expected: expected}
	if expected <= 0 {
		s.Expected = 0
		s.markComplete(now)
	}
}

// AppendRun stores r or returns ErrAtCapacity.
func (s *Snapshot) AppendRun(r Run) error {
	if s.RunCount >= MaxRuns {
		return ErrAtCapacity
	}
	r.limit = s.Profile().MetricLimit()
	s.Runs[s.RunCount] = r
	s.RunCount++
	return nil
}

// MarkReceived counts a delivered run tuple and reports whether the delivery
// just completed. Completion is reached at the expected count or when the
// collection is full, whichever comes first.
func (s *Snapshot) MarkReceived(now time.Time) bool {
	s.Received++
	if s.Complete {
		return false
	}
	if s.Received >= s.Expected || s.RunCount >= MaxRuns {
		s.markComplete(now)
		return true
	}
	return false
}

func (s *Snapshot) markComplete(now time.Time) {
	s.Complete = true
	s.CompletedAt = now
}

// Run returns the i-th run or nil.
func (s *Snapshot) Run(i int) *Run {
	if i < 0 || i >= s.RunCount {
		return nil
	}
	return &s.Runs[i]
}

// Len implements grouping.Source.
func (s *Snapshot) Len() int { return s.RunCount }

// Status implements grouping.Source.
func (s *Snapshot) Status(i int) string { return s.Runs[i].Status }

// Truncate shortens s to at most n bytes without splitting a rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
