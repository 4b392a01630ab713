// Package types contains the JSON shapes served by the diagnostics API.
package types

import "time"

// Snapshot is the grouped view of the runs held by the viewer.
type Snapshot struct {
	Profile     string    `json:"profile"`
	Complete    bool      `json:"complete"`
	Expected    int       `json:"expected"`
	Received    int       `json:"received"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
	Age         string    `json:"age,omitempty"`
	Sections    []Section `json:"sections"`
}

// Section is one status group in first-appearance order.
type Section struct {
	Status string `json:"status"`
	Runs   []Run  `json:"runs"`
}

// Run is a menu row plus any metrics delivered for it.
type Run struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Owner   string   `json:"owner"`
	Status  string   `json:"status"`
	Metrics []Metric `json:"metrics,omitempty"`
}

// Metric is a metric page with its raw history.
type Metric struct {
	Name    string  `json:"name"`
	Value   string  `json:"value"`
	Scaled  int64   `json:"scaled"`
	History []int64 `json:"history"`
}
