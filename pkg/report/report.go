// Package report collects scenario outcomes during a run and writes them as
// run.json and summary.md.
package report

import (
	"sync"
	"time"
)

// Status is a scenario outcome.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"

	// StatusUndefined and StatusPending mark scenarios that stopped at a
	// step with no definition or a pending one
	StatusUndefined Status = "undefined"
	StatusPending   Status = "pending"
)

// ScenarioResult is one scenario's outcome and the artifacts captured for it.
type ScenarioResult struct {
	Name       string        `json:"name"`
	URI        string        `json:"uri,omitempty"`
	Tags       []string      `json:"tags,omitempty"`
	Status     Status        `json:"status"`
	Error      string        `json:"error,omitempty"`
	FailedStep string        `json:"failed_step,omitempty"`
	Steps      int           `json:"steps"`
	StartTime  time.Time     `json:"start_time"`
	Duration   time.Duration `json:"duration"`
	Screenshot string        `json:"screenshot,omitempty"`
	DOM        string        `json:"dom,omitempty"`
}

// RunSummary is the whole run.
type RunSummary struct {
	RunID       string           `json:"run_id"`
	Environment string           `json:"environment"`
	BaseURL     string           `json:"base_url"`
	Browser     string           `json:"browser"`
	Status      string           `json:"status"`
	Error       string           `json:"error,omitempty"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Duration    time.Duration    `json:"duration"`
	Scenarios   []ScenarioResult `json:"scenarios"`
	Metrics     RunMetrics       `json:"metrics"`
}

// RunMetrics counts scenarios by outcome.
type RunMetrics struct {
	Total     int `json:"total"`
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Undefined int `json:"undefined"`
	Pending   int `json:"pending"`
}

// Recorder accumulates scenario results. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	results []ScenarioResult
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		results: make([]ScenarioResult, 0),
	}
}

// RecordScenario appends r.
func (rec *Recorder) RecordScenario(r ScenarioResult) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.results = append(rec.results, r)
}

// Results returns a copy of the recorded results in order.
func (rec *Recorder) Results() []ScenarioResult {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]ScenarioResult(nil), rec.results...)
}

// Metrics counts the recorded results by status.
func (rec *Recorder) Metrics() RunMetrics {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	var m RunMetrics
	for _, r := range rec.results {
		m.Total++
		switch r.Status {
		case StatusPassed:
			m.Passed++
		case StatusFailed:
			m.Failed++
		case StatusSkipped:
			m.Skipped++
		case StatusUndefined:
			m.Undefined++
		case StatusPending:
			m.Pending++
		}
	}
	return m
}

// Summarize fills summary's scenarios, metrics and status from the recorder.
func (rec *Recorder) Summarize(summary *RunSummary) {
	summary.Scenarios = rec.Results()
	summary.Metrics = rec.Metrics()
	if summary.Status == "" {
		summary.Status = "passed"
		if summary.Metrics.Failed > 0 {
			summary.Status = "failed"
		}
	}
	if !summary.EndTime.IsZero() && !summary.StartTime.IsZero() {
		summary.Duration = summary.EndTime.Sub(summary.StartTime)
	}
}
