package domain

import (
	"fmt"
	"time"
)

type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunPartial RunStatus = "partial"
	RunFatal   RunStatus = "fatal"
)

// Failure is one skipped unit of work inside an otherwise running pipeline.
type Failure struct {
	Scope string // "category", "product", "classify", ...
	Key   string // label, ASIN, post id
	Err   error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s %s: %v", f.Scope, f.Key, f.Err)
}

// RunResult is what every pipeline entry point returns. Notification is a
// separate consumer of it.
type RunResult struct {
	RunID      string
	Pipeline   string
	Status     RunStatus
	Fetched    int // new records gathered this run
	Total      int // records in the store after the run
	Merge      MergeStats
	Failures   []Failure
	Alert      *Table // non-empty when spike detection flagged something
	Output     string // file written, when the pipeline writes one
	Err        error  // set when Status is RunFatal
	StartedAt  time.Time
	FinishedAt time.Time
}

// Fail records a skipped unit of work.
func (r *RunResult) Fail(scope, key string, err error) {
	r.Failures = append(r.Failures, Failure{Scope: scope, Key: key, Err: err})
}

// Finish settles Status from the collected failures unless the run is already fatal.
func (r *RunResult) Finish(err error) {
	r.FinishedAt = time.Now().UTC()
	switch {
	case err != nil:
		r.Status = RunFatal
		r.Err = err
	case len(r.Failures) > 0:
		r.Status = RunPartial
	default:
		r.Status = RunSuccess
	}
}

func (r RunResult) NoNewData() bool { return r.Status != RunFatal && r.Fetched == 0 }

func (r RunResult) HasAlert() bool { return r.Alert != nil && !r.Alert.Empty() }

func (r RunResult) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// MergeStats summarises an upsert-by-key.
type MergeStats struct {
	Existing int
	Incoming int
	Inserted int
	Replaced int
	Total    int
}
