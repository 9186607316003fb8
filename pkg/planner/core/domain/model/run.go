package model

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the outcome of a synthesis run or stage.
type RunStatus string

const (
	RunStatusStarted   RunStatus = "STARTED"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Stage names of the synthesis pipeline.
const (
	StageScope        = "scope"
	StageStructure    = "structure"
	StageNormalize    = "normalize"
	StageReconcile    = "reconcile"
	StageAvailability = "availability"
	StageSchedule     = "current_schedule"
	StageAssemble     = "assemble"
)

// SynthesisRun tracks one execution of the pipeline for observability listeners.
type SynthesisRun struct {
	RunMetadata
	StartTime time.Time
	EndTime   time.Time
	Status    RunStatus
	Err       error
	// Summary is filled once the instance is assembled.
	Summary InstanceSummary
}

// InstanceSummary holds the sizes of an assembled instance.
type InstanceSummary struct {
	Orders          int
	Products        int
	Routes          int
	DowntimeWindows int
}

// NewSynthesisRun creates a run with a fresh id.
func NewSynthesisRun(meta RunMetadata, now time.Time) *SynthesisRun {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	return &SynthesisRun{RunMetadata: meta, StartTime: now, Status: RunStatusStarted}
}

// Finish marks the run as completed or failed.
func (r *SynthesisRun) Finish(now time.Time, err error) {
	r.EndTime = now
	r.Err = err
	if err != nil {
		r.Status = RunStatusFailed
	} else {
		r.Status = RunStatusCompleted
	}
}

// Duration returns the elapsed run time (zero until finished).
func (r *SynthesisRun) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// StageExecution tracks one pipeline stage within a run.
type StageExecution struct {
	ID        string
	RunID     string
	TenantID  string
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Status    RunStatus
	Err       error
	// Counts holds per-stage counters, e.g. records skipped by reason or routes padded.
	Counts map[string]int
}

// NewStageExecution creates a stage execution belonging to run.
func NewStageExecution(run *SynthesisRun, name string, now time.Time) *StageExecution {
	return &StageExecution{
		ID:        uuid.NewString(),
		RunID:     run.RunID,
		TenantID:  run.TenantID,
		Name:      name,
		StartTime: now,
		Status:    RunStatusStarted,
		Counts:    map[string]int{},
	}
}

// Finish marks the stage as completed or failed.
func (s *StageExecution) Finish(now time.Time, err error) {
	s.EndTime = now
	s.Err = err
	if err != nil {
		s.Status = RunStatusFailed
	} else {
		s.Status = RunStatusCompleted
	}
}

// Duration returns the elapsed stage time (zero until finished).
func (s *StageExecution) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Merge adds counts to the stage counters, ignoring zero values.
func (s *StageExecution) Merge(counts map[string]int) {
	for k, v := range counts {
		if v != 0 {
			s.Counts[k] += v
		}
	}
}
