package model

import "time"

// ScheduledStep is one job card of the currently stored schedule.
type ScheduledStep struct {
	ProcessIndex int
	Workstation  string
	Start        *time.Time
	End          *time.Time
}

// RunMetadata identifies one synthesis run.
type RunMetadata struct {
	RunID       string
	TenantID    string
	Variant     Variant
	Trigger     string
	PresentTime time.Time
}

// Instance is the planning instance handed to the external scheduler.
// It is built fresh per request and never persisted.
type Instance struct {
	Metadata RunMetadata

	Cycle     CycleTable
	MinBatch  MinBatchTable
	Routes    RouteTable
	Orders    map[string]Order
	Downtimes DowntimeTable

	// CurrentSchedule is keyed by work-order number; only set for timestamp instances.
	CurrentSchedule map[string][]ScheduledStep
	MaxProcTime     int
	FirstShiftEnd   time.Time
	Shift           ShiftPolicy
	Operations      OperationalProfile
}
