package model

import (
	"sort"
	"time"
)

// WindowSource tells where an unavailability window came from.
type WindowSource string

const (
	// WindowSourceDowntime is an explicit planned downtime record.
	WindowSourceDowntime WindowSource = "downtime"
	// WindowSourceRunningJob is the projected remainder of a job currently running on the machine.
	WindowSourceRunningJob WindowSource = "running_job"
)

// Window is a [Start, End] interval during which a workstation is unavailable.
type Window struct {
	Start  time.Time
	End    time.Time
	Source WindowSource
}

// DowntimeTable maps workstation code -> unavailability windows in insertion order.
type DowntimeTable map[string][]Window

// Add appends w to the windows of workstation.
func (t DowntimeTable) Add(workstation string, w Window) {
	t[workstation] = append(t[workstation], w)
}

// Workstations returns the workstation codes in sorted order.
func (t DowntimeTable) Workstations() []string {
	out := make([]string, 0, len(t))
	for ws := range t {
		out = append(out, ws)
	}
	sort.Strings(out)
	return out
}

// Count returns the total number of windows.
func (t DowntimeTable) Count() int {
	n := 0
	for _, ws := range t {
		n += len(ws)
	}
	return n
}
