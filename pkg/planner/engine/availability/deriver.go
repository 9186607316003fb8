// Package availability derives per-workstation unavailability windows from explicit
// downtime records and from jobs still running on a machine.
package availability

import (
	"sort"
	"time"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// Input is everything the deriver needs for one run.
type Input struct {
	Downtimes   []model.DowntimeRecord
	Orders      map[string]model.Order
	Cycle       model.CycleTable
	PresentTime time.Time
	Rules       model.Rules
	// TimeUnitSeconds converts cycle-table values to wall-clock time.
	TimeUnitSeconds float64
}

// Report counts windows kept and skipped by reason.
type Report struct {
	Explicit          int
	SkippedIncomplete int
	SkippedElapsed    int
	SkippedOngoing    int

	Inferred           int
	SkippedNoEvent     int
	SkippedNoPosition  int
	SkippedNoProduct   int
	SkippedNoCycleTime int
	SkippedNoneLeft    int
}

// Counts flattens the report for stage listeners.
func (r Report) Counts() map[string]int {
	return map[string]int{
		"explicit_windows":          r.Explicit,
		"skipped_incomplete":        r.SkippedIncomplete,
		"skipped_elapsed":           r.SkippedElapsed,
		"skipped_ongoing":           r.SkippedOngoing,
		"inferred_windows":          r.Inferred,
		"skipped_no_start_event":    r.SkippedNoEvent,
		"skipped_no_position":       r.SkippedNoPosition,
		"skipped_no_product":        r.SkippedNoProduct,
		"skipped_no_cycle_time":     r.SkippedNoCycleTime,
		"skipped_no_remaining_time": r.SkippedNoneLeft,
	}
}

// Derive returns the unavailability table.
//
// Explicit windows are kept only when they lie strictly in the future: records missing a bound,
// records that ended before present time and records that already started are dropped.
// With Rules.InferRunningWindows, every running order additionally occupies the workstation of
// its latest START event from present time for the remaining expected processing time.
func Derive(in Input) (model.DowntimeTable, Report) {
	table := model.DowntimeTable{}
	var rep Report

	for _, d := range in.Downtimes {
		switch {
		case d.DowntimeStart == nil || d.DowntimeEnd == nil || d.WorkstationCode == "":
			rep.SkippedIncomplete++
		case d.DowntimeEnd.Before(in.PresentTime):
			rep.SkippedElapsed++
		case d.DowntimeStart.Before(in.PresentTime):
			rep.SkippedOngoing++
		default:
			table.Add(d.WorkstationCode, model.Window{
				Start:  *d.DowntimeStart,
				End:    *d.DowntimeEnd,
				Source: model.WindowSourceDowntime,
			})
			rep.Explicit++
		}
	}

	if in.Rules.InferRunningWindows {
		inferRunning(table, in, &rep)
	}
	return table, rep
}

func inferRunning(table model.DowntimeTable, in Input, rep *Report) {
	unit := in.TimeUnitSeconds
	if unit <= 0 {
		unit = 60
	}

	numbers := make([]string, 0, len(in.Orders))
	for n, o := range in.Orders {
		if o.CurrentlyRunning {
			numbers = append(numbers, n)
		}
	}
	sort.Strings(numbers)

	for _, n := range numbers {
		order := in.Orders[n]
		ev := order.LatestEvent
		if ev == nil || ev.Type != model.EventTypeStart {
			rep.SkippedNoEvent++
			continue
		}
		if !ev.HasPosition() {
			rep.SkippedNoPosition++
			continue
		}
		if order.Product == "" {
			rep.SkippedNoProduct++
			continue
		}
		perUnit, ok := in.Cycle.Lookup(*ev.RouteStepIndex-1, order.Product, ev.WorkstationCode)
		if !ok {
			rep.SkippedNoCycleTime++
			continue
		}

		expected := time.Duration(order.Quantity * perUnit * unit * float64(time.Second))
		elapsed := in.PresentTime.Sub(ev.Time)
		if elapsed < 0 {
			elapsed = 0
		}
		left := expected - elapsed
		if left <= 0 {
			rep.SkippedNoneLeft++
			continue
		}
		table.Add(ev.WorkstationCode, model.Window{
			Start:  in.PresentTime,
			End:    in.PresentTime.Add(left),
			Source: model.WindowSourceRunningJob,
		})
		rep.Inferred++
	}
}
