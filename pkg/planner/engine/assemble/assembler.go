// Package assemble composes the derived tables into a planning instance and serializes it
// in either the numeric or the timestamp representation.
package assemble

import (
	"time"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// Input gathers the outputs of the earlier stages.
type Input struct {
	Metadata        model.RunMetadata
	Structure       model.Structure
	Orders          map[string]model.Order
	Downtimes       model.DowntimeTable
	CurrentSchedule map[string][]model.ScheduledStep
	Policy          model.Policy
}

// Assemble builds the instance. The only derivation performed here is the first shift end.
func Assemble(in Input) *model.Instance {
	inst := &model.Instance{
		Metadata:        in.Metadata,
		Cycle:           in.Structure.Cycle,
		MinBatch:        in.Structure.MinBatch,
		Routes:          in.Structure.Routes,
		Orders:          in.Orders,
		Downtimes:       in.Downtimes,
		CurrentSchedule: in.CurrentSchedule,
		MaxProcTime:     in.Policy.MaxProcTime,
		Shift:           in.Policy.Shift,
		Operations:      in.Policy.Operations,
	}
	if inst.Cycle == nil {
		inst.Cycle = model.CycleTable{}
	}
	if inst.MinBatch == nil {
		inst.MinBatch = model.MinBatchTable{}
	}
	if inst.Routes == nil {
		inst.Routes = model.RouteTable{}
	}
	if inst.Orders == nil {
		inst.Orders = map[string]model.Order{}
	}
	if inst.Downtimes == nil {
		inst.Downtimes = model.DowntimeTable{}
	}
	if in.Metadata.Variant == model.VariantTimestamp && inst.CurrentSchedule == nil {
		inst.CurrentSchedule = map[string][]model.ScheduledStep{}
	}
	inst.FirstShiftEnd = FirstShiftEnd(in.Metadata.PresentTime, in.Policy.Shift, in.Policy.Location)
	return inst
}

// FirstShiftEnd returns the earliest daily shift boundary strictly after present,
// evaluated on the wall clock of loc (UTC when nil).
func FirstShiftEnd(present time.Time, shift model.ShiftPolicy, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := present.In(loc)
	first, second := shift.NightShiftEnd.On(local), shift.DayShiftEnd.On(local)
	if second.Before(first) {
		first, second = second, first
	}
	switch {
	case local.Before(first):
		return first
	case local.Before(second):
		return second
	default:
		next := local.AddDate(0, 0, 1)
		if shift.DayShiftEnd.On(next).Before(shift.NightShiftEnd.On(next)) {
			return shift.DayShiftEnd.On(next)
		}
		return shift.NightShiftEnd.On(next)
	}
}

// BuildCurrentSchedule groups job cards by work-order number, keeping their order.
// A missing step index is reported as 0.
func BuildCurrentSchedule(cards []model.JobCardRecord) map[string][]model.ScheduledStep {
	out := make(map[string][]model.ScheduledStep)
	for _, c := range cards {
		idx := 0
		if c.StepIndex != nil {
			idx = *c.StepIndex
		}
		out[c.WorkOrderNumber] = append(out[c.WorkOrderNumber], model.ScheduledStep{
			ProcessIndex: idx,
			Workstation:  c.WorkstationCode,
			Start:        c.StartTimeUTC,
			End:          c.EndTimeUTC,
		})
	}
	return out
}

// Summarize returns the sizes of inst.
func Summarize(inst *model.Instance) model.InstanceSummary {
	return model.InstanceSummary{
		Orders:          len(inst.Orders),
		Products:        len(inst.Routes),
		Routes:          inst.Routes.RouteCount(),
		DowntimeWindows: inst.Downtimes.Count(),
	}
}
