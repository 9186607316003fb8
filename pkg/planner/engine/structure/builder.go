// Package structure builds the cycle-time, minimum-batch and route tables of a planning instance.
package structure

import (
	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// Report counts route steps left out of each table.
type Report struct {
	Steps           int
	NoWorkstation   int
	NoCycleTime     int
	NoMinBatch      int
	InvalidSequence int
	CycleEntries    int
	MinBatchEntries int
	RoutesBuilt     int
}

// Counts flattens the report for stage listeners.
func (r Report) Counts() map[string]int {
	return map[string]int{
		"steps":                    r.Steps,
		"skipped_no_workstation":   r.NoWorkstation,
		"skipped_no_cycle_time":    r.NoCycleTime,
		"skipped_no_min_batch":     r.NoMinBatch,
		"skipped_invalid_sequence": r.InvalidSequence,
		"cycle_entries":            r.CycleEntries,
		"min_batch_entries":        r.MinBatchEntries,
		"routes":                   r.RoutesBuilt,
	}
}

// Build derives the lookup tables from route steps ordered by product, route and sequence.
//
// Cycle times are converted from seconds to instance units of timeUnitSeconds. When several
// steps share (process index, product, workstation) the later one wins. Minimum batches of
// zero or less are omitted. Steps without a workstation are left out of all three tables
// but still count towards the product's last process index.
func Build(steps []model.RouteStepRecord, timeUnitSeconds float64) (model.Structure, Report) {
	s := model.NewStructure()
	rep := Report{Steps: len(steps)}
	if len(steps) == 0 {
		return s, rep
	}
	if timeUnitSeconds <= 0 {
		timeUnitSeconds = 60
	}

	type routeKey struct {
		product string
		routeID int64
	}
	routePos := make(map[routeKey]int)

	for _, step := range steps {
		if last, ok := s.LastProcess[step.ProductID]; !ok || step.SequenceIndex-1 > last {
			s.LastProcess[step.ProductID] = step.SequenceIndex - 1
		}

		if step.WorkstationCode == nil || *step.WorkstationCode == "" || step.ProductCode == "" {
			rep.NoWorkstation++
			continue
		}
		ws := *step.WorkstationCode

		key := routeKey{product: step.ProductCode, routeID: step.RouteID}
		pos, ok := routePos[key]
		if !ok {
			pos = len(s.Routes[step.ProductCode])
			routePos[key] = pos
			s.Routes[step.ProductCode] = append(s.Routes[step.ProductCode], nil)
			rep.RoutesBuilt++
		}
		s.Routes[step.ProductCode][pos] = append(s.Routes[step.ProductCode][pos], ws)

		if step.MinBatchQty != nil && *step.MinBatchQty > 0 {
			s.MinBatch.Set(step.ProductCode, ws, *step.MinBatchQty)
		} else {
			rep.NoMinBatch++
		}

		switch {
		case step.CycleSeconds == nil:
			rep.NoCycleTime++
		case step.SequenceIndex < 1:
			rep.InvalidSequence++
		default:
			s.Cycle.Set(step.SequenceIndex-1, step.ProductCode, ws, *step.CycleSeconds/timeUnitSeconds)
		}
	}

	for _, byProduct := range s.Cycle {
		for _, byWs := range byProduct {
			rep.CycleEntries += len(byWs)
		}
	}
	for _, byWs := range s.MinBatch {
		rep.MinBatchEntries += len(byWs)
	}
	return s, rep
}
