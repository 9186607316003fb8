// Package padding equalizes route lengths per product by appending a sentinel workstation,
// and extends the capacity tables for exactly the positions that were padded.
package padding

import (
	"sort"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// Report counts the padding applied.
type Report struct {
	PaddedProducts  int
	PaddedRoutes    int
	CycleDefaults   int
	MinBatchDefault int
}

// Counts flattens the report for stage listeners.
func (r Report) Counts() map[string]int {
	return map[string]int{
		"padded_products":        r.PaddedProducts,
		"padded_routes":          r.PaddedRoutes,
		"sentinel_cycle_entries": r.CycleDefaults,
		"sentinel_batch_entries": r.MinBatchDefault,
	}
}

// Normalize returns a copy of s in which every product's routes have the length of its longest route.
//
// Short routes are extended with policy.SentinelWorkstation. For products that needed padding,
// the minimum-batch table gains (product, sentinel) and the cycle table gains
// (index, product, sentinel) for each index in [original length, max length) of any padded
// route, in both cases only when absent. The input is not modified, and normalizing an
// already normalized structure changes nothing.
func Normalize(s model.Structure, policy model.Policy) (model.Structure, Report) {
	out := model.Structure{
		Cycle:       s.Cycle.Clone(),
		MinBatch:    s.MinBatch.Clone(),
		Routes:      s.Routes.Clone(),
		LastProcess: make(map[int64]int, len(s.LastProcess)),
	}
	for k, v := range s.LastProcess {
		out.LastProcess[k] = v
	}
	if out.Cycle == nil {
		out.Cycle = model.CycleTable{}
	}
	if out.MinBatch == nil {
		out.MinBatch = model.MinBatchTable{}
	}

	var rep Report
	sentinel := policy.SentinelWorkstation

	for _, product := range out.Routes.Products() {
		routes := out.Routes[product]
		maxLen := 0
		for _, r := range routes {
			if len(r) > maxLen {
				maxLen = len(r)
			}
		}
		if maxLen <= 0 {
			continue
		}

		padded := make(map[int]struct{})
		for i, r := range routes {
			if len(r) >= maxLen {
				continue
			}
			for idx := len(r); idx < maxLen; idx++ {
				padded[idx] = struct{}{}
				r = append(r, sentinel)
			}
			routes[i] = r
			rep.PaddedRoutes++
		}
		if len(padded) == 0 {
			continue
		}
		rep.PaddedProducts++

		if out.MinBatch.SetIfAbsent(product, sentinel, policy.SentinelMinBatch) {
			rep.MinBatchDefault++
		}
		indices := make([]int, 0, len(padded))
		for idx := range padded {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		for _, idx := range indices {
			if out.Cycle.SetIfAbsent(idx, product, sentinel, policy.SentinelCycleTime) {
				rep.CycleDefaults++
			}
		}
	}
	return out, rep
}
