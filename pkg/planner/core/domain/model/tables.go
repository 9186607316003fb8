// Package model defines the domain types of the planning-instance synthesis pipeline:
// raw store records, the capacity and route lookup tables, derived orders and windows,
// and the assembled planning instance.
package model

import "sort"

// CycleTable maps process index -> product code -> workstation code -> time per unit,
// expressed in instance time units.
type CycleTable map[int]map[string]map[string]float64

// Set stores value at (processIdx, product, workstation), creating intermediate maps.
func (t CycleTable) Set(processIdx int, product, workstation string, value float64) {
	byProduct, ok := t[processIdx]
	if !ok {
		byProduct = make(map[string]map[string]float64)
		t[processIdx] = byProduct
	}
	byWorkstation, ok := byProduct[product]
	if !ok {
		byWorkstation = make(map[string]float64)
		byProduct[product] = byWorkstation
	}
	byWorkstation[workstation] = value
}

// SetIfAbsent stores value only when no entry exists and reports whether it did.
func (t CycleTable) SetIfAbsent(processIdx int, product, workstation string, value float64) bool {
	if _, ok := t.Lookup(processIdx, product, workstation); ok {
		return false
	}
	t.Set(processIdx, product, workstation, value)
	return true
}

// Lookup returns the time per unit for (processIdx, product, workstation).
func (t CycleTable) Lookup(processIdx int, product, workstation string) (float64, bool) {
	v, ok := t[processIdx][product][workstation]
	return v, ok
}

// Clone returns a deep copy.
func (t CycleTable) Clone() CycleTable {
	out := make(CycleTable, len(t))
	for idx, byProduct := range t {
		p := make(map[string]map[string]float64, len(byProduct))
		for product, byWorkstation := range byProduct {
			w := make(map[string]float64, len(byWorkstation))
			for ws, v := range byWorkstation {
				w[ws] = v
			}
			p[product] = w
		}
		out[idx] = p
	}
	return out
}

// MinBatchTable maps product code -> workstation code -> minimum batch quantity.
type MinBatchTable map[string]map[string]float64

// Set stores qty at (product, workstation).
func (t MinBatchTable) Set(product, workstation string, qty float64) {
	byWorkstation, ok := t[product]
	if !ok {
		byWorkstation = make(map[string]float64)
		t[product] = byWorkstation
	}
	byWorkstation[workstation] = qty
}

// SetIfAbsent stores qty only when no entry exists and reports whether it did.
func (t MinBatchTable) SetIfAbsent(product, workstation string, qty float64) bool {
	if _, ok := t.Lookup(product, workstation); ok {
		return false
	}
	t.Set(product, workstation, qty)
	return true
}

// Lookup returns the minimum batch for (product, workstation).
func (t MinBatchTable) Lookup(product, workstation string) (float64, bool) {
	v, ok := t[product][workstation]
	return v, ok
}

// Clone returns a deep copy.
func (t MinBatchTable) Clone() MinBatchTable {
	out := make(MinBatchTable, len(t))
	for product, byWorkstation := range t {
		w := make(map[string]float64, len(byWorkstation))
		for ws, v := range byWorkstation {
			w[ws] = v
		}
		out[product] = w
	}
	return out
}

// RouteTable maps product code -> list of routes, each route being the ordered
// workstation codes it visits.
type RouteTable map[string][][]string

// Clone returns a deep copy.
func (t RouteTable) Clone() RouteTable {
	out := make(RouteTable, len(t))
	for product, routes := range t {
		rs := make([][]string, len(routes))
		for i, r := range routes {
			if r == nil {
				continue
			}
			rs[i] = append(make([]string, 0, len(r)), r...)
		}
		out[product] = rs
	}
	return out
}

// Products returns the product codes in sorted order.
func (t RouteTable) Products() []string {
	out := make([]string, 0, len(t))
	for p := range t {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// RouteCount returns the total number of routes across all products.
func (t RouteTable) RouteCount() int {
	n := 0
	for _, routes := range t {
		n += len(routes)
	}
	return n
}

// Structure bundles the three lookup tables built from route steps, plus the
// per-product maximum process index.
type Structure struct {
	Cycle    CycleTable
	MinBatch MinBatchTable
	Routes   RouteTable
	// LastProcess maps product id -> highest 0-based process index across all of its route steps.
	LastProcess map[int64]int
}

// NewStructure returns a Structure with empty, non-nil tables.
func NewStructure() Structure {
	return Structure{
		Cycle:       CycleTable{},
		MinBatch:    MinBatchTable{},
		Routes:      RouteTable{},
		LastProcess: map[int64]int{},
	}
}
