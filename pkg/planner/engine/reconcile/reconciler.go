// Package reconcile merges work-order records with scan-event history into the
// per-order state the scheduler consumes.
package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// Input is everything the reconciler needs for one run.
type Input struct {
	// WorkOrderIDs is the scope, in planned-start order.
	WorkOrderIDs []int64
	WorkOrders   []model.WorkOrderRecord
	Events       []model.ScanEventRecord
	// LastProcess maps product id -> maximum process index.
	LastProcess map[int64]int
	PresentTime time.Time
	Rules       model.Rules
}

// Report counts records the reconciler skipped or adjusted.
type Report struct {
	Orders             int
	MissingWorkOrders  int
	EventsWithoutTime  int
	Downgraded         int
	Running            int
	AnchorsFromEvents  int
	AnchorsClamped     int
	QuantityFromEvents int
}

// Counts flattens the report for stage listeners.
func (r Report) Counts() map[string]int {
	return map[string]int{
		"orders":                    r.Orders,
		"skipped_missing_order":     r.MissingWorkOrders,
		"skipped_event_no_time":     r.EventsWithoutTime,
		"downgraded_to_not_started": r.Downgraded,
		"running":                   r.Running,
		"anchor_from_event":         r.AnchorsFromEvents,
		"anchor_clamped":            r.AnchorsClamped,
		"quantity_from_complete":    r.QuantityFromEvents,
	}
}

// history is the event-derived view of one work order.
type history struct {
	latest         *model.ScanEvent
	latestPosition *model.ScanEvent
	latestComplete *model.ScanEvent
}

// Reconcile derives one Order per scoped work order, keyed by work-order number.
func Reconcile(in Input) (map[string]model.Order, Report) {
	var rep Report
	histories := buildHistories(in.Events, &rep)

	byID := make(map[int64]model.WorkOrderRecord, len(in.WorkOrders))
	for _, wo := range in.WorkOrders {
		byID[wo.ID] = wo
	}

	orders := make(map[string]model.Order, len(in.WorkOrderIDs))
	for _, id := range in.WorkOrderIDs {
		wo, ok := byID[id]
		if !ok || wo.WorkOrderNumber == "" {
			rep.MissingWorkOrders++
			continue
		}
		order := reconcileOne(wo, histories[id], in, &rep)
		orders[order.WorkOrderNumber] = order
	}
	rep.Orders = len(orders)
	return orders, rep
}

func reconcileOne(wo model.WorkOrderRecord, h history, in Input, rep *Report) model.Order {
	stored := model.NormalizeStatus(wo.Status)

	anchor := wo.MinProdTime
	if stored == model.StatusInProgress && h.latest != nil {
		t := h.latest.Time
		anchor = &t
		rep.AnchorsFromEvents++
	}
	switch {
	case anchor == nil:
		if in.Rules.AnchorDefaultsToPresent {
			t := in.PresentTime
			anchor = &t
		}
	case in.Rules.ClampAnchorToPresent && anchor.Before(in.PresentTime) && stored != model.StatusInProgress:
		t := in.PresentTime
		anchor = &t
		rep.AnchorsClamped++
	}

	var lastProcess *int
	if lp, ok := in.LastProcess[wo.ProductID]; ok {
		lastProcess = &lp
	}

	trail := pastMachines(h.latestPosition)

	status := stored
	if status == model.StatusInProgress && len(trail) == 0 {
		status = model.StatusNotStarted
		rep.Downgraded++
	}

	running := status == model.StatusInProgress && h.latest != nil && h.latest.Type == model.EventTypeStart
	if running {
		rep.Running++
	}

	qty := 0.0
	if wo.QtyPlanned != nil {
		qty = *wo.QtyPlanned
	}
	if in.Rules.CompletionQuantity && status == model.StatusInProgress &&
		h.latestComplete != nil && h.latestComplete.ProducedQty != nil {
		qty = *h.latestComplete.ProducedQty
		rep.QuantityFromEvents++
	}

	return model.Order{
		WorkOrderID:       wo.ID,
		WorkOrderNumber:   wo.WorkOrderNumber,
		SalesOrder:        wo.SalesOrderNumber,
		Product:           wo.ProductCode,
		Quantity:          qty,
		MinProductionTime: anchor,
		DeliveryDate:      wo.PromisedDeliveryUTC,
		LastProcess:       lastProcess,
		Status:            status,
		PastMachines:      trail,
		CurrentlyRunning:  running,
		LatestEvent:       h.latest,
	}
}

// pastMachines renders the trail reached by ev: one placeholder per position before the
// event's step, then the event's workstation.
func pastMachines(ev *model.ScanEvent) []string {
	if ev == nil || !ev.HasPosition() {
		return []string{}
	}
	n := *ev.RouteStepIndex - 1
	if n < 0 {
		n = 0
	}
	trail := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		trail = append(trail, model.PlaceholderMachine)
	}
	return append(trail, ev.WorkstationCode)
}

// buildHistories picks, per work order, the most recent event overall, the most recent event
// with a position and the most recent COMPLETE event. Events without a time are skipped.
func buildHistories(records []model.ScanEventRecord, rep *Report) map[int64]history {
	events := make([]model.ScanEvent, 0, len(records))
	for _, r := range records {
		if r.EventTime == nil {
			rep.EventsWithoutTime++
			continue
		}
		events = append(events, normalizeEvent(r))
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.After(events[j].Time)
	})

	out := make(map[int64]history)
	for i := range events {
		ev := &events[i]
		h := out[ev.WorkOrderID]
		if h.latest == nil {
			h.latest = ev
		}
		if h.latestPosition == nil && ev.HasPosition() {
			h.latestPosition = ev
		}
		if h.latestComplete == nil && ev.Type == model.EventTypeComplete {
			h.latestComplete = ev
		}
		out[ev.WorkOrderID] = h
	}
	return out
}

func normalizeEvent(r model.ScanEventRecord) model.ScanEvent {
	ev := model.ScanEvent{
		WorkOrderID:    r.WorkOrderID,
		Time:           *r.EventTime,
		RouteStepIndex: r.RouteStepIndex,
		ProducedQty:    r.ProducedQty,
	}
	if r.EventType != nil {
		ev.Type = strings.ToUpper(strings.TrimSpace(*r.EventType))
	}
	if r.WorkstationCode != nil {
		ev.WorkstationCode = *r.WorkstationCode
	}
	return ev
}
