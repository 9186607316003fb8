package model

import (
	"strings"
	"time"
)

// Status is the progress state of a work order.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
)

// NormalizeStatus upper-cases and trims a stored status; an empty value is NOT_STARTED.
func NormalizeStatus(raw *string) Status {
	if raw == nil {
		return StatusNotStarted
	}
	s := strings.ToUpper(strings.TrimSpace(*raw))
	if s == "" {
		return StatusNotStarted
	}
	return Status(s)
}

// Scan event types the pipeline reacts to.
const (
	EventTypeStart    = "START"
	EventTypeComplete = "COMPLETE"
)

// PlaceholderMachine fills process positions of a past-machines trail whose machine is unknown.
const PlaceholderMachine = "EMPTY"

// ScanEvent is a normalized scan event: upper-cased type and non-nil time.
type ScanEvent struct {
	WorkOrderID     int64
	Type            string
	Time            time.Time
	RouteStepIndex  *int
	WorkstationCode string
	ProducedQty     *float64
}

// HasPosition reports whether the event carries both a workstation and a route-step position.
func (e ScanEvent) HasPosition() bool {
	return e.WorkstationCode != "" && e.RouteStepIndex != nil
}

// Order is the reconciled, scheduler-facing view of one work order.
type Order struct {
	WorkOrderID     int64
	WorkOrderNumber string
	SalesOrder      *string
	Product         string
	Quantity        float64
	// MinProductionTime is nil when no anchor is known (rendered as epoch zero by the numeric encoder).
	MinProductionTime *time.Time
	// DeliveryDate is nil when no sales order deadline is known (rendered as a far-future sentinel).
	DeliveryDate     *time.Time
	LastProcess      *int
	Status           Status
	PastMachines     []string
	CurrentlyRunning bool
	// LatestEvent is the most recent scan event of the order, if any.
	LatestEvent *ScanEvent
}
