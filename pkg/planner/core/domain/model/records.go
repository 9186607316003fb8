package model

import "time"

// ScopeRecord is one eligible work order returned by the scope query.
type ScopeRecord struct {
	WorkOrderID int64  `gorm:"column:work_order_id"`
	ProductID   int64  `gorm:"column:product_id"`
	ProductCode string `gorm:"column:product_code"`
}

// RouteStepRecord is a single route step joined with its route, product and (optional) workstation.
type RouteStepRecord struct {
	RouteID         int64    `gorm:"column:route_id"`
	ProductID       int64    `gorm:"column:product_id"`
	ProductCode     string   `gorm:"column:product_code"`
	SequenceIndex   int      `gorm:"column:sequence_index"`
	WorkstationCode *string  `gorm:"column:workstation_code"`
	CycleSeconds    *float64 `gorm:"column:std_cycle_time_s_per_uom"`
	MinBatchQty     *float64 `gorm:"column:min_batch_qty"`
}

// WorkOrderRecord is a work order joined with its product and optional sales order.
type WorkOrderRecord struct {
	ID                  int64      `gorm:"column:id"`
	WorkOrderNumber     string     `gorm:"column:work_order_number"`
	QtyPlanned          *float64   `gorm:"column:qty_planned"`
	Status              *string    `gorm:"column:status"`
	SalesOrderNumber    *string    `gorm:"column:so_number"`
	MinProdTime         *time.Time `gorm:"column:min_prod_time"`
	PromisedDeliveryUTC *time.Time `gorm:"column:promised_delivery_utc"`
	ProductID           int64      `gorm:"column:product_id"`
	ProductCode         string     `gorm:"column:product_code"`
}

// ScanEventRecord is a barcode scan event with its workstation resolved to a code.
type ScanEventRecord struct {
	ID              int64      `gorm:"column:id"`
	WorkOrderID     int64      `gorm:"column:work_order_id"`
	EventType       *string    `gorm:"column:event_type"`
	EventTime       *time.Time `gorm:"column:event_time_utc"`
	RouteStepIndex  *int       `gorm:"column:route_step_index"`
	WorkstationCode *string    `gorm:"column:workstation_code"`
	ProducedQty     *float64   `gorm:"column:produced_qty"`
}

// DowntimeRecord is an explicit planned unavailability window for a workstation.
type DowntimeRecord struct {
	WorkstationCode string     `gorm:"column:workstation_code"`
	DowntimeStart   *time.Time `gorm:"column:downtime_start"`
	DowntimeEnd     *time.Time `gorm:"column:downtime_end"`
}

// JobCardRecord is one assigned step of the most recently stored schedule.
type JobCardRecord struct {
	WorkOrderNumber string     `gorm:"column:work_order_number"`
	WorkstationCode string     `gorm:"column:workstation_code"`
	StepIndex       *int       `gorm:"column:step_index"`
	StartTimeUTC    *time.Time `gorm:"column:start_time_utc"`
	EndTimeUTC      *time.Time `gorm:"column:end_time_utc"`
}
