// Package repository declares the read-only access the synthesis pipeline needs
// from the manufacturing execution store.
package repository

import (
	"context"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

// PlanningStore reads the manufacturing data a planning instance is synthesized from.
// Every method is scoped to a tenant. Implementations return errors only for
// store failures; absent data yields empty results.
type PlanningStore interface {
	// FindScope returns open (NOT_STARTED / IN_PROGRESS) work orders of finished-goods products
	// that are linked to a sales order, ordered by planned start time.
	FindScope(ctx context.Context, tenantID string, filter model.ScopeFilter) ([]model.ScopeRecord, error)

	// FindRouteSteps returns every route step of the given products, ordered by
	// product code, route and sequence position. Steps without a workstation are included.
	FindRouteSteps(ctx context.Context, tenantID string, productIDs []int64) ([]model.RouteStepRecord, error)

	// FindWorkOrders returns the work orders with the given ids.
	FindWorkOrders(ctx context.Context, tenantID string, workOrderIDs []int64) ([]model.WorkOrderRecord, error)

	// FindScanEvents returns the scan events of the given work orders, most recent first.
	FindScanEvents(ctx context.Context, tenantID string, workOrderIDs []int64) ([]model.ScanEventRecord, error)

	// FindDowntimes returns all explicit downtime windows, ordered by workstation and start.
	FindDowntimes(ctx context.Context, tenantID string) ([]model.DowntimeRecord, error)

	// FindLatestScheduleJobCards returns the job cards of the most recently created schedule,
	// ordered by work-order number, start time and id. No schedule yields an empty slice.
	FindLatestScheduleJobCards(ctx context.Context, tenantID string) ([]model.JobCardRecord, error)
}
