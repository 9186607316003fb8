package test

import (
	"context"
	"sync"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/core/domain/repository"
)

// MockStore is an in-memory PlanningStore serving canned records.
// It records how often each method was called and with which tenant and scope filter.
type MockStore struct {
	Scope      []model.ScopeRecord
	RouteSteps []model.RouteStepRecord
	WorkOrders []model.WorkOrderRecord
	Events     []model.ScanEventRecord
	Downtimes  []model.DowntimeRecord
	JobCards   []model.JobCardRecord

	// Err, when set, is returned by every method.
	Err error
	// FailOn returns an error only from the named method.
	FailOn map[string]error

	mu         sync.Mutex
	Calls      map[string]int
	LastTenant string
	LastFilter model.ScopeFilter
}

var _ repository.PlanningStore = (*MockStore)(nil)

func (m *MockStore) record(method, tenantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[method]++
	m.LastTenant = tenantID
	if err, ok := m.FailOn[method]; ok {
		return err
	}
	return m.Err
}

// FindScope implements repository.PlanningStore.
func (m *MockStore) FindScope(ctx context.Context, tenantID string, filter model.ScopeFilter) ([]model.ScopeRecord, error) {
	if err := m.record("FindScope", tenantID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.LastFilter = filter
	m.mu.Unlock()
	if len(filter.WorkOrderNumbers) == 0 {
		return m.Scope, nil
	}
	allowed := make(map[int64]struct{})
	for _, wo := range m.WorkOrders {
		for _, n := range filter.WorkOrderNumbers {
			if wo.WorkOrderNumber == n {
				allowed[wo.ID] = struct{}{}
			}
		}
	}
	var out []model.ScopeRecord
	for _, r := range m.Scope {
		if _, ok := allowed[r.WorkOrderID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindRouteSteps implements repository.PlanningStore.
func (m *MockStore) FindRouteSteps(ctx context.Context, tenantID string, productIDs []int64) ([]model.RouteStepRecord, error) {
	if err := m.record("FindRouteSteps", tenantID); err != nil {
		return nil, err
	}
	ids := toSet(productIDs)
	var out []model.RouteStepRecord
	for _, s := range m.RouteSteps {
		if _, ok := ids[s.ProductID]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// FindWorkOrders implements repository.PlanningStore.
func (m *MockStore) FindWorkOrders(ctx context.Context, tenantID string, workOrderIDs []int64) ([]model.WorkOrderRecord, error) {
	if err := m.record("FindWorkOrders", tenantID); err != nil {
		return nil, err
	}
	ids := toSet(workOrderIDs)
	var out []model.WorkOrderRecord
	for _, wo := range m.WorkOrders {
		if _, ok := ids[wo.ID]; ok {
			out = append(out, wo)
		}
	}
	return out, nil
}

// FindScanEvents implements repository.PlanningStore.
func (m *MockStore) FindScanEvents(ctx context.Context, tenantID string, workOrderIDs []int64) ([]model.ScanEventRecord, error) {
	if err := m.record("FindScanEvents", tenantID); err != nil {
		return nil, err
	}
	ids := toSet(workOrderIDs)
	var out []model.ScanEventRecord
	for _, ev := range m.Events {
		if _, ok := ids[ev.WorkOrderID]; ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

// FindDowntimes implements repository.PlanningStore.
func (m *MockStore) FindDowntimes(ctx context.Context, tenantID string) ([]model.DowntimeRecord, error) {
	if err := m.record("FindDowntimes", tenantID); err != nil {
		return nil, err
	}
	return m.Downtimes, nil
}

// FindLatestScheduleJobCards implements repository.PlanningStore.
func (m *MockStore) FindLatestScheduleJobCards(ctx context.Context, tenantID string) ([]model.JobCardRecord, error) {
	if err := m.record("FindLatestScheduleJobCards", tenantID); err != nil {
		return nil, err
	}
	return m.JobCards, nil
}

// CallCount returns how often method was called.
func (m *MockStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

func toSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
