// Package scope decides which work orders belong to a planning run.
package scope

import (
	"context"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/core/domain/repository"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/exception"
)

// Report counts what the resolver did.
type Report struct {
	// AllowListEmpty is set when the allow-list mode was on with an empty list.
	AllowListEmpty bool
	Rows           int
}

// Counts flattens the report for stage listeners.
func (r Report) Counts() map[string]int {
	c := map[string]int{"scope_rows": r.Rows}
	if r.AllowListEmpty {
		c["allow_list_empty"] = 1
	}
	return c
}

// Resolver resolves the scope of a planning run.
type Resolver struct {
	store repository.PlanningStore
}

// NewResolver creates a Resolver reading from store.
func NewResolver(store repository.PlanningStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the work orders, products and product codes in scope for tenantID.
// With the allow-list mode enabled and an empty list the scope is empty and the store is not queried.
func (r *Resolver) Resolve(ctx context.Context, tenantID string, policy model.Policy) (model.Scope, Report, error) {
	var filter model.ScopeFilter
	if policy.LimitWorkOrders {
		if len(policy.WorkOrderAllowList) == 0 {
			return model.Scope{}, Report{AllowListEmpty: true}, nil
		}
		filter.WorkOrderNumbers = policy.WorkOrderAllowList
	}

	rows, err := r.store.FindScope(ctx, tenantID, filter)
	if err != nil {
		return model.Scope{}, Report{}, exception.NewStoreError("failed to load plan scope", err)
	}
	return Build(rows), Report{Rows: len(rows)}, nil
}

// Build collapses scope rows into a Scope, de-duplicating products while keeping first-seen order.
func Build(rows []model.ScopeRecord) model.Scope {
	var s model.Scope
	seenProduct := make(map[int64]struct{})
	seenCode := make(map[string]struct{})
	for _, row := range rows {
		s.WorkOrderIDs = append(s.WorkOrderIDs, row.WorkOrderID)
		if _, ok := seenProduct[row.ProductID]; !ok {
			seenProduct[row.ProductID] = struct{}{}
			s.ProductIDs = append(s.ProductIDs, row.ProductID)
		}
		if row.ProductCode == "" {
			continue
		}
		if _, ok := seenCode[row.ProductCode]; !ok {
			seenCode[row.ProductCode] = struct{}{}
			s.ProductCodes = append(s.ProductCodes, row.ProductCode)
		}
	}
	return s
}
