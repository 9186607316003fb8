package model

// ScopeFilter narrows the scope query.
type ScopeFilter struct {
	// WorkOrderNumbers, when non-empty, restricts scope to these work-order numbers.
	WorkOrderNumbers []string
}

// Scope is the set of work orders in a planning run.
type Scope struct {
	// WorkOrderIDs is ordered by planned start time.
	WorkOrderIDs []int64
	// ProductIDs holds distinct product ids in first-seen order.
	ProductIDs []int64
	// ProductCodes holds distinct product codes in first-seen order.
	ProductCodes []string
}

// IsEmpty reports whether no work orders are in scope.
func (s Scope) IsEmpty() bool {
	return len(s.WorkOrderIDs) == 0
}
