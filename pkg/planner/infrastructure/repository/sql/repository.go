// Package sql implements the PlanningStore over a relational database resolved by name.
// Queries use only portable SQL so PostgreSQL, MySQL and SQLite stores all serve.
package sql

import (
	"context"
	"fmt"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/database"
	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	repository "github.com/navi-mes/planfeed/pkg/planner/core/domain/repository"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// SQLPlanningStore implements repository.PlanningStore.
type SQLPlanningStore struct {
	dbResolver database.DBConnectionResolver
	// dbName is the connection the store reads from (e.g., "mes").
	dbName string
}

var _ repository.PlanningStore = (*SQLPlanningStore)(nil)

// NewSQLPlanningStore creates a store reading from the connection named dbName.
func NewSQLPlanningStore(dbResolver database.DBConnectionResolver, dbName string) *SQLPlanningStore {
	return &SQLPlanningStore{dbResolver: dbResolver, dbName: dbName}
}

func (s *SQLPlanningStore) conn(ctx context.Context) (database.DBConnection, error) {
	conn, err := s.dbResolver.ResolveDBConnection(ctx, s.dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB connection '%s': %w", s.dbName, err)
	}
	return conn, nil
}

func (s *SQLPlanningStore) query(ctx context.Context, op string, target interface{}, query string, args ...interface{}) error {
	conn, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if err := conn.QueryRaw(ctx, target, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindScope implements repository.PlanningStore.
func (s *SQLPlanningStore) FindScope(ctx context.Context, tenantID string, filter model.ScopeFilter) ([]model.ScopeRecord, error) {
	query := scopeQuery
	args := []interface{}{tenantID, FinishedGoodsGroup}
	if len(filter.WorkOrderNumbers) > 0 {
		query += scopeWorkOrderFilter
		args = append(args, filter.WorkOrderNumbers)
	}
	query += scopeOrder

	var rows []model.ScopeRecord
	if err := s.query(ctx, "SQLPlanningStore.FindScope", &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// FindRouteSteps implements repository.PlanningStore.
func (s *SQLPlanningStore) FindRouteSteps(ctx context.Context, tenantID string, productIDs []int64) ([]model.RouteStepRecord, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var rows []model.RouteStepRecord
	if err := s.query(ctx, "SQLPlanningStore.FindRouteSteps", &rows, routeStepsQuery, tenantID, productIDs); err != nil {
		return nil, err
	}
	return rows, nil
}

// FindWorkOrders implements repository.PlanningStore.
func (s *SQLPlanningStore) FindWorkOrders(ctx context.Context, tenantID string, workOrderIDs []int64) ([]model.WorkOrderRecord, error) {
	if len(workOrderIDs) == 0 {
		return nil, nil
	}
	var rows []model.WorkOrderRecord
	if err := s.query(ctx, "SQLPlanningStore.FindWorkOrders", &rows, workOrdersQuery, tenantID, workOrderIDs); err != nil {
		return nil, err
	}
	return rows, nil
}

// FindScanEvents implements repository.PlanningStore.
func (s *SQLPlanningStore) FindScanEvents(ctx context.Context, tenantID string, workOrderIDs []int64) ([]model.ScanEventRecord, error) {
	if len(workOrderIDs) == 0 {
		return nil, nil
	}
	var rows []model.ScanEventRecord
	if err := s.query(ctx, "SQLPlanningStore.FindScanEvents", &rows, scanEventsQuery, tenantID, workOrderIDs); err != nil {
		return nil, err
	}
	return rows, nil
}

// FindDowntimes implements repository.PlanningStore.
func (s *SQLPlanningStore) FindDowntimes(ctx context.Context, tenantID string) ([]model.DowntimeRecord, error) {
	var rows []model.DowntimeRecord
	if err := s.query(ctx, "SQLPlanningStore.FindDowntimes", &rows, downtimesQuery, tenantID); err != nil {
		return nil, err
	}
	return rows, nil
}

// FindLatestScheduleJobCards implements repository.PlanningStore.
// A store without a schedules table is treated as having no schedule.
func (s *SQLPlanningStore) FindLatestScheduleJobCards(ctx context.Context, tenantID string) ([]model.JobCardRecord, error) {
	const op = "SQLPlanningStore.FindLatestScheduleJobCards"
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var latest struct {
		ID int64 `gorm:"column:id"`
	}
	found, err := conn.QueryRow(ctx, &latest, latestScheduleQuery, tenantID)
	if err != nil {
		if conn.IsTableNotExistError(err) {
			logger.Warnf("%s: schedules table does not exist in '%s'; continuing without a current schedule.", op, s.dbName)
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, nil
	}

	var rows []model.JobCardRecord
	if err := conn.QueryRaw(ctx, &rows, jobCardsQuery, tenantID, latest.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}
