package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/database"
	dbconfig "github.com/navi-mes/planfeed/pkg/planner/adapter/database/config"
	gormadapter "github.com/navi-mes/planfeed/pkg/planner/adapter/database/gorm"
	coreAdapter "github.com/navi-mes/planfeed/pkg/planner/core/adapter"
	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

type staticResolver struct {
	conn database.DBConnection
	err  error
	last string
}

func (r *staticResolver) ResolveDBConnection(ctx context.Context, name string) (database.DBConnection, error) {
	r.last = name
	return r.conn, r.err
}

func (r *staticResolver) ResolveConnection(ctx context.Context, name string) (coreAdapter.ResourceConnection, error) {
	return r.ResolveDBConnection(ctx, name)
}

func newStore(t *testing.T) (*SQLPlanningStore, sqlmock.Sqlmock, *staticResolver) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)
	conn, err := gormadapter.NewGormDBAdapter(gormDB, dbconfig.DatabaseConfig{Type: "mysql"}, "mes")
	require.NoError(t, err)
	resolver := &staticResolver{conn: conn}
	return NewSQLPlanningStore(resolver, "mes"), mock, resolver
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFindScope(t *testing.T) {
	store, mock, resolver := newStore(t)
	mock.ExpectQuery(`FROM work_orders wo JOIN products p ON p.id = wo.product_id WHERE wo.tenant_id = \? .*AND p.product_group = \? AND wo.sales_order_id IS NOT NULL ORDER BY wo.planned_start_at`).
		WithArgs("tenant-a", FinishedGoodsGroup).
		WillReturnRows(sqlmock.NewRows([]string{"work_order_id", "product_id", "product_code"}).
			AddRow(11, 1, "P1").
			AddRow(12, 2, "P2"))

	rows, err := store.FindScope(context.Background(), "tenant-a", model.ScopeFilter{})

	require.NoError(t, err)
	assert.Equal(t, []model.ScopeRecord{
		{WorkOrderID: 11, ProductID: 1, ProductCode: "P1"},
		{WorkOrderID: 12, ProductID: 2, ProductCode: "P2"},
	}, rows)
	assert.Equal(t, "mes", resolver.last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindScope_WorkOrderFilter(t *testing.T) {
	store, mock, _ := newStore(t)
	mock.ExpectQuery(`AND wo.work_order_number IN \(\?,\?\) ORDER BY wo.planned_start_at`).
		WithArgs("tenant-a", FinishedGoodsGroup, "WO-1", "WO-9").
		WillReturnRows(sqlmock.NewRows([]string{"work_order_id", "product_id", "product_code"}).AddRow(11, 1, "P1"))

	rows, err := store.FindScope(context.Background(), "tenant-a", model.ScopeFilter{WorkOrderNumbers: []string{"WO-1", "WO-9"}})

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindRouteSteps_NullableColumns(t *testing.T) {
	store, mock, _ := newStore(t)
	mock.ExpectQuery(`LEFT JOIN workstations w ON w.id = rs.workstation_id WHERE r.tenant_id = \? AND r.product_id IN \(\?,\?\)`).
		WithArgs("tenant-a", 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{
			"route_id", "product_id", "product_code", "sequence_index",
			"workstation_code", "std_cycle_time_s_per_uom", "min_batch_qty",
		}).
			AddRow(100, 1, "P1", 1, "M1", 120.0, 10.0).
			AddRow(100, 1, "P1", 2, nil, nil, nil))

	rows, err := store.FindRouteSteps(context.Background(), "tenant-a", []int64{1, 2})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].WorkstationCode)
	assert.Equal(t, "M1", *rows[0].WorkstationCode)
	assert.Equal(t, 120.0, *rows[0].CycleSeconds)
	assert.Nil(t, rows[1].WorkstationCode)
	assert.Nil(t, rows[1].CycleSeconds)
	assert.Nil(t, rows[1].MinBatchQty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmptyIDSetsSkipQueries(t *testing.T) {
	store, mock, _ := newStore(t)
	ctx := context.Background()

	steps, err := store.FindRouteSteps(ctx, "tenant-a", nil)
	require.NoError(t, err)
	assert.Empty(t, steps)
	orders, err := store.FindWorkOrders(ctx, "tenant-a", []int64{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	events, err := store.FindScanEvents(ctx, "tenant-a", nil)
	require.NoError(t, err)
	assert.Empty(t, events)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindWorkOrdersAndScanEvents(t *testing.T) {
	store, mock, _ := newStore(t)
	ctx := context.Background()
	delivery := ts("2025-03-20T00:00:00Z")
	mock.ExpectQuery(`LEFT JOIN sales_orders so ON so.id = wo.sales_order_id WHERE wo.tenant_id = \? AND wo.id IN \(\?\)`).
		WithArgs("tenant-a", 11).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "work_order_number", "qty_planned", "status", "so_number",
			"min_prod_time", "promised_delivery_utc", "product_id", "product_code",
		}).AddRow(11, "WO-1", 60.0, "IN_PROGRESS", "SO-1", nil, delivery, 1, "P1"))
	started := ts("2025-03-10T11:10:00Z")
	mock.ExpectQuery(`FROM barcode_events be LEFT JOIN workstations ws ON ws.id = be.workstation_id WHERE be.tenant_id = \? AND be.work_order_id IN \(\?\) ORDER BY be.event_time_utc DESC, be.id DESC`).
		WithArgs("tenant-a", 11).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "work_order_id", "event_type", "event_time_utc", "route_step_index", "workstation_code", "produced_qty",
		}).AddRow(5, 11, "START", started, 2, "M3", nil))

	orders, err := store.FindWorkOrders(ctx, "tenant-a", []int64{11})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "WO-1", orders[0].WorkOrderNumber)
	assert.Equal(t, "SO-1", *orders[0].SalesOrderNumber)
	assert.Nil(t, orders[0].MinProdTime)
	assert.True(t, delivery.Equal(*orders[0].PromisedDeliveryUTC))

	events, err := store.FindScanEvents(ctx, "tenant-a", []int64{11})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "START", *events[0].EventType)
	assert.Equal(t, 2, *events[0].RouteStepIndex)
	assert.Nil(t, events[0].ProducedQty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDowntimes(t *testing.T) {
	store, mock, _ := newStore(t)
	mock.ExpectQuery(`FROM workstation_downtimes d JOIN workstations w ON w.id = d.workstation_id WHERE d.tenant_id = \? ORDER BY w.workstation_code, d.downtime_start`).
		WithArgs("tenant-a").
		WillReturnRows(sqlmock.NewRows([]string{"workstation_code", "downtime_start", "downtime_end"}).
			AddRow("M5", ts("2025-03-11T08:00:00Z"), ts("2025-03-11T10:00:00Z")))

	rows, err := store.FindDowntimes(context.Background(), "tenant-a")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "M5", rows[0].WorkstationCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLatestScheduleJobCards(t *testing.T) {
	store, mock, _ := newStore(t)
	mock.ExpectQuery(`SELECT id FROM schedules WHERE tenant_id = \? ORDER BY created_at DESC LIMIT 1`).
		WithArgs("tenant-a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(`FROM job_cards jc .* WHERE jc.tenant_id = \? AND jc.schedule_id = \? ORDER BY wo.work_order_number, jc.start_time_utc, jc.id`).
		WithArgs("tenant-a", 42).
		WillReturnRows(sqlmock.NewRows([]string{"work_order_number", "workstation_code", "step_index", "start_time_utc", "end_time_utc"}).
			AddRow("WO-1", "M3", nil, ts("2025-03-10T13:00:00Z"), ts("2025-03-10T14:00:00Z")))

	cards, err := store.FindLatestScheduleJobCards(context.Background(), "tenant-a")

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "M3", cards[0].WorkstationCode)
	assert.Nil(t, cards[0].StepIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLatestScheduleJobCards_NoSchedule(t *testing.T) {
	store, mock, _ := newStore(t)
	mock.ExpectQuery(`SELECT id FROM schedules`).
		WithArgs("tenant-a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	cards, err := store.FindLatestScheduleJobCards(context.Background(), "tenant-a")

	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLatestScheduleJobCards_MissingTable(t *testing.T) {
	store, mock, _ := newStore(t)
	mock.ExpectQuery(`SELECT id FROM schedules`).
		WithArgs("tenant-a").
		WillReturnError(&mysqldriver.MySQLError{Number: 1146, Message: "Table 'mes.schedules' doesn't exist"})

	cards, err := store.FindLatestScheduleJobCards(context.Background(), "tenant-a")

	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestStoreErrorsPropagate(t *testing.T) {
	store, mock, resolver := newStore(t)
	failure := errors.New("connection reset by peer")
	mock.ExpectQuery(`FROM workstation_downtimes`).WillReturnError(failure)

	_, err := store.FindDowntimes(context.Background(), "tenant-a")
	assert.ErrorIs(t, err, failure)
	assert.ErrorContains(t, err, "SQLPlanningStore.FindDowntimes")

	resolver.err = errors.New("dial tcp: connection refused")
	_, err = store.FindScope(context.Background(), "tenant-a", model.ScopeFilter{})
	assert.ErrorContains(t, err, "failed to resolve DB connection 'mes'")
}
