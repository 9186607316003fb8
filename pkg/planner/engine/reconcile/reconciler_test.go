package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/engine/reconcile"
)

var present = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func intPtr(i int) *int              { return &i }
func timePtr(t time.Time) *time.Time { return &t }

func workOrder(id int64, number, status string) model.WorkOrderRecord {
	return model.WorkOrderRecord{
		ID:              id,
		WorkOrderNumber: number,
		QtyPlanned:      floatPtr(100),
		Status:          strPtr(status),
		ProductID:       10,
		ProductCode:     "P1",
	}
}

func event(woID int64, typ string, at time.Time, step int, ws string) model.ScanEventRecord {
	return model.ScanEventRecord{
		WorkOrderID:     woID,
		EventType:       strPtr(typ),
		EventTime:       timePtr(at),
		RouteStepIndex:  intPtr(step),
		WorkstationCode: strPtr(ws),
	}
}

func TestReconcile_Scenarios(t *testing.T) {
	in := reconcile.Input{
		WorkOrderIDs: []int64{1, 2},
		WorkOrders: []model.WorkOrderRecord{
			workOrder(1, "WO-1", "IN_PROGRESS"),
			workOrder(2, "WO-2", "IN_PROGRESS"),
		},
		Events: []model.ScanEventRecord{
			event(1, "START", present.Add(-30*time.Minute), 2, "M7"),
			event(1, "COMPLETE", present.Add(-2*time.Hour), 1, "M1"),
		},
		LastProcess: map[int64]int{10: 4},
		PresentTime: present,
	}

	for _, variant := range []model.Variant{model.VariantNumeric, model.VariantTimestamp} {
		t.Run(string(variant), func(t *testing.T) {
			in.Rules = model.RulesFor(variant)
			orders, rep := reconcile.Reconcile(in)
			require.Len(t, orders, 2)

			wo1 := orders["WO-1"]
			assert.Equal(t, []string{"EMPTY", "M7"}, wo1.PastMachines)
			assert.Equal(t, model.StatusInProgress, wo1.Status)
			assert.True(t, wo1.CurrentlyRunning)
			require.NotNil(t, wo1.MinProductionTime)
			assert.Equal(t, present.Add(-30*time.Minute), *wo1.MinProductionTime)
			require.NotNil(t, wo1.LastProcess)
			assert.Equal(t, 4, *wo1.LastProcess)

			wo2 := orders["WO-2"]
			assert.Equal(t, model.StatusNotStarted, wo2.Status)
			assert.False(t, wo2.CurrentlyRunning)
			assert.Empty(t, wo2.PastMachines)
			assert.NotNil(t, wo2.PastMachines)

			assert.Equal(t, 1, rep.Downgraded)
			assert.Equal(t, 1, rep.Running)
		})
	}
}

func TestReconcile_RunningRequiresLatestStart(t *testing.T) {
	in := reconcile.Input{
		WorkOrderIDs: []int64{1},
		WorkOrders:   []model.WorkOrderRecord{workOrder(1, "WO-1", "IN_PROGRESS")},
		Events: []model.ScanEventRecord{
			event(1, "START", present.Add(-time.Hour), 2, "M7"),
			event(1, "complete", present.Add(-10*time.Minute), 2, "M7"),
		},
		PresentTime: present,
	}
	orders, _ := reconcile.Reconcile(in)
	assert.False(t, orders["WO-1"].CurrentlyRunning)
	assert.Equal(t, model.StatusInProgress, orders["WO-1"].Status)
	assert.Nil(t, orders["WO-1"].LastProcess)
}

func TestReconcile_NotStartedIsNeverRunning(t *testing.T) {
	in := reconcile.Input{
		WorkOrderIDs: []int64{1},
		WorkOrders:   []model.WorkOrderRecord{workOrder(1, "WO-1", "not_started")},
		Events:       []model.ScanEventRecord{event(1, "START", present.Add(-time.Hour), 1, "M1")},
		PresentTime:  present,
	}
	orders, _ := reconcile.Reconcile(in)
	assert.Equal(t, model.StatusNotStarted, orders["WO-1"].Status)
	assert.False(t, orders["WO-1"].CurrentlyRunning)
	assert.Equal(t, []string{"M1"}, orders["WO-1"].PastMachines)
}

func TestReconcile_Anchor(t *testing.T) {
	past := present.Add(-48 * time.Hour)
	future := present.Add(48 * time.Hour)

	build := func(status string, anchor *time.Time) reconcile.Input {
		wo := workOrder(1, "WO-1", status)
		wo.MinProdTime = anchor
		return reconcile.Input{
			WorkOrderIDs: []int64{1},
			WorkOrders:   []model.WorkOrderRecord{wo},
			PresentTime:  present,
		}
	}

	t.Run("numeric keeps missing anchor absent", func(t *testing.T) {
		in := build("NOT_STARTED", nil)
		in.Rules = model.RulesFor(model.VariantNumeric)
		orders, _ := reconcile.Reconcile(in)
		assert.Nil(t, orders["WO-1"].MinProductionTime)
	})

	t.Run("timestamp defaults missing anchor to present", func(t *testing.T) {
		in := build("NOT_STARTED", nil)
		in.Rules = model.RulesFor(model.VariantTimestamp)
		orders, _ := reconcile.Reconcile(in)
		require.NotNil(t, orders["WO-1"].MinProductionTime)
		assert.Equal(t, present, *orders["WO-1"].MinProductionTime)
	})

	t.Run("timestamp clamps past anchor", func(t *testing.T) {
		in := build("NOT_STARTED", &past)
		in.Rules = model.RulesFor(model.VariantTimestamp)
		orders, rep := reconcile.Reconcile(in)
		assert.Equal(t, present, *orders["WO-1"].MinProductionTime)
		assert.Equal(t, 1, rep.AnchorsClamped)
	})

	t.Run("numeric keeps past anchor", func(t *testing.T) {
		in := build("NOT_STARTED", &past)
		in.Rules = model.RulesFor(model.VariantNumeric)
		orders, _ := reconcile.Reconcile(in)
		assert.Equal(t, past, *orders["WO-1"].MinProductionTime)
	})

	t.Run("future anchor is kept", func(t *testing.T) {
		in := build("NOT_STARTED", &future)
		in.Rules = model.RulesFor(model.VariantTimestamp)
		orders, _ := reconcile.Reconcile(in)
		assert.Equal(t, future, *orders["WO-1"].MinProductionTime)
	})

	t.Run("in-progress keeps its past event anchor", func(t *testing.T) {
		in := build("IN_PROGRESS", &future)
		in.Events = []model.ScanEventRecord{event(1, "START", past, 1, "M1")}
		in.Rules = model.RulesFor(model.VariantTimestamp)
		orders, rep := reconcile.Reconcile(in)
		assert.Equal(t, past, *orders["WO-1"].MinProductionTime)
		assert.Equal(t, 1, rep.AnchorsFromEvents)
	})
}

func TestReconcile_Quantity(t *testing.T) {
	completed := event(1, "COMPLETE", present.Add(-time.Hour), 1, "M1")
	completed.ProducedQty = floatPtr(40)
	in := reconcile.Input{
		WorkOrderIDs: []int64{1},
		WorkOrders:   []model.WorkOrderRecord{workOrder(1, "WO-1", "IN_PROGRESS")},
		Events: []model.ScanEventRecord{
			event(1, "START", present.Add(-30*time.Minute), 2, "M2"),
			completed,
		},
		PresentTime: present,
	}

	in.Rules = model.RulesFor(model.VariantNumeric)
	orders, _ := reconcile.Reconcile(in)
	assert.InDelta(t, 100, orders["WO-1"].Quantity, 1e-9)

	in.Rules = model.RulesFor(model.VariantTimestamp)
	orders, rep := reconcile.Reconcile(in)
	assert.InDelta(t, 40, orders["WO-1"].Quantity, 1e-9)
	assert.Equal(t, 1, rep.QuantityFromEvents)

	t.Run("complete without quantity keeps planned", func(t *testing.T) {
		in.Events[1].ProducedQty = nil
		orders, _ := reconcile.Reconcile(in)
		assert.InDelta(t, 100, orders["WO-1"].Quantity, 1e-9)
	})
}

func TestReconcile_SkipsMalformedRecords(t *testing.T) {
	noPosition := event(1, "START", present.Add(-5*time.Minute), 0, "")
	noPosition.RouteStepIndex = nil
	noPosition.WorkstationCode = nil
	noTime := event(1, "START", present, 9, "M9")
	noTime.EventTime = nil

	in := reconcile.Input{
		WorkOrderIDs: []int64{1, 99},
		WorkOrders:   []model.WorkOrderRecord{workOrder(1, "WO-1", "IN_PROGRESS")},
		Events: []model.ScanEventRecord{
			noTime,
			noPosition,
			event(1, "COMPLETE", present.Add(-time.Hour), 3, "M3"),
		},
		PresentTime: present,
	}
	orders, rep := reconcile.Reconcile(in)
	require.Len(t, orders, 1)
	wo := orders["WO-1"]
	assert.Equal(t, []string{"EMPTY", "EMPTY", "M3"}, wo.PastMachines)
	assert.Equal(t, model.StatusInProgress, wo.Status)
	assert.True(t, wo.CurrentlyRunning)
	assert.Equal(t, 1, rep.EventsWithoutTime)
	assert.Equal(t, 1, rep.MissingWorkOrders)
}
