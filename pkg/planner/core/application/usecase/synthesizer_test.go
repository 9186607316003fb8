package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navi-mes/planfeed/pkg/planner/core/application/usecase"
	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/exception"
	plannertest "github.com/navi-mes/planfeed/pkg/planner/test"
)

var present = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func intPtr(i int) *int              { return &i }
func timePtr(t time.Time) *time.Time { return &t }

// recorder captures listener notifications in call order.
type recorder struct {
	mu     sync.Mutex
	events []string
	runs   []*model.SynthesisRun
	stages map[string]*model.StageExecution
}

func newRecorder() *recorder {
	return &recorder{stages: map[string]*model.StageExecution{}}
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) BeforeRun(_ context.Context, run *model.SynthesisRun) { r.add("before_run") }

func (r *recorder) AfterRun(_ context.Context, run *model.SynthesisRun) {
	r.add("after_run")
	r.runs = append(r.runs, run)
}

func (r *recorder) BeforeStage(_ context.Context, st *model.StageExecution) {
	r.add("before:" + st.Name)
}

func (r *recorder) AfterStage(_ context.Context, st *model.StageExecution) {
	r.add("after:" + st.Name)
	r.stages[st.Name] = st
}

func (r *recorder) stageNames() []string {
	var out []string
	for _, e := range r.events {
		if len(e) > 6 && e[:6] == "after:" {
			out = append(out, e[6:])
		}
	}
	return out
}

func fixtureStore() *plannertest.MockStore {
	return &plannertest.MockStore{
		Scope: []model.ScopeRecord{
			{WorkOrderID: 1, ProductID: 10, ProductCode: "P1"},
			{WorkOrderID: 2, ProductID: 10, ProductCode: "P1"},
		},
		RouteSteps: []model.RouteStepRecord{
			{RouteID: 100, ProductID: 10, ProductCode: "P1", SequenceIndex: 1, WorkstationCode: strPtr("M1"), CycleSeconds: floatPtr(120), MinBatchQty: floatPtr(10)},
			{RouteID: 100, ProductID: 10, ProductCode: "P1", SequenceIndex: 2, WorkstationCode: strPtr("M3"), CycleSeconds: floatPtr(60), MinBatchQty: floatPtr(10)},
			{RouteID: 101, ProductID: 10, ProductCode: "P1", SequenceIndex: 1, WorkstationCode: strPtr("M2"), CycleSeconds: floatPtr(90), MinBatchQty: floatPtr(5)},
		},
		WorkOrders: []model.WorkOrderRecord{
			{ID: 1, WorkOrderNumber: "WO-1", QtyPlanned: floatPtr(60), Status: strPtr("IN_PROGRESS"), SalesOrderNumber: strPtr("SO-1"), ProductID: 10, ProductCode: "P1"},
			{ID: 2, WorkOrderNumber: "WO-2", QtyPlanned: floatPtr(40), Status: strPtr("NOT_STARTED"), ProductID: 10, ProductCode: "P1"},
		},
		Events: []model.ScanEventRecord{
			{ID: 7, WorkOrderID: 1, EventType: strPtr("START"), EventTime: timePtr(present.Add(-50 * time.Minute)), RouteStepIndex: intPtr(2), WorkstationCode: strPtr("M3")},
		},
		Downtimes: []model.DowntimeRecord{
			{WorkstationCode: "M5", DowntimeStart: timePtr(present.Add(time.Hour)), DowntimeEnd: timePtr(present.Add(2 * time.Hour))},
			{WorkstationCode: "M5", DowntimeStart: timePtr(present.Add(-2 * time.Hour)), DowntimeEnd: timePtr(present.Add(-time.Hour))},
		},
		JobCards: []model.JobCardRecord{
			{WorkOrderNumber: "WO-2", WorkstationCode: "M1", StepIndex: intPtr(1), StartTimeUTC: timePtr(present.Add(time.Hour))},
		},
	}
}

func newSynthesizer(store *plannertest.MockStore, rec *recorder) *usecase.Synthesizer {
	return usecase.NewSynthesizer(store, model.DefaultPolicy(), usecase.Defaults{
		TenantID: "demo-tenant",
		Trigger:  "FULL_REPLAN",
		Variant:  model.VariantTimestamp,
	},
		usecase.WithClock(func() time.Time { return present }),
		usecase.WithRunListeners(rec),
		usecase.WithStageListeners(rec),
	)
}

func TestSynthesize_Timestamp(t *testing.T) {
	store := fixtureStore()
	rec := newRecorder()

	inst, err := newSynthesizer(store, rec).Synthesize(context.Background(), usecase.Request{})
	require.NoError(t, err)

	assert.Equal(t, "demo-tenant", inst.Metadata.TenantID)
	assert.Equal(t, "FULL_REPLAN", inst.Metadata.Trigger)
	assert.Equal(t, model.VariantTimestamp, inst.Metadata.Variant)
	assert.Equal(t, present, inst.Metadata.PresentTime)
	assert.NotEmpty(t, inst.Metadata.RunID)
	assert.Equal(t, "demo-tenant", store.LastTenant)

	assert.Equal(t, [][]string{{"M1", "M3"}, {"M2", "FAKE"}}, inst.Routes["P1"])
	v, ok := inst.Cycle.Lookup(0, "P1", "M1")
	require.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-9)
	v, ok = inst.Cycle.Lookup(1, "P1", "FAKE")
	require.True(t, ok)
	assert.InDelta(t, 0.01, v, 1e-9)

	require.Len(t, inst.Orders, 2)
	wo1 := inst.Orders["WO-1"]
	assert.True(t, wo1.CurrentlyRunning)
	assert.Equal(t, []string{"EMPTY", "M3"}, wo1.PastMachines)
	require.NotNil(t, wo1.MinProductionTime)
	assert.Equal(t, present.Add(-50*time.Minute), *wo1.MinProductionTime)
	require.NotNil(t, wo1.LastProcess)
	assert.Equal(t, 1, *wo1.LastProcess)

	wo2 := inst.Orders["WO-2"]
	assert.Equal(t, model.StatusNotStarted, wo2.Status)
	require.NotNil(t, wo2.MinProductionTime)
	assert.Equal(t, present, *wo2.MinProductionTime)

	require.Len(t, inst.Downtimes["M5"], 1)
	require.Len(t, inst.Downtimes["M3"], 1)
	assert.Equal(t, present, inst.Downtimes["M3"][0].Start)
	assert.Equal(t, present.Add(10*time.Minute), inst.Downtimes["M3"][0].End)
	assert.Equal(t, model.WindowSourceRunningJob, inst.Downtimes["M3"][0].Source)

	require.Len(t, inst.CurrentSchedule["WO-2"], 1)
	assert.Equal(t, "M1", inst.CurrentSchedule["WO-2"][0].Workstation)

	assert.Equal(t, []string{
		model.StageScope,
		model.StageStructure,
		model.StageNormalize,
		model.StageReconcile,
		model.StageAvailability,
		model.StageSchedule,
		model.StageAssemble,
	}, rec.stageNames())
	assert.Equal(t, "before_run", rec.events[0])
	assert.Equal(t, "after_run", rec.events[len(rec.events)-1])

	require.Len(t, rec.runs, 1)
	run := rec.runs[0]
	assert.Equal(t, model.RunStatusCompleted, run.Status)
	assert.Equal(t, inst.Metadata.RunID, run.RunID)
	assert.Equal(t, 2, run.Summary.Orders)
	assert.Equal(t, 2, run.Summary.DowntimeWindows)

	assert.Equal(t, 1, rec.stages[model.StageAvailability].Counts["skipped_elapsed"])
	assert.Equal(t, 1, rec.stages[model.StageNormalize].Counts["padded_routes"])
}

func TestSynthesize_EveryStageCompletes(t *testing.T) {
	rec := newRecorder()

	inst, err := newSynthesizer(fixtureStore(), rec).Synthesize(context.Background(), usecase.Request{})
	require.NoError(t, err)
	require.NotNil(t, inst)

	require.Len(t, rec.stages, 7)
	for name, st := range rec.stages {
		assert.Equal(t, model.RunStatusCompleted, st.Status, name)
	}
	assert.Equal(t, 2, rec.stages[model.StageAssemble].Counts["orders"])
	assert.Equal(t, 1, rec.stages[model.StageAssemble].Counts["products"])
}

func TestSynthesize_Numeric(t *testing.T) {
	store := fixtureStore()
	rec := newRecorder()

	inst, err := newSynthesizer(store, rec).Synthesize(context.Background(), usecase.Request{
		TenantID: "t2",
		Variant:  model.VariantNumeric,
	})
	require.NoError(t, err)

	assert.Equal(t, "t2", store.LastTenant)
	assert.Nil(t, inst.CurrentSchedule)
	assert.Zero(t, store.CallCount("FindLatestScheduleJobCards"))
	assert.NotContains(t, rec.stageNames(), model.StageSchedule)

	assert.Len(t, inst.Downtimes["M5"], 1)
	assert.Empty(t, inst.Downtimes["M3"])
	assert.Nil(t, inst.Orders["WO-2"].MinProductionTime)
}

func TestSynthesize_EmptyScope(t *testing.T) {
	store := fixtureStore()
	store.Scope = nil
	rec := newRecorder()

	inst, err := newSynthesizer(store, rec).Synthesize(context.Background(), usecase.Request{})
	require.NoError(t, err)

	assert.Empty(t, inst.Orders)
	assert.Empty(t, inst.Routes)
	assert.Zero(t, store.CallCount("FindRouteSteps"))
	assert.Zero(t, store.CallCount("FindWorkOrders"))
	assert.Zero(t, store.CallCount("FindScanEvents"))
	assert.Equal(t, 1, store.CallCount("FindDowntimes"))
	assert.Len(t, inst.Downtimes["M5"], 1)
}

func TestSynthesize_StoreFailure(t *testing.T) {
	store := fixtureStore()
	store.FailOn = map[string]error{"FindScanEvents": errors.New("connection reset")}
	rec := newRecorder()

	inst, err := newSynthesizer(store, rec).Synthesize(context.Background(), usecase.Request{})
	require.Error(t, err)
	assert.Nil(t, inst)
	assert.True(t, errors.Is(err, exception.ErrStoreUnavailable))
	assert.Zero(t, store.CallCount("FindDowntimes"))

	require.Len(t, rec.runs, 1)
	assert.Equal(t, model.RunStatusFailed, rec.runs[0].Status)
	assert.Equal(t, model.RunStatusFailed, rec.stages[model.StageReconcile].Status)
	assert.Equal(t, "after_run", rec.events[len(rec.events)-1])
}

func TestSynthesize_UnknownVariant(t *testing.T) {
	store := fixtureStore()
	rec := newRecorder()

	_, err := newSynthesizer(store, rec).Synthesize(context.Background(), usecase.Request{Variant: "xml"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, exception.ErrUnknownVariant))
	assert.Empty(t, rec.events)
	assert.Zero(t, store.CallCount("FindScope"))
}

func TestSynthesize_RequestOverrides(t *testing.T) {
	t.Run("policy restricts scope to allow-list", func(t *testing.T) {
		store := fixtureStore()
		policy := model.DefaultPolicy()
		policy.LimitWorkOrders = true
		policy.WorkOrderAllowList = []string{"WO-2"}

		inst, err := newSynthesizer(store, newRecorder()).Synthesize(context.Background(), usecase.Request{Policy: &policy})
		require.NoError(t, err)
		assert.Equal(t, []string{"WO-2"}, store.LastFilter.WorkOrderNumbers)
		require.Len(t, inst.Orders, 1)
		assert.Contains(t, inst.Orders, "WO-2")
	})

	t.Run("present time replaces the clock", func(t *testing.T) {
		store := fixtureStore()
		later := present.Add(3 * time.Hour)

		inst, err := newSynthesizer(store, newRecorder()).Synthesize(context.Background(), usecase.Request{PresentTime: &later})
		require.NoError(t, err)
		assert.Equal(t, later, inst.Metadata.PresentTime)
		assert.Empty(t, inst.Downtimes["M5"])
		assert.Empty(t, inst.Downtimes["M3"])
	})
}
