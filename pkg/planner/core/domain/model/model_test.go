package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
)

func TestCycleTable_CloneIsIndependent(t *testing.T) {
	orig := model.CycleTable{}
	orig.Set(0, "P1", "M1", 1.5)

	clone := orig.Clone()
	clone.Set(0, "P1", "M2", 2)
	clone.Set(1, "P1", "M1", 3)

	_, ok := orig.Lookup(0, "P1", "M2")
	assert.False(t, ok)
	_, ok = orig.Lookup(1, "P1", "M1")
	assert.False(t, ok)
	v, ok := clone.Lookup(0, "P1", "M1")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
}

func TestCycleTable_SetIfAbsent(t *testing.T) {
	c := model.CycleTable{}
	assert.True(t, c.SetIfAbsent(2, "P", "FAKE", 0.01))
	assert.False(t, c.SetIfAbsent(2, "P", "FAKE", 9))
	v, _ := c.Lookup(2, "P", "FAKE")
	assert.Equal(t, 0.01, v)
}

func TestRouteTable_Clone(t *testing.T) {
	orig := model.RouteTable{"P1": {{"A", "B"}, {"C"}}}
	clone := orig.Clone()
	clone["P1"][1] = append(clone["P1"][1], "FAKE")
	clone["P1"][0][0] = "Z"

	assert.Equal(t, model.RouteTable{"P1": {{"A", "B"}, {"C"}}}, orig)
	assert.Equal(t, 2, clone.RouteCount())
	assert.Equal(t, []string{"C", "FAKE"}, clone["P1"][1])
}

func TestNormalizeStatus(t *testing.T) {
	s := func(v string) *string { return &v }
	assert.Equal(t, model.StatusInProgress, model.NormalizeStatus(s(" in_progress ")))
	assert.Equal(t, model.StatusNotStarted, model.NormalizeStatus(s("")))
	assert.Equal(t, model.StatusNotStarted, model.NormalizeStatus(nil))
}

func TestParseVariant(t *testing.T) {
	v, err := model.ParseVariant("Timestamp")
	require.NoError(t, err)
	assert.Equal(t, model.VariantTimestamp, v)
	assert.True(t, model.RulesFor(v).InferRunningWindows)
	assert.False(t, model.RulesFor(model.VariantNumeric).InferRunningWindows)

	_, err = model.ParseVariant("cplex")
	assert.Error(t, err)
}

func TestClockTime(t *testing.T) {
	c, err := model.ParseClockTime("07:30")
	require.NoError(t, err)
	assert.Equal(t, "07:30", c.String())

	day := time.Date(2025, 3, 4, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 4, 7, 30, 0, 0, time.UTC), c.On(day))

	_, err = model.ParseClockTime("7h30")
	assert.Error(t, err)
}

func TestSynthesisRun_Lifecycle(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	run := model.NewSynthesisRun(model.RunMetadata{TenantID: "t"}, start)
	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, model.RunStatusStarted, run.Status)

	stage := model.NewStageExecution(run, model.StageScope, start)
	stage.Merge(map[string]int{"skipped": 2, "zero": 0})
	stage.Finish(start.Add(time.Second), nil)
	assert.Equal(t, map[string]int{"skipped": 2}, stage.Counts)
	assert.Equal(t, time.Second, stage.Duration())

	run.Finish(start.Add(2*time.Second), assert.AnError)
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.Equal(t, 2*time.Second, run.Duration())
}
