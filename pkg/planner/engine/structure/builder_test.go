package structure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/engine/structure"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func step(route int64, product string, productID int64, seq int, ws *string, cycle, batch *float64) model.RouteStepRecord {
	return model.RouteStepRecord{
		RouteID:         route,
		ProductID:       productID,
		ProductCode:     product,
		SequenceIndex:   seq,
		WorkstationCode: ws,
		CycleSeconds:    cycle,
		MinBatchQty:     batch,
	}
}

func TestBuild(t *testing.T) {
	t.Run("empty input yields empty tables", func(t *testing.T) {
		s, rep := structure.Build(nil, 60)
		assert.Empty(t, s.Cycle)
		assert.Empty(t, s.MinBatch)
		assert.Empty(t, s.Routes)
		assert.Equal(t, 0, rep.Steps)
	})

	t.Run("converts seconds to time units at zero-based indices", func(t *testing.T) {
		steps := []model.RouteStepRecord{
			step(1, "P1", 10, 1, strPtr("M1"), floatPtr(120), floatPtr(5)),
			step(1, "P1", 10, 2, strPtr("M2"), floatPtr(30), floatPtr(0)),
			step(1, "P1", 10, 3, strPtr("M3"), nil, nil),
		}
		s, rep := structure.Build(steps, 60)

		v, ok := s.Cycle.Lookup(0, "P1", "M1")
		require.True(t, ok)
		assert.InDelta(t, 2.0, v, 1e-9)
		v, ok = s.Cycle.Lookup(1, "P1", "M2")
		require.True(t, ok)
		assert.InDelta(t, 0.5, v, 1e-9)
		_, ok = s.Cycle.Lookup(2, "P1", "M3")
		assert.False(t, ok)

		assert.Equal(t, model.MinBatchTable{"P1": {"M1": 5}}, s.MinBatch)
		assert.Equal(t, [][]string{{"M1", "M2", "M3"}}, s.Routes["P1"])
		assert.Equal(t, 2, s.LastProcess[10])

		assert.Equal(t, 1, rep.NoCycleTime)
		assert.Equal(t, 2, rep.NoMinBatch)
		assert.Equal(t, 2, rep.CycleEntries)
		assert.Equal(t, 1, rep.RoutesBuilt)
	})

	t.Run("groups steps into routes per product", func(t *testing.T) {
		steps := []model.RouteStepRecord{
			step(1, "P1", 10, 1, strPtr("A"), nil, nil),
			step(1, "P1", 10, 2, strPtr("B"), nil, nil),
			step(2, "P1", 10, 1, strPtr("C"), nil, nil),
			step(3, "P2", 20, 1, strPtr("D"), nil, nil),
		}
		s, _ := structure.Build(steps, 60)
		assert.Equal(t, [][]string{{"A", "B"}, {"C"}}, s.Routes["P1"])
		assert.Equal(t, [][]string{{"D"}}, s.Routes["P2"])
		assert.Equal(t, 3, s.Routes.RouteCount())
	})

	t.Run("steps without workstation are dropped but count towards last process", func(t *testing.T) {
		steps := []model.RouteStepRecord{
			step(1, "P1", 10, 1, strPtr("A"), floatPtr(60), floatPtr(1)),
			step(1, "P1", 10, 2, nil, floatPtr(60), floatPtr(1)),
		}
		s, rep := structure.Build(steps, 60)
		assert.Equal(t, [][]string{{"A"}}, s.Routes["P1"])
		assert.Equal(t, 1, s.LastProcess[10])
		assert.Equal(t, 1, rep.NoWorkstation)
		_, ok := s.Cycle[1]
		assert.False(t, ok)
	})

	t.Run("later step wins on duplicate key", func(t *testing.T) {
		steps := []model.RouteStepRecord{
			step(1, "P1", 10, 1, strPtr("A"), floatPtr(60), nil),
			step(2, "P1", 10, 1, strPtr("A"), floatPtr(180), nil),
		}
		s, _ := structure.Build(steps, 60)
		v, _ := s.Cycle.Lookup(0, "P1", "A")
		assert.InDelta(t, 3.0, v, 1e-9)
	})

	t.Run("invalid sequence is not placed in cycle table", func(t *testing.T) {
		steps := []model.RouteStepRecord{step(1, "P1", 10, 0, strPtr("A"), floatPtr(60), nil)}
		s, rep := structure.Build(steps, 60)
		assert.Empty(t, s.Cycle)
		assert.Equal(t, 1, rep.InvalidSequence)
	})
}
