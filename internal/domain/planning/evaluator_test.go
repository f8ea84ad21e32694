package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/railbot-go/internal/domain/board"
	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/snapshot"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
	"github.com/andrescamacho/railbot-go/internal/domain/train"
)

func TestEvaluateDelivery(t *testing.T) {
	evaluator := NewOptionEvaluator()

	t.Run("measures income against path length and bank", func(t *testing.T) {
		snap := buildSnapshot(t, nil)
		opt := NewDeliverOption(DeliverParams{
			CardID: 7, DemandIndex: 0, City: "Paris", Load: loads.Coal, Payment: 15,
			MovePath: []board.Coord{{Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}},
		})

		values := evaluator.Evaluate(snap, opt)

		assert.InDelta(t, 0.30, values[DimImmediateIncome], 1e-9) // 15 of 50
		assert.InDelta(t, 1.0, values[DimIncomePerMilepost], 1e-9) // 7.5/mp saturates
		assert.InDelta(t, 0.26, values[DimVictoryProgress], 1e-9) // 65 of 250
		assert.InDelta(t, 0.25, values[DimLoadScarcity], 1e-9)    // 1 of 4 Coal on trains
		assert.Zero(t, values[DimMajorCityProximity])             // Paris is no major city
		assert.Zero(t, values[DimRiskExposure])                   // no debt
	})

	t.Run("major city destinations score proximity", func(t *testing.T) {
		snap := buildSnapshot(t, func(d *snapshot.Data) {
			d.Players[1].Loads = []loads.LoadType{loads.Cheese}
		})
		opt := NewDeliverOption(DeliverParams{
			CardID: 7, DemandIndex: 2, City: "Berlin", Load: loads.Cheese, Payment: 20,
		})

		values := evaluator.Evaluate(snap, opt)
		assert.Equal(t, 1.0, values[DimMajorCityProximity])
	})

	t.Run("debt shows up as negative risk", func(t *testing.T) {
		snap := buildSnapshot(t, func(d *snapshot.Data) {
			d.Players[1].Debt = 20
		})
		opt := NewDeliverOption(DeliverParams{
			CardID: 7, DemandIndex: 0, City: "Paris", Load: loads.Coal, Payment: 15,
		})

		values := evaluator.Evaluate(snap, opt)
		assert.InDelta(t, -0.4, values[DimRiskExposure], 1e-9)
	})

	t.Run("counts servable demands on other cards", func(t *testing.T) {
		// Wine aboard too: card 9 demand 0 (Wine to Paris) becomes servable
		snap := buildSnapshot(t, func(d *snapshot.Data) {
			d.Players[1].Loads = []loads.LoadType{loads.Coal, loads.Wine}
		})
		opt := NewDeliverOption(DeliverParams{
			CardID: 7, DemandIndex: 0, City: "Paris", Load: loads.Coal, Payment: 15,
		})

		values := evaluator.Evaluate(snap, opt)
		assert.InDelta(t, 1.0/6.0, values[DimMultiDelivery], 1e-9)
	})
}

func TestEvaluatePickup(t *testing.T) {
	evaluator := NewOptionEvaluator()

	t.Run("rates the carried mix after the pickup", func(t *testing.T) {
		snap := buildSnapshot(t, nil)
		opt := NewPickupAndDeliverOption(PickupAndDeliverParams{
			Load: loads.Wine, City: "Paris",
			PickupPath: []board.Coord{{Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}},
		})

		values := evaluator.Evaluate(snap, opt)

		// Coal and Wine both appear in hand demands: 2 of 2 slots useful
		assert.Equal(t, 1.0, values[DimLoadCombination])
		assert.Zero(t, values[DimImmediateIncome]) // no delivery leg
	})

	t.Run("delivery leg contributes income over the combined path", func(t *testing.T) {
		snap := buildSnapshot(t, nil)
		opt := NewPickupAndDeliverOption(PickupAndDeliverParams{
			Load: loads.Wine, City: "Paris",
			PickupPath: []board.Coord{{Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}},
			Delivery: &DeliverParams{
				CardID: 9, DemandIndex: 0, City: "Paris", Load: loads.Wine, Payment: 12,
				MovePath: []board.Coord{{Row: 0, Col: 3}},
			},
		})

		values := evaluator.Evaluate(snap, opt)

		assert.InDelta(t, 0.24, values[DimImmediateIncome], 1e-9) // 12 of 50
		// 12 over 3 mileposts (2 pickup + 1 minimum delivery)
		assert.InDelta(t, 12.0/3.0/5.0, values[DimIncomePerMilepost], 1e-9)
	})
}

func TestEvaluateBuild(t *testing.T) {
	evaluator := NewOptionEvaluator()

	t.Run("expansion grows with the run and aligns with the trunk", func(t *testing.T) {
		snap := buildSnapshot(t, nil)
		topo := snap.Topology()
		segments := []track.Segment{
			testSegment(t, topo, board.Coord{Row: 0, Col: 3}, board.Coord{Row: 0, Col: 4}),
		}
		opt := NewBuildOption(BuildParams{Segments: segments, Cost: 1})

		values := evaluator.Evaluate(snap, opt)

		assert.InDelta(t, 1.0/8.0, values[DimNetworkExpansion], 1e-9)
		assert.Equal(t, 1.0, values[DimBackboneAlignment]) // grows out of Paris
		assert.InDelta(t, -(1.0 / 50.0), values[DimRiskExposure], 1e-9)
		assert.Zero(t, values[DimImmediateIncome])
	})

	t.Run("first track of the game is neutral alignment", func(t *testing.T) {
		snap := buildSnapshot(t, func(d *snapshot.Data) {
			d.Tracks = nil
		})
		topo := snap.Topology()
		segments := []track.Segment{
			testSegment(t, topo, board.Coord{Row: 0, Col: 1}, board.Coord{Row: 0, Col: 2}),
		}
		opt := NewBuildOption(BuildParams{Segments: segments, Cost: 1})

		values := evaluator.Evaluate(snap, opt)
		assert.Equal(t, 0.5, values[DimBackboneAlignment])
	})

	t.Run("newly reached unclaimed cities count as blocking", func(t *testing.T) {
		snap := buildSnapshot(t, nil)
		topo := snap.Topology()
		segments := []track.Segment{
			testSegment(t, topo, board.Coord{Row: 0, Col: 1}, board.Coord{Row: 1, Col: 1}),
		}
		opt := NewBuildOption(BuildParams{Segments: segments, Cost: 5})

		values := evaluator.Evaluate(snap, opt)
		assert.Equal(t, 1.0, values[DimBlocking]) // Berlin center, nobody there yet
	})

	t.Run("reaching the major city this turn maxes proximity", func(t *testing.T) {
		snap := buildSnapshot(t, nil)
		topo := snap.Topology()
		opt := NewBuildTowardOption(BuildTowardParams{
			BuildParams: BuildParams{
				Segments: []track.Segment{
					testSegment(t, topo, board.Coord{Row: 0, Col: 1}, board.Coord{Row: 1, Col: 1}),
				},
				Cost: 5,
			},
			City:    "Berlin",
			Reaches: true,
		})

		values := evaluator.Evaluate(snap, opt)

		assert.Equal(t, 1.0, values[DimMajorCityProximity])
		assert.InDelta(t, 1.0, values[DimVictoryProgress], 1e-9) // 1 of 1 majors
	})

	t.Run("partial progress scores lower proximity", func(t *testing.T) {
		snap := buildSnapshot(t, nil)
		topo := snap.Topology()
		opt := NewBuildTowardOption(BuildTowardParams{
			BuildParams: BuildParams{
				Segments: []track.Segment{
					testSegment(t, topo, board.Coord{Row: 0, Col: 3}, board.Coord{Row: 0, Col: 4}),
				},
				Cost: 1,
			},
			City:    "Berlin",
			Reaches: false,
		})

		values := evaluator.Evaluate(snap, opt)
		assert.Equal(t, 0.6, values[DimMajorCityProximity])
	})
}

func TestEvaluateUpgrade(t *testing.T) {
	evaluator := NewOptionEvaluator()

	t.Run("cheap crossgrade beats a full upgrade on ROI", func(t *testing.T) {
		crossSnap := buildSnapshot(t, func(d *snapshot.Data) {
			d.Players[1].TrainType = train.FastFreight
		})
		cross := evaluator.Evaluate(crossSnap, NewUpgradeOption(UpgradeParams{
			Target: train.HeavyFreight, Kind: train.KindCrossgrade, Cost: train.CrossgradeCost,
		}))

		upSnap := buildSnapshot(t, nil)
		up := evaluator.Evaluate(upSnap, NewUpgradeOption(UpgradeParams{
			Target: train.HeavyFreight, Kind: train.KindUpgrade, Cost: train.UpgradeCost,
		}))

		assert.Greater(t, cross[DimUpgradeROI], up[DimUpgradeROI])
		assert.InDelta(t, -(float64(train.CrossgradeCost) / 50.0), cross[DimRiskExposure], 1e-9)
	})
}

func TestEvaluatePass(t *testing.T) {
	snap := buildSnapshot(t, nil)

	values := NewOptionEvaluator().Evaluate(snap, NewPassOption())
	assert.Empty(t, values)
}
