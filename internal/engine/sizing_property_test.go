package engine

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"equity-trader/internal/models"
)

// Property: tranche_pct * tranche_count reconstructs max_position_pct
// within floating-point tolerance, for any valid constraints and stock
// volatility.
func TestProperty_TrancheArithmeticIsConsistent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("tranche_pct * tranche_count == max_position_pct", prop.ForAll(
		func(maxPositionPct float64, trancheCount int, volatility float64) bool {
			plan := PositionSizer{}.Size(
				models.StockSnapshot{VolatilityAnnual: volatility},
				models.PortfolioConstraints{
					MaxPositionPct: maxPositionPct,
					TrancheCount:   trancheCount,
					MaxRiskPct:     0.02,
				},
			)
			rebuilt := plan.TranchePct * float64(trancheCount)
			return math.Abs(rebuilt-plan.MaxPositionPct) < 1e-12
		},
		gen.Float64Range(0.001, 0.5),
		gen.IntRange(1, 12),
		gen.Float64Range(0.0, 2.0),
	))

	properties.TestingRun(t)
}

// Property: the scaled position weight never exceeds the configured cap,
// and the risk cap passes through unchanged.
func TestProperty_ScaledWeightNeverExceedsCap(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("max_position_pct <= cap and risk cap passes through", prop.ForAll(
		func(maxPositionPct float64, maxRiskPct float64, volatility float64) bool {
			plan := PositionSizer{}.Size(
				models.StockSnapshot{VolatilityAnnual: volatility},
				models.PortfolioConstraints{
					MaxPositionPct: maxPositionPct,
					TrancheCount:   3,
					MaxRiskPct:     maxRiskPct,
				},
			)
			return plan.MaxPositionPct <= maxPositionPct && plan.RiskCapPct == maxRiskPct
		},
		gen.Float64Range(0.001, 0.5),
		gen.Float64Range(0.001, 0.1),
		gen.Float64Range(0.0, 2.0),
	))

	properties.TestingRun(t)
}

func TestSizeScalesDownHighVolatility(t *testing.T) {
	plan := PositionSizer{}.Size(
		models.StockSnapshot{VolatilityAnnual: 0.40},
		models.PortfolioConstraints{MaxPositionPct: 0.08, TrancheCount: 2, MaxRiskPct: 0.02},
	)

	// 0.08 * (0.20 / 0.40) = 0.04
	if math.Abs(plan.MaxPositionPct-0.04) > 1e-12 {
		t.Errorf("max position = %f, want 0.04", plan.MaxPositionPct)
	}
	if math.Abs(plan.TranchePct-0.02) > 1e-12 {
		t.Errorf("tranche = %f, want 0.02", plan.TranchePct)
	}
	if len(plan.Messages) != 2 {
		t.Errorf("messages = %v, want rationale plus summary", plan.Messages)
	}
}

func TestSizeFloorsNearZeroVolatility(t *testing.T) {
	plan := PositionSizer{}.Size(
		models.StockSnapshot{VolatilityAnnual: 0.0},
		models.PortfolioConstraints{MaxPositionPct: 0.08, TrancheCount: 2, MaxRiskPct: 0.02},
	)

	// Floored volatility makes the scale factor 20x; the cap binds.
	if plan.MaxPositionPct != 0.08 {
		t.Errorf("max position = %f, want the cap 0.08", plan.MaxPositionPct)
	}
}
