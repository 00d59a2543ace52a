package engine

import (
	"fmt"

	"equity-trader/internal/models"
)

// volatilityFloor prevents the volatility scaling ratio from blowing up on
// near-zero readings.
const volatilityFloor = 0.01

// MsgSizingRationale is the fixed rationale line of every position plan.
const MsgSizingRationale = "Position cap scaled down by realized volatility."

// PositionSizer computes volatility-scaled position and tranche sizing.
type PositionSizer struct{}

// Size scales the maximum position weight by target/realized volatility,
// never above the configured cap, and splits it across tranches. The risk
// cap passes through unchanged. Always succeeds.
func (PositionSizer) Size(stock models.StockSnapshot, constraints models.PortfolioConstraints) models.PositionPlan {
	constraints = constraints.WithDefaults()

	volatility := stock.VolatilityAnnual
	if volatility < volatilityFloor {
		volatility = volatilityFloor
	}

	scaled := constraints.MaxPositionPct * (constraints.TargetVolatility / volatility)
	maxPositionPct := constraints.MaxPositionPct
	if scaled < maxPositionPct {
		maxPositionPct = scaled
	}

	tranchePct := 0.0
	if constraints.TrancheCount > 0 {
		tranchePct = maxPositionPct / float64(constraints.TrancheCount)
	}

	messages := []string{
		MsgSizingRationale,
		fmt.Sprintf("Max single-position weight %.2f%%, split across %d tranches.",
			maxPositionPct*100, constraints.TrancheCount),
	}

	return models.PositionPlan{
		MaxPositionPct: maxPositionPct,
		TranchePct:     tranchePct,
		RiskCapPct:     constraints.MaxRiskPct,
		Messages:       messages,
	}
}
