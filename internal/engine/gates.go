package engine

import "equity-trader/internal/models"

// Default gate thresholds.
const (
	DefaultMinAvgVolume  = 200000.0
	DefaultMaxVolatility = 0.45
)

// Audit messages emitted by the gates.
const (
	MsgLiquidityReject = "Average volume below the minimum threshold; rejected for insufficient liquidity."
	MsgLiquidityPass   = "Liquidity check passed."

	MsgVolatilityWait = "Annualized volatility above the limit; holding off due to excessive volatility."
	MsgVolatilityPass = "Volatility check passed."

	MsgRegimeMismatchReject = "Non-defensive sector in a RISK_OFF regime; rejected for regime mismatch."
	MsgRegimeMismatchPass   = "Regime alignment check passed."

	MsgEventRiskWait = "Earnings or regulatory event risk present; holding off on new entries."
	MsgEventRiskPass = "No event risk present."

	MsgBusinessClarityReject = "Business structure is not clear enough to underwrite; rejected."
	MsgBusinessClarityPass   = "Business structure is clear."
)

// Gate is a single independent eligibility check. A gate can reject or
// delay a candidate but never approves one by itself.
type Gate interface {
	Name() string
	Evaluate(market models.MarketSnapshot, stock models.StockSnapshot, regime models.MarketRegime) models.GateResult
}

// LiquidityGate rejects instruments whose average volume is below a floor.
type LiquidityGate struct {
	MinAvgVolume float64
}

// NewLiquidityGate creates a liquidity gate, applying the default floor
// when minAvgVolume is zero.
func NewLiquidityGate(minAvgVolume float64) LiquidityGate {
	if minAvgVolume == 0 {
		minAvgVolume = DefaultMinAvgVolume
	}
	return LiquidityGate{MinAvgVolume: minAvgVolume}
}

func (LiquidityGate) Name() string { return "liquidity_gate" }

func (g LiquidityGate) Evaluate(_ models.MarketSnapshot, stock models.StockSnapshot, _ models.MarketRegime) models.GateResult {
	if stock.AvgVolume < g.MinAvgVolume {
		return models.GateResult{Name: g.Name(), Decision: models.GateReject, Message: MsgLiquidityReject}
	}
	return models.GateResult{Name: g.Name(), Decision: models.GatePass, Message: MsgLiquidityPass}
}

// VolatilityGate delays instruments whose annualized volatility exceeds a cap.
type VolatilityGate struct {
	MaxVolatility float64
}

// NewVolatilityGate creates a volatility gate, applying the default cap
// when maxVolatility is zero.
func NewVolatilityGate(maxVolatility float64) VolatilityGate {
	if maxVolatility == 0 {
		maxVolatility = DefaultMaxVolatility
	}
	return VolatilityGate{MaxVolatility: maxVolatility}
}

func (VolatilityGate) Name() string { return "volatility_gate" }

func (g VolatilityGate) Evaluate(_ models.MarketSnapshot, stock models.StockSnapshot, _ models.MarketRegime) models.GateResult {
	if stock.VolatilityAnnual > g.MaxVolatility {
		return models.GateResult{Name: g.Name(), Decision: models.GateWait, Message: MsgVolatilityWait}
	}
	return models.GateResult{Name: g.Name(), Decision: models.GatePass, Message: MsgVolatilityPass}
}

// RegimeMismatchGate rejects non-defensive sectors in a RISK_OFF regime.
type RegimeMismatchGate struct{}

func (RegimeMismatchGate) Name() string { return "regime_mismatch_gate" }

func (g RegimeMismatchGate) Evaluate(_ models.MarketSnapshot, stock models.StockSnapshot, regime models.MarketRegime) models.GateResult {
	if regime == models.RegimeRiskOff && !stock.SectorDefensive {
		return models.GateResult{Name: g.Name(), Decision: models.GateReject, Message: MsgRegimeMismatchReject}
	}
	return models.GateResult{Name: g.Name(), Decision: models.GatePass, Message: MsgRegimeMismatchPass}
}

// EventRiskGate delays instruments facing earnings or regulatory events.
type EventRiskGate struct{}

func (EventRiskGate) Name() string { return "event_risk_gate" }

func (g EventRiskGate) Evaluate(_ models.MarketSnapshot, stock models.StockSnapshot, _ models.MarketRegime) models.GateResult {
	if stock.EarningsRisk || stock.RegulatoryRisk {
		return models.GateResult{Name: g.Name(), Decision: models.GateWait, Message: MsgEventRiskWait}
	}
	return models.GateResult{Name: g.Name(), Decision: models.GatePass, Message: MsgEventRiskPass}
}

// BusinessClarityGate rejects instruments whose business cannot be explained.
type BusinessClarityGate struct{}

func (BusinessClarityGate) Name() string { return "business_clarity_gate" }

func (g BusinessClarityGate) Evaluate(_ models.MarketSnapshot, stock models.StockSnapshot, _ models.MarketRegime) models.GateResult {
	if !stock.BusinessClarity {
		return models.GateResult{Name: g.Name(), Decision: models.GateReject, Message: MsgBusinessClarityReject}
	}
	return models.GateResult{Name: g.Name(), Decision: models.GatePass, Message: MsgBusinessClarityPass}
}

// DefaultGates returns the gate chain in its fixed evaluation order.
func DefaultGates(minAvgVolume, maxVolatility float64) []Gate {
	return []Gate{
		NewLiquidityGate(minAvgVolume),
		NewVolatilityGate(maxVolatility),
		RegimeMismatchGate{},
		EventRiskGate{},
		BusinessClarityGate{},
	}
}

// RunGates iterates the chain in order, logging every evaluated gate's
// message. The first REJECT short-circuits: remaining gates are neither
// evaluated nor logged. Without a REJECT, any WAIT makes the chain WAIT;
// otherwise the chain passes.
func RunGates(gates []Gate, market models.MarketSnapshot, stock models.StockSnapshot, regime models.MarketRegime) (models.GateDecision, []string) {
	decision := models.GatePass
	var messages []string
	for _, gate := range gates {
		result := gate.Evaluate(market, stock, regime)
		messages = append(messages, result.Message)
		if result.Decision == models.GateReject {
			return models.GateReject, messages
		}
		if result.Decision == models.GateWait {
			decision = models.GateWait
		}
	}
	return decision, messages
}
