// Package engine implements the trade decision pipeline: regime
// classification, the eligibility gate chain, candidate classification,
// entry-trigger evaluation, position sizing, and the orchestrator that
// composes them into a DecisionReport.
//
// Every component here is a pure, total function over its inputs. No I/O,
// no shared state, no blocking; concurrent evaluations need no coordination.
package engine

import "equity-trader/internal/models"

// Audit messages emitted by the regime classifier. Exported so callers
// (the scanner) can recognize stages structurally instead of parsing text.
const (
	MsgRegimeRiskOn  = "Index above its 200-day average with low volatility; classified RISK_ON."
	MsgRegimeRiskOff = "Index below its 200-day average with high volatility; classified RISK_OFF."
	MsgRegimeNeutral = "Mixed index and volatility readings; classified NEUTRAL."
)

// RegimeClassifier derives a market regime from aggregate market data.
type RegimeClassifier struct{}

// Classify applies the regime rules in priority order, first match wins:
// index above MA200 with VIX < 20 is RISK_ON, index below MA200 with
// VIX > 25 is RISK_OFF, anything else is NEUTRAL.
func (RegimeClassifier) Classify(market models.MarketSnapshot) (models.MarketRegime, models.RuleResult) {
	var (
		regime  models.MarketRegime
		message string
	)
	switch {
	case market.IndexPrice > market.IndexMA200 && market.VIX < 20:
		regime = models.RegimeRiskOn
		message = MsgRegimeRiskOn
	case market.IndexPrice < market.IndexMA200 && market.VIX > 25:
		regime = models.RegimeRiskOff
		message = MsgRegimeRiskOff
	default:
		regime = models.RegimeNeutral
		message = MsgRegimeNeutral
	}
	return regime, models.RuleResult{Name: "market_regime", Passed: true, Message: message}
}
