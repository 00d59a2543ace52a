package engine

import (
	"fmt"

	"equity-trader/internal/models"
)

// Fixed action-plan lines.
const (
	ActionNoNewBuys           = "No new buys."
	ActionReevaluateImproved  = "Re-evaluate on improved conditions."
	ActionDetermineCandidate  = "Determine the candidate type before re-evaluating."
	ActionEntryBuyTranche     = "Buy one tranche once primary entry conditions hold."
	ActionEntryAddTranches    = "Add further tranches only after reconfirming the same conditions."
	ActionWaitUnmet           = "Primary entry conditions unmet; wait for confirmation."
	ActionWaitRecheck         = "Re-check volume and moving-average conditions before entering."
	ActionNoEntryHalt         = "Entry conditions not satisfied; halting new buys."
	ActionInvalidation        = "Invalidation: a volatility spike or regime deterioration halts new buys."
	ActionProhibitions        = "Prohibited: buying off a single indicator, emotional decisions."
	candidateTypeLinePrefix   = "Candidate type: "
)

// CandidateTypeLine renders the action-plan line naming the resolved
// candidate type. The scanner parses it back with ParseCandidateTypeLine.
func CandidateTypeLine(ct models.CandidateType) string {
	return fmt.Sprintf("%s%s.", candidateTypeLinePrefix, ct)
}

// ParseCandidateTypeLine extracts the candidate type from an action-plan
// line, returning false when the line is not a candidate-type line.
func ParseCandidateTypeLine(line string) (models.CandidateType, bool) {
	for _, ct := range models.CandidateTypes() {
		if line == CandidateTypeLine(ct) {
			return ct, true
		}
	}
	return "", false
}

// Engine sequences the decision pipeline: REGIME -> GATES -> CLASSIFY ->
// ENTRY -> SIZE_AND_FINALIZE. Transitions are strictly forward; gates and
// classification may short-circuit to a terminal report.
type Engine struct {
	regime     RegimeClassifier
	gates      []Gate
	classifier *Classifier
	entries    *EntryEvaluator
	sizer      PositionSizer
}

// New assembles an engine from explicit components.
func New(gates []Gate, classifier *Classifier, entries *EntryEvaluator) *Engine {
	return &Engine{
		gates:      gates,
		classifier: classifier,
		entries:    entries,
	}
}

// NewDefault assembles the standard pipeline. Zero thresholds select the
// built-in defaults.
func NewDefault(minAvgVolume, maxVolatility float64) *Engine {
	return New(DefaultGates(minAvgVolume, maxVolatility), DefaultClassifier(), DefaultEntryEvaluator())
}

// Evaluate runs one full evaluation. It is a pure function of its inputs:
// identical inputs always yield an identical report.
func (e *Engine) Evaluate(market models.MarketSnapshot, stock models.StockSnapshot, constraints models.PortfolioConstraints) models.DecisionReport {
	var reasonLog []string

	regime, regimeResult := e.regime.Classify(market)
	reasonLog = append(reasonLog, regimeResult.Message)

	gateDecision, gateMessages := RunGates(e.gates, market, stock, regime)
	reasonLog = append(reasonLog, gateMessages...)

	if gateDecision == models.GateReject {
		return models.DecisionReport{
			Decision:   models.Reject,
			ReasonLog:  reasonLog,
			ActionPlan: []string{ActionNoNewBuys},
		}
	}
	if gateDecision == models.GateWait {
		return models.DecisionReport{
			Decision:   models.Wait,
			ReasonLog:  reasonLog,
			ActionPlan: []string{ActionReevaluateImproved},
		}
	}

	classification := e.classifier.Classify(stock, regime)
	reasonLog = append(reasonLog, classification.Messages...)

	if classification.Type == "" {
		return models.DecisionReport{
			Decision:   models.Wait,
			ReasonLog:  reasonLog,
			ActionPlan: []string{ActionDetermineCandidate},
		}
	}

	entry := e.entries.Evaluate(classification.Type, stock)
	reasonLog = append(reasonLog, entry.Messages...)

	// Sizing runs regardless of the entry outcome; the risk context is
	// reported even when the decision is to wait.
	plan := e.sizer.Size(stock, constraints)

	actionPlan := append([]string{}, plan.Messages...)
	actionPlan = append(actionPlan, buildActionPlan(classification.Type, entry.Decision, plan)...)

	return models.DecisionReport{
		Decision:   finalDecision(entry.Decision),
		ReasonLog:  reasonLog,
		ActionPlan: actionPlan,
	}
}

func finalDecision(entry models.EntryDecision) models.FinalDecision {
	switch entry {
	case models.EntryAllowed:
		return models.Approve
	case models.WaitForConfirmation:
		return models.Wait
	default:
		return models.Reject
	}
}

func buildActionPlan(candidateType models.CandidateType, entry models.EntryDecision, plan models.PositionPlan) []string {
	lines := []string{CandidateTypeLine(candidateType)}
	switch entry {
	case models.EntryAllowed:
		lines = append(lines, ActionEntryBuyTranche, ActionEntryAddTranches)
	case models.WaitForConfirmation:
		lines = append(lines, ActionWaitUnmet, ActionWaitRecheck)
	default:
		lines = append(lines, ActionNoEntryHalt)
	}
	lines = append(lines,
		fmt.Sprintf("Position cap: %.2f%%.", plan.MaxPositionPct*100),
		ActionInvalidation,
		ActionProhibitions,
	)
	return lines
}
