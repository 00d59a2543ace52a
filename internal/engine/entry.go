package engine

import (
	"fmt"

	"equity-trader/internal/models"
)

// Entry-trigger volume multiples.
const (
	trendPullbackVolumeMultiple = 1.2
	meanReversionVolumeMultiple = 1.3
)

// Audit messages emitted by the entry rules.
const (
	MsgTrendEntryHit      = "Price reclaimed the 50-day average on rising volume."
	MsgTrendEntryMiss     = "Awaiting support and volume confirmation."
	MsgMeanRevEntryHit    = "Short-term rebound with a volume surge confirmed."
	MsgMeanRevEntryMiss   = "Awaiting confirmation of a rebound structure."
	MsgDefensiveEntryHit  = "Holding above the long-term average; defensive setup intact."
	MsgDefensiveEntryMiss = "Awaiting recovery of the long-term trend."
)

// EntryRule is the short-term confirmation check for one candidate type.
type EntryRule interface {
	Name() string
	Evaluate(stock models.StockSnapshot) models.RuleResult
	// Decision maps the rule outcome to an entry decision. Current rules
	// only ever produce ENTRY_ALLOWED or WAIT_FOR_CONFIRMATION; NO_ENTRY
	// stays reachable through the final-decision mapping.
	Decision(passed bool) models.EntryDecision
}

// TrendPullbackEntryRule requires a reclaimed 50-day average and a 1.2x
// volume pickup.
type TrendPullbackEntryRule struct{}

func (TrendPullbackEntryRule) Name() string { return "trend_pullback_entry" }

func (r TrendPullbackEntryRule) Evaluate(stock models.StockSnapshot) models.RuleResult {
	passed := stock.Price > stock.MA50 && stock.Volume >= stock.AvgVolume*trendPullbackVolumeMultiple
	message := MsgTrendEntryMiss
	if passed {
		message = MsgTrendEntryHit
	}
	return models.RuleResult{Name: r.Name(), Passed: passed, Message: message}
}

func (TrendPullbackEntryRule) Decision(passed bool) models.EntryDecision {
	if passed {
		return models.EntryAllowed
	}
	return models.WaitForConfirmation
}

// MeanReversionEntryRule requires a reclaimed 50-day average and a 1.3x
// volume surge.
type MeanReversionEntryRule struct{}

func (MeanReversionEntryRule) Name() string { return "mean_reversion_entry" }

func (r MeanReversionEntryRule) Evaluate(stock models.StockSnapshot) models.RuleResult {
	passed := stock.Price > stock.MA50 && stock.Volume >= stock.AvgVolume*meanReversionVolumeMultiple
	message := MsgMeanRevEntryMiss
	if passed {
		message = MsgMeanRevEntryHit
	}
	return models.RuleResult{Name: r.Name(), Passed: passed, Message: message}
}

func (MeanReversionEntryRule) Decision(passed bool) models.EntryDecision {
	if passed {
		return models.EntryAllowed
	}
	return models.WaitForConfirmation
}

// DefensiveIncomeEntryRule requires the price to hold above the 200-day
// average.
type DefensiveIncomeEntryRule struct{}

func (DefensiveIncomeEntryRule) Name() string { return "defensive_income_entry" }

func (r DefensiveIncomeEntryRule) Evaluate(stock models.StockSnapshot) models.RuleResult {
	passed := stock.Price > stock.MA200
	message := MsgDefensiveEntryMiss
	if passed {
		message = MsgDefensiveEntryHit
	}
	return models.RuleResult{Name: r.Name(), Passed: passed, Message: message}
}

func (DefensiveIncomeEntryRule) Decision(passed bool) models.EntryDecision {
	if passed {
		return models.EntryAllowed
	}
	return models.WaitForConfirmation
}

// EntryEvaluator dispatches a resolved candidate type to its entry rule.
// The rule table is exhaustive by construction; a missing candidate type is
// a programming error surfaced when the evaluator is built, never per call.
type EntryEvaluator struct {
	rules map[models.CandidateType]EntryRule
}

// NewEntryEvaluator validates that every candidate type has a registered
// rule and returns the evaluator.
func NewEntryEvaluator(rules map[models.CandidateType]EntryRule) (*EntryEvaluator, error) {
	for _, ct := range models.CandidateTypes() {
		if _, ok := rules[ct]; !ok {
			return nil, fmt.Errorf("entry evaluator: no rule registered for candidate type %s", ct)
		}
	}
	return &EntryEvaluator{rules: rules}, nil
}

// DefaultEntryEvaluator returns the evaluator with the standard rule per
// candidate type.
func DefaultEntryEvaluator() *EntryEvaluator {
	ev, err := NewEntryEvaluator(map[models.CandidateType]EntryRule{
		models.TrendPullback:   TrendPullbackEntryRule{},
		models.MeanReversion:   MeanReversionEntryRule{},
		models.DefensiveIncome: DefensiveIncomeEntryRule{},
	})
	if err != nil {
		// Unreachable: the table above covers every candidate type.
		panic(err)
	}
	return ev
}

// Evaluate runs the entry rule for the candidate type.
func (e *EntryEvaluator) Evaluate(candidateType models.CandidateType, stock models.StockSnapshot) models.EntryResult {
	rule := e.rules[candidateType]
	result := rule.Evaluate(stock)
	return models.EntryResult{
		Decision: rule.Decision(result.Passed),
		Messages: []string{result.Message},
	}
}
