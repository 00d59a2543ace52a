package engine

import (
	"fmt"
	"math"

	"equity-trader/internal/models"
)

// Defensive-income thresholds. The price/MA200 band carries an epsilon on
// both bounds so floating-point noise cannot produce a false negative at
// exactly 0.97 or 1.12.
const (
	defDrawdownFloor    = -0.15
	defMaxVolatility    = 0.25
	defPriceBandLow     = 0.97
	defPriceBandHigh    = 1.12
	defBandEpsilon      = 1e-6
	defMaxMA50Distance  = 0.08
	defMaxVolumeRatio   = 1.50
)

// Audit messages emitted by the classification rules.
const (
	MsgTrendPullbackHit   = "Pullback of 5-20% above the long-term trend."
	MsgTrendPullbackMiss  = "Trend pullback conditions not met."
	MsgMeanReversionHit   = "Deep drawdown; mean-reversion candidate."
	MsgMeanReversionMiss  = "Deep drawdown conditions not met."
	MsgDefensiveHit       = "Mild six-month drawdown, low volatility, stable near the 200-day average, no short-term overheating."
	MsgDefensiveMiss      = "Defensive price/volatility stability conditions not met."
	MsgCandidateConflict  = "Multiple candidate types matched; conflicting setups, holding."
	MsgCandidateUndecided = "Unable to determine a candidate type."
)

// ClassificationRule checks whether a stock qualifies for one candidate type.
type ClassificationRule interface {
	Name() string
	Evaluate(stock models.StockSnapshot, regime models.MarketRegime) models.RuleResult
	CandidateType() models.CandidateType
}

// TrendPullbackRule matches stocks above their long-term trend in a
// 5-20% pullback.
type TrendPullbackRule struct{}

func (TrendPullbackRule) Name() string                        { return "trend_pullback" }
func (TrendPullbackRule) CandidateType() models.CandidateType { return models.TrendPullback }

func (r TrendPullbackRule) Evaluate(stock models.StockSnapshot, _ models.MarketRegime) models.RuleResult {
	passed := stock.Price > stock.MA200 &&
		stock.Drawdown6M <= -0.05 &&
		stock.Drawdown6M >= -0.20
	message := MsgTrendPullbackMiss
	if passed {
		message = MsgTrendPullbackHit
	}
	return models.RuleResult{Name: r.Name(), Passed: passed, Message: message}
}

// MeanReversionRule matches heavily drawn-down stocks below their long-term
// trend.
type MeanReversionRule struct{}

func (MeanReversionRule) Name() string                        { return "mean_reversion" }
func (MeanReversionRule) CandidateType() models.CandidateType { return models.MeanReversion }

func (r MeanReversionRule) Evaluate(stock models.StockSnapshot, _ models.MarketRegime) models.RuleResult {
	passed := stock.Drawdown6M <= -0.30 && stock.Price < stock.MA200
	message := MsgMeanReversionMiss
	if passed {
		message = MsgMeanReversionHit
	}
	return models.RuleResult{Name: r.Name(), Passed: passed, Message: message}
}

// DefensiveIncomeRule matches stable, low-volatility stocks trading near
// their 200-day average without short-term overheating. Unlike the other
// rules it reports one diagnostic line per sub-condition.
type DefensiveIncomeRule struct{}

func (DefensiveIncomeRule) Name() string                        { return "defensive_income" }
func (DefensiveIncomeRule) CandidateType() models.CandidateType { return models.DefensiveIncome }

func (r DefensiveIncomeRule) Evaluate(stock models.StockSnapshot, _ models.MarketRegime) models.RuleResult {
	drawdownOK := stock.Drawdown6M >= defDrawdownFloor
	volatilityOK := stock.VolatilityAnnual <= defMaxVolatility

	priceToMA200 := safeRatio(stock.Price, stock.MA200)
	bandLow := defPriceBandLow - defBandEpsilon
	bandHigh := defPriceBandHigh + defBandEpsilon
	priceBandOK := priceToMA200 >= bandLow && priceToMA200 <= bandHigh

	ma50Distance := 0.0
	if stock.MA50 != 0 {
		ma50Distance = math.Abs(stock.Price-stock.MA50) / stock.MA50
	}
	volumeRatio := safeRatio(stock.Volume, stock.AvgVolume)
	shortTermStable := ma50Distance <= defMaxMA50Distance && volumeRatio <= defMaxVolumeRatio

	passed := drawdownOK && volatilityOK && priceBandOK && shortTermStable

	lines := []string{
		fmt.Sprintf("[DEF] drawdown_6m=%.2f >= -0.15 (%s)", stock.Drawdown6M, passFail(drawdownOK)),
		fmt.Sprintf("[DEF] volatility_annual=%.2f <= 0.25 (%s)", stock.VolatilityAnnual, passFail(volatilityOK)),
		fmt.Sprintf("[DEF] price_to_ma200=%.6f within [%.6f, %.6f] (%s)",
			priceToMA200, bandLow, bandHigh, passFail(priceBandOK)),
		fmt.Sprintf("[DEF] overheat_check (ma50_distance=%.2f <= 0.08, volume_ratio=%.2f <= 1.50) (%s)",
			ma50Distance, volumeRatio, passFail(shortTermStable)),
	}
	summary := MsgDefensiveMiss
	if passed {
		summary = MsgDefensiveHit
	}
	lines = append(lines, summary)

	return models.RuleResult{Name: r.Name(), Passed: passed, Message: joinLines(lines)}
}

// Classifier evaluates the candidate rules in a fixed order and resolves
// their hits to zero or one candidate type.
type Classifier struct {
	rules []ClassificationRule
}

// NewClassifier creates a classifier over the given rules, evaluated in
// the order supplied.
func NewClassifier(rules []ClassificationRule) *Classifier {
	return &Classifier{rules: rules}
}

// DefaultClassifier returns the classifier with the standard rule order:
// trend pullback, mean reversion, defensive income.
func DefaultClassifier() *Classifier {
	return NewClassifier([]ClassificationRule{
		TrendPullbackRule{},
		MeanReversionRule{},
		DefensiveIncomeRule{},
	})
}

// Classify runs every rule, flattening all messages (including the
// defensive rule's multi-line diagnostics) into the result in evaluation
// order. Exactly one hit resolves to that candidate type; zero or multiple
// hits resolve to none, with an explicit conflict message on multiples.
func (c *Classifier) Classify(stock models.StockSnapshot, regime models.MarketRegime) models.ClassificationResult {
	var hits []models.CandidateType
	var messages []string
	for _, rule := range c.rules {
		result := rule.Evaluate(stock, regime)
		messages = append(messages, splitLines(result.Message)...)
		if result.Passed {
			hits = append(hits, rule.CandidateType())
		}
	}
	if len(hits) == 1 {
		return models.ClassificationResult{Type: hits[0], Messages: messages}
	}
	if len(hits) > 1 {
		messages = append(messages, MsgCandidateConflict)
	} else {
		messages = append(messages, MsgCandidateUndecided)
	}
	return models.ClassificationResult{Messages: messages}
}
