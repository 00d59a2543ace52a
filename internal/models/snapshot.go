// Package models defines the immutable value records exchanged between the
// decision engine and its collaborators.
package models

// MarketSnapshot captures aggregate market state used to derive the regime.
type MarketSnapshot struct {
	IndexPrice  float64
	IndexMA200  float64
	VIX         float64
	RateTrendUp bool
}

// StockSnapshot captures per-instrument facts for a single evaluation.
// All numeric fields are expected to be finite; ratio denominators may be
// zero and are guarded at every use site.
type StockSnapshot struct {
	Ticker           string
	Price            float64
	AvgVolume        float64
	Volume           float64
	VolatilityAnnual float64
	MA50             float64
	MA200            float64
	Drawdown6M       float64 // signed fraction, e.g. -0.12 for -12%
	DividendYield    float64
	EarningsRisk     bool
	RegulatoryRisk   bool
	BusinessClarity  bool
	SectorDefensive  bool
}

// PortfolioConstraints holds position-sizing limits for the evaluation.
type PortfolioConstraints struct {
	MaxPositionPct   float64
	TrancheCount     int // >= 1, guaranteed by config validation
	MaxRiskPct       float64
	TargetVolatility float64
}

// DefaultTargetVolatility is applied when constraints omit a target.
const DefaultTargetVolatility = 0.20

// WithDefaults returns a copy with zero-valued optional fields filled in.
func (c PortfolioConstraints) WithDefaults() PortfolioConstraints {
	if c.TargetVolatility == 0 {
		c.TargetVolatility = DefaultTargetVolatility
	}
	return c
}
