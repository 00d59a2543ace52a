package engine

import (
	"reflect"
	"strings"
	"testing"

	"equity-trader/internal/models"
)

func testMarket() models.MarketSnapshot {
	return models.MarketSnapshot{IndexPrice: 4200, IndexMA200: 4000, VIX: 18, RateTrendUp: true}
}

func testConstraints() models.PortfolioConstraints {
	return models.PortfolioConstraints{MaxPositionPct: 0.08, TrancheCount: 3, MaxRiskPct: 0.02}
}

func trendPullbackStock() models.StockSnapshot {
	return models.StockSnapshot{
		Ticker:           "TP",
		Price:            52,
		AvgVolume:        500000,
		Volume:           750000,
		VolatilityAnnual: 0.28,
		MA50:             50,
		MA200:            45,
		Drawdown6M:       -0.12,
		BusinessClarity:  true,
	}
}

func TestEvaluateApprovesTrendPullback(t *testing.T) {
	e := NewDefault(0, 0)
	report := e.Evaluate(testMarket(), trendPullbackStock(), testConstraints())

	if report.Decision != models.Approve {
		t.Fatalf("decision = %s, want APPROVE\nreasons: %s", report.Decision, strings.Join(report.ReasonLog, "\n"))
	}
	found := false
	for _, line := range report.ActionPlan {
		if ct, ok := ParseCandidateTypeLine(line); ok && ct == models.TrendPullback {
			found = true
		}
	}
	if !found {
		t.Errorf("action plan missing trend-pullback candidate line: %v", report.ActionPlan)
	}
}

func TestEvaluateRejectsLowLiquidity(t *testing.T) {
	e := NewDefault(0, 0)
	stock := trendPullbackStock()
	stock.AvgVolume = 500
	stock.Volume = 500

	report := e.Evaluate(testMarket(), stock, testConstraints())

	if report.Decision != models.Reject {
		t.Fatalf("decision = %s, want REJECT", report.Decision)
	}
	// Regime message plus the liquidity rejection only: the chain stops at
	// the first REJECT without evaluating later gates.
	if len(report.ReasonLog) != 2 {
		t.Fatalf("reason log length = %d, want 2: %v", len(report.ReasonLog), report.ReasonLog)
	}
	if report.ReasonLog[1] != MsgLiquidityReject {
		t.Errorf("reason[1] = %q, want liquidity rejection", report.ReasonLog[1])
	}
	if !reflect.DeepEqual(report.ActionPlan, []string{ActionNoNewBuys}) {
		t.Errorf("action plan = %v, want [%q]", report.ActionPlan, ActionNoNewBuys)
	}
}

func TestEvaluateWaitsOnEventRisk(t *testing.T) {
	e := NewDefault(0, 0)
	stock := trendPullbackStock()
	stock.EarningsRisk = true

	report := e.Evaluate(testMarket(), stock, testConstraints())

	if report.Decision != models.Wait {
		t.Fatalf("decision = %s, want WAIT", report.Decision)
	}
	if !reflect.DeepEqual(report.ActionPlan, []string{ActionReevaluateImproved}) {
		t.Errorf("action plan = %v, want [%q]", report.ActionPlan, ActionReevaluateImproved)
	}
}

func TestEvaluateMeanReversionInDefensiveRiskOff(t *testing.T) {
	e := NewDefault(0, 0)
	market := models.MarketSnapshot{IndexPrice: 3800, IndexMA200: 4000, VIX: 28}
	stock := models.StockSnapshot{
		Ticker:           "MR",
		Price:            40,
		AvgVolume:        500000,
		Volume:           700000,
		VolatilityAnnual: 0.22,
		MA50:             45,
		MA200:            55,
		Drawdown6M:       -0.35,
		BusinessClarity:  true,
		SectorDefensive:  true,
	}

	report := e.Evaluate(market, stock, testConstraints())

	// Defensive sector passes the regime-mismatch gate; deep drawdown below
	// the 200-day average classifies as mean reversion. Price below the
	// 50-day average keeps the entry in WAIT_FOR_CONFIRMATION.
	if report.Decision != models.Wait {
		t.Fatalf("decision = %s, want WAIT\nreasons: %s", report.Decision, strings.Join(report.ReasonLog, "\n"))
	}
	foundCandidate := false
	for _, line := range report.ActionPlan {
		if ct, ok := ParseCandidateTypeLine(line); ok && ct == models.MeanReversion {
			foundCandidate = true
		}
	}
	if !foundCandidate {
		t.Errorf("action plan missing mean-reversion candidate line: %v", report.ActionPlan)
	}
}

func TestEvaluateConflictingCandidatesWaits(t *testing.T) {
	e := NewDefault(0, 0)
	// Above the 200-day average with a -12% drawdown (trend pullback) while
	// also low-volatility, inside the MA200 band, near the 50-day average
	// and on quiet volume (defensive income).
	stock := models.StockSnapshot{
		Ticker:           "BOTH",
		Price:            105,
		AvgVolume:        500000,
		Volume:           500000,
		VolatilityAnnual: 0.20,
		MA50:             104,
		MA200:            100,
		Drawdown6M:       -0.12,
		BusinessClarity:  true,
	}

	report := e.Evaluate(testMarket(), stock, testConstraints())

	if report.Decision != models.Wait {
		t.Fatalf("decision = %s, want WAIT", report.Decision)
	}
	foundConflict := false
	for _, line := range report.ReasonLog {
		if line == MsgCandidateConflict {
			foundConflict = true
		}
	}
	if !foundConflict {
		t.Errorf("reason log missing conflict message: %v", report.ReasonLog)
	}
	if !reflect.DeepEqual(report.ActionPlan, []string{ActionDetermineCandidate}) {
		t.Errorf("action plan = %v, want [%q]", report.ActionPlan, ActionDetermineCandidate)
	}
}

func TestEvaluateNoCandidateWaits(t *testing.T) {
	e := NewDefault(0, 0)
	stock := trendPullbackStock()
	stock.Drawdown6M = -0.02 // too shallow for any rule

	report := e.Evaluate(testMarket(), stock, testConstraints())

	if report.Decision != models.Wait {
		t.Fatalf("decision = %s, want WAIT", report.Decision)
	}
	foundUndecided := false
	for _, line := range report.ReasonLog {
		if line == MsgCandidateUndecided {
			foundUndecided = true
		}
	}
	if !foundUndecided {
		t.Errorf("reason log missing undecided message: %v", report.ReasonLog)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	e := NewDefault(0, 0)
	market := testMarket()
	stock := trendPullbackStock()
	constraints := testConstraints()

	first := e.Evaluate(market, stock, constraints)
	second := e.Evaluate(market, stock, constraints)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reports differ across identical evaluations:\n%v\n%v", first, second)
	}
}

func TestEvaluateReportsSizingContextOnWait(t *testing.T) {
	e := NewDefault(0, 0)
	stock := trendPullbackStock()
	stock.Volume = stock.AvgVolume // below the 1.2x entry multiple

	report := e.Evaluate(testMarket(), stock, testConstraints())

	if report.Decision != models.Wait {
		t.Fatalf("decision = %s, want WAIT", report.Decision)
	}
	if len(report.ActionPlan) == 0 || report.ActionPlan[0] != MsgSizingRationale {
		t.Errorf("action plan should start with the sizing rationale even on WAIT: %v", report.ActionPlan)
	}
}
