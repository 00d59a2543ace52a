package engine

import (
	"strings"
	"testing"

	"equity-trader/internal/models"
)

func TestTrendPullbackRuleBounds(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		ma200    float64
		drawdown float64
		passed   bool
	}{
		{"inside band above trend", 52, 45, -0.12, true},
		{"drawdown at shallow bound", 52, 45, -0.05, true},
		{"drawdown at deep bound", 52, 45, -0.20, true},
		{"drawdown too shallow", 52, 45, -0.04, false},
		{"drawdown too deep", 52, 45, -0.21, false},
		{"below long-term trend", 44, 45, -0.12, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock := models.StockSnapshot{Price: tt.price, MA200: tt.ma200, Drawdown6M: tt.drawdown}
			result := TrendPullbackRule{}.Evaluate(stock, models.RegimeRiskOn)
			if result.Passed != tt.passed {
				t.Errorf("passed = %v, want %v", result.Passed, tt.passed)
			}
		})
	}
}

func TestMeanReversionRule(t *testing.T) {
	rule := MeanReversionRule{}

	stock := models.StockSnapshot{Price: 40, MA200: 55, Drawdown6M: -0.35}
	if result := rule.Evaluate(stock, models.RegimeRiskOn); !result.Passed {
		t.Error("deep drawdown below MA200 should pass")
	}
	stock.Price = 60
	if result := rule.Evaluate(stock, models.RegimeRiskOn); result.Passed {
		t.Error("price above MA200 should not pass")
	}
}

func defensiveStock() models.StockSnapshot {
	return models.StockSnapshot{
		Price:            100,
		MA50:             100,
		MA200:            100,
		AvgVolume:        1000,
		Volume:           1000,
		VolatilityAnnual: 0.20,
		Drawdown6M:       -0.10,
	}
}

func TestDefensiveIncomeBandLowerBoundPasses(t *testing.T) {
	stock := defensiveStock()
	stock.Price = 97.0
	stock.MA50 = 97.0

	result := DefensiveIncomeRule{}.Evaluate(stock, models.RegimeRiskOn)

	if !result.Passed {
		t.Fatalf("lower band boundary should pass:\n%s", result.Message)
	}
	if !strings.Contains(result.Message, "price_to_ma200=0.970000") {
		t.Errorf("message missing exact ratio: %s", result.Message)
	}
	if !strings.Contains(result.Message, "within [0.969999, 1.120001]") {
		t.Errorf("message missing epsilon-adjusted band: %s", result.Message)
	}
}

func TestDefensiveIncomeBandNearUpperBoundPasses(t *testing.T) {
	stock := defensiveStock()
	stock.Price = 112.00005
	stock.MA50 = 112.00005

	result := DefensiveIncomeRule{}.Evaluate(stock, models.RegimeRiskOn)

	if !result.Passed {
		t.Fatalf("value within upper epsilon should pass:\n%s", result.Message)
	}
	if !strings.Contains(result.Message, "price_to_ma200=1.120000") {
		t.Errorf("message missing exact ratio: %s", result.Message)
	}
}

func TestDefensiveIncomeLogsFailedSubcondition(t *testing.T) {
	stock := defensiveStock()
	stock.VolatilityAnnual = 0.02 * 15.87 // ~0.32 annualized, above the 0.25 cap

	result := DefensiveIncomeRule{}.Evaluate(stock, models.RegimeRiskOn)

	if result.Passed {
		t.Fatal("elevated volatility should fail the rule")
	}
	foundFail := false
	for _, line := range strings.Split(result.Message, "\n") {
		if strings.HasPrefix(line, "[DEF]") && strings.Contains(line, "(FAIL)") {
			foundFail = true
		}
	}
	if !foundFail {
		t.Errorf("diagnostics must mark the failed sub-condition:\n%s", result.Message)
	}
}

func TestDefensiveIncomeGuardsZeroDenominators(t *testing.T) {
	stock := models.StockSnapshot{Price: 100} // MA50, MA200, AvgVolume all zero

	result := DefensiveIncomeRule{}.Evaluate(stock, models.RegimeRiskOn)

	if result.Passed {
		t.Error("zeroed snapshot should not qualify")
	}
	if !strings.Contains(result.Message, "price_to_ma200=0.000000") {
		t.Errorf("zero MA200 must degrade the ratio to 0: %s", result.Message)
	}
}

func TestClassifierSingleHit(t *testing.T) {
	c := DefaultClassifier()
	result := c.Classify(trendPullbackStock(), models.RegimeRiskOn)
	if result.Type != models.TrendPullback {
		t.Errorf("type = %s, want TREND_PULLBACK", result.Type)
	}
}

func TestClassifierZeroHitsAppendsUndecided(t *testing.T) {
	c := DefaultClassifier()
	stock := trendPullbackStock()
	stock.Drawdown6M = -0.02

	result := c.Classify(stock, models.RegimeRiskOn)

	if result.Type != "" {
		t.Fatalf("type = %s, want none", result.Type)
	}
	if result.Messages[len(result.Messages)-1] != MsgCandidateUndecided {
		t.Errorf("last message = %q, want %q", result.Messages[len(result.Messages)-1], MsgCandidateUndecided)
	}
}

func TestClassifierFlattensDiagnosticsInRuleOrder(t *testing.T) {
	c := DefaultClassifier()
	result := c.Classify(trendPullbackStock(), models.RegimeRiskOn)

	// One line each for trend pullback and mean reversion, then the five
	// defensive diagnostic lines.
	if len(result.Messages) != 7 {
		t.Fatalf("messages = %d, want 7: %v", len(result.Messages), result.Messages)
	}
	if !strings.HasPrefix(result.Messages[2], "[DEF]") {
		t.Errorf("defensive diagnostics must follow the first two rules: %v", result.Messages)
	}
}
