package scan

import (
	"fmt"
	"sort"
	"strings"

	"equity-trader/internal/models"
)

// Entry-trigger condition names.
const (
	TriggerVolume        = "volume"
	TriggerMovingAverage = "moving average"
	TriggerVolatility    = "volatility"
)

// TriggerEvaluation records which entry-trigger conditions a waiting
// ticker passes, mirroring the thresholds the entry rules apply.
type TriggerEvaluation struct {
	VolumePass     bool
	MAPass         bool
	VolatilityPass bool
}

// EvaluateTriggers re-derives the entry-trigger conditions for a result
// that is waiting on its entry stage. Returns false when the result has
// no stock data or no candidate type.
func EvaluateTriggers(result Result) (TriggerEvaluation, bool) {
	if result.Stock == nil || result.CandidateType == "" {
		return TriggerEvaluation{}, false
	}
	stock := *result.Stock

	var volumeMultiple, maxVolatility, maReference float64
	switch result.CandidateType {
	case models.TrendPullback:
		volumeMultiple, maReference, maxVolatility = 1.2, stock.MA50, 0.45
	case models.MeanReversion:
		volumeMultiple, maReference, maxVolatility = 1.3, stock.MA50, 0.45
	case models.DefensiveIncome:
		volumeMultiple, maReference, maxVolatility = 1.0, stock.MA200, 0.25
	default:
		return TriggerEvaluation{}, false
	}

	return TriggerEvaluation{
		VolumePass:     stock.Volume >= stock.AvgVolume*volumeMultiple,
		MAPass:         stock.Price > maReference,
		VolatilityPass: stock.VolatilityAnnual <= maxVolatility,
	}, true
}

// TriggerAnalysis aggregates trigger outcomes across all entry-trigger
// WAIT rows. Simulations count tickers that would flip to APPROVE if the
// named trigger alone were relaxed.
type TriggerAnalysis struct {
	Pass        map[string]int
	Fail        map[string]int
	Simulations map[string]int
}

// AnalyzeTriggerWaits tallies PASS/FAIL per trigger and the single-fail
// relaxation simulation over the waiting rows.
func AnalyzeTriggerWaits(waits []Result) TriggerAnalysis {
	analysis := TriggerAnalysis{
		Pass:        map[string]int{},
		Fail:        map[string]int{},
		Simulations: map[string]int{},
	}
	for _, result := range waits {
		eval, ok := EvaluateTriggers(result)
		if !ok {
			continue
		}
		tally(&analysis, TriggerVolume, eval.VolumePass)
		tally(&analysis, TriggerMovingAverage, eval.MAPass)
		tally(&analysis, TriggerVolatility, eval.VolatilityPass)

		switch {
		case !eval.VolumePass && eval.MAPass && eval.VolatilityPass:
			analysis.Simulations[TriggerVolume]++
		case eval.VolumePass && !eval.MAPass && eval.VolatilityPass:
			analysis.Simulations[TriggerMovingAverage]++
		case eval.VolumePass && eval.MAPass && !eval.VolatilityPass:
			analysis.Simulations[TriggerVolatility]++
		}
	}
	return analysis
}

func tally(analysis *TriggerAnalysis, trigger string, passed bool) {
	if passed {
		analysis.Pass[trigger]++
	} else {
		analysis.Fail[trigger]++
	}
}

var triggerOrder = []string{TriggerVolume, TriggerMovingAverage, TriggerVolatility}

var triggerNotes = []string{
	"TREND_PULLBACK: volume >= 1.2x average, price > MA50, volatility <= 0.45.",
	"MEAN_REVERSION: volume >= 1.3x average, price > MA50, volatility <= 0.45.",
	"DEFENSIVE_INCOME: volume >= 1.0x average, price > MA200, volatility <= 0.25.",
	"Simulations count only tickers where the named trigger is the sole FAIL.",
}

func writeTriggerAnalysis(b *strings.Builder, waits []Result) {
	analysis := AnalyzeTriggerWaits(waits)

	b.WriteString("\n#### PASS/FAIL per trigger condition\n")
	for _, trigger := range triggerOrder {
		fmt.Fprintf(b, "- %s: PASS %d / FAIL %d\n", trigger, analysis.Pass[trigger], analysis.Fail[trigger])
	}

	b.WriteString("\n#### Top failing triggers\n")
	fails := make([]countEntry, 0, len(analysis.Fail))
	for trigger, count := range analysis.Fail {
		if count > 0 {
			fails = append(fails, countEntry{key: trigger, count: count})
		}
	}
	sort.Slice(fails, func(i, j int) bool {
		if fails[i].count != fails[j].count {
			return fails[i].count > fails[j].count
		}
		return fails[i].key < fails[j].key
	})
	for i, entry := range fails {
		if i == 3 {
			break
		}
		fmt.Fprintf(b, "- %s: %d\n", entry.key, entry.count)
	}

	b.WriteString("\n#### APPROVE conversions if one trigger were relaxed\n")
	for _, trigger := range triggerOrder {
		fmt.Fprintf(b, "- relaxing %s: %d\n", trigger, analysis.Simulations[trigger])
	}

	b.WriteString("\n#### Trigger thresholds\n")
	for _, note := range triggerNotes {
		fmt.Fprintf(b, "- %s\n", note)
	}
}
