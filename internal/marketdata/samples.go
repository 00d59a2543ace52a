package marketdata

import (
	"strings"

	"equity-trader/internal/models"
)

// SampleStock returns a canned snapshot for offline runs and demos.
// Unknown tickers get a generic trend-pullback profile.
func SampleStock(ticker string) models.StockSnapshot {
	normalized := strings.ToUpper(ticker)
	switch normalized {
	case "PG":
		return models.StockSnapshot{
			Ticker:           normalized,
			Price:            150,
			AvgVolume:        4200000,
			Volume:           4800000,
			VolatilityAnnual: 0.18,
			MA50:             148,
			MA200:            140,
			Drawdown6M:       -0.08,
			DividendYield:    0.035,
			BusinessClarity:  true,
			SectorDefensive:  true,
		}
	case "TSLA":
		return models.StockSnapshot{
			Ticker:           normalized,
			Price:            220,
			AvgVolume:        8000000,
			Volume:           9000000,
			VolatilityAnnual: 0.60,
			MA50:             240,
			MA200:            260,
			Drawdown6M:       -0.40,
			EarningsRisk:     true,
			BusinessClarity:  true,
		}
	case "MSFT":
		return models.StockSnapshot{
			Ticker:           normalized,
			Price:            410,
			AvgVolume:        3000000,
			Volume:           3200000,
			VolatilityAnnual: 0.22,
			MA50:             405,
			MA200:            390,
			Drawdown6M:       -0.12,
			DividendYield:    0.008,
			BusinessClarity:  true,
		}
	default:
		return models.StockSnapshot{
			Ticker:           normalized,
			Price:            52,
			AvgVolume:        500000,
			Volume:           600000,
			VolatilityAnnual: 0.28,
			MA50:             50,
			MA200:            45,
			Drawdown6M:       -0.12,
			DividendYield:    0.01,
			BusinessClarity:  true,
		}
	}
}
