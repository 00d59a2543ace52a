// Package indicators computes the rolling-window technical indicators the
// decision pipeline consumes: moving averages, short-window volatility,
// volume averages and trailing drawdown.
package indicators

import (
	"math"

	"github.com/markcheno/go-talib"

	apperrors "equity-trader/internal/errors"
	"equity-trader/internal/models"
)

// Window sizes.
const (
	minPriceHistory  = 200
	minVolumeHistory = 20
	volatilityWindow = 20
	drawdownWindow   = 126 // ~6 months of trading days
	tradingDaysYear  = 252
)

// Snapshot holds the latest value of every indicator the pipeline uses.
type Snapshot struct {
	LatestPrice       float64
	LatestVolume      float64
	MA20              float64
	MA50              float64
	MA60              float64
	MA100             float64
	MA200             float64
	Volatility20D     float64
	VolumeAvg20D      float64
	VolumeChangeRatio float64
	Drawdown6M        float64
}

// AnnualizedVolatility scales the 20-day return deviation to an annual
// figure.
func (s *Snapshot) AnnualizedVolatility() float64 {
	return s.Volatility20D * math.Sqrt(tradingDaysYear)
}

// Build computes a Snapshot from daily bars, using the adjusted close when
// requested. It returns ErrInsufficientData when the history is shorter
// than the longest window or any indicator is undefined.
func Build(bars []models.Bar, useAdjustedClose bool) (*Snapshot, error) {
	closes := closePrices(bars, useAdjustedClose)
	volumes := volumeSeries(bars)

	if len(closes) < minPriceHistory || len(volumes) < minVolumeHistory {
		return nil, apperrors.ErrInsufficientData
	}

	snapshot := &Snapshot{
		LatestPrice:  closes[len(closes)-1],
		LatestVolume: volumes[len(volumes)-1],
		MA20:         lastSMA(closes, 20),
		MA50:         lastSMA(closes, 50),
		MA60:         lastSMA(closes, 60),
		MA100:        lastSMA(closes, 100),
		MA200:        lastSMA(closes, 200),
		VolumeAvg20D: lastSMA(volumes, 20),
	}

	returns := pctChange(closes)
	snapshot.Volatility20D = sampleStdDev(returns, volatilityWindow)

	if snapshot.VolumeAvg20D != 0 {
		snapshot.VolumeChangeRatio = snapshot.LatestVolume / snapshot.VolumeAvg20D
	}

	drawdown, ok := trailingDrawdown(closes, drawdownWindow)
	if !ok {
		return nil, apperrors.ErrInsufficientData
	}
	snapshot.Drawdown6M = drawdown

	for _, v := range []float64{
		snapshot.MA20, snapshot.MA50, snapshot.MA60, snapshot.MA100, snapshot.MA200,
		snapshot.Volatility20D, snapshot.VolumeAvg20D, snapshot.VolumeChangeRatio,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperrors.ErrInsufficientData
		}
	}

	return snapshot, nil
}

func closePrices(bars []models.Bar, useAdjustedClose bool) []float64 {
	prices := make([]float64, 0, len(bars))
	for _, bar := range bars {
		price := bar.Close
		if useAdjustedClose && !bar.AdjClose.IsZero() {
			price = bar.AdjClose
		}
		if price.IsZero() {
			continue
		}
		prices = append(prices, price.InexactFloat64())
	}
	return prices
}

func volumeSeries(bars []models.Bar) []float64 {
	volumes := make([]float64, 0, len(bars))
	for _, bar := range bars {
		volumes = append(volumes, bar.Volume)
	}
	return volumes
}

func lastSMA(values []float64, period int) float64 {
	if len(values) < period {
		return math.NaN()
	}
	sma := talib.Sma(values, period)
	return sma[len(sma)-1]
}

func pctChange(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	changes := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			changes = append(changes, 0)
			continue
		}
		changes = append(changes, values[i]/values[i-1]-1)
	}
	return changes
}

// sampleStdDev returns the sample standard deviation of the trailing
// window. talib reports the population deviation; rescale to the sample
// figure so the result matches a rolling std with one delta degree of
// freedom.
func sampleStdDev(values []float64, window int) float64 {
	if len(values) < window || window < 2 {
		return math.NaN()
	}
	stds := talib.StdDev(values, window, 1.0)
	last := stds[len(stds)-1]
	return last * math.Sqrt(float64(window)/float64(window-1))
}

func trailingDrawdown(prices []float64, window int) (float64, bool) {
	if len(prices) < window {
		return 0, false
	}
	windowPrices := prices[len(prices)-window:]
	peak := windowPrices[0]
	for _, p := range windowPrices {
		if p > peak {
			peak = p
		}
	}
	if peak == 0 {
		return 0, false
	}
	return prices[len(prices)-1]/peak - 1, true
}
