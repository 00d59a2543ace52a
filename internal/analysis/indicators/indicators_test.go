package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "equity-trader/internal/errors"
	"equity-trader/internal/models"
)

func flatBars(n int, price, volume float64) []models.Bar {
	bars := make([]models.Bar, n)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		p := decimal.NewFromFloat(price)
		bars[i] = models.Bar{
			Date:     day.AddDate(0, 0, i),
			Open:     p,
			High:     p,
			Low:      p,
			Close:    p,
			AdjClose: p,
			Volume:   volume,
		}
	}
	return bars
}

func TestBuildFlatSeries(t *testing.T) {
	snapshot, err := Build(flatBars(250, 100, 1000), false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if snapshot.LatestPrice != 100 {
		t.Errorf("latest price = %f, want 100", snapshot.LatestPrice)
	}
	for name, ma := range map[string]float64{
		"MA20": snapshot.MA20, "MA50": snapshot.MA50, "MA200": snapshot.MA200,
	} {
		if math.Abs(ma-100) > 1e-9 {
			t.Errorf("%s = %f, want 100", name, ma)
		}
	}
	if snapshot.Volatility20D != 0 {
		t.Errorf("flat series volatility = %f, want 0", snapshot.Volatility20D)
	}
	if snapshot.Drawdown6M != 0 {
		t.Errorf("flat series drawdown = %f, want 0", snapshot.Drawdown6M)
	}
	if snapshot.VolumeChangeRatio != 1 {
		t.Errorf("volume ratio = %f, want 1", snapshot.VolumeChangeRatio)
	}
}

func TestBuildInsufficientHistory(t *testing.T) {
	_, err := Build(flatBars(150, 100, 1000), false)
	if !apperrors.Is(err, apperrors.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestBuildDrawdownFromPeak(t *testing.T) {
	bars := flatBars(250, 100, 1000)
	// Close the last bar 20% below the trailing peak.
	last := decimal.NewFromFloat(80)
	bars[len(bars)-1].Close = last
	bars[len(bars)-1].AdjClose = last

	snapshot, err := Build(bars, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if math.Abs(snapshot.Drawdown6M-(-0.20)) > 1e-9 {
		t.Errorf("drawdown = %f, want -0.20", snapshot.Drawdown6M)
	}
}

func TestBuildUsesAdjustedCloseWhenRequested(t *testing.T) {
	bars := flatBars(250, 100, 1000)
	for i := range bars {
		bars[i].AdjClose = decimal.NewFromFloat(50)
	}

	snapshot, err := Build(bars, true)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if snapshot.LatestPrice != 50 {
		t.Errorf("latest price = %f, want adjusted 50", snapshot.LatestPrice)
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	s := &Snapshot{Volatility20D: 0.02}
	want := 0.02 * math.Sqrt(252)
	if math.Abs(s.AnnualizedVolatility()-want) > 1e-12 {
		t.Errorf("annualized = %f, want %f", s.AnnualizedVolatility(), want)
	}
}
