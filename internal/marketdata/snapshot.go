package marketdata

import (
	"context"
	"strings"

	"equity-trader/internal/analysis/indicators"
	"equity-trader/internal/config"
	apperrors "equity-trader/internal/errors"
	"equity-trader/internal/models"
)

// Builder assembles snapshot records from a data source.
type Builder struct {
	source Source
	cfg    *config.Config
}

// NewBuilder creates a snapshot builder.
func NewBuilder(source Source, cfg *config.Config) *Builder {
	return &Builder{source: source, cfg: cfg}
}

// StockSnapshot fetches history for the ticker and derives the per-stock
// facts the engine needs. Qualitative flags come from configuration since
// they cannot be derived from price history. Returns an error wrapping
// ErrInsufficientData when the history is too short; callers respond with
// a WAIT report instead of invoking the engine.
func (b *Builder) StockSnapshot(ctx context.Context, ticker string) (models.StockSnapshot, error) {
	ticker = strings.ToUpper(ticker)

	bars, err := b.source.History(ctx, ticker, b.cfg.Data.Years)
	if err != nil {
		return models.StockSnapshot{}, err
	}

	snapshot, err := indicators.Build(bars, b.cfg.Data.UseAdjustedClose)
	if err != nil {
		return models.StockSnapshot{}, apperrors.NewDataError("indicators", ticker, "building indicators", err)
	}

	flags := b.cfg.FlagsFor(ticker)
	return models.StockSnapshot{
		Ticker:           ticker,
		Price:            snapshot.LatestPrice,
		AvgVolume:        snapshot.VolumeAvg20D,
		Volume:           snapshot.LatestVolume,
		VolatilityAnnual: snapshot.AnnualizedVolatility(),
		MA50:             snapshot.MA50,
		MA200:            snapshot.MA200,
		Drawdown6M:       snapshot.Drawdown6M,
		EarningsRisk:     flags.EarningsRisk,
		RegulatoryRisk:   flags.RegulatoryRisk,
		BusinessClarity:  flags.BusinessClarity,
		SectorDefensive:  flags.SectorDefensive,
	}, nil
}

// MarketSnapshot derives the aggregate market state from the configured
// index and volatility tickers.
func (b *Builder) MarketSnapshot(ctx context.Context) (models.MarketSnapshot, error) {
	bars, err := b.source.History(ctx, b.cfg.Data.IndexTicker, b.cfg.Data.Years)
	if err != nil {
		return models.MarketSnapshot{}, err
	}
	snapshot, err := indicators.Build(bars, false)
	if err != nil {
		return models.MarketSnapshot{}, apperrors.NewDataError("indicators", b.cfg.Data.IndexTicker, "building index indicators", err)
	}

	vix, err := b.source.LastPrice(ctx, b.cfg.Data.VIXTicker)
	if err != nil {
		return models.MarketSnapshot{}, err
	}

	return models.MarketSnapshot{
		IndexPrice: snapshot.LatestPrice,
		IndexMA200: snapshot.MA200,
		VIX:        vix,
	}, nil
}

// SampleMarket returns a fixed market snapshot matching the requested
// regime override, defaulting to the risk-on preset.
func SampleMarket(regime models.MarketRegime) models.MarketSnapshot {
	switch regime {
	case models.RegimeRiskOff:
		return models.MarketSnapshot{IndexPrice: 3800, IndexMA200: 4000, VIX: 28, RateTrendUp: false}
	case models.RegimeNeutral:
		return models.MarketSnapshot{IndexPrice: 4050, IndexMA200: 4000, VIX: 22, RateTrendUp: true}
	default:
		return models.MarketSnapshot{IndexPrice: 4200, IndexMA200: 4000, VIX: 18, RateTrendUp: true}
	}
}
