// Package marketdata fetches daily price history and turns it into the
// snapshot records the decision pipeline consumes. Callers must map a
// data failure to a WAIT report themselves; insufficient data never
// reaches the engine.
package marketdata

import (
	"context"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"

	apperrors "equity-trader/internal/errors"
	"equity-trader/internal/models"
	"equity-trader/pkg/utils"
)

// Source provides daily bar history and latest quotes for a ticker.
type Source interface {
	History(ctx context.Context, ticker string, years int) ([]models.Bar, error)
	LastPrice(ctx context.Context, ticker string) (float64, error)
}

// YahooSource fetches data from Yahoo Finance.
type YahooSource struct {
	retry utils.RetryConfig
}

// NewYahooSource creates a Yahoo Finance backed source.
func NewYahooSource() *YahooSource {
	return &YahooSource{retry: utils.DefaultRetryConfig()}
}

// History returns up to the requested number of years of daily bars.
func (s *YahooSource) History(ctx context.Context, ticker string, years int) ([]models.Bar, error) {
	end := time.Now()
	start := end.AddDate(-years, 0, 0)

	var bars []models.Bar
	err := utils.Retry(ctx, s.retry, func() error {
		params := &chart.Params{
			Symbol:   ticker,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}
		iter := chart.Get(params)

		bars = bars[:0]
		for iter.Next() {
			bar := iter.Bar()
			bars = append(bars, models.Bar{
				Date:     time.Unix(int64(bar.Timestamp), 0),
				Open:     bar.Open,
				High:     bar.High,
				Low:      bar.Low,
				Close:    bar.Close,
				AdjClose: bar.AdjClose,
				Volume:   float64(bar.Volume),
			})
		}
		return iter.Err()
	})
	if err != nil {
		return nil, apperrors.NewDataError("history", ticker, "fetching daily bars", err)
	}
	if len(bars) == 0 {
		return nil, apperrors.NewDataError("history", ticker, "no bars returned", apperrors.ErrDataNotFound)
	}
	return bars, nil
}

// LastPrice returns the latest regular-market price for a ticker.
func (s *YahooSource) LastPrice(ctx context.Context, ticker string) (float64, error) {
	var price float64
	err := utils.Retry(ctx, s.retry, func() error {
		q, err := quote.Get(ticker)
		if err != nil {
			return err
		}
		if q == nil {
			return apperrors.ErrSymbolNotFound
		}
		price = q.RegularMarketPrice
		return nil
	})
	if err != nil {
		return 0, apperrors.NewDataError("quote", ticker, "fetching last price", err)
	}
	return price, nil
}
