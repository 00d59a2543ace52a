package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one daily OHLCV bar as delivered by the market data source.
// Prices stay in decimal form until indicator math needs floats.
type Bar struct {
	Date     time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	AdjClose decimal.Decimal
	Volume   float64
}
