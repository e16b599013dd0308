package dataflows

import (
	"context"

	"github.com/dyike/ETFScope/models"
)

// Ticker is a handle on one symbol of a price/dividend provider
type Ticker interface {
	Symbol() string
	// History returns daily prices for a lookback period such as "5y" or "6mo".
	// An empty series is a valid answer.
	History(ctx context.Context, period string) (models.PriceSeries, error)
	// Dividends returns the full dividend history, ascending by date
	Dividends(ctx context.Context) ([]models.DividendEvent, error)
}

// Provider hands out ticker handles
type Provider interface {
	Ticker(symbol string) Ticker
}
