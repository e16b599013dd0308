package dataflows

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/dyike/ETFScope/models"
	"github.com/dyike/ETFScope/pkg/retry"
)

var errEmptyHistory = errors.New("empty price history")

// HistoryFetcher retries a provider's history call until it yields data
type HistoryFetcher struct {
	policy retry.Policy
}

// NewHistoryFetcher waits backoffFactor^attempt seconds between attempts
func NewHistoryFetcher(maxAttempts int, backoffFactor float64) *HistoryFetcher {
	return &HistoryFetcher{
		policy: retry.Policy{
			MaxAttempts: maxAttempts,
			Backoff:     retry.Exponential(backoffFactor),
		},
	}
}

// WithSleep replaces the wait between attempts
func (hf *HistoryFetcher) WithSleep(sleep retry.SleepFunc) *HistoryFetcher {
	hf.policy.Sleep = sleep
	return hf
}

// Fetch returns the first non-empty history, or an empty series once every
// attempt failed. Exhaustion is not an error: callers treat it as no data.
func (hf *HistoryFetcher) Fetch(ctx context.Context, ticker Ticker, period string) models.PriceSeries {
	logger := zerolog.Ctx(ctx).With().
		Str("ticker", ticker.Symbol()).
		Str("period", period).
		Logger()

	var series models.PriceSeries
	err := hf.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		result, err := ticker.History(ctx, period)
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt).Msg("price history fetch failed")
			return err
		}
		if result.Empty() {
			logger.Warn().Int("attempt", attempt).Msg("price history came back empty")
			return errEmptyHistory
		}
		series = result
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Msg("giving up on price history")
		return models.PriceSeries{Symbol: ticker.Symbol()}
	}

	return series
}
