package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dyike/ETFScope/models"
	"github.com/dyike/ETFScope/pkg/dataflows"
)

const daysPerYear = 365.0

// CAGRCalculator derives compound growth and average dividend yield from a
// provider's price and dividend history
type CAGRCalculator struct {
	provider dataflows.Provider
	fetcher  *dataflows.HistoryFetcher
	now      func() time.Time
}

func NewCAGRCalculator(provider dataflows.Provider, fetcher *dataflows.HistoryFetcher) *CAGRCalculator {
	return &CAGRCalculator{
		provider: provider,
		fetcher:  fetcher,
		now:      time.Now,
	}
}

// WithClock fixes the reference time of the dividend lookback window
func (c *CAGRCalculator) WithClock(now func() time.Time) *CAGRCalculator {
	c.now = now
	return c
}

// Compute returns the CAGR and average dividend yield of ticker over the last
// years. Failures come back as *Error, never as a panic.
func (c *CAGRCalculator) Compute(ctx context.Context, ticker string, years int) (result models.CAGRResult, err error) {
	logger := zerolog.Ctx(ctx).With().Str("ticker", ticker).Int("years", years).Logger()

	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: KindComputation, Subject: ticker, Message: fmt.Sprintf("%v", r)}
			result = models.CAGRResult{}
		}
		if err != nil {
			logger.Error().Err(err).Msg("CAGR calculation failed")
		}
	}()

	if years < 1 {
		return models.CAGRResult{}, &Error{Kind: KindComputation, Subject: ticker,
			Message: fmt.Sprintf("years must be at least 1, got %d", years)}
	}

	handle := c.provider.Ticker(ticker)
	series := c.fetcher.Fetch(ctx, handle, fmt.Sprintf("%dy", years))
	if series.Empty() {
		return models.CAGRResult{}, &Error{Kind: KindDataUnavailable, Subject: ticker, Message: "no price data found"}
	}

	first, last := series.First(), series.Last()
	firstPrice := first.Price(series.Adjusted).InexactFloat64()
	lastPrice := last.Price(series.Adjusted).InexactFloat64()
	if firstPrice <= 0 {
		return models.CAGRResult{}, &Error{Kind: KindComputation, Subject: ticker,
			Message: fmt.Sprintf("starting price must be positive, got %v", firstPrice)}
	}

	elapsed := elapsedYears(first.Date, last.Date)
	cagr := (math.Pow(lastPrice/firstPrice, 1/elapsed) - 1) * 100
	if math.IsNaN(cagr) || math.IsInf(cagr, 0) {
		return models.CAGRResult{}, &Error{Kind: KindComputation, Subject: ticker,
			Message: fmt.Sprintf("growth from %v to %v is not a finite rate", firstPrice, lastPrice)}
	}

	dividends, err := handle.Dividends(ctx)
	if err != nil {
		return models.CAGRResult{}, &Error{Kind: KindDataUnavailable, Subject: ticker,
			Message: "dividend history unavailable", Err: err}
	}
	yield := averageDividendYield(dividends, lookbackStart(c.now(), years), elapsed, firstPrice, lastPrice)

	logger.Debug().
		Float64("elapsed_years", elapsed).
		Float64("first_price", firstPrice).
		Float64("last_price", lastPrice).
		Msg("CAGR computed")

	return models.CAGRResult{
		Ticker:                  ticker,
		CAGRPercent:             round2(cagr),
		AvgDividendYieldPercent: round2(yield),
	}, nil
}

// ComputeAll runs Compute for each ticker in order and keeps the successes
func (c *CAGRCalculator) ComputeAll(ctx context.Context, tickers []string, years int) []models.CAGRResult {
	results := make([]models.CAGRResult, 0, len(tickers))
	for _, ticker := range tickers {
		result, err := c.Compute(ctx, ticker, years)
		if err != nil {
			continue
		}
		results = append(results, result)
	}
	return results
}

// elapsedYears counts whole days between the two dates, floored at one year
func elapsedYears(first, last time.Time) float64 {
	days := math.Floor(last.Sub(first).Hours() / 24)
	return math.Max(days/daysPerYear, 1.0)
}

// averageDividendYield averages the dividends paid on or after start over the
// elapsed years, relative to the mean of the first and last prices
func averageDividendYield(dividends []models.DividendEvent, start time.Time, elapsed, firstPrice, lastPrice float64) float64 {
	total := decimal.Zero
	recent := 0
	for _, d := range dividends {
		if naive(d.Date).Before(start) {
			continue
		}
		total = total.Add(d.Amount)
		recent++
	}
	if recent == 0 {
		return 0
	}

	baseline := (firstPrice + lastPrice) / 2
	if baseline == 0 {
		return 0
	}
	return (total.InexactFloat64() / elapsed) / baseline * 100
}

// lookbackStart is now minus the given calendar years, on the wall clock
func lookbackStart(now time.Time, years int) time.Time {
	return subtractYears(naive(now), years)
}

// naive drops the zone and keeps the wall clock reading
func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// subtractYears moves t back by calendar years, clipping Feb 29 to Feb 28
func subtractYears(t time.Time, years int) time.Time {
	year := t.Year() - years
	day := t.Day()
	if last := daysIn(t.Month(), year); day > last {
		day = last
	}
	return time.Date(year, t.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
