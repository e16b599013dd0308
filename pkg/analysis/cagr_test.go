package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ETFScope/models"
	"github.com/dyike/ETFScope/pkg/dataflows"
)

type fakeTicker struct {
	symbol        string
	series        models.PriceSeries
	historyErr    error
	dividends     []models.DividendEvent
	dividendErr   error
	dividendPanic bool
	historyCalls  int
}

func (f *fakeTicker) Symbol() string { return f.symbol }

func (f *fakeTicker) History(_ context.Context, _ string) (models.PriceSeries, error) {
	f.historyCalls++
	return f.series, f.historyErr
}

func (f *fakeTicker) Dividends(_ context.Context) ([]models.DividendEvent, error) {
	if f.dividendPanic {
		panic("malformed dividend frame")
	}
	return f.dividends, f.dividendErr
}

type fakeProvider map[string]*fakeTicker

func (p fakeProvider) Ticker(symbol string) dataflows.Ticker {
	if t, ok := p[symbol]; ok {
		return t
	}
	return &fakeTicker{symbol: symbol}
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestCalculator(p fakeProvider, now time.Time) *CAGRCalculator {
	fetcher := dataflows.NewHistoryFetcher(3, 2).WithSleep(noSleep)
	return NewCAGRCalculator(p, fetcher).WithClock(func() time.Time { return now })
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func closeSeries(points ...models.PricePoint) models.PriceSeries {
	return models.PriceSeries{Points: points}
}

func pt(date time.Time, price float64) models.PricePoint {
	return models.PricePoint{Date: date, Close: decimal.NewFromFloat(price)}
}

func TestComputeFiveYearScenario(t *testing.T) {
	p := fakeProvider{"VOO": {
		symbol: "VOO",
		series: closeSeries(pt(day(2019, 1, 1), 100), pt(day(2024, 1, 1), 200)),
	}}

	result, err := newTestCalculator(p, day(2024, 1, 2)).Compute(context.Background(), "VOO", 5)
	require.NoError(t, err)

	// 1826 days, 5.0027 years
	assert.Equal(t, "VOO", result.Ticker)
	assert.Equal(t, 14.86, result.CAGRPercent)
	assert.InDelta(t, 14.87, result.CAGRPercent, 0.011)
	assert.Zero(t, result.AvgDividendYieldPercent)
}

func TestComputeMatchesFormula(t *testing.T) {
	cases := []struct {
		first, last       float64
		firstDay, lastDay time.Time
	}{
		{50, 75, day(2020, 3, 2), day(2023, 3, 1)},
		{120, 90, day(2015, 6, 1), day(2024, 6, 3)},
		{10, 10.5, day(2021, 1, 4), day(2022, 7, 15)},
	}

	for _, tc := range cases {
		p := fakeProvider{"X": {symbol: "X", series: closeSeries(pt(tc.firstDay, tc.first), pt(tc.lastDay, tc.last))}}
		result, err := newTestCalculator(p, tc.lastDay).Compute(context.Background(), "X", 10)
		require.NoError(t, err)

		days := math.Floor(tc.lastDay.Sub(tc.firstDay).Hours() / 24)
		years := math.Max(days/365.0, 1.0)
		want := math.Round((math.Pow(tc.last/tc.first, 1/years)-1)*100*100) / 100
		assert.InDelta(t, want, result.CAGRPercent, 1e-9)
	}
}

func TestComputeSubYearUsesOneYear(t *testing.T) {
	p := fakeProvider{"NEW": {symbol: "NEW", series: closeSeries(pt(day(2024, 1, 1), 100), pt(day(2024, 6, 1), 150))}}

	result, err := newTestCalculator(p, day(2024, 6, 2)).Compute(context.Background(), "NEW", 1)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.CAGRPercent)
	assert.Equal(t, 1.0, elapsedYears(day(2024, 1, 1), day(2024, 6, 1)))
}

func TestComputeIsIdempotent(t *testing.T) {
	p := fakeProvider{"SCHD": {
		symbol:    "SCHD",
		series:    closeSeries(pt(day(2021, 5, 3), 70), pt(day(2024, 5, 1), 78)),
		dividends: []models.DividendEvent{{Date: day(2024, 3, 20), Amount: decimal.NewFromFloat(0.61)}},
	}}
	calc := newTestCalculator(p, day(2024, 5, 2))

	a, errA := calc.Compute(context.Background(), "SCHD", 3)
	b, errB := calc.Compute(context.Background(), "SCHD", 3)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestComputePrefersAdjustedClose(t *testing.T) {
	series := models.PriceSeries{
		Adjusted: true,
		Points: []models.PricePoint{
			{Date: day(2023, 1, 1), Close: decimal.NewFromInt(100), AdjClose: decimal.NewFromInt(80)},
			{Date: day(2024, 1, 1), Close: decimal.NewFromInt(100), AdjClose: decimal.NewFromInt(100)},
		},
	}
	p := fakeProvider{"ADJ": {symbol: "ADJ", series: series}}

	result, err := newTestCalculator(p, day(2024, 1, 2)).Compute(context.Background(), "ADJ", 1)
	require.NoError(t, err)
	assert.Equal(t, 25.0, result.CAGRPercent)
}

func TestComputeDividendWindowIsInclusive(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	p := fakeProvider{"1489.T": {
		symbol: "1489.T",
		series: closeSeries(pt(day(2023, 6, 15), 100), pt(day(2024, 6, 14), 110)),
		dividends: []models.DividendEvent{
			{Date: time.Date(2023, 6, 14, 23, 59, 0, 0, tokyo), Amount: decimal.NewFromFloat(5)},
			// exactly on the boundary on the wall clock, the previous day in UTC
			{Date: time.Date(2023, 6, 15, 0, 0, 0, 0, tokyo), Amount: decimal.NewFromFloat(1.0)},
			{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, tokyo), Amount: decimal.NewFromFloat(1.1)},
		},
	}}

	result, err := newTestCalculator(p, now).Compute(context.Background(), "1489.T", 1)
	require.NoError(t, err)

	// (2.1 / 1 year) / ((100 + 110) / 2) * 100
	assert.Equal(t, 2.0, result.AvgDividendYieldPercent)
	assert.Equal(t, 10.0, result.CAGRPercent)
}

func TestComputeDividendYieldZeroOutsideWindow(t *testing.T) {
	p := fakeProvider{"OLD": {
		symbol:    "OLD",
		series:    closeSeries(pt(day(2022, 1, 3), 100), pt(day(2024, 1, 2), 100)),
		dividends: []models.DividendEvent{{Date: day(2020, 12, 15), Amount: decimal.NewFromFloat(3)}},
	}}

	result, err := newTestCalculator(p, day(2024, 1, 3)).Compute(context.Background(), "OLD", 2)
	require.NoError(t, err)
	assert.Zero(t, result.AvgDividendYieldPercent)
	assert.Zero(t, result.CAGRPercent)
}

func TestComputeNoDataIsNotFound(t *testing.T) {
	missing := &fakeTicker{symbol: "GONE", historyErr: errors.New("delisted")}
	p := fakeProvider{"GONE": missing}

	_, err := newTestCalculator(p, day(2024, 1, 1)).Compute(context.Background(), "GONE", 5)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 3, missing.historyCalls)
}

func TestComputeZeroStartingPrice(t *testing.T) {
	p := fakeProvider{"ZERO": {symbol: "ZERO", series: closeSeries(pt(day(2020, 1, 1), 0), pt(day(2024, 1, 1), 10))}}

	_, err := newTestCalculator(p, day(2024, 1, 2)).Compute(context.Background(), "ZERO", 5)
	require.Error(t, err)
	assert.True(t, IsComputation(err))
}

func TestComputeDividendFailure(t *testing.T) {
	p := fakeProvider{"DIV": {
		symbol:      "DIV",
		series:      closeSeries(pt(day(2020, 1, 1), 10), pt(day(2024, 1, 1), 12)),
		dividendErr: errors.New("timeout"),
	}}

	_, err := newTestCalculator(p, day(2024, 1, 2)).Compute(context.Background(), "DIV", 5)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.ErrorContains(t, err, "timeout")
}

func TestComputeRecoversFromPanic(t *testing.T) {
	p := fakeProvider{"BAD": {
		symbol:        "BAD",
		series:        closeSeries(pt(day(2020, 1, 1), 10), pt(day(2024, 1, 1), 12)),
		dividendPanic: true,
	}}

	result, err := newTestCalculator(p, day(2024, 1, 2)).Compute(context.Background(), "BAD", 5)
	require.Error(t, err)
	assert.True(t, IsComputation(err))
	assert.Equal(t, models.CAGRResult{}, result)
}

func TestComputeRejectsNonPositiveYears(t *testing.T) {
	_, err := newTestCalculator(fakeProvider{}, day(2024, 1, 1)).Compute(context.Background(), "VOO", 0)
	assert.True(t, IsComputation(err))
}

func TestComputeAllSkipsFailures(t *testing.T) {
	p := fakeProvider{
		"VOO": {symbol: "VOO", series: closeSeries(pt(day(2023, 1, 1), 100), pt(day(2024, 1, 1), 120))},
		"QQQ": {symbol: "QQQ", series: closeSeries(pt(day(2023, 1, 1), 100), pt(day(2024, 1, 1), 130))},
	}

	results := newTestCalculator(p, day(2024, 1, 2)).ComputeAll(context.Background(), []string{"VOO", "NOPE", "QQQ"}, 1)
	require.Len(t, results, 2)
	assert.Equal(t, "VOO", results[0].Ticker)
	assert.Equal(t, "QQQ", results[1].Ticker)
}

func TestSubtractYears(t *testing.T) {
	assert.Equal(t, day(2023, 2, 28), subtractYears(day(2024, 2, 29), 1))
	assert.Equal(t, day(2020, 2, 29), subtractYears(day(2024, 2, 29), 4))
	assert.Equal(t, day(2019, 7, 31), subtractYears(day(2024, 7, 31), 5))
}

func TestNaiveKeepsWallClock(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got := naive(time.Date(2024, 3, 15, 9, 30, 0, 0, ny))
	assert.Equal(t, time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC), got)
}
