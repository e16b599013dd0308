package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/go-resty/resty/v2"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dyike/ETFScope/config"
	"github.com/dyike/ETFScope/internal/logger"
	"github.com/dyike/ETFScope/models"
)

const yahooUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// YahooFinanceClient serves price history through finance-go's chart API and
// dividends through the raw v8 chart endpoint, which finance-go does not expose.
type YahooFinanceClient struct {
	client *resty.Client
	now    func() time.Time
}

// NewYahooFinanceClient creates a new Yahoo Finance client
func NewYahooFinanceClient(cfg *config.Config, log *zerolog.Logger) *YahooFinanceClient {
	client := resty.New()
	client.SetBaseURL(cfg.YahooBaseURL)
	client.SetTimeout(cfg.RequestTimeout)
	client.SetHeader("User-Agent", yahooUserAgent)
	client.SetLogger(logger.Resty{Logger: log})

	return &YahooFinanceClient{
		client: client,
		now:    time.Now,
	}
}

func (yf *YahooFinanceClient) Ticker(symbol string) Ticker {
	return &yahooTicker{yf: yf, symbol: NormalizeSymbol(symbol)}
}

type yahooTicker struct {
	yf     *YahooFinanceClient
	symbol string
}

func (t *yahooTicker) Symbol() string {
	return t.symbol
}

// History gets daily bars for the period ending now
func (t *yahooTicker) History(ctx context.Context, period string) (models.PriceSeries, error) {
	if err := ValidateSymbol(t.symbol); err != nil {
		return models.PriceSeries{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.PriceSeries{}, err
	}

	end := t.yf.now()
	start, err := ParsePeriod(period, end)
	if err != nil {
		return models.PriceSeries{}, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("ticker", t.symbol).
		Str("range", FormatDateRange(start, end)).
		Msg("fetching price history")

	params := &chart.Params{
		Symbol:   t.symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	points := make([]models.PricePoint, 0)
	for iter.Next() {
		bar := iter.Bar()
		if bar.Close.IsZero() && bar.AdjClose.IsZero() {
			continue
		}
		points = append(points, models.PricePoint{
			Date:     time.Unix(int64(bar.Timestamp), 0).UTC(),
			Close:    bar.Close,
			AdjClose: bar.AdjClose,
		})
	}

	if err := iter.Err(); err != nil {
		return models.PriceSeries{}, fmt.Errorf("failed to get historical data for %s: %w", t.symbol, err)
	}

	return newPriceSeries(t.symbol, points), nil
}

// newPriceSeries sorts points and marks the series adjusted when every bar
// carries an adjusted close
func newPriceSeries(symbol string, points []models.PricePoint) models.PriceSeries {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	adjusted := len(points) > 0
	for _, p := range points {
		if !p.AdjClose.IsPositive() {
			adjusted = false
			break
		}
	}

	return models.PriceSeries{Symbol: symbol, Points: points, Adjusted: adjusted}
}

// Dividends gets the full dividend history
func (t *yahooTicker) Dividends(ctx context.Context) ([]models.DividendEvent, error) {
	if err := ValidateSymbol(t.symbol); err != nil {
		return nil, err
	}

	resp, err := t.yf.client.R().
		SetContext(ctx).
		SetPathParam("symbol", t.symbol).
		SetQueryParams(map[string]string{
			"range":    "max",
			"interval": "1d",
			"events":   "div",
		}).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dividends for %s: %w", t.symbol, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("dividends for %s: API error %d: %s", t.symbol, resp.StatusCode(), resp.String())
	}

	var payload any
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse dividend response for %s: %w", t.symbol, err)
	}

	return parseDividends(payload)
}

// parseDividends reads chart.result[0].events.dividends, a map keyed by unix
// timestamp of {"amount": .., "date": ..}. A chart without events has no dividends.
func parseDividends(payload any) ([]models.DividendEvent, error) {
	if chartErr, err := jsonpath.Get("$.chart.error", payload); err == nil && chartErr != nil {
		return nil, fmt.Errorf("chart error: %v", chartErr)
	}

	if _, err := jsonpath.Get("$.chart.result[0]", payload); err != nil {
		return nil, fmt.Errorf("chart response has no result: %w", err)
	}

	loc := time.UTC
	if tz, err := jsonpath.Get("$.chart.result[0].meta.exchangeTimezoneName", payload); err == nil {
		if name, ok := tz.(string); ok {
			if l, err := time.LoadLocation(name); err == nil {
				loc = l
			}
		}
	}

	raw, err := jsonpath.Get("$.chart.result[0].events.dividends", payload)
	if err != nil {
		return []models.DividendEvent{}, nil
	}
	entries, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected dividends payload %T", raw)
	}

	events := make([]models.DividendEvent, 0, len(entries))
	for key, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected dividend entry %q: %T", key, entry)
		}
		amount, ok := fields["amount"].(float64)
		if !ok {
			return nil, fmt.Errorf("dividend %q has no amount", key)
		}
		ts, ok := fields["date"].(float64)
		if !ok {
			return nil, fmt.Errorf("dividend %q has no date", key)
		}
		paid := time.Unix(int64(ts), 0).In(loc)
		events = append(events, models.DividendEvent{
			// ex-dividend day at local midnight, not the 09:30 session open Yahoo stamps
			Date:   time.Date(paid.Year(), paid.Month(), paid.Day(), 0, 0, 0, 0, loc),
			Amount: decimal.NewFromFloat(amount),
		})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	return events, nil
}
