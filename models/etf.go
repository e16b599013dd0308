package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one trading day of a price history
type PricePoint struct {
	Date     time.Time       `json:"date"`
	Close    decimal.Decimal `json:"close"`
	AdjClose decimal.Decimal `json:"adj_close"`
}

// Price returns the adjusted close when the series carries one, the close otherwise
func (p PricePoint) Price(adjusted bool) decimal.Decimal {
	if adjusted {
		return p.AdjClose
	}
	return p.Close
}

// PriceSeries is a daily price history, ascending by date
type PriceSeries struct {
	Symbol   string       `json:"symbol"`
	Points   []PricePoint `json:"points"`
	Adjusted bool         `json:"adjusted"`
}

// Empty reports whether the series has no points
func (s PriceSeries) Empty() bool {
	return len(s.Points) == 0
}

// First returns the earliest point. The series must not be empty.
func (s PriceSeries) First() PricePoint {
	return s.Points[0]
}

// Last returns the latest point. The series must not be empty.
func (s PriceSeries) Last() PricePoint {
	return s.Points[len(s.Points)-1]
}

// DividendEvent is a per-share cash distribution
type DividendEvent struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// CAGRResult holds the growth and dividend metrics of one ETF
type CAGRResult struct {
	Ticker                  string  `json:"ticker"`
	CAGRPercent             float64 `json:"cagr_percent"`
	AvgDividendYieldPercent float64 `json:"avg_dividend_yield_percent"`
}
