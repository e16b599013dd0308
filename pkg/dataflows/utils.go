package dataflows

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-^=]+$`)

// ValidateSymbol checks if a ticker symbol is valid format
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// NormalizeSymbol converts symbol to standard format
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// SplitSymbols parses a comma separated symbol list, dropping blanks
func SplitSymbols(input string) []string {
	var symbols []string
	for _, part := range strings.Split(input, ",") {
		if s := NormalizeSymbol(part); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// ParsePeriod converts a lookback period ("5d", "2wk", "6mo", "5y", "ytd", "max")
// into the start of the window ending at now.
func ParsePeriod(period string, now time.Time) (time.Time, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	switch period {
	case "max":
		return time.Unix(0, 0).UTC(), nil
	case "ytd":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), nil
	}

	units := []struct {
		suffix string
		apply  func(n int) time.Time
	}{
		{"mo", func(n int) time.Time { return now.AddDate(0, -n, 0) }},
		{"wk", func(n int) time.Time { return now.AddDate(0, 0, -7*n) }},
		{"y", func(n int) time.Time { return now.AddDate(-n, 0, 0) }},
		{"d", func(n int) time.Time { return now.AddDate(0, 0, -n) }},
	}
	for _, u := range units {
		if !strings.HasSuffix(period, u.suffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(period, u.suffix))
		if err != nil || n <= 0 {
			return time.Time{}, fmt.Errorf("invalid period: %q", period)
		}
		return u.apply(n), nil
	}

	return time.Time{}, fmt.Errorf("invalid period: %q", period)
}

// FormatDateRange creates a human-readable date range string
func FormatDateRange(start, end time.Time) string {
	return fmt.Sprintf("%s to %s",
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))
}
