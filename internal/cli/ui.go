package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dyike/ETFScope/config"
	"github.com/dyike/ETFScope/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginTop(1)

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	numberCellStyle = cellStyle.Align(lipgloss.Right)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	// Overlap level styles
	lowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	moderateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	highStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// RenderCAGRTable renders one row per ETF
func RenderCAGRTable(results []models.CAGRResult, years int) string {
	t := newTable(
		"ETF",
		fmt.Sprintf("CAGR %dY (%%) [Total Return]", years),
		fmt.Sprintf("Avg Dividend %dY (%%)", years),
	).StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerCellStyle
		case col == 0:
			return cellStyle
		default:
			return numberCellStyle
		}
	})

	for _, r := range results {
		t.Row(r.Ticker, fmt.Sprintf("%.2f", r.CAGRPercent), fmt.Sprintf("%.2f", r.AvgDividendYieldPercent))
	}
	return t.Render()
}

// RenderMenu renders the interactive mode options
func RenderMenu(options []menuOption) string {
	t := newTable("Option", "Action", "Description").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		})
	for i, o := range options {
		t.Row(fmt.Sprintf("%d", i+1), o.Title, o.Description)
	}
	return t.Render()
}

func overlapLevel(percent float64, cfg *config.Config) models.OverlapLevel {
	return models.ClassifyOverlap(percent, cfg.LowOverlapThreshold, cfg.HighOverlapThreshold)
}

func levelStyle(level models.OverlapLevel) lipgloss.Style {
	switch level {
	case models.OverlapLow:
		return lowStyle
	case models.OverlapModerate:
		return moderateStyle
	default:
		return highStyle
	}
}

// RenderOverlap renders the colored total overlap with its explanation and the
// share of each fund held in common
func RenderOverlap(result models.OverlapResult, level models.OverlapLevel) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total overlap weight: %s\n",
		levelStyle(level).Render(fmt.Sprintf("%.2f%%", result.TotalOverlap))))
	b.WriteString(fmt.Sprintf("Explanation: %s\n", level.Explanation()))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s overlap: %.2f%% | %s overlap: %.2f%% | shared holdings: %d",
		result.ETF1, result.OverlapPercentETF1,
		result.ETF2, result.OverlapPercentETF2,
		len(result.Profiles))))
	b.WriteString("\n\n")
	return b.String()
}

// RenderConfig lists the effective settings
func RenderConfig(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Current ETFScope Configuration:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Max Retries:          %d\n", cfg.MaxRetries))
	b.WriteString(fmt.Sprintf("Backoff Factor:       %g\n", cfg.BackoffFactor))
	b.WriteString(fmt.Sprintf("Overlap Endpoint:     %s\n", cfg.OverlapEndpoint))
	b.WriteString(fmt.Sprintf("Request Timeout:      %s\n", cfg.RequestTimeout))
	b.WriteString(fmt.Sprintf("HTTP Retry Wait:      %s\n", cfg.HTTPRetryWait))
	b.WriteString(fmt.Sprintf("Yahoo Base URL:       %s\n", cfg.YahooBaseURL))
	b.WriteString(fmt.Sprintf("Overlap Thresholds:   low < %g%%, high > %g%%\n",
		cfg.LowOverlapThreshold, cfg.HighOverlapThreshold))
	b.WriteString(fmt.Sprintf("Log Level:            %s\n", cfg.LogLevel))
	b.WriteString(fmt.Sprintf("Debug Mode:           %t\n", cfg.Debug))
	return b.String()
}
