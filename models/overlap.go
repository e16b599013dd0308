package models

// OverlapProfile is one shared holding returned by the comparison endpoint
type OverlapProfile struct {
	Symbol        string  `json:"symbol,omitempty"`
	Name          string  `json:"name,omitempty"`
	OverlapWeight float64 `json:"overlapWeight"`
	ETF1Weight    float64 `json:"etf1Weight"`
	ETF2Weight    float64 `json:"etf2Weight"`
}

// OverlapResult aggregates the profiles of two ETFs
type OverlapResult struct {
	ETF1               string           `json:"etf1"`
	ETF2               string           `json:"etf2"`
	TotalOverlap       float64          `json:"total_overlap"`
	OverlapPercentETF1 float64          `json:"overlap_percent_etf1"`
	OverlapPercentETF2 float64          `json:"overlap_percent_etf2"`
	Profiles           []OverlapProfile `json:"profiles"`
}

// OverlapLevel buckets an overlap percentage
type OverlapLevel string

const (
	OverlapLow      OverlapLevel = "low"
	OverlapModerate OverlapLevel = "moderate"
	OverlapHigh     OverlapLevel = "high"
)

const (
	DefaultLowOverlapThreshold  = 30.0
	DefaultHighOverlapThreshold = 60.0
)

// ClassifyOverlap maps a percentage onto a level. Both thresholds belong to the
// moderate band.
func ClassifyOverlap(percent, low, high float64) OverlapLevel {
	switch {
	case percent < low:
		return OverlapLow
	case percent <= high:
		return OverlapModerate
	default:
		return OverlapHigh
	}
}

// Explanation describes what the level means for diversification
func (l OverlapLevel) Explanation() string {
	switch l {
	case OverlapLow:
		return "Very low overlap: portfolio diversification is high."
	case OverlapModerate:
		return "Moderate overlap: balanced diversification with some shared holdings."
	case OverlapHigh:
		return "High overlap: mostly the same holdings, limited risk reduction."
	default:
		return ""
	}
}
