package analysis

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/dyike/ETFScope/models"
	"github.com/dyike/ETFScope/pkg/dataflows"
)

// OverlapComparer fetches the shared holdings of two ETFs
type OverlapComparer interface {
	Compare(ctx context.Context, etf1, etf2 string) (dataflows.ComparePayload, error)
}

// OverlapAggregator turns per-holding comparison data into overlap totals
type OverlapAggregator struct {
	client OverlapComparer
}

func NewOverlapAggregator(client OverlapComparer) *OverlapAggregator {
	return &OverlapAggregator{client: client}
}

// Compute fetches the comparison of etf1 and etf2 and aggregates it
func (a *OverlapAggregator) Compute(ctx context.Context, etf1, etf2 string) (models.OverlapResult, error) {
	pair := etf1 + "/" + etf2
	logger := zerolog.Ctx(ctx).With().Str("pair", pair).Logger()

	payload, err := a.client.Compare(ctx, etf1, etf2)
	if err != nil {
		apiErr := &Error{Kind: KindAPI, Subject: pair, Err: err}
		var statusErr *dataflows.StatusError
		if errors.As(err, &statusErr) {
			apiErr.Status = statusErr.Code
			apiErr.Message = "comparison endpoint rejected the request"
		} else {
			apiErr.Message = "comparison request failed"
		}
		logger.Error().Err(apiErr).Msg("overlap calculation failed")
		return models.OverlapResult{}, apiErr
	}

	if len(payload.Profiles) == 0 {
		apiErr := &Error{Kind: KindAPI, Subject: pair, Message: "no data"}
		logger.Error().Err(apiErr).Msg("overlap calculation failed")
		return models.OverlapResult{}, apiErr
	}

	result := Aggregate(etf1, etf2, payload.Profiles)
	logger.Debug().
		Int("holdings", len(result.Profiles)).
		Float64("total_overlap", result.TotalOverlap).
		Msg("overlap computed")
	return result, nil
}

// Aggregate sums overlap and per-fund weights. A fund with zero total weight
// gets a 0% share instead of a division by zero.
func Aggregate(etf1, etf2 string, profiles []models.OverlapProfile) models.OverlapResult {
	var total, totalETF1, totalETF2 float64
	for _, p := range profiles {
		total += p.OverlapWeight
		totalETF1 += p.ETF1Weight
		totalETF2 += p.ETF2Weight
	}

	return models.OverlapResult{
		ETF1:               etf1,
		ETF2:               etf2,
		TotalOverlap:       total,
		OverlapPercentETF1: shareOf(total, totalETF1),
		OverlapPercentETF2: shareOf(total, totalETF2),
		Profiles:           profiles,
	}
}

func shareOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
