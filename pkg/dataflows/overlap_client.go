package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/dyike/ETFScope/config"
	"github.com/dyike/ETFScope/internal/logger"
	"github.com/dyike/ETFScope/models"
	"github.com/dyike/ETFScope/pkg/retry"
)

// TransientStatuses are retried by the transport layer
var TransientStatuses = []int{
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

func IsTransientStatus(code int) bool {
	for _, s := range TransientStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// StatusError is a non-200 answer from the comparison endpoint
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.Code)
}

// ComparePayload is the body of the comparison endpoint
type ComparePayload struct {
	Profiles []models.OverlapProfile `json:"profiles"`
}

// OverlapClient talks to the ETF comparison endpoint. One client is meant to be
// shared by the whole process; it is not modified after construction.
type OverlapClient struct {
	client   *resty.Client
	endpoint string
}

// NewOverlapClient creates a pooled client retrying transient statuses
func NewOverlapClient(cfg *config.Config, log *zerolog.Logger) *OverlapClient {
	backoff := retry.Doubling(cfg.HTTPRetryWait, 0)
	maxWait := backoff(cfg.MaxRetries)

	client := resty.New()
	client.SetTimeout(cfg.RequestTimeout)
	client.SetHeader("Accept", "application/json")
	client.SetLogger(logger.Resty{Logger: log})
	client.SetRetryCount(cfg.MaxRetries)
	client.SetRetryWaitTime(cfg.HTTPRetryWait)
	client.SetRetryMaxWaitTime(maxWait)
	client.SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
		return backoff(resp.Request.Attempt), nil
	})
	client.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return resp != nil && IsTransientStatus(resp.StatusCode())
	})
	client.AddRetryHook(func(resp *resty.Response, err error) {
		event := log.Warn()
		if err != nil {
			event = event.Err(err)
		}
		if resp != nil {
			event = event.Int("status", resp.StatusCode()).Int("attempt", resp.Request.Attempt)
		}
		event.Msg("retrying ETF comparison request")
	})

	return &OverlapClient{
		client:   client,
		endpoint: cfg.OverlapEndpoint,
	}
}

// Compare fetches the shared holdings of two ETFs
func (oc *OverlapClient) Compare(ctx context.Context, etf1, etf2 string) (ComparePayload, error) {
	resp, err := oc.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"etf1": etf1,
			"etf2": etf2,
		}).
		Get(oc.endpoint)
	if err != nil {
		return ComparePayload{}, fmt.Errorf("failed to compare %s and %s: %w", etf1, etf2, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return ComparePayload{}, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}

	var payload ComparePayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return ComparePayload{}, fmt.Errorf("failed to parse comparison response: %w", err)
	}

	return payload, nil
}
