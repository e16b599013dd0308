package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultOverlapEndpoint = "https://api.wisesheets.io/public/compare-etfs"
	DefaultYahooBaseURL    = "https://query1.finance.yahoo.com"
)

type Config struct {
	// History fetch retry
	MaxRetries    int     `json:"max_retries"`
	BackoffFactor float64 `json:"backoff_factor"`

	// Overlap endpoint transport
	OverlapEndpoint string        `json:"overlap_endpoint"`
	RequestTimeout  time.Duration `json:"request_timeout"`
	HTTPRetryWait   time.Duration `json:"http_retry_wait"`

	YahooBaseURL string `json:"yahoo_base_url"`

	LowOverlapThreshold  float64 `json:"low_overlap_threshold"`
	HighOverlapThreshold float64 `json:"high_overlap_threshold"`

	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		MaxRetries:    3,
		BackoffFactor: 2,

		OverlapEndpoint: DefaultOverlapEndpoint,
		RequestTimeout:  10 * time.Second,
		HTTPRetryWait:   time.Second,

		YahooBaseURL: DefaultYahooBaseURL,

		LowOverlapThreshold:  30,
		HighOverlapThreshold: 60,

		Debug:    false,
		LogLevel: "info",
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("ETFSCOPE_MAX_RETRIES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxRetries = v
		}
	}
	if val := os.Getenv("ETFSCOPE_BACKOFF_FACTOR"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.BackoffFactor = v
		}
	}

	if val := os.Getenv("ETFSCOPE_OVERLAP_ENDPOINT"); val != "" {
		c.OverlapEndpoint = val
	}
	if val := os.Getenv("ETFSCOPE_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RequestTimeout = d
		}
	}
	if val := os.Getenv("ETFSCOPE_HTTP_RETRY_WAIT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.HTTPRetryWait = d
		}
	}

	if val := os.Getenv("ETFSCOPE_YAHOO_BASE_URL"); val != "" {
		c.YahooBaseURL = val
	}

	if val := os.Getenv("ETFSCOPE_LOW_OVERLAP"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.LowOverlapThreshold = v
		}
	}
	if val := os.Getenv("ETFSCOPE_HIGH_OVERLAP"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.HighOverlapThreshold = v
		}
	}

	if val := os.Getenv("ETFSCOPE_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("ETFSCOPE_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries))
	}
	if c.BackoffFactor <= 0 {
		errs = append(errs, fmt.Errorf("backoff factor must be positive, got %v", c.BackoffFactor))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.HTTPRetryWait < 0 {
		errs = append(errs, fmt.Errorf("http retry wait cannot be negative, got %s", c.HTTPRetryWait))
	}
	if c.OverlapEndpoint == "" {
		errs = append(errs, errors.New("overlap endpoint is required"))
	}
	if c.YahooBaseURL == "" {
		errs = append(errs, errors.New("yahoo base url is required"))
	}
	if c.LowOverlapThreshold > c.HighOverlapThreshold {
		errs = append(errs, fmt.Errorf("low overlap threshold %v exceeds high threshold %v",
			c.LowOverlapThreshold, c.HighOverlapThreshold))
	}
	return errors.Join(errs...)
}
