package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/dyike/ETFScope/config"
	"github.com/dyike/ETFScope/internal/logger"
	"github.com/dyike/ETFScope/pkg/analysis"
	"github.com/dyike/ETFScope/pkg/dataflows"
)

// App holds the calculators shared by every command of one process
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	cagr    *analysis.CAGRCalculator
	overlap *analysis.OverlapAggregator
}

func newApp(cfg *config.Config) *App {
	return &App{cfg: cfg, log: zerolog.Nop()}
}

// setup validates the configuration and builds the clients. Logs go to errOut.
func (a *App) setup(errOut io.Writer) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if errOut == os.Stderr {
		a.log = logger.New(a.cfg)
	} else {
		a.log = logger.NewWithWriter(a.cfg, errOut)
	}

	yahoo := dataflows.NewYahooFinanceClient(a.cfg, &a.log)
	fetcher := dataflows.NewHistoryFetcher(a.cfg.MaxRetries, a.cfg.BackoffFactor)
	a.cagr = analysis.NewCAGRCalculator(yahoo, fetcher)
	a.overlap = analysis.NewOverlapAggregator(dataflows.NewOverlapClient(a.cfg, &a.log))

	a.log.Debug().
		Int("max_retries", a.cfg.MaxRetries).
		Float64("backoff_factor", a.cfg.BackoffFactor).
		Str("overlap_endpoint", a.cfg.OverlapEndpoint).
		Msg("etfscope initialized")
	return nil
}

func (a *App) context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return a.log.WithContext(ctx)
}

// runCAGR computes and renders the growth table for tickers
func (a *App) runCAGR(ctx context.Context, out io.Writer, tickers []string, years int) {
	results := a.cagr.ComputeAll(a.context(ctx), tickers, years)
	if len(results) == 0 {
		fmt.Fprintln(out, warningStyle.Render("No ETF data found, or the symbols were invalid."))
		return
	}

	fmt.Fprintln(out, titleStyle.Render("ETF Performance"))
	fmt.Fprintln(out, RenderCAGRTable(results, years))
}

// runOverlap computes and renders the overlap of a pair
func (a *App) runOverlap(ctx context.Context, out io.Writer, etf1, etf2 string) error {
	result, err := a.overlap.Compute(a.context(ctx), etf1, etf2)
	if err != nil {
		return err
	}

	level := overlapLevel(result.TotalOverlap, a.cfg)
	a.log.Info().
		Str("pair", etf1+"/"+etf2).
		Float64("total_overlap", result.TotalOverlap).
		Str("level", string(level)).
		Msg(level.Explanation())

	fmt.Fprint(out, RenderOverlap(result, level))
	return nil
}
