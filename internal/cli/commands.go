package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyike/ETFScope/config"
	"github.com/dyike/ETFScope/pkg/dataflows"
)

// Version is overridden at build time with -ldflags
var Version = "v0.1.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()
	app := newApp(cfg)

	rootCmd := &cobra.Command{
		Use:   "etfscope",
		Short: "ETFScope - ETF growth, dividend and overlap analysis",
		Long: `ETFScope compares exchange traded funds.
It computes the compound annual growth rate and average dividend yield of a list of
ETFs, and the holdings overlap between two ETFs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			return app.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(cmd, app)
		},
	}

	rootCmd.AddCommand(newCAGRCmd(app))
	rootCmd.AddCommand(newOverlapCmd(app))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

// newCAGRCmd creates the cagr command
func newCAGRCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cagr [SYMBOLS...]",
		Short: "Compound annual growth and average dividend yield",
		Long: `Compute the total-return CAGR and average dividend yield of one or more ETFs.
Symbols may be comma separated or given as separate arguments.
Example: etfscope cagr VOO,SCHD,QQQ --years 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			years, _ := cmd.Flags().GetInt("years")
			if years < 1 {
				return fmt.Errorf("years must be a positive number, got %d", years)
			}

			tickers, err := parseTickerList(strings.Join(args, ","))
			if err != nil {
				return err
			}

			app.runCAGR(cmd.Context(), cmd.OutOrStdout(), tickers, years)
			return nil
		},
	}

	cmd.Flags().IntP("years", "y", 5, "Lookback window in years")

	return cmd
}

// newOverlapCmd creates the overlap command
func newOverlapCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overlap ETF1 ETF2",
		Short: "Holdings overlap between two ETFs",
		Long: `Show how much of two ETFs' portfolios is invested in the same companies.
Example: etfscope overlap VOO QQQ`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			etf1, etf2 := dataflows.NormalizeSymbol(args[0]), dataflows.NormalizeSymbol(args[1])
			for _, s := range []string{etf1, etf2} {
				if err := dataflows.ValidateSymbol(s); err != nil {
					return err
				}
			}
			return app.runOverlap(cmd.Context(), cmd.OutOrStdout(), etf1, etf2)
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ETFScope %s\n", Version)
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Inspect ETFScope configuration settings",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), RenderConfig(cfg))
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			// setup already rejected an invalid configuration
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Configuration is valid."))
			return nil
		},
	})

	return configCmd
}

// parseTickerList splits a comma separated list and validates every symbol
func parseTickerList(input string) ([]string, error) {
	tickers := dataflows.SplitSymbols(input)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no ETF symbols given")
	}
	for _, t := range tickers {
		if err := dataflows.ValidateSymbol(t); err != nil {
			return nil, err
		}
	}
	return tickers, nil
}
