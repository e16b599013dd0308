package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// runInteractiveMode shows the menu and runs the chosen calculation once
func runInteractiveMode(cmd *cobra.Command, app *App) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Welcome to ETFScope"))
	fmt.Fprintln(out, RenderMenu(menuOptions))

	choice, err := PromptForAction()
	if err != nil {
		return err
	}

	switch choice {
	case cagrOption:
		tickers, err := PromptForTickers()
		if err != nil {
			return err
		}
		years, err := PromptForYears()
		if err != nil {
			return err
		}
		app.runCAGR(cmd.Context(), out, tickers, years)
		return nil

	case overlapOption:
		etf1, etf2, err := PromptForPair()
		if err != nil {
			return err
		}
		if err := app.runOverlap(cmd.Context(), out, etf1, etf2); err != nil {
			// shown like any other answer, the session still ends normally
			fmt.Fprintln(out, warningStyle.Render(err.Error()))
		}
		return nil
	}

	return fmt.Errorf("unknown option %q", choice.Title)
}
