package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/ETFScope/pkg/dataflows"
)

type menuOption struct {
	Title       string
	Description string
}

var (
	overlapOption = menuOption{
		Title:       "ETF Overlap",
		Description: "Share of two ETFs' portfolios invested in the same companies",
	}
	cagrOption = menuOption{
		Title:       "CAGR",
		Description: "Compound annual growth rate and average dividend yield",
	}
	menuOptions = []menuOption{overlapOption, cagrOption}
)

// PromptForAction asks which calculation to run
func PromptForAction() (menuOption, error) {
	titles := make([]string, len(menuOptions))
	for i, o := range menuOptions {
		titles[i] = o.Title
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select the calculation to run:",
		Options: titles,
		Description: func(value string, index int) string {
			return menuOptions[index].Description
		},
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return menuOption{}, err
	}

	for _, o := range menuOptions {
		if o.Title == selected {
			return o, nil
		}
	}
	return menuOption{}, fmt.Errorf("unknown option %q", selected)
}

// PromptForTickers asks for a comma separated ETF list
func PromptForTickers() ([]string, error) {
	var input string
	prompt := &survey.Input{
		Message: "Enter ETF symbols separated by commas (e.g. VOO,SCHD,QQQ):",
		Help:    "Each symbol is looked up on Yahoo Finance",
	}
	if err := survey.AskOne(prompt, &input, survey.WithValidator(validateTickerList)); err != nil {
		return nil, err
	}
	return parseTickerList(input)
}

// PromptForYears asks for the lookback window
func PromptForYears() (int, error) {
	var input string
	prompt := &survey.Input{
		Message: "How many years of data? (e.g. 5):",
		Default: "5",
	}
	if err := survey.AskOne(prompt, &input, survey.WithValidator(validateYears)); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(input))
}

// PromptForPair asks for the two ETFs to compare
func PromptForPair() (string, string, error) {
	qs := []*survey.Question{
		{
			Name:     "etf1",
			Prompt:   &survey.Input{Message: "First ETF symbol:"},
			Validate: validateTicker,
		},
		{
			Name:     "etf2",
			Prompt:   &survey.Input{Message: "Second ETF symbol:"},
			Validate: validateTicker,
		},
	}

	answers := struct {
		ETF1 string `survey:"etf1"`
		ETF2 string `survey:"etf2"`
	}{}
	if err := survey.Ask(qs, &answers); err != nil {
		return "", "", err
	}
	return dataflows.NormalizeSymbol(answers.ETF1), dataflows.NormalizeSymbol(answers.ETF2), nil
}

func validateTicker(val interface{}) error {
	str, ok := val.(string)
	if !ok {
		return fmt.Errorf("invalid input type")
	}
	return dataflows.ValidateSymbol(str)
}

func validateTickerList(val interface{}) error {
	str, ok := val.(string)
	if !ok {
		return fmt.Errorf("invalid input type")
	}
	_, err := parseTickerList(str)
	return err
}

func validateYears(val interface{}) error {
	str, ok := val.(string)
	if !ok {
		return fmt.Errorf("invalid input type")
	}
	years, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return fmt.Errorf("year count must be a number")
	}
	if years < 1 {
		return fmt.Errorf("year count must be at least 1")
	}
	return nil
}
