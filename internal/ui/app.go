// Package ui is the interactive terminal front end.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"StockLens/internal/chart"
	"StockLens/internal/model"
	"StockLens/internal/session"
)

const (
	actionAnalyze = "Analyze"
	actionChoose  = "Choose another symbol"
	actionQuit    = "Quit"
)

// App drives the select, render, analyze loop.
type App struct {
	Engine  *session.Engine
	Symbols []model.Symbol
	Chart   chart.Config
	Out     io.Writer
}

// NewApp creates an App that writes to stdout.
func NewApp(engine *session.Engine, symbols []model.Symbol, cfg chart.Config) *App {
	return &App{Engine: engine, Symbols: symbols, Chart: cfg, Out: os.Stdout}
}

// Run loops until the user quits or interrupts.
func (a *App) Run(ctx context.Context) error {
	options := make([]string, len(a.Symbols))
	for i, s := range a.Symbols {
		options[i] = s.Display()
	}

	for {
		var selected string
		err := survey.AskOne(&survey.Select{
			Message:  "Select a stock (type to search):",
			Options:  options,
			PageSize: 15,
		}, &selected)
		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("symbol prompt: %w", err)
		}

		if _, err := a.Engine.Select(ctx, selected); err != nil {
			fmt.Fprintln(a.Out, RenderError(err))
		}
		fmt.Fprintln(a.Out, RenderSession(a.Engine.Current(), a.Chart))

		quit, err := a.actions()
		if err != nil || quit {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// actions shows the menu for the current session. It returns when the user
// picks another symbol or quits.
func (a *App) actions() (quit bool, err error) {
	for {
		var action string
		err := survey.AskOne(&survey.Select{
			Message: "Action:",
			Options: []string{actionAnalyze, actionChoose, actionQuit},
			Default: actionAnalyze,
		}, &action)
		if errors.Is(err, terminal.InterruptErr) {
			return true, nil
		}
		if err != nil {
			return true, fmt.Errorf("action prompt: %w", err)
		}

		switch action {
		case actionAnalyze:
			fmt.Fprintln(a.Out, a.Analyze())
		case actionChoose:
			return false, nil
		default:
			return true, nil
		}
	}
}

// Analyze runs the prediction for the current session and renders the result panel.
func (a *App) Analyze() string {
	res, err := a.Engine.Analyze()
	if err != nil {
		return RenderError(err)
	}
	return RenderPrediction(res)
}
