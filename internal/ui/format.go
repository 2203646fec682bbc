package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"StockLens/internal/chart"
	"StockLens/internal/collector"
	"StockLens/internal/forecast"
	"StockLens/internal/model"
	"StockLens/internal/session"
)

// PricePlaces and RMSEPlaces are the decimals shown for predictions.
const (
	PricePlaces = 3
	RMSEPlaces  = 5
)

func number(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// FormatSummary lists the latest volume, open and close plus any indicators.
func FormatSummary(s *model.Summary) string {
	if s == nil || s.Points == 0 {
		return "No data"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  (%s, %d days)\n", s.Symbol, s.LastDate, s.Points)
	fmt.Fprintf(&b, "Volume: %s\n", number(s.Volume))
	fmt.Fprintf(&b, "Open: %s\n", number(s.Open))
	fmt.Fprintf(&b, "Close: %s", number(s.Close))
	if s.SMA50 != nil {
		fmt.Fprintf(&b, "\nSMA50: %s", decimal.NewFromFloat(*s.SMA50).StringFixed(2))
	}
	if s.RSI14 != nil {
		fmt.Fprintf(&b, "\nRSI14: %s", decimal.NewFromFloat(*s.RSI14).StringFixed(1))
	}
	if s.High52w != nil && s.Low52w != nil {
		fmt.Fprintf(&b, "\n52w range: %s - %s", number(*s.Low52w), number(*s.High52w))
	}
	return b.String()
}

// FormatPrediction renders the analysis result: the price to 3 decimals and
// the RMSE to 5.
func FormatPrediction(p *model.PredictionResult) string {
	price := decimal.NewFromFloat(p.PredictedClose).Round(PricePlaces)
	rmse := decimal.NewFromFloat(p.RMSE).Round(RMSEPlaces)
	return fmt.Sprintf("Predicted close price for tomorrow is %s\nRMSE: %s", price, rmse)
}

// FormatError turns an error into the message shown in place of a result.
func FormatError(err error) string {
	switch {
	case errors.Is(err, forecast.ErrInsufficientData):
		return "Not enough history to fit a model: " + err.Error()
	case errors.Is(err, collector.ErrMalformedResponse):
		return "Unexpected response from data source: " + err.Error()
	case errors.Is(err, collector.ErrDataFetch):
		return "Could not fetch data: " + err.Error()
	case errors.Is(err, collector.ErrCatalogFetch):
		return "Could not load symbol list: " + err.Error()
	case errors.Is(err, session.ErrNoSession):
		return "Select a symbol first"
	default:
		return "Error: " + err.Error()
	}
}

// RenderSession draws the summary panel next to the price chart.
func RenderSession(s *session.Session, cfg chart.Config) string {
	if s == nil {
		return mutedStyle.Render("No symbol selected")
	}
	summary := summaryStyle.Render(FormatSummary(s.Summary))
	plot := chartStyle.Render(chart.Render(s.History, cfg))
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(s.Symbol),
		lipgloss.JoinHorizontal(lipgloss.Top, summary, plot),
	)
}

// RenderPrediction draws the analysis result panel.
func RenderPrediction(p *model.PredictionResult) string {
	return resultStyle.Render(FormatPrediction(p))
}

// RenderError draws an error message.
func RenderError(err error) string {
	return errorStyle.Render(FormatError(err))
}
