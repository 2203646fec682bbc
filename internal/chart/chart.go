// Package chart renders a symbol's closing prices as a terminal line chart.
package chart

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"StockLens/internal/model"
)

// DefaultWindow is how many of the most recent points are plotted.
const DefaultWindow = 50

// Config controls the plotted range and chart dimensions.
type Config struct {
	Window int
	Height int
	Width  int
}

// Window returns the inclusive index range [lo, hi] of the last size points of
// an n-point series. ok is false when there is nothing to plot.
func Window(n, size int) (lo, hi int, ok bool) {
	if n <= 0 {
		return 0, -1, false
	}
	if size <= 0 {
		size = DefaultWindow
	}
	lo = max(0, n-size)
	return lo, n - 1, true
}

// Render draws close versus date over the configured window. The history is
// only read.
func Render(h *model.History, cfg Config) string {
	if h == nil {
		return "no data"
	}
	lo, hi, ok := Window(h.Len(), cfg.Window)
	if !ok {
		return fmt.Sprintf("%s: no data", h.Symbol)
	}

	series := make([]float64, 0, hi-lo+1)
	for _, q := range h.Quotes[lo : hi+1] {
		series = append(series, q.Close)
	}
	// asciigraph needs two points to draw a line.
	if len(series) == 1 {
		series = append(series, series[0])
	}

	opts := []asciigraph.Option{
		asciigraph.Caption(fmt.Sprintf("%s close, last %d days", h.Symbol, hi-lo+1)),
		asciigraph.Precision(2),
	}
	if cfg.Height > 0 {
		opts = append(opts, asciigraph.Height(cfg.Height))
	}
	if cfg.Width > 0 {
		opts = append(opts, asciigraph.Width(cfg.Width))
	}

	var b strings.Builder
	b.WriteString(asciigraph.Plot(series, opts...))
	b.WriteString("\n")
	b.WriteString(axisLabel(h.Quotes[lo].Date.Format(model.DateLayout), h.Quotes[hi].Date.Format(model.DateLayout)))
	return b.String()
}

func axisLabel(first, last string) string {
	if first == last {
		return first
	}
	return first + " → " + last
}
