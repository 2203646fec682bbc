package chart

import (
	"strings"
	"testing"
	"time"

	"StockLens/internal/model"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		n, size int
		lo, hi  int
		wantOK  bool
	}{
		{100, 50, 50, 99, true},
		{10, 50, 0, 9, true},
		{50, 50, 0, 49, true},
		{51, 50, 1, 50, true},
		{1, 50, 0, 0, true},
		{0, 50, 0, -1, false},
		{100, 0, 50, 99, true},
	}
	for _, tt := range tests {
		lo, hi, ok := Window(tt.n, tt.size)
		if lo != tt.lo || hi != tt.hi || ok != tt.wantOK {
			t.Errorf("Window(%d, %d) = (%d, %d, %v), want (%d, %d, %v)",
				tt.n, tt.size, lo, hi, ok, tt.lo, tt.hi, tt.wantOK)
		}
	}
}

func history(n int) *model.History {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &model.History{Symbol: "AAPL"}
	for i := 0; i < n; i++ {
		h.Quotes = append(h.Quotes, model.DailyQuote{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + float64(i),
		})
	}
	return h
}

func TestRenderUsesWindowBounds(t *testing.T) {
	h := history(100)
	out := Render(h, Config{Window: 50, Height: 5})

	if !strings.Contains(out, "last 50 days") {
		t.Errorf("caption missing window size:\n%s", out)
	}
	first := h.Quotes[50].Date.Format(model.DateLayout)
	last := h.Quotes[99].Date.Format(model.DateLayout)
	if !strings.Contains(out, first) || !strings.Contains(out, last) {
		t.Errorf("expected date labels %s and %s in:\n%s", first, last, out)
	}
	if h.Len() != 100 || h.Quotes[0].Close != 100 {
		t.Error("Render must not modify the history")
	}
}

func TestRenderEmptyAndSinglePoint(t *testing.T) {
	if out := Render(&model.History{Symbol: "X"}, Config{}); !strings.Contains(out, "no data") {
		t.Errorf("empty history rendered %q", out)
	}
	if out := Render(nil, Config{}); out != "no data" {
		t.Errorf("nil history rendered %q", out)
	}
	out := Render(history(1), Config{Height: 3})
	if !strings.Contains(out, "2024-01-01") {
		t.Errorf("single point chart missing date:\n%s", out)
	}
}
