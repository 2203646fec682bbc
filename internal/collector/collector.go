package collector

import (
	"context"
	"fmt"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Days    int
	History *model.History
	Err     error
	Calls   []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string) (*model.History, error) {
	m.Calls = append(m.Calls, symbol)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.History != nil {
		h := *m.History
		h.Quotes = append([]model.DailyQuote(nil), m.History.Quotes...)
		return &h, nil
	}
	return &model.History{
		Symbol:    symbol,
		Quotes:    generateMockQuotes(m.Price, m.Days),
		Source:    m.Name(),
		FetchedAt: time.Now(),
	}, nil
}

func generateMockQuotes(basePrice float64, count int) []model.DailyQuote {
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -count)
	quotes := make([]model.DailyQuote, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		quotes[i] = model.DailyQuote{
			Date:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return quotes
}

// Collector fetches a symbol's history and derives its summary panel.
type Collector struct {
	Fetcher HistoryFetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher HistoryFetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches the history and computes the summary for symbol.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.History, *model.Summary, error) {
	h, err := c.Fetcher.FetchHistory(ctx, symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch history %s: %w", symbol, err)
	}
	return h, Summarize(h), nil
}

// Summarize computes the latest values and whichever indicators the history supports.
func Summarize(h *model.History) *model.Summary {
	s := &model.Summary{Symbol: h.Symbol, Points: h.Len()}
	last, ok := h.Last()
	if !ok {
		return s
	}
	s.LastDate = last.Date.Format(model.DateLayout)
	s.Volume = last.Volume
	s.Open = last.Open
	s.Close = last.Close

	if ma, err := calculator.CalculateMA50(h.Quotes); err == nil {
		s.SMA50 = &ma
	}
	if rsi, err := calculator.CalculateRSI(h.Quotes, 14); err == nil {
		s.RSI14 = &rsi
	}
	if hi, lo, err := calculator.Calculate52WeekRange(h.Quotes); err == nil {
		s.High52w = &hi
		s.Low52w = &lo
	}
	return s
}
