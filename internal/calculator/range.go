package calculator

import (
	"errors"
	"math"

	"StockLens/internal/model"
)

// TradingDaysPerYear is the lookback used for 52-week figures.
const TradingDaysPerYear = 252

// Calculate52WeekRange scans the most recent 252 trading days and returns the high and low.
// Quotes without intraday extremes fall back to their open/close.
func Calculate52WeekRange(quotes []model.DailyQuote) (high, low float64, err error) {
	if len(quotes) == 0 {
		return 0, 0, errors.New("no quotes provided")
	}
	start := len(quotes) - TradingDaysPerYear
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, q := range quotes[start:] {
		h, l := q.High, q.Low
		if h == 0 && l == 0 {
			h, l = math.Max(q.Open, q.Close), math.Min(q.Open, q.Close)
		}
		high = math.Max(high, h)
		low = math.Min(low, l)
	}
	return high, low, nil
}
