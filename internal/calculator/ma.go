package calculator

import (
	"errors"

	"StockLens/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateMA50 returns the 50-day simple moving average of closing prices.
func CalculateMA50(quotes []model.DailyQuote) (float64, error) {
	return CalculateSMA(extractCloses(quotes), 50)
}

func extractCloses(quotes []model.DailyQuote) []float64 {
	closes := make([]float64, len(quotes))
	for i, q := range quotes {
		closes[i] = q.Close
	}
	return closes
}
