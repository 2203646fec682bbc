package model

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used by every data source.
const DateLayout = "2006-01-02"

// DailyQuote is one trading day of a symbol's history.
type DailyQuote struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// History holds a symbol's daily quotes ordered by date, oldest first.
type History struct {
	Symbol    string
	Quotes    []DailyQuote
	Source    string
	FetchedAt time.Time
}

func (h *History) Len() int { return len(h.Quotes) }

// Last returns the most recent quote.
func (h *History) Last() (DailyQuote, bool) {
	if len(h.Quotes) == 0 {
		return DailyQuote{}, false
	}
	return h.Quotes[len(h.Quotes)-1], true
}

// Dates returns a fresh slice of the quote dates.
func (h *History) Dates() []time.Time {
	out := make([]time.Time, len(h.Quotes))
	for i, q := range h.Quotes {
		out[i] = q.Date
	}
	return out
}

// Closes returns a fresh slice of closing prices aligned with Dates.
func (h *History) Closes() []float64 {
	out := make([]float64, len(h.Quotes))
	for i, q := range h.Quotes {
		out[i] = q.Close
	}
	return out
}

// Opens returns a fresh slice of opening prices aligned with Dates.
func (h *History) Opens() []float64 {
	out := make([]float64, len(h.Quotes))
	for i, q := range h.Quotes {
		out[i] = q.Open
	}
	return out
}

// Volumes returns a fresh slice of volumes aligned with Dates.
func (h *History) Volumes() []float64 {
	out := make([]float64, len(h.Quotes))
	for i, q := range h.Quotes {
		out[i] = q.Volume
	}
	return out
}

var errNotIncreasing = errors.New("dates are not strictly increasing")

// Validate checks that dates strictly increase and values are non-negative.
func (h *History) Validate() error {
	for i, q := range h.Quotes {
		if q.Open < 0 || q.Close < 0 || q.Volume < 0 {
			return fmt.Errorf("quote %s: negative value", q.Date.Format(DateLayout))
		}
		if i > 0 && !q.Date.After(h.Quotes[i-1].Date) {
			return fmt.Errorf("%w at %s", errNotIncreasing, q.Date.Format(DateLayout))
		}
	}
	return nil
}
