package model

import "strings"

// Symbol is a tradable security from the listing catalog.
type Symbol struct {
	Ticker string
	Name   string
}

// Display renders the symbol the way the picker shows it.
func (s Symbol) Display() string {
	return s.Ticker + " - " + s.Name
}

// ParseSelection extracts the ticker from a "TICKER - Name" display string.
// Tickers may themselves contain a hyphen (BRK-B), so the spaced separator wins.
func ParseSelection(display string) string {
	if i := strings.Index(display, " - "); i >= 0 {
		return strings.TrimSpace(display[:i])
	}
	if i := strings.Index(display, "-"); i > 0 {
		return strings.TrimSpace(display[:i])
	}
	return strings.TrimSpace(display)
}
