package model

// Summary holds the latest values and indicators shown next to the chart.
// Optional indicators are nil when the history is too short to compute them.
type Summary struct {
	Symbol   string
	LastDate string
	Volume   float64
	Open     float64
	Close    float64
	SMA50    *float64
	RSI14    *float64
	High52w  *float64
	Low52w   *float64
	Points   int
}
