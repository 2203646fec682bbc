package recorder

import (
	"time"

	"StockLens/internal/model"
)

// FetchEvent records one history download attempt.
type FetchEvent struct {
	Symbol    string
	Source    string
	Points    int
	FirstDate string
	LastDate  string
	LastClose float64
	Err       string // empty on success
}

// PredictionEvent records one next-close prediction.
type PredictionEvent struct {
	ID             int64
	Timestamp      time.Time
	Symbol         string
	LastDate       string
	LastClose      float64
	PredictedClose float64
	RMSE           float64
	TrainSize      int
	TestSize       int
}

// NewFetchEvent describes the outcome of fetching symbol.
func NewFetchEvent(symbol string, h *model.History, fetchErr error) *FetchEvent {
	evt := &FetchEvent{Symbol: symbol}
	if fetchErr != nil {
		evt.Err = fetchErr.Error()
		return evt
	}
	evt.Source = h.Source
	evt.Points = h.Len()
	if h.Len() > 0 {
		evt.FirstDate = h.Quotes[0].Date.Format(model.DateLayout)
		last, _ := h.Last()
		evt.LastDate = last.Date.Format(model.DateLayout)
		evt.LastClose = last.Close
	}
	return evt
}

// NewPredictionEvent converts a prediction result into its stored form.
func NewPredictionEvent(p *model.PredictionResult) *PredictionEvent {
	return &PredictionEvent{
		Timestamp:      p.CreatedAt,
		Symbol:         p.Symbol,
		LastDate:       p.LastDate.Format(model.DateLayout),
		LastClose:      p.LastClose,
		PredictedClose: p.PredictedClose,
		RMSE:           p.RMSE,
		TrainSize:      p.TrainSize,
		TestSize:       p.TestSize,
	}
}

// Recorder persists fetches and predictions for later review.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	RecordPrediction(evt *PredictionEvent) error
	ListPredictions(symbol string, limit int) ([]PredictionEvent, error)
	Close() error
}
