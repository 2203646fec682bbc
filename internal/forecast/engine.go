package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// TrainRatio is the chronological share of samples used for fitting.
const TrainRatio = 0.85

// ErrInsufficientData is returned when a history is too short to fit a model.
var ErrInsufficientData = errors.New("insufficient data")

// dataset pairs each day's features with the next day's close.
type dataset struct {
	features [][]float64
	targets  []float64
	offsets  []float64
}

// SplitIndex returns the number of training samples out of n.
// The training side always gets at least one sample.
func SplitIndex(n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(math.Floor(TrainRatio * float64(n)))
	if idx < 1 {
		idx = 1
	}
	return idx
}

// dayOffsets converts dates into whole days since the first one.
func dayOffsets(quotes []model.DailyQuote) []float64 {
	out := make([]float64, len(quotes))
	first := quotes[0].Date
	for i, q := range quotes {
		out[i] = math.Round(q.Date.Sub(first).Hours() / 24)
	}
	return out
}

// buildDataset returns one (offset, close, volume, open) row per day except the
// last, each labelled with the following day's close.
func buildDataset(quotes []model.DailyQuote) dataset {
	offsets := dayOffsets(quotes)
	n := len(quotes) - 1
	ds := dataset{
		features: make([][]float64, n),
		targets:  make([]float64, n),
		offsets:  offsets,
	}
	for i := 0; i < n; i++ {
		q := quotes[i]
		ds.features[i] = []float64{offsets[i], q.Close, q.Volume, q.Open}
		ds.targets[i] = quotes[i+1].Close
	}
	return ds
}

// PredictNextClose fits a linear model on the history and predicts the close
// of the day after the last quote. The history is not modified.
func PredictNextClose(h *model.History) (*model.PredictionResult, error) {
	if h == nil || h.Len() < 2 {
		n := 0
		if h != nil {
			n = h.Len()
		}
		return nil, fmt.Errorf("%w: need at least 2 daily quotes, have %d", ErrInsufficientData, n)
	}

	ds := buildDataset(h.Quotes)
	split := SplitIndex(len(ds.targets))
	trainX, testX := ds.features[:split], ds.features[split:]
	trainY, testY := ds.targets[:split], ds.targets[split:]

	lm, err := calculator.FitOLS(trainX, trainY)
	if err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	var rmse float64
	if len(testX) > 0 {
		rmse, err = calculator.RMSE(testY, lm.PredictAll(testX))
		if err != nil {
			return nil, fmt.Errorf("score model: %w", err)
		}
	}

	last, _ := h.Last()
	tomorrow := []float64{ds.offsets[len(ds.offsets)-1] + 1, last.Close, last.Volume, last.Open}

	return &model.PredictionResult{
		Symbol:         h.Symbol,
		PredictedClose: lm.Predict(tomorrow),
		RMSE:           rmse,
		TrainSize:      len(trainX),
		TestSize:       len(testX),
		LastDate:       last.Date,
		LastClose:      last.Close,
		CreatedAt:      time.Now(),
	}, nil
}
