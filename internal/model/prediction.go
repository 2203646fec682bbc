package model

import "time"

// PredictionResult is the outcome of one next-day close prediction.
type PredictionResult struct {
	Symbol         string
	PredictedClose float64
	RMSE           float64 // on the held-out tail, 0 when the tail is empty
	TrainSize      int
	TestSize       int
	LastDate       time.Time
	LastClose      float64
	CreatedAt      time.Time
}
