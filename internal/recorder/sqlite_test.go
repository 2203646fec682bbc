package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "stocklens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_PredictionsNewestFirst(t *testing.T) {
	r := openTemp(t)

	for i, sym := range []string{"AAPL", "MSFT", "AAPL"} {
		require.NoError(t, r.RecordPrediction(&PredictionEvent{
			Timestamp:      time.Unix(1700000000+int64(i), 0),
			Symbol:         sym,
			LastDate:       "2024-01-02",
			LastClose:      100,
			PredictedClose: 100 + float64(i),
			RMSE:           0.5,
			TrainSize:      85,
			TestSize:       14,
		}))
	}

	got, err := r.ListPredictions("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 102.0, got[0].PredictedClose)
	require.Equal(t, 100.0, got[1].PredictedClose)
	require.Equal(t, int64(1700000002), got[0].Timestamp.Unix())
	require.Equal(t, 85, got[0].TrainSize)

	all, err := r.ListPredictions("", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "AAPL", all[0].Symbol)
	require.Equal(t, "MSFT", all[1].Symbol)
}

func TestSQLiteRecorder_RecordFetch(t *testing.T) {
	r := openTemp(t)

	h := &model.History{Symbol: "AAPL", Source: "mock", Quotes: []model.DailyQuote{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 10},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 11},
	}}
	evt := NewFetchEvent("AAPL", h, nil)
	require.Equal(t, "2024-01-02", evt.FirstDate)
	require.Equal(t, "2024-01-03", evt.LastDate)
	require.Equal(t, 11.0, evt.LastClose)
	require.NoError(t, r.RecordFetch(evt))

	failed := NewFetchEvent("NOPE", nil, errors.New("boom"))
	require.Equal(t, "boom", failed.Err)
	require.NoError(t, r.RecordFetch(failed))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM history_fetches WHERE error != ''`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestSQLiteRecorder_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordPrediction(NewPredictionEvent(&model.PredictionResult{
		Symbol: "IBM", PredictedClose: 1.5, LastDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	})))
	require.NoError(t, r.Close())

	r2, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r2.Close()
	got, err := r2.ListPredictions("IBM", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "2024-01-02", got[0].LastDate)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	require.NoError(t, r.RecordFetch(&FetchEvent{}))
	got, err := r.ListPredictions("X", 5)
	require.NoError(t, err)
	require.Empty(t, got)
}
