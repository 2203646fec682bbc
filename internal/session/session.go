// Package session holds the symbol currently on screen and runs analyses on it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/forecast"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

// ErrNoSession is returned by Analyze before any symbol has loaded.
var ErrNoSession = errors.New("no symbol loaded")

// Session is an immutable snapshot of one loaded symbol.
type Session struct {
	Symbol   string
	History  *model.History
	Summary  *model.Summary
	LoadedAt time.Time
}

// Engine owns the current session. A new session replaces the old one only
// after its history has loaded completely.
type Engine struct {
	collector *collector.Collector
	recorder  recorder.Recorder
	current   atomic.Pointer[Session]
}

// NewEngine creates an engine with no session loaded. rec may be nil.
func NewEngine(col *collector.Collector, rec recorder.Recorder) *Engine {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Engine{collector: col, recorder: rec}
}

// Select loads the symbol named by a "TICKER - Name" display string and makes
// it current. On failure the previous session stays current.
func (e *Engine) Select(ctx context.Context, display string) (*Session, error) {
	ticker := model.ParseSelection(display)
	h, summary, err := e.collector.Collect(ctx, ticker)
	if rerr := e.recorder.RecordFetch(recorder.NewFetchEvent(ticker, h, err)); rerr != nil {
		log.Printf("[WARN] record fetch %s: %v", ticker, rerr)
	}
	if err != nil {
		log.Printf("[ERROR] load %s: %v", ticker, err)
		return nil, err
	}

	s := &Session{Symbol: ticker, History: h, Summary: summary, LoadedAt: time.Now()}
	e.current.Store(s)
	log.Printf("[INFO] loaded %s: %d points from %s", ticker, h.Len(), h.Source)
	return s, nil
}

// Current returns the loaded session, or nil.
func (e *Engine) Current() *Session {
	return e.current.Load()
}

// Analyze predicts the next close for whichever session is current when it is called.
func (e *Engine) Analyze() (*model.PredictionResult, error) {
	s := e.current.Load()
	if s == nil {
		return nil, ErrNoSession
	}
	res, err := forecast.PredictNextClose(s.History)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", s.Symbol, err)
	}
	if rerr := e.recorder.RecordPrediction(recorder.NewPredictionEvent(res)); rerr != nil {
		log.Printf("[WARN] record prediction %s: %v", s.Symbol, rerr)
	}
	return res, nil
}
