package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/forecast"
	"StockLens/internal/model"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Sender delivers report messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the daily watchlist predictions and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender
	Recorder  recorder.Recorder
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, tn Sender, rec recorder.Recorder, watchlist []string) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  tn,
		Recorder:  rec,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// Register adds the daily watchlist task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	log.Printf("[INFO] running daily task for %d symbols", len(s.Watchlist))
	s.trySend(notifier.FormatDigestHeader(time.Now(), s.Watchlist))

	for _, symbol := range s.Watchlist {
		if s.Ctx.Err() != nil {
			log.Println("[WARN] daily task cancelled")
			return
		}
		res, summary, err := s.Predict(s.Ctx, symbol)
		if err != nil {
			log.Printf("[ERROR] daily %s: %v", symbol, err)
			s.trySend(notifier.FormatFailure(symbol, err))
			continue
		}
		s.trySend(notifier.FormatPredictionReport(res, summary))
	}
}

// Predict fetches symbol, predicts its next close and records both steps.
func (s *Scheduler) Predict(ctx context.Context, symbol string) (*model.PredictionResult, *model.Summary, error) {
	h, summary, err := s.Collector.Collect(ctx, symbol)
	if rerr := s.Recorder.RecordFetch(recorder.NewFetchEvent(symbol, h, err)); rerr != nil {
		log.Printf("[ERROR] record fetch: %v", rerr)
	}
	if err != nil {
		return nil, nil, err
	}

	res, err := forecast.PredictNextClose(h)
	if err != nil {
		return nil, summary, err
	}
	if rerr := s.Recorder.RecordPrediction(recorder.NewPredictionEvent(res)); rerr != nil {
		log.Printf("[ERROR] record prediction: %v", rerr)
	}
	return res, summary, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// Group chats address commands as /predict@BotName.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/predict":
		if len(fields) < 2 {
			return "Usage: /predict TICKER"
		}
		symbol := strings.ToUpper(fields[1])
		res, summary, err := s.Predict(ctx, symbol)
		if err != nil {
			return notifier.FormatFailure(symbol, err)
		}
		return notifier.FormatPredictionReport(res, summary)
	case "/watchlist":
		if len(s.Watchlist) == 0 {
			return "Watchlist is empty"
		}
		return "Watchlist: " + strings.Join(s.Watchlist, ", ")
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
