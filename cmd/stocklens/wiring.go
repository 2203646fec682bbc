package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/recorder"
)

func newFetcher(cfg *config.Config) collector.HistoryFetcher {
	var fetcher collector.HistoryFetcher
	switch cfg.DataSource.Provider {
	case config.ProviderYahoo:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.Years)
	case config.ProviderAlpaca:
		fetcher = collector.NewAlpacaFetcher(cfg.DataSource.APIKey, cfg.DataSource.APISecret, cfg.DataSource.Years)
	default:
		fetcher = newAlphaVantage(cfg, cfg.DataSource.APIKey)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	return fetcher
}

func newAlphaVantage(cfg *config.Config, apiKey string) *collector.AlphaVantageFetcher {
	timeout := time.Duration(cfg.DataSource.TimeoutSec) * time.Second
	return collector.NewAlphaVantageFetcher(apiKey,
		collector.WithBaseURL(cfg.DataSource.BaseURL),
		collector.WithHTTPClient(collector.NewHTTPClient(timeout, cfg.Proxy)),
	)
}

func newCatalogLoader(cfg *config.Config) collector.CatalogLoader {
	return newAlphaVantage(cfg, cfg.DataSource.CatalogKey)
}

// openRecorder falls back to the no-op recorder when SQLite is disabled or fails.
func openRecorder(cfg *config.Config) recorder.Recorder {
	path := cfg.Database.SQLitePath
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("[WARN] create database dir failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// logToFile redirects the standard logger so it does not interleave with prompts.
func logToFile(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
