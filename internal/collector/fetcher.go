package collector

import (
	"context"
	"errors"

	"StockLens/internal/model"
)

var (
	// ErrCatalogFetch marks a failed download or parse of the symbol listing.
	ErrCatalogFetch = errors.New("symbol catalog fetch failed")
	// ErrDataFetch marks a transport-level failure fetching a time series.
	ErrDataFetch = errors.New("data fetch failed")
	// ErrMalformedResponse marks a time-series payload missing expected structure.
	ErrMalformedResponse = errors.New("malformed response")
)

// HistoryFetcher defines the interface for fetching a symbol's daily history.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, symbol string) (*model.History, error)
	Name() string
}

// CatalogLoader loads the list of tradable symbols.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]model.Symbol, error)
}
