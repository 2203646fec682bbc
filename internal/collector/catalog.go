package collector

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strings"

	"StockLens/internal/model"
)

// LoadCatalog downloads the listing of tradable symbols. Any failure is wrapped
// in ErrCatalogFetch.
func (f *AlphaVantageFetcher) LoadCatalog(ctx context.Context) ([]model.Symbol, error) {
	body, err := f.get(ctx, url.Values{"function": {"LISTING_STATUS"}})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogFetch, err)
	}
	symbols, err := ParseCatalog(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogFetch, err)
	}
	return symbols, nil
}

// ParseCatalog reads listing CSV: ticker in the first column, name in the second.
// A leading "symbol,name,..." header is skipped, as are rows with fewer than two fields.
func ParseCatalog(body []byte) ([]model.Symbol, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return nil, fmt.Errorf("expected CSV, got JSON: %s", truncate(trimmed, 200))
	}

	r := csv.NewReader(bytes.NewReader(trimmed))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse listing csv: %w", err)
	}

	symbols := make([]model.Symbol, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		ticker := strings.TrimSpace(rec[0])
		if ticker == "" {
			continue
		}
		if i == 0 && strings.EqualFold(ticker, "symbol") {
			continue
		}
		symbols = append(symbols, model.Symbol{Ticker: ticker, Name: strings.TrimSpace(rec[1])})
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("listing contains no symbols")
	}
	return symbols, nil
}
