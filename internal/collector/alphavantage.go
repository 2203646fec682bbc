package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockLens/internal/model"
)

const (
	// DefaultAlphaVantageURL is the Alpha Vantage query endpoint.
	DefaultAlphaVantageURL = "https://www.alphavantage.co/query"

	timeSeriesKey = "Time Series (Daily)"
)

// AlphaVantageFetcher implements HistoryFetcher and CatalogLoader against the
// Alpha Vantage query API. One API key serves both endpoints.
type AlphaVantageFetcher struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
}

// AlphaVantageOption configures an AlphaVantageFetcher.
type AlphaVantageOption func(*AlphaVantageFetcher)

// WithBaseURL overrides the query endpoint.
func WithBaseURL(baseURL string) AlphaVantageOption {
	return func(f *AlphaVantageFetcher) {
		f.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) AlphaVantageOption {
	return func(f *AlphaVantageFetcher) {
		f.httpClient = httpClient
	}
}

// NewAlphaVantageFetcher creates a fetcher authenticated with apiKey.
func NewAlphaVantageFetcher(apiKey string, options ...AlphaVantageOption) *AlphaVantageFetcher {
	f := &AlphaVantageFetcher{
		baseURL:    DefaultAlphaVantageURL,
		apiKey:     apiKey,
		httpClient: NewHTTPClient(30*time.Second, ""),
	}
	for _, option := range options {
		option(f)
	}
	return f
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// get issues one GET with the given query and returns the body of a 200 response.
func (f *AlphaVantageFetcher) get(ctx context.Context, query url.Values) ([]byte, error) {
	query.Set("apikey", f.apiKey)
	endpoint := f.baseURL + "?" + query.Encode()
	function := query.Get("function")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build %s request: %w", ErrDataFetch, function, err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataFetch, function, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s body: %w", ErrDataFetch, function, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d, body: %s", ErrDataFetch, function, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// FetchHistory downloads the full daily adjusted history for symbol.
func (f *AlphaVantageFetcher) FetchHistory(ctx context.Context, symbol string) (*model.History, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrDataFetch)
	}
	body, err := f.get(ctx, url.Values{
		"function":   {"TIME_SERIES_DAILY_ADJUSTED"},
		"symbol":     {symbol},
		"outputsize": {"full"},
	})
	if err != nil {
		return nil, err
	}
	h, err := parseTimeSeries(body)
	if err != nil {
		return nil, err
	}
	h.Symbol = symbol
	h.Source = f.Name()
	h.FetchedAt = time.Now()
	return h, nil
}

// parseTimeSeries decodes a daily time-series document. Any missing or
// unparseable field fails the whole document.
func parseTimeSeries(body []byte) (*model.History, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode document: %w", ErrMalformedResponse, err)
	}
	raw, ok := doc[timeSeriesKey]
	if !ok {
		if msg := apiMessage(doc); msg != "" {
			return nil, fmt.Errorf("%w: %q missing: %s", ErrMalformedResponse, timeSeriesKey, msg)
		}
		return nil, fmt.Errorf("%w: %q missing", ErrMalformedResponse, timeSeriesKey)
	}

	var series map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %w", ErrMalformedResponse, timeSeriesKey, err)
	}

	quotes := make([]model.DailyQuote, 0, len(series))
	for day, rec := range series {
		date, err := time.Parse(model.DateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", ErrMalformedResponse, day)
		}
		q := model.DailyQuote{Date: date}
		if q.Open, err = requiredField(rec, "1. open"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedResponse, day, err)
		}
		if q.Close, err = requiredField(rec, "4. close"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedResponse, day, err)
		}
		if q.Volume, err = requiredField(rec, "6. volume", "5. volume"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedResponse, day, err)
		}
		q.High, _ = requiredField(rec, "2. high")
		q.Low, _ = requiredField(rec, "3. low")
		quotes = append(quotes, q)
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Date.Before(quotes[j].Date) })

	h := &model.History{Quotes: quotes}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return h, nil
}

// requiredField returns the first present key parsed as a number.
func requiredField(rec map[string]json.RawMessage, keys ...string) (float64, error) {
	for _, k := range keys {
		raw, ok := rec[k]
		if !ok {
			continue
		}
		v, err := parseNumber(raw)
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", k, err)
		}
		return v, nil
	}
	return 0, fmt.Errorf("field %q missing", keys[0])
}

// parseNumber accepts both "123.45" and 123.45.
func parseNumber(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// apiMessage extracts the explanation Alpha Vantage sends instead of data.
func apiMessage(doc map[string]json.RawMessage) string {
	for _, k := range []string{"Error Message", "Note", "Information"} {
		if raw, ok := doc[k]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				return s
			}
		}
	}
	return ""
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
