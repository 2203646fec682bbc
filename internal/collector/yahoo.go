package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"StockLens/internal/model"
)

// YahooFetcher implements HistoryFetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	Years     int
	SymbolMap map[string]string // maps catalog ticker to Yahoo ticker
}

// NewYahooFetcher creates a fetcher covering the given number of years.
func NewYahooFetcher(years int) *YahooFetcher {
	if years <= 0 {
		years = 20
	}
	return &YahooFetcher{
		Years: years,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	// Yahoo spells class shares with a hyphen: BRK.B -> BRK-B.
	return strings.ReplaceAll(symbol, ".", "-")
}

func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string) (*model.History, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrDataFetch)
	}
	end := time.Now()
	start := end.AddDate(-f.Years, 0, 0)

	iter := chart.Get(&chart.Params{
		Symbol:   f.yahooSymbol(symbol),
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	byDate := make(map[time.Time]model.DailyQuote)
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: yahoo: %w", ErrDataFetch, err)
		}
		q, ok := barQuote(iter.Bar())
		if !ok {
			continue
		}
		byDate[q.Date] = q
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: yahoo %s: %w", ErrDataFetch, symbol, err)
	}
	return newHistory(symbol, f.Name(), byDate)
}

// barQuote converts a chart bar to a daily quote. Bars with a null open or
// close (holidays, halted sessions) come back as zero and are rejected.
func barQuote(bar *finance.ChartBar) (model.DailyQuote, bool) {
	if bar == nil || bar.Open.IsZero() || bar.Close.IsZero() {
		return model.DailyQuote{}, false
	}
	ts := time.Unix(int64(bar.Timestamp), 0).UTC()
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return model.DailyQuote{
		Date:   day,
		Open:   bar.Open.InexactFloat64(),
		High:   bar.High.InexactFloat64(),
		Low:    bar.Low.InexactFloat64(),
		Close:  bar.Close.InexactFloat64(),
		Volume: float64(bar.Volume),
	}, true
}

// newHistory orders de-duplicated quotes by date and validates the result.
func newHistory(symbol, source string, byDate map[time.Time]model.DailyQuote) (*model.History, error) {
	if len(byDate) == 0 {
		return nil, fmt.Errorf("%w: %s returned no data for %s", ErrMalformedResponse, source, symbol)
	}
	quotes := make([]model.DailyQuote, 0, len(byDate))
	for _, q := range byDate {
		quotes = append(quotes, q)
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Date.Before(quotes[j].Date) })
	h := &model.History{Symbol: symbol, Quotes: quotes, Source: source, FetchedAt: time.Now()}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return h, nil
}
