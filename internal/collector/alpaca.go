package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"StockLens/internal/model"
)

// AlpacaFetcher implements HistoryFetcher using Alpaca market data daily bars.
type AlpacaFetcher struct {
	client *marketdata.Client
	Years  int
}

// NewAlpacaFetcher creates a fetcher authenticated with an Alpaca key pair.
func NewAlpacaFetcher(apiKey, apiSecret string, years int) *AlpacaFetcher {
	if years <= 0 {
		years = 20
	}
	return &AlpacaFetcher{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		Years: years,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchHistory(ctx context.Context, symbol string) (*model.History, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrDataFetch)
	}
	// GetBars takes no context, so cancellation is only seen before the request.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: alpaca: %w", ErrDataFetch, err)
	}
	end := time.Now()
	bars, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     end.AddDate(-f.Years, 0, 0),
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: alpaca %s: %w", ErrDataFetch, symbol, err)
	}

	byDate := make(map[time.Time]model.DailyQuote, len(bars))
	for _, bar := range bars {
		ts := bar.Timestamp.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		byDate[day] = model.DailyQuote{
			Date:   day,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: float64(bar.Volume),
		}
	}
	return newHistory(symbol, f.Name(), byDate)
}
