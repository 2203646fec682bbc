package collector_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"StockLens/internal/collector"
	"StockLens/internal/model"
)

const listingFixture = "symbol,name,exchange,assetType,ipoDate,delistingDate,status\r\n" +
	"AAPL,Apple Inc,NASDAQ,Stock,1980-12-12,null,Active\r\n" +
	"MSFT,Microsoft Corp,NASDAQ,Stock,1986-03-13,null,Active\r\n"

func TestLoadCatalog_SelectionDrivesHistoryFetch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	gomock.InOrder(
		httpClient.EXPECT().
			Do(gomock.Any()).
			DoAndReturn(func(req *http.Request) (*http.Response, error) {
				q := req.URL.Query()
				require.Equal(t, "LISTING_STATUS", q.Get("function"))
				require.Equal(t, "secret", q.Get("apikey"))
				return textResponse(http.StatusOK, listingFixture), nil
			}),
		httpClient.EXPECT().
			Do(gomock.Any()).
			DoAndReturn(func(req *http.Request) (*http.Response, error) {
				require.Equal(t, "AAPL", req.URL.Query().Get("symbol"))
				return textResponse(http.StatusOK, dailyFixture), nil
			}),
	)

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))

	symbols, err := f.LoadCatalog(context.Background())
	require.NoError(t, err)

	displays := make([]string, len(symbols))
	for i, s := range symbols {
		displays[i] = s.Display()
	}
	require.Equal(t, []string{"AAPL - Apple Inc", "MSFT - Microsoft Corp"}, displays)

	ticker := model.ParseSelection(displays[0])
	require.Equal(t, "AAPL", ticker)

	_, err = f.FetchHistory(context.Background(), ticker)
	require.NoError(t, err)
}

func TestLoadCatalog_TransportFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Return(nil, errors.New("connection refused"))

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))
	_, err := f.LoadCatalog(context.Background())

	require.ErrorIs(t, err, collector.ErrCatalogFetch)
	require.ErrorIs(t, err, collector.ErrDataFetch)
}

func TestLoadCatalog_JSONInsteadOfCSV(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(textResponse(http.StatusOK, `{"Information": "rate limited"}`), nil)

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))
	_, err := f.LoadCatalog(context.Background())

	require.ErrorIs(t, err, collector.ErrCatalogFetch)
	require.Contains(t, err.Error(), "rate limited")
}

func TestParseCatalog(t *testing.T) {
	t.Parallel()

	symbols, err := collector.ParseCatalog([]byte("A,Agilent Technologies Inc\nBRK-B,\"Berkshire Hathaway, Class B\"\nlonely\n,no ticker\n"))
	require.NoError(t, err)
	require.Equal(t, []model.Symbol{
		{Ticker: "A", Name: "Agilent Technologies Inc"},
		{Ticker: "BRK-B", Name: "Berkshire Hathaway, Class B"},
	}, symbols)

	_, err = collector.ParseCatalog([]byte("symbol,name\n"))
	require.Error(t, err)

	_, err = collector.ParseCatalog([]byte("  \n"))
	require.Error(t, err)
}
