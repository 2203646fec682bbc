package collector_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"StockLens/internal/collector"
)

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

const dailyFixture = `{
  "Meta Data": {"2. Symbol": "IBM"},
  "Time Series (Daily)": {
    "2024-01-04": {"1. open": "10.5", "2. high": "11", "3. low": "10", "4. close": "10.75", "5. adjusted close": "10.7", "6. volume": "1500"},
    "2024-01-02": {"1. open": 9.5, "2. high": 10, "3. low": 9, "4. close": 9.75, "6. volume": 1000},
    "2024-01-03": {"1. open": "9.8", "4. close": "10.1", "6. volume": "1200"}
  }
}`

func TestFetchHistory_ParsesAndSortsDates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: one request with the full-history query.
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			require.Equal(t, "TIME_SERIES_DAILY_ADJUSTED", q.Get("function"))
			require.Equal(t, "IBM", q.Get("symbol"))
			require.Equal(t, "full", q.Get("outputsize"))
			require.Equal(t, "secret", q.Get("apikey"))
			require.Equal(t, http.MethodGet, req.Method)
			return textResponse(http.StatusOK, dailyFixture), nil
		}).
		Times(1)

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))

	// Act
	h, err := f.FetchHistory(context.Background(), " IBM ")

	// Assert
	require.NoError(t, err)
	require.Equal(t, "IBM", h.Symbol)
	require.Equal(t, "alphavantage", h.Source)
	require.Len(t, h.Quotes, 3)

	dates := h.Dates()
	require.Equal(t, "2024-01-02", dates[0].Format("2006-01-02"))
	require.Equal(t, "2024-01-03", dates[1].Format("2006-01-02"))
	require.Equal(t, "2024-01-04", dates[2].Format("2006-01-02"))
	require.Equal(t, []float64{9.75, 10.1, 10.75}, h.Closes())
	require.Equal(t, []float64{9.5, 9.8, 10.5}, h.Opens())
	require.Equal(t, []float64{1000, 1200, 1500}, h.Volumes())
	require.Equal(t, 11.0, h.Quotes[2].High)
}

func TestFetchHistory_MissingTimeSeriesKey(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(textResponse(http.StatusOK, `{"Meta Data": {"2. Symbol": "IBM"}}`), nil).
		Times(1)

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))
	_, err := f.FetchHistory(context.Background(), "IBM")

	require.ErrorIs(t, err, collector.ErrMalformedResponse)
	require.NotErrorIs(t, err, collector.ErrDataFetch)
}

func TestFetchHistory_APIMessageIsSurfaced(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(textResponse(http.StatusOK, `{"Error Message": "Invalid API call."}`), nil)

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))
	_, err := f.FetchHistory(context.Background(), "NOPE")

	require.ErrorIs(t, err, collector.ErrMalformedResponse)
	require.Contains(t, err.Error(), "Invalid API call.")
}

func TestFetchHistory_MalformedRecordFailsWholeFetch(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"missing close": `{"Time Series (Daily)": {
			"2024-01-02": {"1. open": "1", "4. close": "1", "6. volume": "1"},
			"2024-01-03": {"1. open": "1", "6. volume": "1"}}}`,
		"bad number": `{"Time Series (Daily)": {
			"2024-01-02": {"1. open": "abc", "4. close": "1", "6. volume": "1"}}}`,
		"bad date": `{"Time Series (Daily)": {
			"01/02/2024": {"1. open": "1", "4. close": "1", "6. volume": "1"}}}`,
		"not json":       `<html>busy</html>`,
		"series not map": `{"Time Series (Daily)": []}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().Do(gomock.Any()).Return(textResponse(http.StatusOK, body), nil)

			f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))
			h, err := f.FetchHistory(context.Background(), "IBM")

			require.Nil(t, h)
			require.ErrorIs(t, err, collector.ErrMalformedResponse)
		})
	}
}

func TestFetchHistory_VolumeFallsBackToUnadjustedKey(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(textResponse(http.StatusOK, `{"Time Series (Daily)": {
			"2024-01-02": {"1. open": "1", "4. close": "2", "5. volume": "300"}}}`), nil)

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))
	h, err := f.FetchHistory(context.Background(), "IBM")

	require.NoError(t, err)
	require.Equal(t, []float64{300}, h.Volumes())
}

func TestFetchHistory_Timeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return nil, &url.Error{Op: "Get", URL: req.URL.String(), Err: context.DeadlineExceeded}
		})

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))
	_, err := f.FetchHistory(context.Background(), "IBM")

	require.ErrorIs(t, err, collector.ErrDataFetch)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotErrorIs(t, err, collector.ErrMalformedResponse)
}

func TestFetchHistory_NonOKStatus(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(textResponse(http.StatusServiceUnavailable, "maintenance"), nil)

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))
	_, err := f.FetchHistory(context.Background(), "IBM")

	require.ErrorIs(t, err, collector.ErrDataFetch)
	require.Contains(t, err.Error(), "503")
}

func TestFetchHistory_EmptySymbolSkipsRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))
	_, err := f.FetchHistory(context.Background(), "   ")

	require.ErrorIs(t, err, collector.ErrDataFetch)
}

func TestWithBaseURL(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	baseURL := "http://localhost:8080/query"

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, strings.HasPrefix(req.URL.String(), baseURL), "expected url to start with base url, received: %s", req.URL.String())
			return textResponse(http.StatusOK, dailyFixture), nil
		})

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient), collector.WithBaseURL(baseURL))
	_, err := f.FetchHistory(context.Background(), "IBM")
	require.NoError(t, err)
}

func TestFetchHistory_RespectsCancelledContext(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	f := collector.NewAlphaVantageFetcher("secret", collector.WithHTTPClient(httpClient))
	_, err := f.FetchHistory(ctx, "IBM")

	require.True(t, errors.Is(err, collector.ErrDataFetch))
}
