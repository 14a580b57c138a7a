package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// ErrNoData is returned when Yahoo answers but has nothing for the symbol,
// either through its own error object, a 404 or an empty result.
var ErrNoData = errors.New("yahoo has no data")

// Client is the price source used by the services. FinanceClient implements it;
// tests substitute a mock.
type Client interface {
	QueryYahooSymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error)
	ParseChart(yahooResult Response) (PriceChart, error)
}

// FinanceClient fetches daily price data from the Yahoo Finance chart API.
// Rate limiting (429) and server errors (5xx) are retried with exponential backoff.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
	maxRetries uint64
	retryBase  time.Duration
}

// NewFinanceClient creates a client against baseURL (DefaultBaseURL when empty)
// whose requests time out after timeout.
func NewFinanceClient(baseURL string, timeout time.Duration) *FinanceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FinanceClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: 2,
		retryBase:  500 * time.Millisecond,
	}
}

// ParseChart converts a raw Yahoo Finance API response into a structured price chart.
// Days with a null close are dropped.
//
// Returns an error when no result, no timestamps or no close series is present,
// or when the close series does not line up with the timestamps.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results returned")
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}

	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	indicators := make([]Indicators, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC()
		indicators = append(indicators, Indicators{
			Date:       time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			PriceClose: *quote.Close[i],
			PriceOpen:  valueAt(quote.Open, i),
			PriceHigh:  valueAt(quote.High, i),
			PriceLow:   valueAt(quote.Low, i),
			Volume:     valueAt(quote.Volume, i),
		})
	}

	return PriceChart{
		Symbol:           result.Meta.Symbol,
		Currency:         result.Meta.Currency,
		ExchangeName:     result.Meta.ExchangeName,
		FullExchangeName: result.Meta.FullExchangeName,
		LongName:         result.Meta.LongName,
		Shortname:        result.Meta.Shortname,
		Indicators:       indicators,
	}, nil
}

func valueAt[T any](s []*T, i int) T {
	var zero T
	if i >= len(s) || s[i] == nil {
		return zero
	}
	return *s[i]
}

// QueryYahooSymbolByDateRange fetches daily price data for a symbol within a date range.
// endDate is inclusive: the request asks for data up to the end of that day.
func (c *FinanceClient) QueryYahooSymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error) {
	u := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL,
		url.PathEscape(symbol),
		startDate.Unix(),
		endDate.AddDate(0, 0, 1).Unix(),
	)
	var result Response
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		result, err = c.queryYahoo(ctx, u)
		return err
	})
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results returned for symbol %s", ErrNoData, symbol)
	}

	return result, nil
}

// queryYahoo executes a GET against the chart API, decodes the body and surfaces Yahoo's own error object.
// Transient failures are marked retryable.
func (c *FinanceClient) queryYahoo(ctx context.Context, u string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, statusError(resp.StatusCode)
		}
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("%w: %s: %s", ErrNoData, response.Chart.Error.Code, response.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, statusError(resp.StatusCode)
	}

	return response, nil
}

func statusError(code int) error {
	err := fmt.Errorf("yahoo returned status %d", code)
	if code == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNoData, err)
	}
	if code == http.StatusTooManyRequests || code >= http.StatusInternalServerError {
		return retry.RetryableError(err)
	}
	return err
}
