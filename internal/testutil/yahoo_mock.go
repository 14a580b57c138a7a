package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ndewijer/Insider-Trade-Tracker-Backend/internal/yahoo"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It returns predefined test data instead of making actual API calls and is safe
// for concurrent use.
type MockYahooClient struct {
	mu sync.Mutex
	// MockResponse is returned for symbols without a specific response
	MockResponse yahoo.Response
	// MockError is returned for symbols without a specific error
	MockError error
	// SymbolResponses overrides MockResponse per symbol
	SymbolResponses map[string]yahoo.Response
	// SymbolErrors overrides MockError per symbol
	SymbolErrors map[string]error
	// Delay is slept before answering, honouring context cancellation
	Delay time.Duration
	// QueryCount tracks how many times a query method was called
	QueryCount int
}

// NewMockYahooClient creates a new mock Yahoo client with an empty default response.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		SymbolResponses: map[string]yahoo.Response{},
		SymbolErrors:    map[string]error{},
	}
}

// QueryYahooSymbolByDateRange returns the configured response or error for symbol.
func (m *MockYahooClient) QueryYahooSymbolByDateRange(ctx context.Context, symbol string, _, _ time.Time) (yahoo.Response, error) {
	m.mu.Lock()
	m.QueryCount++
	delay := m.Delay
	resp, hasResp := m.SymbolResponses[symbol]
	symErr, hasErr := m.SymbolErrors[symbol]
	defaultResp, defaultErr := m.MockResponse, m.MockError
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return yahoo.Response{}, ctx.Err()
		}
	}

	if hasErr {
		return yahoo.Response{}, symErr
	}
	if defaultErr != nil && !hasResp {
		return yahoo.Response{}, defaultErr
	}
	if hasResp {
		return resp, nil
	}
	return defaultResp, nil
}

// ParseChart delegates to the real ParseChart method since it's pure logic with no side effects.
func (m *MockYahooClient) ParseChart(yahooResult yahoo.Response) (yahoo.PriceChart, error) {
	return yahoo.NewFinanceClient("", 0).ParseChart(yahooResult)
}

// Queries returns the number of queries made so far.
func (m *MockYahooClient) Queries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// WithError configures the mock to return err for every symbol without its own response.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.MockError = err
	return m
}

// WithSymbolError configures the mock to fail queries for symbol.
func (m *MockYahooClient) WithSymbolError(symbol string, err error) *MockYahooClient {
	m.SymbolErrors[symbol] = err
	return m
}

// WithCloses configures the daily closes returned for symbol.
func (m *MockYahooClient) WithCloses(symbol string, closes map[time.Time]float64) *MockYahooClient {
	m.SymbolResponses[symbol] = CreateMockYahooResponse(symbol, closes)
	return m
}

// WithEmptyResponse configures the mock to return a result with no data points for symbol.
func (m *MockYahooClient) WithEmptyResponse(symbol string) *MockYahooClient {
	m.SymbolResponses[symbol] = yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{{Meta: yahoo.Meta{Symbol: symbol}}},
		},
	}
	return m
}

// CreateMockYahooResponse builds a chart response with one data point per entry in closes,
// stamped at 14:30 UTC (US market open) of each day.
func CreateMockYahooResponse(symbol string, closes map[time.Time]float64) yahoo.Response {
	days := make([]time.Time, 0, len(closes))
	for d := range closes {
		days = append(days, d)
	}
	slices.SortFunc(days, time.Time.Compare)

	timestamps := make([]int64, len(days))
	opens := make([]*float64, len(days))
	highs := make([]*float64, len(days))
	lows := make([]*float64, len(days))
	closeSeries := make([]*float64, len(days))
	volumes := make([]*int64, len(days))

	for i, d := range days {
		timestamps[i] = time.Date(d.Year(), d.Month(), d.Day(), 14, 30, 0, 0, time.UTC).Unix()
		c := closes[d]
		open, high, low := c-0.25, c+1.0, c-0.5
		volume := int64(1000000 + i*10000)
		closeSeries[i] = &c
		opens[i] = &open
		highs[i] = &high
		lows[i] = &low
		volumes[i] = &volume
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:       symbol,
						Currency:     "USD",
						ExchangeName: "NMS",
					},
					Timestamp: timestamps,
					Indicators: yahoo.IndicatorsBlock{
						Quote: []yahoo.Quote{{
							Open:   opens,
							High:   highs,
							Low:    lows,
							Close:  closeSeries,
							Volume: volumes,
						}},
					},
				},
			},
		},
	}
}
