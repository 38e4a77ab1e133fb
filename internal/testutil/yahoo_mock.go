package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/yahoo"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It returns predefined responses per symbol instead of making actual API calls.
// It is safe for concurrent use.
type MockYahooClient struct {
	mu sync.Mutex
	// Responses maps a symbol to the response returned for it
	Responses map[string]yahoo.Response
	// Errors maps a symbol to the error returned for it
	Errors map[string]error
	// Queries records every queried symbol in call order
	Queries []string
}

// NewMockYahooClient creates a new mock Yahoo client that knows no symbols.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		Responses: map[string]yahoo.Response{},
		Errors:    map[string]error{},
	}
}

// WithCloses configures symbol to answer with the given daily closes, oldest first.
func (m *MockYahooClient) WithCloses(symbol string, closes ...float64) *MockYahooClient {
	m.Responses[symbol] = CreateMockYahooResponse(symbol, closes...)
	return m
}

// WithError configures symbol to fail with err.
func (m *MockYahooClient) WithError(symbol string, err error) *MockYahooClient {
	m.Errors[symbol] = err
	return m
}

// QueryFiveDaySymbol returns the configured response or error for symbol.
// Unknown symbols fail with apperrors.ErrSymbolNotFound.
func (m *MockYahooClient) QueryFiveDaySymbol(_ context.Context, symbol string) (yahoo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, symbol)
	if err, ok := m.Errors[symbol]; ok {
		return yahoo.Response{}, err
	}
	if resp, ok := m.Responses[symbol]; ok {
		return resp, nil
	}
	return yahoo.Response{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
}

// ParseChart delegates to the real ParseChart method since it's pure logic with no side effects.
func (m *MockYahooClient) ParseChart(yahooResult yahoo.Response) (yahoo.PriceChart, error) {
	return yahoo.NewFinanceClient().ParseChart(yahooResult)
}

// QueryCount returns how many lookups were made.
func (m *MockYahooClient) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}

// CreateMockYahooResponseJSON renders a chart API payload with one close per day, ending yesterday.
func CreateMockYahooResponseJSON(symbol string, closes ...float64) string {
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -len(closes))

	timestamps := make([]string, len(closes))
	values := make([]string, len(closes))
	for i, c := range closes {
		timestamps[i] = fmt.Sprintf("%d", start.AddDate(0, 0, i).Unix())
		values[i] = fmt.Sprintf("%g", c)
	}

	last := 0.0
	if len(closes) > 0 {
		last = closes[len(closes)-1]
	}

	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"currency":"USD","symbol":%q,"exchangeName":"NMS","regularMarketPrice":%g},`+
		`"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`,
		symbol, last, strings.Join(timestamps, ","), strings.Join(values, ","))
}

// CreateMockYahooResponse builds a parsed chart API response with one close per day, ending yesterday.
func CreateMockYahooResponse(symbol string, closes ...float64) yahoo.Response {
	var resp yahoo.Response
	if err := json.Unmarshal([]byte(CreateMockYahooResponseJSON(symbol, closes...)), &resp); err != nil {
		panic(fmt.Sprintf("invalid mock yahoo payload: %v", err))
	}
	return resp
}
