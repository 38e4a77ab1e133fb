package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ndewijer/stock-ledger/internal/apperrors"
)

// DefaultBaseURL is the Yahoo Finance chart API endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Client is the quote lookup used by the price service.
type Client interface {
	QueryFiveDaySymbol(ctx context.Context, symbol string) (Response, error)
	ParseChart(yahooResult Response) (PriceChart, error)
}

// FinanceClient provides methods for fetching prices from the Yahoo Finance API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance client with default HTTP settings.
func NewFinanceClient() *FinanceClient {
	return NewFinanceClientWithBaseURL(DefaultBaseURL)
}

// NewFinanceClientWithBaseURL creates a client talking to baseURL instead of Yahoo,
// used to point the client at a test server.
func NewFinanceClientWithBaseURL(baseURL string) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

// ParseChart converts a raw Yahoo Finance API response into a PriceChart.
//
// Returns an error when the response holds no result, or when the timestamp and
// close arrays have mismatched lengths. Null closes are kept as zero prices.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, apperrors.ErrSymbolNotFound
	}
	result := yahooResult.Chart.Result[0]

	chart := PriceChart{
		Symbol:             result.Meta.Symbol,
		Currency:           result.Meta.Currency,
		ExchangeName:       result.Meta.ExchangeName,
		RegularMarketPrice: result.Meta.RegularMarketPrice,
		Closes:             []Close{},
	}

	if len(result.Indicators.Quote) == 0 {
		return chart, nil
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	for i, ts := range result.Timestamp {
		var price float64
		if closes[i] != nil {
			price = *closes[i]
		}
		chart.Closes = append(chart.Closes, Close{
			Date:  time.Unix(ts, 0).UTC(),
			Price: price,
		})
	}

	return chart, nil
}

// QueryFiveDaySymbol fetches the last 5 days of daily price data for a symbol.
// Used to get the latest available closing price.
func (c *FinanceClient) QueryFiveDaySymbol(ctx context.Context, symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))
	result, err := c.queryYahoo(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}

	return result, nil
}

// queryYahoo executes a request against the Yahoo Finance API and decodes the response.
//
// The method sets required headers:
//   - User-Agent: Mimics a browser to avoid API blocking
//   - Accept: Requests JSON response format
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
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
		return Response{}, fmt.Errorf("yahoo returned status %d: %w", resp.StatusCode, err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s: %s", response.Chart.Error.Code, response.Chart.Error.Description)
	}

	return response, nil
}
