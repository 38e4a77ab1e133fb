// Package ibkr reads trade executions from Interactive Brokers Flex statements,
// either uploaded as XML or fetched through the Flex Web Service.
package ibkr

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ndewijer/stock-ledger/internal/api/request"
)

// DefaultBaseURL is the Flex Web Service endpoint.
const DefaultBaseURL = "https://ndcdyn.interactivebrokers.com/AccountManagement/FlexWebService"

// ErrMissingCredentials is returned when a fetch is attempted without a token or query ID.
var ErrMissingCredentials = errors.New("flex token and query id are required")

// Flex error codes meaning the statement is not generated yet.
var retryableCodes = map[int]bool{1018: true, 1019: true, 1021: true}

// Client fetches Flex statements.
type Client interface {
	FetchFlexStatement(ctx context.Context, token, queryID string) (FlexQueryResponse, error)
}

// FlexClient talks to the Flex Web Service.
type FlexClient struct {
	httpClient *http.Client
	baseURL    string
	backoff    time.Duration
	maxBackoff time.Duration
	attempts   int
}

// NewFlexClient creates a client for the production Flex Web Service.
func NewFlexClient() *FlexClient {
	return NewFlexClientWithBaseURL(DefaultBaseURL)
}

// NewFlexClientWithBaseURL creates a client for baseURL, used to point the client at a test server.
func NewFlexClientWithBaseURL(baseURL string) *FlexClient {
	return &FlexClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		backoff:    2 * time.Second,
		maxBackoff: 30 * time.Second,
		attempts:   10,
	}
}

// WithBackoff overrides the polling schedule.
func (c *FlexClient) WithBackoff(initial, maxBackoff time.Duration, attempts int) *FlexClient {
	c.backoff = initial
	c.maxBackoff = maxBackoff
	c.attempts = attempts
	return c
}

// FetchFlexStatement requests a statement for queryID and polls until it is generated.
func (c *FlexClient) FetchFlexStatement(ctx context.Context, token, queryID string) (FlexQueryResponse, error) {
	if token == "" || queryID == "" {
		return FlexQueryResponse{}, ErrMissingCredentials
	}

	pending, err := c.sendRequest(ctx, token, queryID)
	if err != nil {
		return FlexQueryResponse{}, err
	}

	return c.retrieveStatement(ctx, token, pending)
}

func (c *FlexClient) sendRequest(ctx context.Context, token, queryID string) (FlexStatementResponse, error) {
	queryURL := fmt.Sprintf("%s/SendRequest?t=%s&q=%s&v=3", c.baseURL, url.QueryEscape(token), url.QueryEscape(queryID))

	data, err := c.get(ctx, queryURL)
	if err != nil {
		return FlexStatementResponse{}, err
	}

	var response FlexStatementResponse
	if err := xml.Unmarshal(data, &response); err != nil {
		return FlexStatementResponse{}, fmt.Errorf("failed to decode flex request response: %w", err)
	}
	if response.ErrorCode != nil {
		return response, flexError(response)
	}
	if !strings.EqualFold(response.Status, "success") {
		return response, fmt.Errorf("flex request failed with status %q", response.Status)
	}

	return response, nil
}

func (c *FlexClient) retrieveStatement(ctx context.Context, token string, pending FlexStatementResponse) (FlexQueryResponse, error) {
	statementURL := pending.URL
	if statementURL == "" {
		statementURL = c.baseURL + "/GetStatement"
	}
	queryURL := fmt.Sprintf("%s?t=%s&q=%s&v=3", statementURL, url.QueryEscape(token), url.QueryEscape(pending.ReferenceCode))

	backoff := c.backoff
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return FlexQueryResponse{}, ctx.Err()
			case <-time.After(backoff):
			}
			backoff = min(2*backoff, c.maxBackoff)
		}

		data, err := c.get(ctx, queryURL)
		if err != nil {
			return FlexQueryResponse{}, err
		}

		var waiting FlexStatementResponse
		if xml.Unmarshal(data, &waiting) == nil && waiting.ErrorCode != nil {
			if retryableCodes[*waiting.ErrorCode] {
				log.Printf("Flex statement %s not ready (attempt %d)", pending.ReferenceCode, attempt+1)
				continue
			}
			return FlexQueryResponse{}, flexError(waiting)
		}

		return ParseFlexStatement(bytes.NewReader(data))
	}

	return FlexQueryResponse{}, fmt.Errorf("flex statement %s not ready after %d attempts", pending.ReferenceCode, c.attempts)
}

func (c *FlexClient) get(ctx context.Context, queryURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func flexError(r FlexStatementResponse) error {
	msg := ""
	if r.ErrorMessage != nil {
		msg = *r.ErrorMessage
	}
	return fmt.Errorf("ibkr error %d: %s", *r.ErrorCode, msg)
}

// ParseFlexStatement decodes a Flex statement from r.
func ParseFlexStatement(r io.Reader) (FlexQueryResponse, error) {
	var response FlexQueryResponse
	if err := xml.NewDecoder(r).Decode(&response); err != nil {
		return FlexQueryResponse{}, fmt.Errorf("failed to decode flex statement: %w", err)
	}
	return response, nil
}

// ToTransactionRequest converts a stock trade into a ledger entry.
// ok is false for trades that do not belong in a stock ledger:
// non-stock asset classes and summary rows of split executions.
func (t Trade) ToTransactionRequest() (req request.CreateTransactionRequest, ok bool, err error) {
	if t.AssetCategory != "" && t.AssetCategory != "STK" {
		return request.CreateTransactionRequest{}, false, nil
	}
	if t.LevelOfDetail != "" && t.LevelOfDetail != "EXECUTION" {
		return request.CreateTransactionRequest{}, false, nil
	}

	date, err := normalizeTradeDate(t.TradeDate)
	if err != nil {
		return request.CreateTransactionRequest{}, false, err
	}

	return request.CreateTransactionRequest{
		Date:       date,
		Ticker:     strings.ToUpper(strings.TrimSpace(t.Symbol)),
		Quantity:   t.Quantity,
		Price:      t.TradePrice,
		Commission: math.Abs(t.IbCommission),
	}, true, nil
}

// normalizeTradeDate accepts the yyyyMMdd and yyyy-MM-dd layouts Flex queries can be configured with.
func normalizeTradeDate(value string) (string, error) {
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if d, err := time.Parse(layout, value); err == nil {
			return d.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized trade date %q", value)
}
