// Package csvio reads and writes the ledger's CSV interchange format:
//
//	date,ticker,quantity,price[,commission]
//
// The first line is a header. Columns may appear in any order and header names
// are matched case-insensitively; commission is optional and defaults to 0.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ndewijer/stock-ledger/internal/api/request"
	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/model"
	"github.com/ndewijer/stock-ledger/internal/validation"
)

// Header is the column layout written by WriteTransactions.
var Header = []string{"date", "ticker", "quantity", "price", "commission"}

var requiredColumns = []string{"date", "ticker", "quantity", "price"}

// ParsedRow is an accepted CSV row together with the line it came from.
type ParsedRow struct {
	Line    int
	Request request.CreateTransactionRequest
}

// ReadTransactions parses CSV from r.
//
// Rows that cannot be turned into a valid transaction are skipped and reported
// with their line number; the import itself only fails when the input is not
// CSV or the header lacks a required column. Tickers are uppercased.
func ReadTransactions(r io.Reader) ([]ParsedRow, []model.ImportRowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: empty file", apperrors.ErrInvalidCSVHeaders)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, nil, err
	}

	rows := []ParsedRow{}
	skipped := []model.ImportRowError{}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped = append(skipped, model.ImportRowError{Line: parseErr.Line, Reason: parseErr.Err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		req, err := parseRecord(record, columns)
		if err != nil {
			skipped = append(skipped, model.ImportRowError{Line: line, Reason: err.Error()})
			continue
		}
		rows = append(rows, ParsedRow{Line: line, Request: req})
	}

	return rows, skipped, nil
}

// indexColumns maps header names to their position.
func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if name != "" {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", apperrors.ErrInvalidCSVHeaders, strings.Join(missing, ", "))
	}

	return columns, nil
}

func parseRecord(record []string, columns map[string]int) (request.CreateTransactionRequest, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	quantity, err := parseNumber("quantity", field("quantity"))
	if err != nil {
		return request.CreateTransactionRequest{}, err
	}
	price, err := parseNumber("price", field("price"))
	if err != nil {
		return request.CreateTransactionRequest{}, err
	}

	var commission float64
	if raw := field("commission"); raw != "" {
		commission, err = parseNumber("commission", raw)
		if err != nil {
			return request.CreateTransactionRequest{}, err
		}
	}

	req := request.CreateTransactionRequest{
		Date:       field("date"),
		Ticker:     strings.ToUpper(field("ticker")),
		Quantity:   quantity,
		Price:      price,
		Commission: commission,
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		return request.CreateTransactionRequest{}, err
	}

	return req, nil
}

func parseNumber(name, raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, raw)
	}
	return v, nil
}

// WriteTransactions writes the ledger as CSV with a header line.
// Numbers are written in their shortest exact form.
func WriteTransactions(w io.Writer, transactions []model.Transaction) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range transactions {
		record := []string{
			t.Date,
			t.Ticker,
			formatNumber(t.Quantity),
			formatNumber(t.Price),
			formatNumber(t.Commission),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", t.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
