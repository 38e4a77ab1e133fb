package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/stock-ledger/internal/api/request"
	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/csvio"
	"github.com/ndewijer/stock-ledger/internal/ibkr"
	"github.com/ndewijer/stock-ledger/internal/model"
	"github.com/ndewijer/stock-ledger/internal/repository"
	"github.com/ndewijer/stock-ledger/internal/validation"
)

// TransactionService handles ledger operations and the bulk imports into the ledger.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	flexClient      ibkr.Client
	flexToken       string
	flexQueryID     string
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
	}
}

// WithFlexClient enables fetching trades from the Interactive Brokers Flex Web Service.
func (s *TransactionService) WithFlexClient(client ibkr.Client, token, queryID string) *TransactionService {
	s.flexClient = client
	s.flexToken = token
	s.flexQueryID = queryID
	return s
}

// normalizeTicker trims and uppercases a ticker symbol.
func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// newTransaction builds a transaction from a validated request with a fresh ID.
func newTransaction(req request.CreateTransactionRequest, now time.Time) model.Transaction {
	return model.Transaction{
		ID:         uuid.New().String(),
		Date:       req.Date,
		Ticker:     normalizeTicker(req.Ticker),
		Quantity:   req.Quantity,
		Price:      req.Price,
		Commission: req.Commission,
		CreatedAt:  now.UTC(),
	}
}

// ListTransactions returns the ledger in ledger order, narrowed by filter.
func (s *TransactionService) ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	transactions, err := s.transactionRepo.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		return transactions, nil
	}

	filtered := []model.Transaction{}
	for _, t := range transactions {
		if filter.Matches(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(ctx, transactionID)
}

// CreateTransaction records a new trade. The request must already be validated.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	transaction := newTransaction(req, time.Now())

	if err := s.transactionRepo.InsertTransaction(ctx, &transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &transaction, nil
}

// UpdateTransaction replaces a stored trade with a copy carrying the provided fields.
// The ID and creation time are kept.
func (s *TransactionService) UpdateTransaction(ctx context.Context, transactionID string, req request.UpdateTransactionRequest) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		transaction.Date = *req.Date
	}
	if req.Ticker != nil {
		transaction.Ticker = normalizeTicker(*req.Ticker)
	}
	if req.Quantity != nil {
		transaction.Quantity = *req.Quantity
	}
	if req.Price != nil {
		transaction.Price = *req.Price
	}
	if req.Commission != nil {
		transaction.Commission = *req.Commission
	}

	if err := s.transactionRepo.UpdateTransaction(ctx, &transaction); err != nil {
		return nil, err
	}

	return &transaction, nil
}

// DeleteTransaction removes a trade from the ledger.
func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	return s.transactionRepo.DeleteTransaction(ctx, transactionID)
}

// ImportCSV reads trades from CSV and stores every valid row in a single database transaction.
// Invalid rows are skipped and reported in the result; a bad header fails the whole import.
func (s *TransactionService) ImportCSV(ctx context.Context, r io.Reader) (model.ImportResult, error) {
	rows, skipped, err := csvio.ReadTransactions(r)
	if err != nil {
		return model.ImportResult{}, err
	}

	now := time.Now()
	transactions := make([]model.Transaction, len(rows))
	for i, row := range rows {
		transactions[i] = newTransaction(row.Request, now)
	}

	if len(transactions) > 0 {
		if err := s.transactionRepo.InsertTransactions(ctx, transactions); err != nil {
			return model.ImportResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, err)
		}
	}

	return model.ImportResult{
		Imported:     transactions,
		Skipped:      skipped,
		ImportedRows: len(transactions),
	}, nil
}

// ExportCSV writes the whole ledger to w as CSV.
func (s *TransactionService) ExportCSV(ctx context.Context, w io.Writer) error {
	transactions, err := s.transactionRepo.ListTransactions(ctx)
	if err != nil {
		return err
	}
	return csvio.WriteTransactions(w, transactions)
}

// ImportFlexStatement imports the stock trades of an uploaded Interactive Brokers Flex statement.
func (s *TransactionService) ImportFlexStatement(ctx context.Context, r io.Reader) (model.ImportResult, error) {
	statement, err := ibkr.ParseFlexStatement(r)
	if err != nil {
		return model.ImportResult{}, err
	}
	return s.importTrades(ctx, statement.Trades())
}

// SyncFlexStatement fetches the configured Flex query and imports its stock trades.
// Returns ibkr.ErrMissingCredentials when no Flex client is configured.
func (s *TransactionService) SyncFlexStatement(ctx context.Context) (model.ImportResult, error) {
	if s.flexClient == nil {
		return model.ImportResult{}, ibkr.ErrMissingCredentials
	}

	statement, err := s.flexClient.FetchFlexStatement(ctx, s.flexToken, s.flexQueryID)
	if err != nil {
		return model.ImportResult{}, err
	}
	return s.importTrades(ctx, statement.Trades())
}

// importTrades stores the trades not seen before in one database transaction.
// Trades are matched on their broker transaction ID; Line in a skipped row is
// the trade's 1-based position in the statement.
func (s *TransactionService) importTrades(ctx context.Context, trades []ibkr.Trade) (model.ImportResult, error) {
	known, err := s.transactionRepo.ExternalIDs(ctx)
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, err)
	}

	now := time.Now()
	result := model.ImportResult{
		Imported: []model.Transaction{},
		Skipped:  []model.ImportRowError{},
	}

	for i, trade := range trades {
		line := i + 1

		req, ok, err := trade.ToTransactionRequest()
		if err != nil {
			result.Skipped = append(result.Skipped, model.ImportRowError{Line: line, Reason: err.Error()})
			continue
		}
		if !ok {
			continue
		}
		if trade.TransactionID != "" && known[trade.TransactionID] {
			result.Skipped = append(result.Skipped, model.ImportRowError{
				Line:   line,
				Reason: fmt.Sprintf("trade %s already imported", trade.TransactionID),
			})
			continue
		}
		if err := validation.ValidateCreateTransaction(req); err != nil {
			result.Skipped = append(result.Skipped, model.ImportRowError{Line: line, Reason: err.Error()})
			continue
		}

		transaction := newTransaction(req, now)
		transaction.ExternalID = trade.TransactionID
		if trade.TransactionID != "" {
			known[trade.TransactionID] = true
		}
		result.Imported = append(result.Imported, transaction)
	}

	if len(result.Imported) > 0 {
		if err := s.transactionRepo.InsertTransactions(ctx, result.Imported); err != nil {
			return model.ImportResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportTransactions, err)
		}
	}

	result.ImportedRows = len(result.Imported)
	log.Printf("Imported %d broker trades, skipped %d", result.ImportedRows, len(result.Skipped))
	return result, nil
}
