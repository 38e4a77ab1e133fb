package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/model"
)

// TransactionRepository provides data access methods for the stock_transaction table.
// The ledger is always returned sorted by date; transactions on the same date keep
// their insertion order, and edits do not move a transaction within its date.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, date, ticker, quantity, price, commission, created_at, external_id`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var dateStr string
	var createdAtStr sql.NullString
	var externalID sql.NullString

	if err := row.Scan(
		&t.ID,
		&dateStr,
		&t.Ticker,
		&t.Quantity,
		&t.Price,
		&t.Commission,
		&createdAtStr,
		&externalID,
	); err != nil {
		return model.Transaction{}, err
	}

	date, err := normalizeDate(dateStr)
	if err != nil {
		return model.Transaction{}, err
	}
	t.Date = date
	t.ExternalID = externalID.String

	if createdAtStr.Valid && createdAtStr.String != "" {
		t.CreatedAt, err = ParseTime(createdAtStr.String)
		if err != nil {
			return model.Transaction{}, err
		}
	}

	return t, nil
}

// ListTransactions retrieves the whole ledger in ledger order.
// Returns an empty slice, never nil, when the ledger is empty.
func (r *TransactionRepository) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM stock_transaction
		ORDER BY date ASC, rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock_transaction results: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single transaction by its ID.
// Returns apperrors.ErrTransactionNotFound if no transaction has that ID.
func (r *TransactionRepository) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM stock_transaction
		WHERE id = ?
	`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, id)
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan stock_transaction result: %w", err)
	}

	return t, nil
}

// InsertTransaction stores a new transaction.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	return insertTransaction(ctx, r.db, t)
}

// InsertTransactions stores a batch of transactions atomically, in the given order.
func (r *TransactionRepository) InsertTransactions(ctx context.Context, transactions []model.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := range transactions {
		if err := insertTransaction(ctx, tx, &transactions[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTransaction(ctx context.Context, db execer, t *model.Transaction) error {
	query := `
		INSERT INTO stock_transaction (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		t.ID,
		t.Date,
		t.Ticker,
		t.Quantity,
		t.Price,
		t.Commission,
		t.CreatedAt.UTC().Format(time.RFC3339),
		sql.NullString{String: t.ExternalID, Valid: t.ExternalID != ""},
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
	}
	return nil
}

// UpdateTransaction replaces the stored transaction that has t's ID.
// Returns apperrors.ErrTransactionNotFound if no transaction has that ID.
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		UPDATE stock_transaction
		SET date = ?, ticker = ?, quantity = ?, price = ?, commission = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		t.Date,
		t.Ticker,
		t.Quantity,
		t.Price,
		t.Commission,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", t.ID, err)
	}

	return requireAffected(result, apperrors.ErrTransactionNotFound, t.ID)
}

// DeleteTransaction removes a transaction by ID.
// Returns apperrors.ErrTransactionNotFound if no transaction has that ID.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stock_transaction WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}

	return requireAffected(result, apperrors.ErrTransactionNotFound, id)
}

// ExternalIDs returns the set of broker references already present in the ledger.
func (r *TransactionRepository) ExternalIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT external_id
		FROM stock_transaction
		WHERE external_id IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query external ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan external id: %w", err)
		}
		ids[id] = true
	}

	return ids, rows.Err()
}

// requireAffected returns notFound wrapped with id when the statement touched no row.
func requireAffected(result sql.Result, notFound error, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}
