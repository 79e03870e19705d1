package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/taxwise-in/taxwise/internal/model"
)

// SaveTransactions inserts transactions for a user, skipping exact
// duplicates (same date, amount, description and direction). Returns
// the number actually inserted.
func (s *Storage) SaveTransactions(ctx context.Context, userID string, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString("user_id", userID); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions
			(id, user_id, date, description, amount, type, category,
			 subcategory, reasoning, confidence, is_recurring, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for i := range transactions {
		t := &transactions[i]
		id := t.ID
		if id == "" {
			id = uuid.New().String()
		}

		result, err := stmt.ExecContext(ctx,
			id, userID, t.Date, t.Description, t.Amount.StringFixed(2),
			string(t.Type), string(t.Category), t.Subcategory,
			t.Reasoning, t.Confidence, t.IsRecurring, t.GenerateHash())
		if err != nil {
			return inserted, fmt.Errorf("failed to insert transaction: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to check insert result: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return inserted, nil
}

// GetTransactions returns all transactions for a user, newest first.
func (s *Storage) GetTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString("user_id", userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, description, amount, type, category,
		       subcategory, reasoning, confidence, is_recurring
		FROM transactions WHERE user_id = ? ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetUncategorized returns the user's transactions that have not been
// categorized yet.
func (s *Storage) GetUncategorized(ctx context.Context, userID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString("user_id", userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, description, amount, type, category,
		       subcategory, reasoning, confidence, is_recurring
		FROM transactions WHERE user_id = ? AND category = '' ORDER BY date`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query uncategorized transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// UpdateCategorization writes the classifier's output back to a
// transaction.
func (s *Storage) UpdateCategorization(ctx context.Context, t model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString("id", t.ID); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET category = ?, subcategory = ?, reasoning = ?, confidence = ?, is_recurring = ?
		WHERE id = ?`,
		string(t.Category), t.Subcategory, t.Reasoning, t.Confidence, t.IsRecurring, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update categorization: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s not found", t.ID)
	}
	return nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var amount, txType, category string

		if err := rows.Scan(&t.ID, &t.UserID, &t.Date, &t.Description,
			&amount, &txType, &category,
			&t.Subcategory, &t.Reasoning, &t.Confidence, &t.IsRecurring); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount for transaction %s: %w", t.ID, err)
		}
		t.Amount = parsed
		t.Type = model.TransactionType(txType)
		t.Category = model.Category(category)
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
