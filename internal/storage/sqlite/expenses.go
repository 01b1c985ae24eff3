package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// CreateExpense persists an expense, its splits, and any chained settlements
// as one atomic transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, settlements []*models.Settlement) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var receiptURL interface{}
	if expense.ReceiptURL != "" {
		receiptURL = expense.ReceiptURL
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, paid_by, description, amount, currency, category, date, receipt_url, split_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PaidBy, expense.Description, expense.Amount,
		expense.Currency, expense.Category, expense.Date, receiptURL, string(expense.SplitType), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	for _, settlement := range settlements {
		if err := insertSettlement(ctx, tx, settlement); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertSplits writes the expense's split set inside the given transaction.
func insertSplits(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i := range expense.Splits {
		split := &expense.Splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID
		if split.Shares == 0 {
			split.Shares = 1
		}

		var percentage interface{}
		if split.Percentage != 0 {
			percentage = split.Percentage
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (id, expense_id, user_id, amount, percentage, shares) VALUES (?, ?, ?, ?, ?, ?)",
			split.ID, split.ExpenseID, split.UserID, split.Amount, percentage, split.Shares,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense with its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var receiptURL sql.NullString
	var splitType string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, paid_by, description, amount, currency, category, date, receipt_url, split_type, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.PaidBy, &expense.Description, &expense.Amount,
		&expense.Currency, &expense.Category, &expense.Date, &receiptURL, &splitType, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if receiptURL.Valid {
		expense.ReceiptURL = receiptURL.String
	}
	expense.SplitType = models.SplitType(splitType)

	if err := s.loadSplits(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// loadSplits populates expense.Splits from the database.
func (s *SQLiteStore) loadSplits(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, expense_id, user_id, amount, percentage, shares FROM expense_splits WHERE expense_id = ? ORDER BY user_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var split models.ExpenseSplit
		var percentage sql.NullFloat64
		if err := rows.Scan(&split.ID, &split.ExpenseID, &split.UserID, &split.Amount, &percentage, &split.Shares); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}
		if percentage.Valid {
			split.Percentage = percentage.Float64
		}
		expense.Splits = append(expense.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return nil
}

// UpdateExpense updates an expense row, optionally replacing its split set
// wholesale in the same transaction.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense, replaceSplits bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var receiptURL interface{}
	if expense.ReceiptURL != "" {
		receiptURL = expense.ReceiptURL
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, currency = ?, category = ?, date = ?, receipt_url = ?, split_type = ?
		 WHERE id = ?`,
		expense.Description, expense.Amount, expense.Currency, expense.Category,
		expense.Date, receiptURL, string(expense.SplitType), expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if replaceSplits {
		if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to delete expense splits: %w", err)
		}
		if err := insertSplits(ctx, tx, expense); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense; its splits go with it via cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	return nil
}

// ListExpensesByGroup returns a group's expenses, date descending.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string, limit int) ([]*models.Expense, error) {
	query := `SELECT id, group_id, paid_by, description, amount, currency, category, date, receipt_url, split_type, created_at
	          FROM expenses WHERE group_id = ? ORDER BY date DESC`
	args := []interface{}{groupID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return s.listExpenses(ctx, query, args...)
}

// ListExpensesByUser returns the expenses paid by a user, date descending.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT id, group_id, paid_by, description, amount, currency, category, date, receipt_url, split_type, created_at
		 FROM expenses WHERE paid_by = ? ORDER BY date DESC`,
		userID,
	)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var receiptURL sql.NullString
		var splitType string

		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PaidBy, &expense.Description, &expense.Amount,
			&expense.Currency, &expense.Category, &expense.Date, &receiptURL, &splitType, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if receiptURL.Valid {
			expense.ReceiptURL = receiptURL.String
		}
		expense.SplitType = models.SplitType(splitType)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadSplits(ctx, expense); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}
