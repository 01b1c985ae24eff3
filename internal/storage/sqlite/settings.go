package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// GetGroupSettings retrieves the settings row for a group.
func (s *SQLiteStore) GetGroupSettings(ctx context.Context, groupID string) (*models.GroupSettings, error) {
	settings := &models.GroupSettings{}
	var expenseLimit sql.NullFloat64

	err := s.db.QueryRowContext(ctx,
		`SELECT group_id, default_currency, allow_expenses, expense_limit, require_approval, auto_settle, created_at, updated_at
		 FROM group_settings WHERE group_id = ?`,
		groupID,
	).Scan(&settings.GroupID, &settings.DefaultCurrency, &settings.AllowExpenses, &expenseLimit,
		&settings.RequireApproval, &settings.AutoSettle, &settings.CreatedAt, &settings.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group settings %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group settings: %w", err)
	}

	if expenseLimit.Valid {
		settings.ExpenseLimit = expenseLimit.Float64
	}

	return settings, nil
}

// SaveGroupSettings inserts or replaces a group's settings row.
func (s *SQLiteStore) SaveGroupSettings(ctx context.Context, settings *models.GroupSettings) error {
	now := time.Now().Unix()
	if settings.CreatedAt == 0 {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	var expenseLimit interface{}
	if settings.ExpenseLimit != 0 {
		expenseLimit = settings.ExpenseLimit
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_settings (group_id, default_currency, allow_expenses, expense_limit, require_approval, auto_settle, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(group_id) DO UPDATE SET
		   default_currency = excluded.default_currency,
		   allow_expenses = excluded.allow_expenses,
		   expense_limit = excluded.expense_limit,
		   require_approval = excluded.require_approval,
		   auto_settle = excluded.auto_settle,
		   updated_at = excluded.updated_at`,
		settings.GroupID, settings.DefaultCurrency, settings.AllowExpenses, expenseLimit,
		settings.RequireApproval, settings.AutoSettle, settings.CreatedAt, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save group settings: %w", err)
	}

	return nil
}
