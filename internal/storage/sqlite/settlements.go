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

// execer is satisfied by both *sql.DB and *sql.Tx so settlement inserts can
// run standalone or inside a larger transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// insertSettlement writes one settlement row through the given executor.
func insertSettlement(ctx context.Context, ec execer, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	var paymentMethod, notes, paidAt interface{}
	if settlement.PaymentMethod != "" {
		paymentMethod = string(settlement.PaymentMethod)
	}
	if settlement.Notes != "" {
		notes = settlement.Notes
	}
	if settlement.PaidAt != 0 {
		paidAt = settlement.PaidAt
	}

	_, err := ec.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, currency, status, payment_method, notes, paid_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount, settlement.Currency, string(settlement.Status), paymentMethod, notes, paidAt, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// CreateSettlements persists settlements in one transaction.
func (s *SQLiteStore) CreateSettlements(ctx context.Context, settlements []*models.Settlement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

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

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, currency, status, payment_method, notes, paid_at, created_at
		 FROM settlements WHERE id = ?`,
		settlementID,
	)

	settlement, err := scanSettlement(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// scanSettlement reads one settlement from a row scan function, handling the
// nullable columns.
func scanSettlement(scan func(dest ...interface{}) error) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var status string
	var paymentMethod, notes sql.NullString
	var paidAt sql.NullInt64

	err := scan(&settlement.ID, &settlement.GroupID, &settlement.FromUserID, &settlement.ToUserID,
		&settlement.Amount, &settlement.Currency, &status, &paymentMethod, &notes, &paidAt, &settlement.CreatedAt)
	if err != nil {
		return nil, err
	}

	settlement.Status = models.SettlementStatus(status)
	if paymentMethod.Valid {
		settlement.PaymentMethod = models.PaymentMethod(paymentMethod.String)
	}
	if notes.Valid {
		settlement.Notes = notes.String
	}
	if paidAt.Valid {
		settlement.PaidAt = paidAt.Int64
	}

	return settlement, nil
}

// UpdateSettlement rewrites a settlement row.
func (s *SQLiteStore) UpdateSettlement(ctx context.Context, settlement *models.Settlement) error {
	var paymentMethod, notes, paidAt interface{}
	if settlement.PaymentMethod != "" {
		paymentMethod = string(settlement.PaymentMethod)
	}
	if settlement.Notes != "" {
		notes = settlement.Notes
	}
	if settlement.PaidAt != 0 {
		paidAt = settlement.PaidAt
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE settlements SET amount = ?, currency = ?, status = ?, payment_method = ?, notes = ?, paid_at = ?
		 WHERE id = ?`,
		settlement.Amount, settlement.Currency, string(settlement.Status), paymentMethod, notes, paidAt, settlement.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("settlement %s: %w", settlement.ID, storage.ErrNotFound)
	}

	return nil
}

// DeleteSettlement removes a settlement by ID.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}

	return nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, currency, status, payment_method, notes, paid_at, created_at
		 FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
}

// ListSettlementsByUser retrieves settlements where the user is debtor or
// creditor, newest first.
func (s *SQLiteStore) ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, currency, status, payment_method, notes, paid_at, created_at
		 FROM settlements WHERE from_user_id = ? OR to_user_id = ? ORDER BY created_at DESC, id`,
		userID, userID,
	)
}

func (s *SQLiteStore) listSettlements(ctx context.Context, query string, args ...interface{}) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
