package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/splitpot/splitpot/internal/ledger"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// ExpenseService orchestrates expense creation, update and deletion, plus
// group settings. All writes run through the store as single transactions.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// requireMembership loads the acting user's membership in a group, mapping a
// missing row to ErrForbidden.
func requireMembership(ctx context.Context, store storage.Store, userID, groupID string) (*models.Membership, error) {
	m, err := store.GetMembership(ctx, userID, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: user is not a member of this group", ErrForbidden)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	return m, nil
}

// splitsFromInput converts split inputs to models.
func splitsFromInput(inputs []ExpenseSplitInput) []models.ExpenseSplit {
	splits := make([]models.ExpenseSplit, len(inputs))
	for i, in := range inputs {
		shares := in.Shares
		if shares == 0 {
			shares = 1
		}
		splits[i] = models.ExpenseSplit{
			UserID:     in.UserID,
			Amount:     in.Amount,
			Percentage: in.Percentage,
			Shares:     shares,
		}
	}
	return splits
}

// CreateExpense validates and persists a new expense with its splits. When
// the group's auto-settle policy is on, the settlements planned from the
// resulting ledger persist in the same transaction as the expense.
//
// There is no locking around the planner: two concurrent creations against
// an auto-settle group can both observe the same unresolved ledger and each
// emit a full settlement set. Callers that need stronger guarantees must
// serialize externally.
func (s *ExpenseService) CreateExpense(ctx context.Context, input CreateExpenseInput, payerID string) (*models.Expense, error) {
	splits := splitsFromInput(input.Splits)

	if err := ledger.ValidateSplits(input.Amount, splits); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if _, err := requireMembership(ctx, s.store, payerID, input.GroupID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     input.GroupID,
		PaidBy:      payerID,
		Description: input.Description,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Category:    input.Category,
		Date:        input.Date,
		ReceiptURL:  input.ReceiptURL,
		SplitType:   input.SplitType,
		Splits:      splits,
	}
	if expense.Date == 0 {
		expense.Date = time.Now().Unix()
	}

	settings, err := s.GetGroupSettings(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	var settlements []*models.Settlement
	if settings.AutoSettle {
		settlements, err = s.planGroupSettlements(ctx, input.GroupID, expense)
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.CreateExpense(ctx, expense, settlements); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount,
		"auto_settlements", len(settlements),
	)

	return expense, nil
}

// planGroupSettlements plans settlements over the group's persisted expenses
// plus the not-yet-persisted pending one (nil when re-planning standalone).
func (s *ExpenseService) planGroupSettlements(ctx context.Context, groupID string, pending *models.Expense) ([]*models.Settlement, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load group expenses: %w", err)
	}
	if pending != nil {
		expenses = append(expenses, pending)
	}

	memberships, err := s.store.ListMemberships(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}
	memberIDs := make([]string, len(memberships))
	for i, m := range memberships {
		memberIDs[i] = m.UserID
	}

	proposals := ledger.PlanSettlements(ledger.BuildDebtMap(expenses), memberIDs)

	settlements := make([]*models.Settlement, len(proposals))
	for i, p := range proposals {
		settlements[i] = &models.Settlement{
			GroupID:    groupID,
			FromUserID: p.FromUserID,
			ToUserID:   p.ToUserID,
			Amount:     p.Amount,
			Currency:   p.Currency,
			Status:     models.SettlementPending,
		}
	}
	return settlements, nil
}

// GetExpense retrieves one expense with its splits.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("expense not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// GetGroupExpenses returns a group's expenses, date descending. A limit of 0
// falls back to the default of 50.
func (s *ExpenseService) GetGroupExpenses(ctx context.Context, groupID string, limit int) ([]*models.Expense, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListExpensesByGroup(ctx, groupID, limit)
}

// GetUserExpenses returns the expenses paid by a user, date descending.
func (s *ExpenseService) GetUserExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.store.ListExpensesByUser(ctx, userID)
}

// UpdateExpense applies a partial patch. Only the original payer or a group
// admin may edit; a provided split set is validated against the (possibly
// updated) amount and replaces the old set wholesale.
func (s *ExpenseService) UpdateExpense(ctx context.Context, expenseID string, input UpdateExpenseInput, userID string) (*models.Expense, error) {
	expense, err := s.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	m, err := requireMembership(ctx, s.store, userID, expense.GroupID)
	if err != nil {
		return nil, err
	}
	if expense.PaidBy != userID && !m.IsAdmin {
		return nil, fmt.Errorf("%w: not authorized to edit this expense", ErrForbidden)
	}

	if input.Description != nil {
		expense.Description = *input.Description
	}
	if input.Amount != nil {
		expense.Amount = *input.Amount
	}
	if input.Currency != nil {
		expense.Currency = *input.Currency
	}
	if input.Category != nil {
		expense.Category = *input.Category
	}
	if input.Date != nil {
		expense.Date = *input.Date
	}
	if input.ReceiptURL != nil {
		expense.ReceiptURL = *input.ReceiptURL
	}
	if input.SplitType != nil {
		expense.SplitType = *input.SplitType
	}

	replaceSplits := input.Splits != nil
	if replaceSplits {
		splits := splitsFromInput(input.Splits)
		if err := ledger.ValidateSplits(expense.Amount, splits); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		expense.Splits = splits
	}

	if err := s.store.UpdateExpense(ctx, expense, replaceSplits); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("expense not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID, "replaced_splits", replaceSplits)

	return s.GetExpense(ctx, expenseID)
}

// DeleteExpense removes an expense. Only the original payer or a group
// admin may delete.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID, userID string) error {
	expense, err := s.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}

	m, err := requireMembership(ctx, s.store, userID, expense.GroupID)
	if err != nil {
		return err
	}
	if expense.PaidBy != userID && !m.IsAdmin {
		return fmt.Errorf("%w: not authorized to delete this expense", ErrForbidden)
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("expense not found: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "by", userID)

	return nil
}

// GetGroupSettings returns the group's settings, lazily creating the row
// with defaults on first read.
func (s *ExpenseService) GetGroupSettings(ctx context.Context, groupID string) (*models.GroupSettings, error) {
	settings, err := s.store.GetGroupSettings(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		settings = models.DefaultGroupSettings(groupID)
		if err := s.store.SaveGroupSettings(ctx, settings); err != nil {
			return nil, fmt.Errorf("failed to create default group settings: %w", err)
		}
		return settings, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateGroupSettings applies a partial settings patch. Admin-only; the
// caller enforces the gate via RequireAdmin at the API boundary and this
// method re-checks it.
func (s *ExpenseService) UpdateGroupSettings(ctx context.Context, groupID string, input UpdateGroupSettingsInput, userID string) (*models.GroupSettings, error) {
	m, err := requireMembership(ctx, s.store, userID, groupID)
	if err != nil {
		return nil, err
	}
	if !m.IsAdmin {
		return nil, fmt.Errorf("%w: only group admins can update group settings", ErrForbidden)
	}

	settings, err := s.GetGroupSettings(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if input.DefaultCurrency != nil {
		settings.DefaultCurrency = *input.DefaultCurrency
	}
	if input.AllowExpenses != nil {
		settings.AllowExpenses = *input.AllowExpenses
	}
	if input.ExpenseLimit != nil {
		settings.ExpenseLimit = *input.ExpenseLimit
	}
	if input.RequireApproval != nil {
		settings.RequireApproval = *input.RequireApproval
	}
	if input.AutoSettle != nil {
		settings.AutoSettle = *input.AutoSettle
	}

	if err := s.store.SaveGroupSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save group settings: %w", err)
	}

	slog.Info("Group settings updated", "group_id", groupID, "by", userID)

	return settings, nil
}
