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

// SettlementService manages the settlement lifecycle, debt summaries, and
// the greedy settlement planner.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// snapshot loads the group's full expense history and member IDs (in
// membership enumeration order) for the pure ledger functions. Recomputed on
// every call; nothing is cached.
func (s *SettlementService) snapshot(ctx context.Context, groupID string) ([]*models.Expense, []string, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load group expenses: %w", err)
	}

	memberships, err := s.store.ListMemberships(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load group members: %w", err)
	}
	memberIDs := make([]string, len(memberships))
	for i, m := range memberships {
		memberIDs[i] = m.UserID
	}

	return expenses, memberIDs, nil
}

// GetGroupDebtSummary computes one outstanding-balance summary per member,
// in membership enumeration order, from the current persisted state.
func (s *SettlementService) GetGroupDebtSummary(ctx context.Context, groupID string) ([]ledger.DebtSummary, error) {
	expenses, memberIDs, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ledger.BuildDebtSummaries(ledger.BuildDebtMap(expenses), memberIDs), nil
}

// GetUserDebtSummary returns one member's summary, or nil if the user has
// no membership row in the group.
func (s *SettlementService) GetUserDebtSummary(ctx context.Context, userID, groupID string) (*ledger.DebtSummary, error) {
	summaries, err := s.GetGroupDebtSummary(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		if summaries[i].UserID == userID {
			return &summaries[i], nil
		}
	}
	return nil, nil
}

// GenerateOptimalSettlements plans the minimal settlement set for the
// group's current debts and persists every proposal as a PENDING settlement
// in one transaction.
//
// Not idempotent: invoking it twice against the same unresolved ledger
// produces two full settlement sets. Deduplication, if wanted, is the
// caller's choice.
func (s *SettlementService) GenerateOptimalSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	expenses, memberIDs, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
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

	if err := s.store.CreateSettlements(ctx, settlements); err != nil {
		return nil, fmt.Errorf("failed to persist settlements: %w", err)
	}

	slog.Info("Optimal settlements generated", "group_id", groupID, "count", len(settlements))

	return settlements, nil
}

// CreateSettlement records an explicit settlement. The acting user must be
// a member of the group; the amount must be strictly positive.
func (s *SettlementService) CreateSettlement(ctx context.Context, input CreateSettlementInput, userID string) (*models.Settlement, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: settlement amount must be positive", ErrValidation)
	}

	if _, err := requireMembership(ctx, s.store, userID, input.GroupID); err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		GroupID:       input.GroupID,
		FromUserID:    input.FromUserID,
		ToUserID:      input.ToUserID,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        models.SettlementPending,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	}

	if err := s.store.CreateSettlements(ctx, []*models.Settlement{settlement}); err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	return settlement, nil
}

// BulkCreateSettlements records several settlements on behalf of one acting
// user. The admin gate lives at the API boundary.
func (s *SettlementService) BulkCreateSettlements(ctx context.Context, inputs []CreateSettlementInput, userID string) ([]*models.Settlement, error) {
	settlements := make([]*models.Settlement, 0, len(inputs))
	for _, input := range inputs {
		settlement, err := s.CreateSettlement(ctx, input, userID)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, settlement)
	}
	return settlements, nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SettlementService) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("settlement not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

// MarkSettlementPaid moves a PENDING settlement to PAID, recording the
// payment method, optional notes, and the paid-at timestamp. PAID and
// CANCELLED are terminal: marking them again fails.
func (s *SettlementService) MarkSettlementPaid(ctx context.Context, settlementID string, paymentMethod models.PaymentMethod, notes, userID string) (*models.Settlement, error) {
	if paymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrValidation)
	}

	settlement, err := s.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		if _, err := requireMembership(ctx, s.store, userID, settlement.GroupID); err != nil {
			return nil, err
		}
	}

	if settlement.Status != models.SettlementPending {
		return nil, fmt.Errorf("%w: settlement is already %s", ErrValidation, settlement.Status)
	}

	settlement.Status = models.SettlementPaid
	settlement.PaymentMethod = paymentMethod
	if notes != "" {
		settlement.Notes = notes
	}
	settlement.PaidAt = time.Now().Unix()

	if err := s.store.UpdateSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to update settlement: %w", err)
	}

	slog.Info("Settlement paid",
		"settlement_id", settlement.ID,
		"method", settlement.PaymentMethod,
		"amount", settlement.Amount,
	)

	return settlement, nil
}

// UpdateSettlement applies a partial patch on behalf of a group member.
// Status changes are only allowed away from PENDING; a transition to PAID
// through this path stamps paidAt too.
func (s *SettlementService) UpdateSettlement(ctx context.Context, settlementID string, input UpdateSettlementInput, userID string) (*models.Settlement, error) {
	settlement, err := s.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	if _, err := requireMembership(ctx, s.store, userID, settlement.GroupID); err != nil {
		return nil, err
	}

	if input.Status != nil && *input.Status != settlement.Status {
		if settlement.Status != models.SettlementPending {
			return nil, fmt.Errorf("%w: settlement is already %s", ErrValidation, settlement.Status)
		}
		settlement.Status = *input.Status
		if settlement.Status == models.SettlementPaid && settlement.PaidAt == 0 {
			settlement.PaidAt = time.Now().Unix()
		}
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return nil, fmt.Errorf("%w: settlement amount must be positive", ErrValidation)
		}
		settlement.Amount = *input.Amount
	}
	if input.Currency != nil {
		settlement.Currency = *input.Currency
	}
	if input.PaymentMethod != nil {
		settlement.PaymentMethod = *input.PaymentMethod
	}
	if input.Notes != nil {
		settlement.Notes = *input.Notes
	}

	if err := s.store.UpdateSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to update settlement: %w", err)
	}

	return settlement, nil
}

// DeleteSettlement removes a settlement. Only the settlement's debtor or a
// group admin may delete; there is no restriction on status.
func (s *SettlementService) DeleteSettlement(ctx context.Context, settlementID, userID string) error {
	settlement, err := s.GetSettlement(ctx, settlementID)
	if err != nil {
		return err
	}

	m, err := requireMembership(ctx, s.store, userID, settlement.GroupID)
	if err != nil {
		return err
	}
	if settlement.FromUserID != userID && !m.IsAdmin {
		return fmt.Errorf("%w: not authorized to delete this settlement", ErrForbidden)
	}

	if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("settlement not found: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to delete settlement: %w", err)
	}

	slog.Info("Settlement deleted", "settlement_id", settlementID, "by", userID)

	return nil
}

// GetGroupSettlements returns a group's settlements, newest first.
func (s *SettlementService) GetGroupSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.store.ListSettlementsByGroup(ctx, groupID)
}

// GetUserSettlements returns settlements where the user is either side,
// newest first.
func (s *SettlementService) GetUserSettlements(ctx context.Context, userID string) ([]*models.Settlement, error) {
	return s.store.ListSettlementsByUser(ctx, userID)
}
