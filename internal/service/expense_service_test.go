package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
	"github.com/splitpot/splitpot/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// seedGroup creates the named users and a group containing them all. The
// first member is the group admin. User IDs equal the given names so test
// assertions stay readable.
func seedGroup(t *testing.T, store storage.Store, members ...string) string {
	t.Helper()
	ctx := context.Background()

	group := &models.Group{Name: "test group"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	for i, name := range members {
		user := &models.User{ID: name, Username: name, Email: name + "@example.com"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("failed to create user %s: %v", name, err)
		}
		membership := &models.Membership{
			UserID:   name,
			GroupID:  group.ID,
			IsAdmin:  i == 0,
			JoinedAt: int64(1000 + i),
		}
		if err := store.AddMembership(ctx, membership); err != nil {
			t.Fatalf("failed to add membership for %s: %v", name, err)
		}
	}

	return group.ID
}

func equalSplitInput(groupID string, amount float64, members ...string) CreateExpenseInput {
	share := amount / float64(len(members))
	splits := make([]ExpenseSplitInput, len(members))
	for i, name := range members {
		splits[i] = ExpenseSplitInput{UserID: name, Amount: share}
	}
	return CreateExpenseInput{
		GroupID:     groupID,
		Description: "test expense",
		Amount:      amount,
		Currency:    "USD",
		SplitType:   models.SplitTypeEqual,
		Splits:      splits,
	}
}

func TestCreateExpense(t *testing.T) {
	store := newTestStore(t)
	groupID := seedGroup(t, store, "alice", "bob", "carol")
	svc := NewExpenseService(store)
	ctx := context.Background()

	expense, err := svc.CreateExpense(ctx, equalSplitInput(groupID, 30, "alice", "bob", "carol"), "alice")
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	if expense.ID == "" {
		t.Error("expected generated expense ID")
	}
	if expense.Date == 0 {
		t.Error("expected date to be defaulted")
	}
	if len(expense.Splits) != 3 {
		t.Fatalf("expected 3 splits, got %d", len(expense.Splits))
	}

	stored, err := svc.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if stored.Amount != 30 || len(stored.Splits) != 3 {
		t.Errorf("stored expense mismatch: amount=%f splits=%d", stored.Amount, len(stored.Splits))
	}
}

func TestCreateExpense_SplitMismatch(t *testing.T) {
	store := newTestStore(t)
	groupID := seedGroup(t, store, "alice", "bob")
	svc := NewExpenseService(store)

	input := CreateExpenseInput{
		GroupID:   groupID,
		Amount:    30,
		Currency:  "USD",
		SplitType: models.SplitTypeCustom,
		Splits: []ExpenseSplitInput{
			{UserID: "alice", Amount: 15},
			{UserID: "bob", Amount: 14.50},
		},
	}

	_, err := svc.CreateExpense(context.Background(), input, "alice")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateExpense_SplitWithinTolerance(t *testing.T) {
	store := newTestStore(t)
	groupID := seedGroup(t, store, "alice", "bob", "carol")
	svc := NewExpenseService(store)

	// Splits sum to 9.995 against a 10.00 total; inside the 0.01 tolerance.
	input := CreateExpenseInput{
		GroupID:   groupID,
		Amount:    10,
		Currency:  "USD",
		SplitType: models.SplitTypeEqual,
		Splits: []ExpenseSplitInput{
			{UserID: "alice", Amount: 3.33},
			{UserID: "bob", Amount: 3.33},
			{UserID: "carol", Amount: 3.335},
		},
	}

	if _, err := svc.CreateExpense(context.Background(), input, "alice"); err != nil {
		t.Fatalf("expected split within tolerance to pass, got %v", err)
	}
}

func TestCreateExpense_NotMember(t *testing.T) {
	store := newTestStore(t)
	groupID := seedGroup(t, store, "alice", "bob")
	svc := NewExpenseService(store)

	if err := store.CreateUser(context.Background(), &models.User{ID: "mallory", Username: "mallory", Email: "mallory@example.com"}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	_, err := svc.CreateExpense(context.Background(), equalSplitInput(groupID, 10, "alice", "bob"), "mallory")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateExpense_AutoSettle(t *testing.T) {
	store := newTestStore(t)
	groupID := seedGroup(t, store, "alice", "bob", "carol")
	svc := NewExpenseService(store)
	ctx := context.Background()

	autoSettle := true
	if _, err := svc.UpdateGroupSettings(ctx, groupID, UpdateGroupSettingsInput{AutoSettle: &autoSettle}, "alice"); err != nil {
		t.Fatalf("UpdateGroupSettings failed: %v", err)
	}

	if _, err := svc.CreateExpense(ctx, equalSplitInput(groupID, 30, "alice", "bob", "carol"), "alice"); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	settlements, err := store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("ListSettlementsByGroup failed: %v", err)
	}
	if len(settlements) != 2 {
		t.Fatalf("expected 2 auto-settlements, got %d", len(settlements))
	}
	for _, s := range settlements {
		if s.Status != models.SettlementPending {
			t.Errorf("expected PENDING status, got %s", s.Status)
		}
		if s.ToUserID != "alice" {
			t.Errorf("expected settlements toward alice, got %s", s.ToUserID)
		}
		if s.Amount != 10 {
			t.Errorf("expected amount 10, got %f", s.Amount)
		}
	}
}

func TestUpdateExpense(t *testing.T) {
	store := newTestStore(t)
	groupID := seedGroup(t, store, "alice", "bob")
	svc := NewExpenseService(store)
	ctx := context.Background()

	expense, err := svc.CreateExpense(ctx, equalSplitInput(groupID, 20, "alice", "bob"), "bob")
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	tests := []struct {
		name    string
		input   UpdateExpenseInput
		actor   string
		wantErr error
	}{
		{
			name:    "non-payer non-admin forbidden",
			input:   UpdateExpenseInput{Description: strPtr("sneaky")},
			actor:   "carol",
			wantErr: ErrForbidden,
		},
		{
			name:  "payer can edit description",
			input: UpdateExpenseInput{Description: strPtr("dinner")},
			actor: "bob",
		},
		{
			name:  "admin can edit someone else's expense",
			input: UpdateExpenseInput{Description: strPtr("dinner and drinks")},
			actor: "alice",
		},
		{
			name: "new splits validated against new amount",
			input: UpdateExpenseInput{
				Amount: floatPtr(40),
				Splits: []ExpenseSplitInput{
					{UserID: "alice", Amount: 10},
					{UserID: "bob", Amount: 20},
				},
			},
			actor:   "bob",
			wantErr: ErrValidation,
		},
		{
			name: "amount and splits replaced together",
			input: UpdateExpenseInput{
				Amount: floatPtr(40),
				Splits: []ExpenseSplitInput{
					{UserID: "alice", Amount: 15},
					{UserID: "bob", Amount: 25},
				},
			},
			actor: "bob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.UpdateExpense(ctx, expense.ID, tt.input, tt.actor)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateExpense failed: %v", err)
			}
			if tt.input.Description != nil && updated.Description != *tt.input.Description {
				t.Errorf("description not updated: got %q", updated.Description)
			}
			if tt.input.Splits != nil && len(updated.Splits) != len(tt.input.Splits) {
				t.Errorf("expected %d splits, got %d", len(tt.input.Splits), len(updated.Splits))
			}
		})
	}
}

func TestDeleteExpense(t *testing.T) {
	store := newTestStore(t)
	groupID := seedGroup(t, store, "alice", "bob", "carol")
	svc := NewExpenseService(store)
	ctx := context.Background()

	expense, err := svc.CreateExpense(ctx, equalSplitInput(groupID, 30, "alice", "bob", "carol"), "bob")
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	// carol is neither the payer nor an admin
	if err := svc.DeleteExpense(ctx, expense.ID, "carol"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := svc.DeleteExpense(ctx, expense.ID, "bob"); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	if _, err := svc.GetExpense(ctx, expense.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetGroupExpenses_DefaultLimit(t *testing.T) {
	store := newTestStore(t)
	groupID := seedGroup(t, store, "alice", "bob")
	svc := NewExpenseService(store)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		input := equalSplitInput(groupID, 10, "alice", "bob")
		input.Date = int64(2000 + i)
		if _, err := svc.CreateExpense(ctx, input, "alice"); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	expenses, err := svc.GetGroupExpenses(ctx, groupID, 0)
	if err != nil {
		t.Fatalf("GetGroupExpenses failed: %v", err)
	}
	if len(expenses) != 50 {
		t.Errorf("expected default limit of 50, got %d", len(expenses))
	}
	if expenses[0].Date != 2059 {
		t.Errorf("expected newest expense first, got date %d", expenses[0].Date)
	}

	expenses, err = svc.GetGroupExpenses(ctx, groupID, 10)
	if err != nil {
		t.Fatalf("GetGroupExpenses failed: %v", err)
	}
	if len(expenses) != 10 {
		t.Errorf("expected 10 expenses, got %d", len(expenses))
	}
}

func TestGroupSettings(t *testing.T) {
	store := newTestStore(t)
	groupID := seedGroup(t, store, "alice", "bob")
	svc := NewExpenseService(store)
	ctx := context.Background()

	// First read lazily creates the defaults.
	settings, err := svc.GetGroupSettings(ctx, groupID)
	if err != nil {
		t.Fatalf("GetGroupSettings failed: %v", err)
	}
	if settings.DefaultCurrency != models.DefaultCurrency {
		t.Errorf("expected default currency %s, got %s", models.DefaultCurrency, settings.DefaultCurrency)
	}
	if !settings.AllowExpenses || settings.AutoSettle {
		t.Errorf("unexpected defaults: allowExpenses=%v autoSettle=%v", settings.AllowExpenses, settings.AutoSettle)
	}

	// Non-admin cannot update.
	limit := 500.0
	if _, err := svc.UpdateGroupSettings(ctx, groupID, UpdateGroupSettingsInput{ExpenseLimit: &limit}, "bob"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.UpdateGroupSettings(ctx, groupID, UpdateGroupSettingsInput{ExpenseLimit: &limit}, "alice")
	if err != nil {
		t.Fatalf("UpdateGroupSettings failed: %v", err)
	}
	if updated.ExpenseLimit != 500 {
		t.Errorf("expected expense limit 500, got %f", updated.ExpenseLimit)
	}
	// Untouched fields keep their values.
	if updated.DefaultCurrency != models.DefaultCurrency {
		t.Errorf("default currency changed unexpectedly: %s", updated.DefaultCurrency)
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
