// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitpot/splitpot/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for expense and settlement persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group. The group.ID field will be
	// populated by the store if empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// AddMembership adds a user to a group.
	AddMembership(ctx context.Context, membership *models.Membership) error

	// GetMembership looks up the membership keyed by (userID, groupID).
	// Returns ErrNotFound (wrapped) if the user is not a member.
	GetMembership(ctx context.Context, userID, groupID string) (*models.Membership, error)

	// ListMemberships returns all memberships of a group in join order.
	ListMemberships(ctx context.Context, groupID string) ([]*models.Membership, error)

	// CreateExpense persists an expense, its splits, and any chained
	// settlements as one atomic transaction. Either all rows commit or
	// none do.
	CreateExpense(ctx context.Context, expense *models.Expense, settlements []*models.Settlement) error

	// GetExpense retrieves an expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense updates an expense row. When replaceSplits is true the
	// expense's split set is deleted and rewritten from expense.Splits in
	// the same transaction; splits are never patched individually.
	UpdateExpense(ctx context.Context, expense *models.Expense, replaceSplits bool) error

	// DeleteExpense removes an expense and, via cascade, its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByGroup returns a group's expenses, date descending,
	// capped at limit (0 means no cap).
	ListExpensesByGroup(ctx context.Context, groupID string, limit int) ([]*models.Expense, error)

	// ListExpensesByUser returns the expenses paid by a user, date
	// descending.
	ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error)

	// CreateSettlements persists settlements in one transaction.
	CreateSettlements(ctx context.Context, settlements []*models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// UpdateSettlement rewrites a settlement row.
	UpdateSettlement(ctx context.Context, settlement *models.Settlement) error

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// ListSettlementsByGroup returns a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// ListSettlementsByUser returns settlements where the user is either
	// the debtor or the creditor, newest first.
	ListSettlementsByUser(ctx context.Context, userID string) ([]*models.Settlement, error)

	// GetGroupSettings retrieves the settings row for a group.
	// Returns ErrNotFound (wrapped) if none exists yet.
	GetGroupSettings(ctx context.Context, groupID string) (*models.GroupSettings, error)

	// SaveGroupSettings inserts or replaces a group's settings row.
	SaveGroupSettings(ctx context.Context, settings *models.GroupSettings) error

	// Close releases any resources held by the store.
	Close() error
}
