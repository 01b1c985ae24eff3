package models

// SplitType tags how an expense's splits were entered. The tag is stored
// as-is; split amounts are always supplied pre-computed, so PERCENTAGE and
// SHARES carry informational metadata only.
type SplitType string

const (
	SplitTypeEqual      SplitType = "EQUAL"
	SplitTypePercentage SplitType = "PERCENTAGE"
	SplitTypeCustom     SplitType = "CUSTOM"
	SplitTypeShares     SplitType = "SHARES"
)

// Expense represents a shared cost paid by one group member.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"groupId"`

	// PaidBy is the user ID of the member who paid.
	PaidBy string `json:"paidBy"`

	// Description is the human-readable label (e.g., "Groceries").
	Description string `json:"description"`

	// Amount is the total expense amount. The splits must sum to this
	// within 0.01.
	Amount float64 `json:"amount"`

	// Currency is the ISO currency code the expense was paid in.
	Currency string `json:"currency"`

	// Category is a free-form expense category (e.g., "food", "travel").
	Category string `json:"category,omitempty"`

	// Date is the Unix timestamp of when the expense occurred.
	Date int64 `json:"date"`

	// ReceiptURL optionally points at an uploaded receipt image.
	ReceiptURL string `json:"receiptUrl,omitempty"`

	// SplitType records how the splits were entered.
	SplitType SplitType `json:"splitType"`

	// Splits is the full set of per-member shares. Replaced wholesale on
	// update, never patched entry by entry.
	Splits []ExpenseSplit `json:"splits"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`
}

// ExpenseSplit is one member's share of one expense. A split never exists
// independent of its expense.
type ExpenseSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string `json:"id"`

	// ExpenseID is the owning expense.
	ExpenseID string `json:"expenseId"`

	// UserID is the member who owes this share.
	UserID string `json:"userId"`

	// Amount is this member's share of the expense.
	Amount float64 `json:"amount"`

	// Percentage is optional metadata for PERCENTAGE splits. Stored as
	// entered; not used to derive Amount. Zero means unset.
	Percentage float64 `json:"percentage,omitempty"`

	// Shares is optional metadata for SHARES splits. Defaults to 1.
	Shares int `json:"shares,omitempty"`
}
