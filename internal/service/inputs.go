package service

import "github.com/splitpot/splitpot/internal/models"

// ExpenseSplitInput is one member's share as supplied by the caller.
// Amount is always pre-computed by the client; Percentage and Shares are
// stored as metadata and never used to derive Amount.
type ExpenseSplitInput struct {
	UserID     string  `json:"userId"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage,omitempty"`
	Shares     int     `json:"shares,omitempty"`
}

// CreateExpenseInput carries a new expense with its full split set.
type CreateExpenseInput struct {
	GroupID     string              `json:"groupId"`
	Description string              `json:"description"`
	Amount      float64             `json:"amount"`
	Currency    string              `json:"currency"`
	Category    string              `json:"category"`
	Date        int64               `json:"date"`
	ReceiptURL  string              `json:"receiptUrl,omitempty"`
	SplitType   models.SplitType    `json:"splitType"`
	Splits      []ExpenseSplitInput `json:"splits"`
}

// UpdateExpenseInput is a partial expense patch. Nil fields are left
// unchanged; a non-nil Splits replaces the split set wholesale.
type UpdateExpenseInput struct {
	Description *string             `json:"description,omitempty"`
	Amount      *float64            `json:"amount,omitempty"`
	Currency    *string             `json:"currency,omitempty"`
	Category    *string             `json:"category,omitempty"`
	Date        *int64              `json:"date,omitempty"`
	ReceiptURL  *string             `json:"receiptUrl,omitempty"`
	SplitType   *models.SplitType   `json:"splitType,omitempty"`
	Splits      []ExpenseSplitInput `json:"splits,omitempty"`
}

// CreateSettlementInput carries an explicitly-created settlement.
type CreateSettlementInput struct {
	GroupID       string               `json:"groupId"`
	FromUserID    string               `json:"fromUserId"`
	ToUserID      string               `json:"toUserId"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod,omitempty"`
	Notes         string               `json:"notes,omitempty"`
}

// UpdateSettlementInput is a partial settlement patch. Status changes obey
// the lifecycle: only PENDING settlements may transition.
type UpdateSettlementInput struct {
	Amount        *float64                 `json:"amount,omitempty"`
	Currency      *string                  `json:"currency,omitempty"`
	Status        *models.SettlementStatus `json:"status,omitempty"`
	PaymentMethod *models.PaymentMethod    `json:"paymentMethod,omitempty"`
	Notes         *string                  `json:"notes,omitempty"`
}

// UpdateGroupSettingsInput is a partial settings patch.
type UpdateGroupSettingsInput struct {
	DefaultCurrency *string  `json:"defaultCurrency,omitempty"`
	AllowExpenses   *bool    `json:"allowExpenses,omitempty"`
	ExpenseLimit    *float64 `json:"expenseLimit,omitempty"`
	RequireApproval *bool    `json:"requireApproval,omitempty"`
	AutoSettle      *bool    `json:"autoSettle,omitempty"`
}
