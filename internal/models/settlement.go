package models

// SettlementStatus is the lifecycle state of a settlement.
// PENDING is the only non-terminal state: it may move to PAID or CANCELLED,
// and both of those are terminal.
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "PENDING"
	SettlementPaid      SettlementStatus = "PAID"
	SettlementCancelled SettlementStatus = "CANCELLED"
)

// PaymentMethod records how a settlement was (or will be) paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentPaypal       PaymentMethod = "PAYPAL"
	PaymentVenmo        PaymentMethod = "VENMO"
	PaymentCashApp      PaymentMethod = "CASH_APP"
	PaymentOther        PaymentMethod = "OTHER"
)

// Settlement represents a directed payment promise between group members:
// FromUserID (the debtor) pays ToUserID (the creditor). Amount is always
// strictly positive.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"groupId"`

	// FromUserID is the debtor settling up.
	FromUserID string `json:"fromUserId"`

	// ToUserID is the creditor being paid.
	ToUserID string `json:"toUserId"`

	// Amount is the payment amount (strictly positive).
	Amount float64 `json:"amount"`

	// Currency is the ISO currency code of the payment.
	Currency string `json:"currency"`

	// Status is the lifecycle state.
	Status SettlementStatus `json:"status"`

	// PaymentMethod is set when the settlement is marked paid, or earlier
	// if supplied on creation. Empty means unset.
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`

	// Notes is an optional free-form note.
	Notes string `json:"notes,omitempty"`

	// PaidAt is the Unix timestamp when the settlement was marked paid.
	// Zero until then.
	PaidAt int64 `json:"paidAt,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"createdAt"`
}
