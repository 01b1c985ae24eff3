package models

// DefaultCurrency is the currency assigned to lazily-created group settings.
const DefaultCurrency = "USD"

// GroupSettings is the one-per-group policy record. It is lazily created
// with defaults on first read; only AutoSettle changes engine behavior (the
// other fields are stored policy consumed by clients).
type GroupSettings struct {
	// GroupID identifies the group; one settings row per group.
	GroupID string `json:"groupId"`

	// DefaultCurrency is the group's preferred currency code.
	DefaultCurrency string `json:"defaultCurrency"`

	// AllowExpenses controls whether the group accepts new expenses.
	AllowExpenses bool `json:"allowExpenses"`

	// ExpenseLimit is an optional ceiling per expense. Zero means no limit.
	ExpenseLimit float64 `json:"expenseLimit,omitempty"`

	// RequireApproval marks whether new expenses need admin approval.
	RequireApproval bool `json:"requireApproval"`

	// AutoSettle runs the settlement planner after every expense creation,
	// in the same transaction.
	AutoSettle bool `json:"autoSettle"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// DefaultGroupSettings returns the settings assigned on first read.
func DefaultGroupSettings(groupID string) *GroupSettings {
	return &GroupSettings{
		GroupID:         groupID,
		DefaultCurrency: DefaultCurrency,
		AllowExpenses:   true,
		RequireApproval: false,
		AutoSettle:      false,
	}
}
