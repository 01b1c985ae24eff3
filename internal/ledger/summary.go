package ledger

import "sort"

// DebtDetail is one outstanding debt from a member to a single creditor.
type DebtDetail struct {
	ToUserID string  `json:"toUserId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// DebtSummary is one member's aggregate position in the group.
type DebtSummary struct {
	UserID      string       `json:"userId"`
	TotalOwed   float64      `json:"totalOwed"`   // sum of this member's outgoing debts
	TotalOwedTo float64      `json:"totalOwedTo"` // sum of debts terminating at this member
	NetAmount   float64      `json:"netAmount"`   // TotalOwedTo - TotalOwed
	Debts       []DebtDetail `json:"debts"`
}

// BuildDebtSummaries aggregates the debt ledger into one summary per member,
// in the order memberIDs are given (membership enumeration order). Debt
// details are sorted by creditor ID so output is deterministic.
func BuildDebtSummaries(debts DebtMap, memberIDs []string) []DebtSummary {
	summaries := make([]DebtSummary, 0, len(memberIDs))

	for _, userID := range memberIDs {
		var totalOwed, totalOwedTo float64
		var details []DebtDetail

		for toUserID, amount := range debts[userID] {
			totalOwed += amount
			details = append(details, DebtDetail{
				ToUserID: toUserID,
				Amount:   amount,
				Currency: SettlementCurrency,
			})
		}
		sort.Slice(details, func(i, j int) bool {
			return details[i].ToUserID < details[j].ToUserID
		})

		for otherID, otherDebts := range debts {
			if otherID != userID {
				totalOwedTo += otherDebts[userID]
			}
		}

		summaries = append(summaries, DebtSummary{
			UserID:      userID,
			TotalOwed:   totalOwed,
			TotalOwedTo: totalOwedTo,
			NetAmount:   totalOwedTo - totalOwed,
			Debts:       details,
		})
	}

	return summaries
}
