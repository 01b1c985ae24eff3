// Package ledger holds the pure balance math: deriving pairwise debts from
// expense history, aggregating per-member summaries, and planning the minimal
// settlement set. Functions here take snapshots and have no side effects, so
// callers own persistence and any locking.
package ledger

import (
	"errors"
	"math"

	"github.com/splitpot/splitpot/internal/models"
)

// epsilon is the tolerance below which a balance or split discrepancy is
// treated as zero (0.01 currency units).
const epsilon = 0.01

// SettlementCurrency is the currency assigned to planned settlements and
// debt details. Single-currency for now.
const SettlementCurrency = "USD"

// ErrSplitMismatch is returned when an expense's splits do not sum to its
// total amount within the tolerance.
var ErrSplitMismatch = errors.New("split amounts must equal expense amount")

// ValidateSplits checks that the split amounts sum to the expense amount
// within epsilon. Percentage and shares fields are not validated; they are
// stored metadata only.
func ValidateSplits(amount float64, splits []models.ExpenseSplit) error {
	var total float64
	for _, s := range splits {
		total += s.Amount
	}
	if math.Abs(total-amount) > epsilon {
		return ErrSplitMismatch
	}
	return nil
}

// DebtMap is the directed debt ledger: DebtMap[ower][payer] = amount owed.
// Opposing edges are intentionally NOT netted against each other: A owing B
// $10 and B owing A $10 both remain in the map. Netting happens only at the
// per-member aggregate level (see BuildDebtSummaries).
type DebtMap map[string]map[string]float64

// BuildDebtMap derives the debt ledger from the full expense history of a
// group. For every expense, every split whose ower is not the payer
// accumulates debt[ower][payer] += split.Amount. Recomputed from scratch on
// every call; no caching.
func BuildDebtMap(expenses []*models.Expense) DebtMap {
	debts := make(DebtMap)
	for _, expense := range expenses {
		paidBy := expense.PaidBy
		for _, split := range expense.Splits {
			if split.UserID == paidBy {
				continue
			}
			if _, ok := debts[split.UserID]; !ok {
				debts[split.UserID] = make(map[string]float64)
			}
			debts[split.UserID][paidBy] += split.Amount
		}
	}
	return debts
}

// netAmounts computes each member's net balance: what others owe them minus
// what they owe. Positive means the member is owed money.
func netAmounts(debts DebtMap, memberIDs []string) map[string]float64 {
	nets := make(map[string]float64, len(memberIDs))
	for _, userID := range memberIDs {
		var net float64
		for _, amount := range debts[userID] {
			net -= amount
		}
		for otherID, otherDebts := range debts {
			if otherID != userID {
				net += otherDebts[userID]
			}
		}
		nets[userID] = net
	}
	return nets
}
