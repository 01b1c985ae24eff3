package ledger

import (
	"math"
	"sort"
)

// ProposedSettlement is one planned payment: FromUserID (debtor) pays
// ToUserID (creditor). Amount is strictly positive.
type ProposedSettlement struct {
	FromUserID string
	ToUserID   string
	Amount     float64
	Currency   string
}

// PlanSettlements computes the fewest payment transactions that bring every
// member's net balance to within epsilon of zero, given a fixed debt
// snapshot. It produces at most len(memberIDs)-1 proposals.
//
// Greedy algorithm: partition members into creditors (net > epsilon, sorted
// descending) and debtors (net < -epsilon, sorted ascending, most negative
// first), then walk both lists with two cursors, settling
// min(credit, |debt|) at each step.
//
// The function is pure; persisting the proposals is the caller's job. A
// caller that persists them on every invocation is not idempotent: planning
// twice against the same unresolved ledger doubles the settlement set.
func PlanSettlements(debts DebtMap, memberIDs []string) []ProposedSettlement {
	nets := netAmounts(debts, memberIDs)

	type balance struct {
		userID string
		net    float64
	}

	var creditors, debtors []balance
	for _, userID := range memberIDs {
		net := nets[userID]
		switch {
		case net > epsilon:
			creditors = append(creditors, balance{userID, net})
		case net < -epsilon:
			debtors = append(debtors, balance{userID, net})
		}
	}
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].net > creditors[j].net
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].net < debtors[j].net
	})

	var proposals []ProposedSettlement
	i, j := 0, 0

	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(creditors[j].net, math.Abs(debtors[i].net))

		if amount > epsilon {
			proposals = append(proposals, ProposedSettlement{
				FromUserID: debtors[i].userID,
				ToUserID:   creditors[j].userID,
				Amount:     amount,
				Currency:   SettlementCurrency,
			})
		}

		creditors[j].net -= amount
		debtors[i].net += amount

		if creditors[j].net < epsilon {
			j++
		}
		if debtors[i].net > -epsilon {
			i++
		}
	}

	return proposals
}
