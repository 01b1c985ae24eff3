package ledger

import (
	"math"
	"testing"

	"github.com/splitpot/splitpot/internal/models"
)

func TestPlanSettlements(t *testing.T) {
	members := []string{"alice", "bob", "carol"}

	tests := []struct {
		name     string
		expenses []*models.Expense
		validate func(t *testing.T, proposals []ProposedSettlement)
	}{
		{
			name: "one payer, two equal debtors",
			// Alice pays $30 split equally: exactly two settlements,
			// bob->alice $10 and carol->alice $10.
			expenses: []*models.Expense{
				expense("alice", 30, splits(map[string]float64{"alice": 10, "bob": 10, "carol": 10})),
			},
			validate: func(t *testing.T, proposals []ProposedSettlement) {
				if len(proposals) != 2 {
					t.Fatalf("expected 2 proposals, got %d: %+v", len(proposals), proposals)
				}
				for _, p := range proposals {
					if p.ToUserID != "alice" {
						t.Errorf("proposal %+v should pay alice", p)
					}
					if math.Abs(p.Amount-10) > 0.01 {
						t.Errorf("proposal %+v amount, want 10", p)
					}
					if p.Currency != "USD" {
						t.Errorf("proposal %+v currency, want USD", p)
					}
				}
			},
		},
		{
			name: "uneven nets need a follow-up settlement",
			// Nets: alice +20, bob -2.50, carol -17.50. The greedy pass
			// matches carol against alice first (carol's debt is larger),
			// leaving alice with $2.50 credit covered by bob.
			expenses: []*models.Expense{
				expense("alice", 30, splits(map[string]float64{"alice": 10, "bob": 10, "carol": 10})),
				expense("bob", 15, splits(map[string]float64{"bob": 7.50, "carol": 7.50})),
			},
			validate: func(t *testing.T, proposals []ProposedSettlement) {
				if len(proposals) != 2 {
					t.Fatalf("expected 2 proposals, got %d: %+v", len(proposals), proposals)
				}
				first, second := proposals[0], proposals[1]
				if first.FromUserID != "carol" || first.ToUserID != "alice" || math.Abs(first.Amount-17.50) > 0.01 {
					t.Errorf("first proposal = %+v, want carol->alice 17.50", first)
				}
				if second.FromUserID != "bob" || second.ToUserID != "alice" || math.Abs(second.Amount-2.50) > 0.01 {
					t.Errorf("second proposal = %+v, want bob->alice 2.50", second)
				}
			},
		},
		{
			name: "balanced group needs no settlements",
			expenses: []*models.Expense{
				expense("alice", 20, splits(map[string]float64{"alice": 10, "bob": 10})),
				expense("bob", 20, splits(map[string]float64{"alice": 10, "bob": 10})),
			},
			validate: func(t *testing.T, proposals []ProposedSettlement) {
				if len(proposals) != 0 {
					t.Errorf("expected no proposals, got %+v", proposals)
				}
			},
		},
		{
			name:     "empty history",
			expenses: nil,
			validate: func(t *testing.T, proposals []ProposedSettlement) {
				if len(proposals) != 0 {
					t.Errorf("expected no proposals, got %+v", proposals)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debts := BuildDebtMap(tt.expenses)
			tt.validate(t, PlanSettlements(debts, members))
		})
	}
}

func TestPlanSettlements_Properties(t *testing.T) {
	members := []string{"alice", "bob", "carol", "dave", "erin"}
	expenses := []*models.Expense{
		expense("alice", 100, splits(map[string]float64{"alice": 20, "bob": 20, "carol": 20, "dave": 20, "erin": 20})),
		expense("bob", 45, splits(map[string]float64{"bob": 15, "carol": 15, "dave": 15})),
		expense("carol", 12.30, splits(map[string]float64{"carol": 6.15, "erin": 6.15})),
		expense("dave", 7.77, splits(map[string]float64{"alice": 7.77})),
	}
	debts := BuildDebtMap(expenses)
	proposals := PlanSettlements(debts, members)

	t.Run("at most members-1 settlements", func(t *testing.T) {
		if len(proposals) > len(members)-1 {
			t.Errorf("got %d proposals for %d members", len(proposals), len(members))
		}
	})

	t.Run("amounts are strictly positive", func(t *testing.T) {
		for _, p := range proposals {
			if p.Amount <= 0.01 {
				t.Errorf("proposal %+v amount not above tolerance", p)
			}
		}
	})

	t.Run("applying all proposals zeroes every net balance", func(t *testing.T) {
		nets := netAmounts(debts, members)
		for _, p := range proposals {
			nets[p.FromUserID] += p.Amount
			nets[p.ToUserID] -= p.Amount
		}
		for userID, net := range nets {
			if math.Abs(net) > 0.01 {
				t.Errorf("%s residual net = %v, want |net| <= 0.01", userID, net)
			}
		}
	})
}
