package calculator

import (
	"testing"

	"github.com/mmynk/tripledger/internal/money"
)

func TestMinimalTransfers(t *testing.T) {
	tests := []struct {
		name          string
		balances      map[string]money.Cents
		wantTransfers int
	}{
		{
			name:          "already settled",
			balances:      map[string]money.Cents{"A": 0, "B": 0},
			wantTransfers: 0,
		},
		{
			name:          "one debtor one creditor",
			balances:      map[string]money.Cents{"A": 500, "B": -500},
			wantTransfers: 1,
		},
		{
			name:          "one debtor many creditors",
			balances:      map[string]money.Cents{"A": 300, "B": 200, "C": -500},
			wantTransfers: 2,
		},
		{
			name:          "chain",
			balances:      map[string]money.Cents{"A": 1000, "B": -250, "C": -250, "D": -499, "E": -1},
			wantTransfers: 4,
		},
		{
			name:          "mixed",
			balances:      map[string]money.Cents{"A": 1234, "B": 766, "C": -1000, "D": -1000},
			wantTransfers: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfers := MinimalTransfers(tt.balances)
			if len(transfers) != tt.wantTransfers {
				t.Errorf("got %d transfers %v, want %d", len(transfers), transfers, tt.wantTransfers)
			}
			for _, tr := range transfers {
				if tr.Amount <= 0 {
					t.Errorf("non-positive transfer %+v", tr)
				}
				if tr.From == tr.To {
					t.Errorf("self transfer %+v", tr)
				}
			}
			for id, bal := range ApplyTransfers(tt.balances, transfers) {
				if bal.Abs() > 1 {
					t.Errorf("member %s left with %d after transfers", id, bal)
				}
			}
		})
	}
}

func TestMinimalTransfers_Deterministic(t *testing.T) {
	balances := map[string]money.Cents{"A": 100, "B": 100, "C": -100, "D": -100}
	first := MinimalTransfers(balances)
	for i := 0; i < 20; i++ {
		again := MinimalTransfers(balances)
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d differs: %v vs %v", i, again, first)
			}
		}
	}
	// ties break by member ID
	if first[0] != (Transfer{From: "C", To: "A", Amount: 100}) {
		t.Errorf("first transfer = %+v, want C->A 100", first[0])
	}
}

func TestPlanSettlements(t *testing.T) {
	b := Balances{
		"EUR": {"A": 100, "B": -100},
		"THB": {"A": 0, "B": 0},
	}
	plan := PlanSettlements(b)
	if len(plan["EUR"]) != 1 {
		t.Errorf("EUR plan = %v", plan["EUR"])
	}
	if _, ok := plan["THB"]; ok {
		t.Errorf("settled currency should have no plan")
	}
}
