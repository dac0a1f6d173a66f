package calculator

import (
	"sort"

	"github.com/mmynk/tripledger/internal/money"
)

// Transfer is a proposed payment that reduces outstanding balances.
type Transfer struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount money.Cents
}

type party struct {
	memberID string
	amount   money.Cents // magnitude, always positive
}

// MinimalTransfers proposes transfers that zero out one currency's balances.
//
// Creditors (balance > 0) and debtors (balance < 0) are sorted by magnitude,
// largest first, ties broken by member ID. The largest debtor pays the largest
// creditor min(debt, credit); a side is dropped once it reaches zero. This is
// a greedy heuristic and does not always reach the theoretical minimum number
// of transfers.
func MinimalTransfers(balances map[string]money.Cents) []Transfer {
	var creditors, debtors []party
	for id, bal := range balances {
		switch {
		case bal > 0:
			creditors = append(creditors, party{memberID: id, amount: bal})
		case bal < 0:
			debtors = append(debtors, party{memberID: id, amount: -bal})
		}
	}
	byMagnitude := func(list []party) {
		sort.Slice(list, func(i, j int) bool {
			if list[i].amount != list[j].amount {
				return list[i].amount > list[j].amount
			}
			return list[i].memberID < list[j].memberID
		})
	}
	byMagnitude(creditors)
	byMagnitude(debtors)

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]

		amount := d.amount
		if c.amount < amount {
			amount = c.amount
		}
		transfers = append(transfers, Transfer{From: d.memberID, To: c.memberID, Amount: amount})

		d.amount -= amount
		c.amount -= amount
		if d.amount <= 0 {
			i++
		}
		if c.amount <= 0 {
			j++
		}
	}
	return transfers
}

// PlanSettlements runs MinimalTransfers for every currency.
func PlanSettlements(b Balances) map[string][]Transfer {
	plan := make(map[string][]Transfer, len(b))
	for currency, byMember := range b {
		if transfers := MinimalTransfers(byMember); len(transfers) > 0 {
			plan[currency] = transfers
		}
	}
	return plan
}

// ApplyTransfers returns a copy of balances with the transfers applied as if
// they had been recorded as settlements.
func ApplyTransfers(balances map[string]money.Cents, transfers []Transfer) map[string]money.Cents {
	out := make(map[string]money.Cents, len(balances))
	for id, bal := range balances {
		out[id] = bal
	}
	for _, t := range transfers {
		out[t.From] += t.Amount
		out[t.To] -= t.Amount
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
