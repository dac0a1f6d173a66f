package calculator

import (
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

// Balances holds net balances per currency, then per member ID.
// Positive = owed money, negative = owes money.
type Balances map[string]map[string]money.Cents

// MemberBalance is the paid/owed breakdown for one member in one currency.
type MemberBalance struct {
	MemberID   string
	Currency   string
	TotalPaid  money.Cents // Expenses paid plus settlements sent
	TotalOwed  money.Cents // Shares consumed plus settlements received
	NetBalance money.Cents // TotalPaid - TotalOwed
}

// ComputeBalances folds expenses, shares and active settlement events into
// net balances.
//
// Algorithm:
//   - each expense credits its payer +amount in the expense currency
//   - each share debits its member -share in the same currency
//   - each active settlement credits the sender +amount and debits the receiver
//
// Every member is present with a zero balance in every currency that appears.
// For every currency the balances sum to zero as long as shares sum to their
// expense amount.
func ComputeBalances(members []models.Member, expenses []models.Expense, shares []models.Share, settlements []models.SettlementEvent) Balances {
	out := make(Balances)
	add := func(currency, memberID string, delta money.Cents) {
		byMember, ok := out[currency]
		if !ok {
			byMember = make(map[string]money.Cents, len(members))
			for _, m := range members {
				byMember[m.ID] = 0
			}
			out[currency] = byMember
		}
		byMember[memberID] += delta
	}

	currencyOf := make(map[string]string, len(expenses))
	for _, e := range expenses {
		currencyOf[e.ID] = e.Currency
		add(e.Currency, e.PayerMemberID, e.Amount)
	}
	for _, s := range shares {
		currency, ok := currencyOf[s.ExpenseID]
		if !ok {
			continue // share of an expense outside this fold
		}
		add(currency, s.MemberID, -s.Amount)
	}
	for _, ev := range settlements {
		if !ev.Active() {
			continue
		}
		add(ev.Currency, ev.FromMemberID, ev.Amount)
		add(ev.Currency, ev.ToMemberID, -ev.Amount)
	}
	return out
}

// Summarize returns the paid/owed breakdown per currency and member.
func Summarize(members []models.Member, expenses []models.Expense, shares []models.Share, settlements []models.SettlementEvent) map[string]map[string]*MemberBalance {
	out := make(map[string]map[string]*MemberBalance)
	get := func(currency, memberID string) *MemberBalance {
		byMember, ok := out[currency]
		if !ok {
			byMember = make(map[string]*MemberBalance, len(members))
			for _, m := range members {
				byMember[m.ID] = &MemberBalance{MemberID: m.ID, Currency: currency}
			}
			out[currency] = byMember
		}
		bal, ok := byMember[memberID]
		if !ok {
			bal = &MemberBalance{MemberID: memberID, Currency: currency}
			byMember[memberID] = bal
		}
		return bal
	}

	currencyOf := make(map[string]string, len(expenses))
	for _, e := range expenses {
		currencyOf[e.ID] = e.Currency
		get(e.Currency, e.PayerMemberID).TotalPaid += e.Amount
	}
	for _, s := range shares {
		if currency, ok := currencyOf[s.ExpenseID]; ok {
			get(currency, s.MemberID).TotalOwed += s.Amount
		}
	}
	for _, ev := range settlements {
		if !ev.Active() {
			continue
		}
		get(ev.Currency, ev.FromMemberID).TotalPaid += ev.Amount
		get(ev.Currency, ev.ToMemberID).TotalOwed += ev.Amount
	}

	for _, byMember := range out {
		for _, bal := range byMember {
			bal.NetBalance = bal.TotalPaid - bal.TotalOwed
		}
	}
	return out
}

// Currencies returns the currencies present, sorted.
func (b Balances) Currencies() []string {
	return sortedKeys(b)
}
