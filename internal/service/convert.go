package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
	"github.com/mmynk/tripledger/pkg/tripv1"
)

func toUser(u *models.User) tripv1.User {
	return tripv1.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toTrip(t *models.Trip) tripv1.Trip {
	return tripv1.Trip{
		ID:           t.ID,
		OwnerID:      t.OwnerID,
		Name:         t.Name,
		BaseCurrency: t.BaseCurrency,
		WalletID:     t.WalletID,
		CreatedAt:    t.CreatedAt,
	}
}

func toMembers(members []models.Member) []tripv1.Member {
	out := make([]tripv1.Member, len(members))
	for i, m := range members {
		out[i] = toMember(&m)
	}
	return out
}

func toMember(m *models.Member) tripv1.Member {
	return tripv1.Member{
		ID:     m.ID,
		TripID: m.TripID,
		Name:   m.Name,
		IsMe:   m.IsMe,
		UserID: m.UserID,
	}
}

func toExpense(e *models.Expense, shares []models.Share) tripv1.Expense {
	out := tripv1.Expense{
		ID:                  e.ID,
		TripID:              e.TripID,
		Date:                e.Date,
		Label:               e.Label,
		Amount:              e.Amount.Decimal(),
		Currency:            e.Currency,
		PayerMemberID:       e.PayerMemberID,
		SplitMode:           string(e.SplitMode),
		LinkedTransactionID: e.LinkedTransactionID,
		Shares:              []tripv1.Share{},
		CreatedAt:           e.CreatedAt,
	}
	for _, s := range shares {
		if s.ExpenseID != e.ID {
			continue
		}
		out.Shares = append(out.Shares, tripv1.Share{MemberID: s.MemberID, Amount: s.Amount.Decimal()})
	}
	return out
}

func toSettlement(e *models.SettlementEvent) tripv1.Settlement {
	return tripv1.Settlement{
		ID:                     e.ID,
		TripID:                 e.TripID,
		FromMemberID:           e.FromMemberID,
		ToMemberID:             e.ToMemberID,
		Currency:               e.Currency,
		Amount:                 e.Amount.Decimal(),
		Note:                   e.Note,
		Status:                 string(e.Status),
		CreatedBy:              e.CreatedBy,
		CreatedAt:              e.CreatedAt,
		CancelledBy:            e.CancelledBy,
		CancelledAt:            e.CancelledAt,
		CompanionTransactionID: e.CompanionTransactionID,
	}
}

func toWallet(w *models.Wallet) tripv1.Wallet {
	return tripv1.Wallet{
		ID:        w.ID,
		Name:      w.Name,
		Currency:  w.Currency,
		Balance:   w.Balance.Decimal(),
		CreatedAt: w.CreatedAt,
	}
}

func toTransaction(t *models.PersonalTransaction) tripv1.Transaction {
	return tripv1.Transaction{
		ID:                t.ID,
		WalletID:          t.WalletID,
		Type:              string(t.Type),
		Amount:            t.Amount.Decimal(),
		Currency:          t.Currency,
		Category:          t.Category,
		Label:             t.Label,
		DateStart:         t.DateStart,
		DateEnd:           t.DateEnd,
		Paid:              t.Paid,
		ExcludeFromBudget: t.ExcludeFromBudget,
	}
}

func toRate(r models.FXRate) tripv1.Rate {
	return tripv1.Rate{Base: r.Base, Quote: r.Quote, Rate: r.Rate, UpdatedAt: r.UpdatedAt}
}

// cents converts a wire amount, rejecting sub-cent and out-of-range values.
func cents(field string, d decimal.Decimal) (money.Cents, error) {
	c, err := money.Exact(d)
	if err != nil {
		return 0, apperr.Validation(field, "%v", err)
	}
	return c, nil
}

func toCents(field string, m map[string]decimal.Decimal) (map[string]money.Cents, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]money.Cents, len(m))
	for k, v := range m {
		c, err := cents(field, v)
		if err != nil {
			return nil, err
		}
		out[k] = c
	}
	return out, nil
}

// toBalances lists currencies in sorted order and members in trip order.
func toBalances(view *ledger.BalancesView) *tripv1.GetBalancesResponse {
	resp := &tripv1.GetBalancesResponse{
		Members:    toMembers(view.Members),
		Currencies: []tripv1.CurrencyBalances{},
		Unified:    toUnified(view.Unified, view.Members),
	}
	for _, currency := range view.Balances.Currencies() {
		cb := tripv1.CurrencyBalances{
			Currency:  currency,
			Members:   make([]tripv1.MemberBalance, 0, len(view.Members)),
			Transfers: []tripv1.Transfer{},
		}
		summaries := view.Summaries[currency]
		for _, m := range view.Members {
			mb := tripv1.MemberBalance{MemberID: m.ID}
			if s, ok := summaries[m.ID]; ok {
				mb.TotalPaid = s.TotalPaid.Decimal()
				mb.TotalOwed = s.TotalOwed.Decimal()
				mb.Net = s.NetBalance.Decimal()
			}
			cb.Members = append(cb.Members, mb)
		}
		for _, tr := range view.Plan[currency] {
			cb.Transfers = append(cb.Transfers, tripv1.Transfer{
				FromMemberID: tr.From,
				ToMemberID:   tr.To,
				Amount:       tr.Amount.Decimal(),
			})
		}
		resp.Currencies = append(resp.Currencies, cb)
	}
	return resp
}

func toUnified(u calculator.Unified, members []models.Member) tripv1.UnifiedBalances {
	out := tripv1.UnifiedBalances{
		Pivot:   u.Pivot,
		Totals:  make([]tripv1.MemberTotal, 0, len(members)),
		Dropped: u.Dropped,
	}
	for _, m := range members {
		out.Totals = append(out.Totals, tripv1.MemberTotal{MemberID: m.ID, Amount: u.Totals[m.ID].Decimal()})
	}
	return out
}
