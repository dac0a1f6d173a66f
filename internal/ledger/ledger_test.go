package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/bridge"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/config"
	"github.com/mmynk/tripledger/internal/events"
	"github.com/mmynk/tripledger/internal/fx"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/internal/storage/sqlite"
)

const owner = "user-1"

type fixture struct {
	svc     *Service
	store   *sqlite.SQLiteStore
	events  *events.Recorder
	trip    *models.Trip
	wallet  *models.Wallet
	a, b, c *models.Member // a is me
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	rates, _ := config.ParseRates("EUR:THB=38.5")
	rec := &events.Recorder{}
	svc := New(store, fx.NewProvider(store, rates), rec)
	svc.now = func() time.Time { return time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC) }

	f := &fixture{svc: svc, store: store, events: rec}
	f.wallet, err = svc.CreateWallet(ctx, owner, "Cash", "THB", 100000)
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	f.trip, err = svc.CreateTrip(ctx, owner, "Bangkok", "thb", f.wallet.ID)
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	for _, p := range []struct {
		dst  **models.Member
		name string
		me   bool
	}{{&f.a, "A", true}, {&f.b, "B", false}, {&f.c, "C", false}} {
		m, err := svc.AddMember(ctx, owner, f.trip.ID, p.name, p.me, "")
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		*p.dst = m
	}
	return f
}

func (f *fixture) addExpense(t *testing.T, payer *models.Member, amount money.Cents) *ExpenseResult {
	t.Helper()
	res, err := f.svc.AddExpense(context.Background(), owner, ExpenseInput{
		TripID: f.trip.ID, Date: "2026-03-01", Label: "Dinner", Amount: amount, Currency: "THB",
		PayerMemberID: payer.ID,
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return res
}

func TestThreeMemberScenario(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res := f.addExpense(t, f.a, 10000)
	want := []money.Cents{3334, 3333, 3333}
	for i, sh := range res.Shares {
		if sh.Amount != want[i] {
			t.Errorf("share[%d] = %d, want %d", i, sh.Amount, want[i])
		}
	}
	if res.Bridge.Case != bridge.CaseAdvance {
		t.Errorf("bridge case = %v, want advance", res.Bridge.Case)
	}

	view, err := f.svc.Balances(ctx, owner, f.trip.ID, "")
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	thb := view.Balances["THB"]
	if thb[f.a.ID] != 6666 || thb[f.b.ID] != -3333 || thb[f.c.ID] != -3333 {
		t.Errorf("unexpected balances: %v", thb)
	}
	plan := view.Plan["THB"]
	if len(plan) != 2 {
		t.Fatalf("expected 2 transfers, got %+v", plan)
	}
	for _, tr := range plan {
		if tr.To != f.a.ID || tr.Amount != 3333 {
			t.Errorf("unexpected transfer %+v", tr)
		}
	}

	t.Run("settle and cancel", func(t *testing.T) {
		ev, err := f.svc.RecordSettlement(ctx, owner, SettlementInput{
			TripID: f.trip.ID, FromMemberID: f.b.ID, ToMemberID: f.a.ID, Currency: "THB", Amount: 3333,
		})
		if err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}
		view, _ := f.svc.Balances(ctx, owner, f.trip.ID, "")
		if got := view.Balances["THB"][f.b.ID]; got != 0 {
			t.Errorf("B balance after settlement = %d, want 0", got)
		}
		if got := view.Balances["THB"][f.a.ID]; got != 3333 {
			t.Errorf("A balance after settlement = %d, want 3333", got)
		}

		if _, err := f.svc.CancelSettlement(ctx, owner, ev.ID); err != nil {
			t.Fatalf("CancelSettlement failed: %v", err)
		}
		view, _ = f.svc.Balances(ctx, owner, f.trip.ID, "")
		if got := view.Balances["THB"][f.b.ID]; got != -3333 {
			t.Errorf("B balance after cancel = %d, want -3333", got)
		}

		active, _ := f.svc.ListSettlements(ctx, owner, f.trip.ID, false)
		all, _ := f.svc.ListSettlements(ctx, owner, f.trip.ID, true)
		if len(active) != 0 || len(all) != 1 {
			t.Errorf("active=%d all=%d, want 0 and 1", len(active), len(all))
		}
	})

	t.Run("unified into EUR", func(t *testing.T) {
		view, err := f.svc.Balances(ctx, owner, f.trip.ID, "eur")
		if err != nil {
			t.Fatalf("Balances failed: %v", err)
		}
		if view.Unified.Pivot != "EUR" || len(view.Unified.Dropped) != 0 {
			t.Errorf("unexpected unified view: %+v", view.Unified)
		}
		if got := view.Unified.Totals[f.a.ID]; got != money.Cents(6666).Convert(1/38.5) {
			t.Errorf("A unified = %d", got)
		}
	})
}

func TestFrontingScenario(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res := f.addExpense(t, f.a, 9000)
	if res.Bridge.Created != 2 {
		t.Fatalf("expected 2 bridged transactions, got %+v", res.Bridge)
	}
	txs, _ := f.svc.ListTransactions(ctx, owner, f.wallet.ID)
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}

	if err := f.svc.DeleteExpense(ctx, owner, res.Expense.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	txs, _ = f.svc.ListTransactions(ctx, owner, f.wallet.ID)
	if len(txs) != 0 {
		t.Errorf("expected no transactions after delete, got %d", len(txs))
	}
	w, _ := f.svc.GetWallet(ctx, owner, f.wallet.ID)
	if w.Balance != 100000 {
		t.Errorf("wallet balance = %d, want 100000", w.Balance)
	}
	if _, _, err := f.store.GetExpense(ctx, res.Expense.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected expense gone, got %v", err)
	}

	types := f.events.Types()
	if types[len(types)-1] != events.ExpenseDeleted {
		t.Errorf("last event = %v, want expense.deleted", types[len(types)-1])
	}
}

func TestResyncIsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res := f.addExpense(t, f.b, 9000)
	if res.Bridge.Case != bridge.CaseOwedShare || res.Bridge.Created != 1 {
		t.Fatalf("unexpected bridge result: %+v", res.Bridge)
	}
	again, err := f.svc.ResyncExpense(ctx, owner, res.Expense.ID)
	if err != nil {
		t.Fatalf("ResyncExpense failed: %v", err)
	}
	if again.Created != 0 {
		t.Errorf("resync created %d transactions", again.Created)
	}
}

func TestAddExpenseValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	base := ExpenseInput{
		TripID: f.trip.ID, Date: "2026-03-01", Label: "Taxi", Amount: 900, Currency: "THB",
		PayerMemberID: f.a.ID,
	}
	tests := []struct {
		name   string
		mutate func(in *ExpenseInput)
	}{
		{"zero amount", func(in *ExpenseInput) { in.Amount = 0 }},
		{"bad date", func(in *ExpenseInput) { in.Date = "01/03/2026" }},
		{"no label", func(in *ExpenseInput) { in.Label = "  " }},
		{"bad currency", func(in *ExpenseInput) { in.Currency = "baht" }},
		{"payer outside trip", func(in *ExpenseInput) { in.PayerMemberID = "ghost" }},
		{"member outside trip", func(in *ExpenseInput) { in.MemberIDs = []string{f.a.ID, "ghost"} }},
		{"amounts off by more than a cent", func(in *ExpenseInput) {
			in.MemberIDs = []string{f.a.ID, f.b.ID}
			in.Split = models.SplitSpec{Mode: models.SplitAmount, Amounts: map[string]money.Cents{f.a.ID: 400, f.b.ID: 400}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if _, err := f.svc.AddExpense(ctx, owner, in); !apperr.IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}

	expenses, _, _ := f.svc.ListExpenses(ctx, owner, f.trip.ID)
	if len(expenses) != 0 {
		t.Errorf("rejected input must not write, found %d expenses", len(expenses))
	}
}

func TestPercentSplitThroughService(t *testing.T) {
	f := setup(t)
	res, err := f.svc.AddExpense(context.Background(), owner, ExpenseInput{
		TripID: f.trip.ID, Date: "2026-03-01", Label: "Hotel", Amount: 10000, Currency: "THB",
		PayerMemberID: f.b.ID, MemberIDs: []string{f.a.ID, f.b.ID, f.c.ID},
		Split: models.SplitSpec{Mode: models.SplitPercent, Percents: map[string]decimal.Decimal{
			f.a.ID: decimal.NewFromInt(50), f.b.ID: decimal.NewFromInt(30), f.c.ID: decimal.NewFromInt(17),
		}},
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	var sum money.Cents
	for _, sh := range res.Shares {
		sum += sh.Amount
	}
	if sum != 10000 {
		t.Errorf("shares sum to %d, want 10000", sum)
	}
	if res.Expense.SplitMode != models.SplitPercent {
		t.Errorf("split mode = %q", res.Expense.SplitMode)
	}
}

func TestDeleteMember(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addExpense(t, f.a, 9000)

	if err := f.svc.DeleteMember(ctx, owner, f.b.ID); !apperr.IsReferential(err) {
		t.Fatalf("expected ReferentialError, got %v", err)
	}
	members, _ := f.svc.ListMembers(ctx, owner, f.trip.ID)
	if len(members) != 3 {
		t.Errorf("ledger changed: %d members", len(members))
	}

	d, err := f.svc.AddMember(ctx, owner, f.trip.ID, "D", false, "")
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := f.svc.DeleteMember(ctx, owner, d.ID); err != nil {
		t.Errorf("DeleteMember of unreferenced member failed: %v", err)
	}
	if _, err := f.svc.AddMember(ctx, owner, f.trip.ID, "a", false, ""); !apperr.IsValidation(err) {
		t.Errorf("duplicate name should be rejected, got %v", err)
	}
}

func TestMemberIdentityIsOwnerOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.svc.AddMember(ctx, owner, f.trip.ID, "D", false, "user-2"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	if err := f.svc.SetMe(ctx, "user-2", f.trip.ID, f.b.ID); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Errorf("SetMe by member: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := f.svc.AddMember(ctx, "user-2", f.trip.ID, "E", true, ""); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Errorf("AddMember(isMe) by member: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := f.svc.AddMember(ctx, "user-2", f.trip.ID, "E", false, "user-3"); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Errorf("AddMember(userID) by member: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := f.svc.AddMember(ctx, "user-2", f.trip.ID, "E", false, ""); err != nil {
		t.Errorf("plain AddMember by member failed: %v", err)
	}

	members, _ := f.svc.ListMembers(ctx, owner, f.trip.ID)
	for _, m := range members {
		if m.IsMe != (m.ID == f.a.ID) {
			t.Errorf("member %s IsMe = %v", m.Name, m.IsMe)
		}
	}
	if err := f.svc.SetMe(ctx, owner, f.trip.ID, f.b.ID); err != nil {
		t.Errorf("owner SetMe failed: %v", err)
	}
}

func TestLinkTransaction(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// No wallet on this trip, so nothing is bridged automatically.
	trip, _ := f.svc.CreateTrip(ctx, owner, "Side trip", "THB", "")
	a, _ := f.svc.AddMember(ctx, owner, trip.ID, "A", true, "")
	b, _ := f.svc.AddMember(ctx, owner, trip.ID, "B", false, "")
	res, err := f.svc.AddExpense(ctx, owner, ExpenseInput{
		TripID: trip.ID, Date: "2026-03-01", Label: "Boat", Amount: 1000, Currency: "THB", PayerMemberID: b.ID,
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if res.Bridge.Created != 0 {
		t.Fatalf("expected no bridged transactions, got %+v", res.Bridge)
	}

	id, err := f.store.ApplyTransaction(ctx, storageParams(f.wallet.ID, 500))
	if err != nil {
		t.Fatalf("ApplyTransaction failed: %v", err)
	}
	got, err := f.svc.LinkTransaction(ctx, owner, res.Expense.ID, id)
	if err != nil || got != bridge.CaseOwedShare {
		t.Fatalf("LinkTransaction = %v, %v", got, err)
	}
	link, _ := f.store.GetBudgetLink(ctx, res.Expense.ID, a.ID)
	if link == nil || link.TransactionID != id {
		t.Errorf("unexpected link %+v", link)
	}

	other, _ := f.svc.AddExpense(ctx, owner, ExpenseInput{
		TripID: trip.ID, Date: "2026-03-02", Label: "Bus", Amount: 1000, Currency: "THB", PayerMemberID: b.ID,
	})
	if _, err := f.svc.LinkTransaction(ctx, owner, other.Expense.ID, id); !apperr.IsLinkConflict(err) {
		t.Errorf("expected LinkConflictError, got %v", err)
	}
	if _, err := f.svc.LinkTransaction(ctx, "stranger", other.Expense.ID, id); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestMoveExpenseToTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	res := f.addExpense(t, f.b, 9000)

	target, _ := f.svc.CreateTrip(ctx, owner, "Chiang Mai", "THB", f.wallet.ID)
	me, _ := f.svc.AddMember(ctx, owner, target.ID, "Myself", true, "")
	b, _ := f.svc.AddMember(ctx, owner, target.ID, "b", false, "")

	t.Run("budget link on another wallet", func(t *testing.T) {
		other, err := f.svc.CreateWallet(ctx, owner, "Card", "THB", 0)
		if err != nil {
			t.Fatalf("CreateWallet failed: %v", err)
		}
		elsewhere, _ := f.svc.CreateTrip(ctx, owner, "Phuket", "THB", other.ID)
		for _, name := range []string{"A", "B", "C"} {
			if _, err := f.svc.AddMember(ctx, owner, elsewhere.ID, name, name == "A", ""); err != nil {
				t.Fatalf("AddMember failed: %v", err)
			}
		}

		err = f.svc.MoveExpenseToTrip(ctx, owner, res.Expense.ID, elsewhere.ID)
		if !apperr.IsReferential(err) {
			t.Fatalf("expected ReferentialError, got %v", err)
		}
		link, _ := f.store.GetBudgetLink(ctx, res.Expense.ID, f.a.ID)
		if link == nil || link.TripID != f.trip.ID {
			t.Errorf("budget link must stay with the source trip: %+v", link)
		}
	})

	t.Run("unmappable member", func(t *testing.T) {
		err := f.svc.MoveExpenseToTrip(ctx, owner, res.Expense.ID, target.ID)
		if !apperr.IsReferential(err) {
			t.Fatalf("expected ReferentialError, got %v", err)
		}
		stored, _, _ := f.store.GetExpense(ctx, res.Expense.ID)
		if stored.TripID != f.trip.ID {
			t.Errorf("failed move changed the trip")
		}
	})

	c, _ := f.svc.AddMember(ctx, owner, target.ID, "C", false, "")

	t.Run("moves with remapped members", func(t *testing.T) {
		if err := f.svc.MoveExpenseToTrip(ctx, owner, res.Expense.ID, target.ID); err != nil {
			t.Fatalf("MoveExpenseToTrip failed: %v", err)
		}
		stored, shares, _ := f.store.GetExpense(ctx, res.Expense.ID)
		if stored.TripID != target.ID || stored.PayerMemberID != b.ID {
			t.Errorf("unexpected moved expense %+v", stored)
		}
		if shares[0].MemberID != me.ID || shares[2].MemberID != c.ID {
			t.Errorf("unexpected moved shares %+v", shares)
		}
		link, _ := f.store.GetBudgetLink(ctx, res.Expense.ID, me.ID)
		if link == nil || link.TripID != target.ID {
			t.Errorf("budget link not moved: %+v", link)
		}
		view, _ := f.svc.Balances(ctx, owner, target.ID, "")
		if view.Balances["THB"][b.ID] != 6000 {
			t.Errorf("target balances = %v", view.Balances["THB"])
		}
	})

	t.Run("other owner", func(t *testing.T) {
		foreign, _ := f.svc.CreateTrip(ctx, "user-2", "Elsewhere", "THB", "")
		if err := f.svc.MoveExpenseToTrip(ctx, owner, res.Expense.ID, foreign.ID); !errors.Is(err, apperr.ErrPermissionDenied) {
			t.Errorf("expected ErrPermissionDenied, got %v", err)
		}
	})
}

func TestSettlementRecorder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addExpense(t, f.a, 9000)

	t.Run("companion transaction", func(t *testing.T) {
		ev, err := f.svc.RecordSettlement(ctx, owner, SettlementInput{
			TripID: f.trip.ID, FromMemberID: f.b.ID, ToMemberID: f.a.ID, Currency: "THB", Amount: 3000,
			ReflectInWallet: true, Note: " cash ",
		})
		if err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}
		if ev.CompanionTransactionID == "" || ev.Note != "cash" {
			t.Fatalf("unexpected event %+v", ev)
		}
		tx, _ := f.store.GetTransaction(ctx, ev.CompanionTransactionID)
		if tx.Type != models.TransactionIncome || !tx.Paid || !tx.ExcludeFromBudget || tx.DateStart != "2026-03-05" {
			t.Errorf("unexpected companion %+v", tx)
		}

		if _, err := f.svc.CancelSettlement(ctx, owner, ev.ID); err != nil {
			t.Fatalf("CancelSettlement failed: %v", err)
		}
		if _, err := f.store.GetTransaction(ctx, ev.CompanionTransactionID); err != nil {
			t.Errorf("companion must survive cancellation: %v", err)
		}
		if _, err := f.svc.CancelSettlement(ctx, owner, ev.ID); !apperr.IsValidation(err) {
			t.Errorf("second cancel should be a ValidationError, got %v", err)
		}
	})

	t.Run("companion without me is rejected", func(t *testing.T) {
		_, err := f.svc.RecordSettlement(ctx, owner, SettlementInput{
			TripID: f.trip.ID, FromMemberID: f.c.ID, ToMemberID: f.b.ID, Currency: "THB", Amount: 100,
			ReflectInWallet: true,
		})
		if !apperr.IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("companion in another currency is rejected", func(t *testing.T) {
		before, _ := f.store.GetWallet(ctx, f.wallet.ID)
		_, err := f.svc.RecordSettlement(ctx, owner, SettlementInput{
			TripID: f.trip.ID, FromMemberID: f.b.ID, ToMemberID: f.a.ID, Currency: "EUR", Amount: 500,
			ReflectInWallet: true,
		})
		if !apperr.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		after, _ := f.store.GetWallet(ctx, f.wallet.ID)
		if after.Balance != before.Balance {
			t.Errorf("wallet balance changed: %s -> %s", before.Balance, after.Balance)
		}
		settlements, _ := f.store.ListSettlements(ctx, f.trip.ID)
		for _, ev := range settlements {
			if ev.Currency == "EUR" {
				t.Errorf("settlement recorded despite rejected companion: %+v", ev)
			}
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, in := range []SettlementInput{
			{TripID: f.trip.ID, FromMemberID: f.b.ID, ToMemberID: f.a.ID, Currency: "THB", Amount: 0},
			{TripID: f.trip.ID, FromMemberID: f.b.ID, ToMemberID: f.b.ID, Currency: "THB", Amount: 10},
			{TripID: f.trip.ID, FromMemberID: "ghost", ToMemberID: f.a.ID, Currency: "THB", Amount: 10},
			{TripID: f.trip.ID, FromMemberID: f.b.ID, ToMemberID: f.a.ID, Currency: "", Amount: 10},
		} {
			if _, err := f.svc.RecordSettlement(ctx, owner, in); !apperr.IsValidation(err) {
				t.Errorf("RecordSettlement(%+v) = %v, want ValidationError", in, err)
			}
		}
	})

	t.Run("only owner or creator may cancel", func(t *testing.T) {
		// user-2 is linked to a member and can access the trip.
		if _, err := f.svc.AddMember(ctx, owner, f.trip.ID, "C2", false, "user-2"); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		ev, err := f.svc.RecordSettlement(ctx, "user-2", SettlementInput{
			TripID: f.trip.ID, FromMemberID: f.c.ID, ToMemberID: f.a.ID, Currency: "THB", Amount: 1000,
		})
		if err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}
		if ev.CreatedBy != "user-2" {
			t.Errorf("CreatedBy = %q", ev.CreatedBy)
		}
		if _, err := f.svc.CancelSettlement(ctx, "user-3", ev.ID); !errors.Is(err, apperr.ErrPermissionDenied) {
			t.Errorf("expected ErrPermissionDenied, got %v", err)
		}
		if _, err := f.svc.CancelSettlement(ctx, "user-2", ev.ID); err != nil {
			t.Errorf("creator cancel failed: %v", err)
		}
	})
}

func TestLoadIsFullReload(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addExpense(t, f.a, 9000)
	f.addExpense(t, f.c, 300)

	lc, err := f.svc.Load(ctx, owner, f.trip.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(lc.Members) != 3 || len(lc.Expenses) != 2 || len(lc.Shares) != 6 {
		t.Errorf("unexpected context: %d members, %d expenses, %d shares", len(lc.Members), len(lc.Expenses), len(lc.Shares))
	}
	for cur, byMember := range lc.Balances() {
		var sum money.Cents
		for _, v := range byMember {
			sum += v
		}
		if sum != 0 {
			t.Errorf("%s balances sum to %d", cur, sum)
		}
	}
	applied := calculator.ApplyTransfers(lc.Balances()["THB"], lc.Plan()["THB"])
	for id, v := range applied {
		if v.Abs() > 1 {
			t.Errorf("member %s left with %d after plan", id, v)
		}
	}

	if _, err := f.svc.Load(ctx, "stranger", f.trip.ID); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	f := setup(t)
	f.svc.publisher = failingPublisher{}
	if _, err := f.svc.AddMember(context.Background(), owner, f.trip.ID, "D", false, ""); err != nil {
		t.Errorf("AddMember failed because of the publisher: %v", err)
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, *events.Event) error {
	return errors.New("broker down")
}

func storageParams(walletID string, amount money.Cents) storage.TransactionParams {
	return storage.TransactionParams{
		WalletID: walletID, Type: models.TransactionExpense, Amount: amount, Currency: "THB",
		Category: "transport", Label: "Boat", DateStart: "2026-03-01", DateEnd: "2026-03-01",
	}
}
