package calculator

import (
	"testing"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

func threeMembers() []models.Member {
	return []models.Member{
		{ID: "A", Name: "Alice", IsMe: true},
		{ID: "B", Name: "Bob"},
		{ID: "C", Name: "Charlie"},
	}
}

// sharesFor splits an expense equally and returns share rows.
func sharesFor(t *testing.T, e models.Expense, members ...string) []models.Share {
	t.Helper()
	split, err := Split(e.Amount, members, models.SplitSpec{Mode: models.SplitEqual})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	out := make([]models.Share, len(split))
	for i, s := range split {
		out[i] = models.Share{ExpenseID: e.ID, MemberID: s.MemberID, Amount: s.Amount}
	}
	return out
}

func assertConserved(t *testing.T, b Balances) {
	t.Helper()
	for currency, byMember := range b {
		var sum money.Cents
		for _, bal := range byMember {
			sum += bal
		}
		if sum != 0 {
			t.Errorf("%s balances sum to %d, want 0", currency, sum)
		}
	}
}

func TestComputeBalances_ThreeWayScenario(t *testing.T) {
	members := threeMembers()
	e := models.Expense{ID: "e1", Amount: 10000, Currency: "THB", PayerMemberID: "A"}
	shares := sharesFor(t, e, "A", "B", "C")

	if got := []money.Cents{shares[0].Amount, shares[1].Amount, shares[2].Amount}; !equalCents(got, []money.Cents{3334, 3333, 3333}) {
		t.Fatalf("shares = %v, want [3334 3333 3333]", got)
	}

	b := ComputeBalances(members, []models.Expense{e}, shares, nil)
	thb := b["THB"]
	if thb["A"] != 6666 || thb["B"] != -3333 || thb["C"] != -3333 {
		t.Errorf("balances = %v, want A=6666 B=-3333 C=-3333", thb)
	}
	assertConserved(t, b)

	transfers := MinimalTransfers(thb)
	want := []Transfer{{From: "B", To: "A", Amount: 3333}, {From: "C", To: "A", Amount: 3333}}
	if len(transfers) != len(want) {
		t.Fatalf("transfers = %v, want %v", transfers, want)
	}
	for i := range want {
		if transfers[i] != want[i] {
			t.Errorf("transfer %d = %+v, want %+v", i, transfers[i], want[i])
		}
	}
}

func TestComputeBalances_Settlements(t *testing.T) {
	members := threeMembers()
	e := models.Expense{ID: "e1", Amount: 9000, Currency: "EUR", PayerMemberID: "A"}
	shares := sharesFor(t, e, "A", "B", "C")

	before := ComputeBalances(members, []models.Expense{e}, shares, nil)

	settlement := models.SettlementEvent{
		ID: "s1", Currency: "EUR", Amount: 3000, FromMemberID: "B", ToMemberID: "A",
		Status: models.SettlementActive,
	}
	after := ComputeBalances(members, []models.Expense{e}, shares, []models.SettlementEvent{settlement})
	assertConserved(t, after)
	if after["EUR"]["B"] != 0 {
		t.Errorf("B balance after settling = %d, want 0", after["EUR"]["B"])
	}
	if after["EUR"]["A"] != 3000 {
		t.Errorf("A balance after settling = %d, want 3000", after["EUR"]["A"])
	}

	settlement.Status = models.SettlementCancelled
	cancelled := ComputeBalances(members, []models.Expense{e}, shares, []models.SettlementEvent{settlement})
	for id, bal := range before["EUR"] {
		if cancelled["EUR"][id] != bal {
			t.Errorf("member %s: cancelled balance %d, want pre-settlement %d", id, cancelled["EUR"][id], bal)
		}
	}
}

func TestComputeBalances_MultiCurrency(t *testing.T) {
	members := threeMembers()
	e1 := models.Expense{ID: "e1", Amount: 3000, Currency: "EUR", PayerMemberID: "A"}
	e2 := models.Expense{ID: "e2", Amount: 100001, Currency: "THB", PayerMemberID: "C"}
	shares := append(sharesFor(t, e1, "A", "B"), sharesFor(t, e2, "A", "B", "C")...)

	b := ComputeBalances(members, []models.Expense{e1, e2}, shares, nil)
	assertConserved(t, b)

	if got := b.Currencies(); len(got) != 2 || got[0] != "EUR" || got[1] != "THB" {
		t.Errorf("Currencies() = %v", got)
	}
	if bal, ok := b["EUR"]["C"]; !ok || bal != 0 {
		t.Errorf("C should be present in EUR with zero, got %d (present=%v)", bal, ok)
	}
}

func TestSummarize(t *testing.T) {
	members := threeMembers()
	e := models.Expense{ID: "e1", Amount: 9000, Currency: "EUR", PayerMemberID: "B"}
	shares := sharesFor(t, e, "A", "B", "C")

	sum := Summarize(members, []models.Expense{e}, shares, nil)
	bob := sum["EUR"]["B"]
	if bob.TotalPaid != 9000 || bob.TotalOwed != 3000 || bob.NetBalance != 6000 {
		t.Errorf("Bob summary = %+v", bob)
	}
	alice := sum["EUR"]["A"]
	if alice.TotalPaid != 0 || alice.TotalOwed != 3000 || alice.NetBalance != -3000 {
		t.Errorf("Alice summary = %+v", alice)
	}
}
