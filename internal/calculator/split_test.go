package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

func sumShares(shares []MemberShare) money.Cents {
	var total money.Cents
	for _, s := range shares {
		total += s.Amount
	}
	return total
}

func amountsOf(shares []MemberShare) []money.Cents {
	out := make([]money.Cents, len(shares))
	for i, s := range shares {
		out[i] = s.Amount
	}
	return out
}

func equalCents(a, b []money.Cents) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSplit(t *testing.T) {
	pct := decimal.RequireFromString

	tests := []struct {
		name    string
		total   money.Cents
		members []string
		spec    models.SplitSpec
		want    []money.Cents
		wantErr bool
	}{
		{
			name:    "equal split gives leftover cents to first members",
			total:   10000,
			members: []string{"A", "B", "C"},
			spec:    models.SplitSpec{Mode: models.SplitEqual},
			want:    []money.Cents{3334, 3333, 3333},
		},
		{
			name:    "equal split with two leftover cents",
			total:   1001,
			members: []string{"A", "B", "C"},
			spec:    models.SplitSpec{Mode: models.SplitEqual},
			want:    []money.Cents{334, 334, 333},
		},
		{
			name:    "empty mode defaults to equal",
			total:   500,
			members: []string{"A", "B"},
			want:    []money.Cents{250, 250},
		},
		{
			name:    "percent split exact",
			total:   10000,
			members: []string{"A", "B"},
			spec: models.SplitSpec{Mode: models.SplitPercent, Percents: map[string]decimal.Decimal{
				"A": pct("70"), "B": pct("30"),
			}},
			want: []money.Cents{7000, 3000},
		},
		{
			name:    "percent split largest remainder",
			total:   100,
			members: []string{"A", "B", "C"},
			spec: models.SplitSpec{Mode: models.SplitPercent, Percents: map[string]decimal.Decimal{
				"A": pct("33.5"), "B": pct("33.4"), "C": pct("33.1"),
			}},
			// exact: 33.5, 33.4, 33.1 -> floors 33,33,33, one cent to A
			want: []money.Cents{34, 33, 33},
		},
		{
			name:    "missing percents default to equal parts",
			total:   900,
			members: []string{"A", "B", "C"},
			spec:    models.SplitSpec{Mode: models.SplitPercent},
			want:    []money.Cents{300, 300, 300},
		},
		{
			name:    "percent split rescales when sum is 97",
			total:   10000,
			members: []string{"A", "B", "C"},
			spec: models.SplitSpec{Mode: models.SplitPercent, Percents: map[string]decimal.Decimal{
				"A": pct("50"), "B": pct("30"), "C": pct("17"),
			}},
			// 5154.639.., 3092.783.., 1752.577.. -> floors sum 9998, remainders .639 .783 .577
			want: []money.Cents{5155, 3093, 1752},
		},
		{
			name:    "percent zero sum",
			total:   100,
			members: []string{"A"},
			spec: models.SplitSpec{Mode: models.SplitPercent, Percents: map[string]decimal.Decimal{
				"A": pct("0"),
			}},
			wantErr: true,
		},
		{
			name:    "negative percent",
			total:   100,
			members: []string{"A", "B"},
			spec: models.SplitSpec{Mode: models.SplitPercent, Percents: map[string]decimal.Decimal{
				"A": pct("-10"), "B": pct("110"),
			}},
			wantErr: true,
		},
		{
			name:    "amount split exact",
			total:   9000,
			members: []string{"A", "B"},
			spec: models.SplitSpec{Mode: models.SplitAmount, Amounts: map[string]money.Cents{
				"A": 6000, "B": 3000,
			}},
			want: []money.Cents{6000, 3000},
		},
		{
			name:    "amount split absorbs one cent residual in last member",
			total:   1000,
			members: []string{"A", "B", "C"},
			spec: models.SplitSpec{Mode: models.SplitAmount, Amounts: map[string]money.Cents{
				"A": 333, "B": 333, "C": 333,
			}},
			want: []money.Cents{333, 333, 334},
		},
		{
			name:    "amount split off by more than a cent",
			total:   1000,
			members: []string{"A", "B"},
			spec: models.SplitSpec{Mode: models.SplitAmount, Amounts: map[string]money.Cents{
				"A": 500, "B": 498,
			}},
			wantErr: true,
		},
		{
			name:    "amount split negative",
			total:   100,
			members: []string{"A", "B"},
			spec: models.SplitSpec{Mode: models.SplitAmount, Amounts: map[string]money.Cents{
				"A": 200, "B": -100,
			}},
			wantErr: true,
		},
		{
			name:    "amount for non member",
			total:   100,
			members: []string{"A"},
			spec: models.SplitSpec{Mode: models.SplitAmount, Amounts: map[string]money.Cents{
				"A": 100, "Z": 0,
			}},
			wantErr: true,
		},
		{name: "zero total", total: 0, members: []string{"A"}, wantErr: true},
		{name: "negative total", total: -5, members: []string{"A"}, wantErr: true},
		{name: "no members", total: 100, members: nil, wantErr: true},
		{name: "duplicate members", total: 100, members: []string{"A", "A"}, wantErr: true},
		{name: "unknown mode", total: 100, members: []string{"A"}, spec: models.SplitSpec{Mode: "weird"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Split(tt.total, tt.members, tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Split() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !apperr.IsValidation(err) {
					t.Errorf("expected ValidationError, got %T: %v", err, err)
				}
				return
			}
			if got := amountsOf(shares); !equalCents(got, tt.want) {
				t.Errorf("Split() = %v, want %v", got, tt.want)
			}
			if sum := sumShares(shares); sum != tt.total {
				t.Errorf("shares sum to %d, want %d", sum, tt.total)
			}
			for i, s := range shares {
				if s.MemberID != tt.members[i] {
					t.Errorf("share %d member = %s, want %s", i, s.MemberID, tt.members[i])
				}
			}
		})
	}
}

func TestSplitEqual_Properties(t *testing.T) {
	for total := money.Cents(1); total <= 2000; total += 37 {
		for n := 1; n <= 7; n++ {
			members := make([]string, n)
			for i := range members {
				members[i] = string(rune('A' + i))
			}
			shares, err := Split(total, members, models.SplitSpec{Mode: models.SplitEqual})
			if err != nil {
				t.Fatalf("Split(%d, %d) failed: %v", total, n, err)
			}
			if sum := sumShares(shares); sum != total {
				t.Fatalf("Split(%d, %d) sums to %d", total, n, sum)
			}
			lo, hi := shares[0].Amount, shares[0].Amount
			for _, s := range shares {
				lo = min(lo, s.Amount)
				hi = max(hi, s.Amount)
			}
			if hi-lo > 1 {
				t.Fatalf("Split(%d, %d) spread %d > 1 cent", total, n, hi-lo)
			}
		}
	}
}

func TestSplitPercent_AlwaysExact(t *testing.T) {
	percents := map[string]decimal.Decimal{
		"A": decimal.RequireFromString("12.5"),
		"B": decimal.RequireFromString("40.25"),
		"C": decimal.RequireFromString("44.25"),
	}
	for total := money.Cents(1); total <= 5000; total += 113 {
		shares, err := Split(total, []string{"A", "B", "C"}, models.SplitSpec{Mode: models.SplitPercent, Percents: percents})
		if err != nil {
			t.Fatalf("Split(%d) failed: %v", total, err)
		}
		if sum := sumShares(shares); sum != total {
			t.Fatalf("Split(%d) sums to %d", total, sum)
		}
	}
}
