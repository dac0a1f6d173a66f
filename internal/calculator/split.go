package calculator

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

// MemberShare is one member's calculated portion of a total.
type MemberShare struct {
	MemberID string
	Amount   money.Cents
}

var (
	hundred          = decimal.NewFromInt(100)
	percentTolerance = decimal.New(1, -2)
)

// Split divides total among memberIDs according to spec. Shares come back in
// the order of memberIDs and always sum to total exactly.
//
// Modes:
//   - equal: floor(total/n) each, the first total mod n members get one cent more
//   - percent: largest-remainder allocation over the given percents, rescaled
//     when they do not sum to 100
//   - amount: explicit amounts; a one-cent residual is absorbed by the last member
func Split(total money.Cents, memberIDs []string, spec models.SplitSpec) ([]MemberShare, error) {
	if total <= 0 {
		return nil, apperr.Validation("amount", "must be positive, got %s", total)
	}
	if len(memberIDs) == 0 {
		return nil, apperr.Validation("members", "at least one member is required")
	}
	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if id == "" {
			return nil, apperr.Validation("members", "empty member id")
		}
		if seen[id] {
			return nil, apperr.Validation("members", "member %s listed twice", id)
		}
		seen[id] = true
	}

	var (
		amounts []money.Cents
		err     error
	)
	switch spec.Mode {
	case models.SplitEqual, "":
		amounts = splitEqual(total, len(memberIDs))
	case models.SplitPercent:
		for id := range spec.Percents {
			if !seen[id] {
				return nil, apperr.Validation("percents", "member %s is not part of the split", id)
			}
		}
		amounts, err = splitPercent(total, memberIDs, spec.Percents)
	case models.SplitAmount:
		for id := range spec.Amounts {
			if !seen[id] {
				return nil, apperr.Validation("amounts", "member %s is not part of the split", id)
			}
		}
		amounts, err = splitAmount(total, memberIDs, spec.Amounts)
	default:
		return nil, apperr.Validation("mode", "unknown split mode %q", spec.Mode)
	}
	if err != nil {
		return nil, err
	}

	shares := make([]MemberShare, len(memberIDs))
	for i, id := range memberIDs {
		if amounts[i] < 0 {
			return nil, apperr.Validation("shares", "negative share for member %s", id)
		}
		shares[i] = MemberShare{MemberID: id, Amount: amounts[i]}
	}
	return shares, nil
}

func splitEqual(total money.Cents, n int) []money.Cents {
	base := total / money.Cents(n)
	extra := int(total % money.Cents(n))
	out := make([]money.Cents, n)
	for i := range out {
		out[i] = base
		if i < extra {
			out[i]++
		}
	}
	return out
}

func splitPercent(total money.Cents, memberIDs []string, percents map[string]decimal.Decimal) ([]money.Cents, error) {
	n := len(memberIDs)
	def := hundred.Div(decimal.NewFromInt(int64(n)))

	weights := make([]decimal.Decimal, n)
	sum := decimal.Zero
	for i, id := range memberIDs {
		p, ok := percents[id]
		if !ok {
			p = def
		}
		if p.IsNegative() {
			return nil, apperr.Validation("percents", "negative percent for member %s", id)
		}
		weights[i] = p
		sum = sum.Add(p)
	}
	if !sum.IsPositive() {
		return nil, apperr.Validation("percents", "percents sum to zero")
	}
	if sum.Sub(hundred).Abs().GreaterThan(percentTolerance) {
		slog.Debug("Rescaling split percents", "sum", sum.String())
		for i := range weights {
			weights[i] = weights[i].Mul(hundred).Div(sum)
		}
		sum = decimal.Sum(decimal.Zero, weights...)
	}

	// Allocate against the actual weight sum so floors never overshoot.
	cents := decimal.NewFromInt(int64(total))
	out := make([]money.Cents, n)
	fracs := make([]decimal.Decimal, n)
	var allocated money.Cents
	for i, w := range weights {
		exact := cents.Mul(w).Div(sum)
		floor := exact.Floor()
		out[i] = money.Cents(floor.IntPart())
		fracs[i] = exact.Sub(floor)
		allocated += out[i]
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fracs[order[a]].GreaterThan(fracs[order[b]])
	})
	for k := 0; allocated < total; k++ {
		out[order[k%n]]++
		allocated++
	}
	return out, nil
}

func splitAmount(total money.Cents, memberIDs []string, amounts map[string]money.Cents) ([]money.Cents, error) {
	n := len(memberIDs)
	out := make([]money.Cents, n)
	var sum money.Cents
	for i, id := range memberIDs {
		a := amounts[id]
		if a < 0 {
			return nil, apperr.Validation("amounts", "negative amount for member %s", id)
		}
		out[i] = a
		sum += a
	}
	residual := total - sum
	if residual.Abs() > 1 {
		return nil, apperr.Validation("amounts", "amounts sum to %s, expected %s", sum, total)
	}
	out[n-1] += residual
	return out, nil
}
