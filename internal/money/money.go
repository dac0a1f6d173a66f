// Package money holds monetary amounts as integer minor units (cents).
//
// All ledger arithmetic happens on Cents. Conversion to and from decimal
// happens only at the presentation boundary (wire messages, logs), using
// shopspring/decimal so that no float rounding leaks into stored values.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a decimal value cannot be represented in cents.
var ErrInvalidAmount = errors.New("invalid amount")

// Cents is an amount expressed in minor units of its currency.
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromDecimal converts a decimal amount to cents, rounding half away from zero
// on the third fractional digit.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Mul(hundred).Round(0).IntPart())
}

// FromFloat converts a float amount to cents. Only used for rates and display math.
func FromFloat(f float64) Cents {
	return FromDecimal(decimal.NewFromFloat(f))
}

// MaxCents bounds the magnitude of any amount accepted from outside, so that
// sums over a trip stay far from int64 overflow.
const MaxCents Cents = 1_000_000_000_000_000

var maxCents = decimal.NewFromInt(int64(MaxCents))

// Exact converts a decimal amount to cents without rounding. Amounts with
// more than two fractional digits or beyond MaxCents are rejected.
func Exact(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(hundred)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has more than 2 decimal places", ErrInvalidAmount, d)
	}
	if scaled.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, d)
	}
	return Cents(scaled.IntPart()), nil
}

// Parse parses a decimal string ("12.34" or "12,34") into cents. It is as
// strict as Exact.
func Parse(s string) (Cents, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Exact(d)
}

// Decimal returns the amount as a 2-decimal value.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float returns the amount as float64, for display only.
func (c Cents) Float() float64 {
	return c.Decimal().InexactFloat64()
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// String formats the amount with exactly two fractional digits.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Convert multiplies the amount by an exchange rate and rounds to cents.
func (c Cents) Convert(rate float64) Cents {
	return FromDecimal(c.Decimal().Mul(decimal.NewFromFloat(rate)))
}

// Sum adds up amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}

// NormalizeCurrency upper-cases and trims an ISO 4217 code and checks its shape.
func NormalizeCurrency(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	return code, true
}
