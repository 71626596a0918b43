// Package currency models the four nested coin denominations and their
// conversion through the scalar reference unit (EGP, equivalent gold pieces).
//
// All reference-unit arithmetic is exact decimal arithmetic. Account
// balances and transaction deltas are plain integers per denomination;
// decimals only appear while converting through the reference unit.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Denomination identifies one of the four coin units, ordered by value.
type Denomination int

const (
	// Copper is the smallest denomination (0.01 EGP).
	Copper Denomination = iota
	// Silver is worth ten copper (0.1 EGP).
	Silver
	// Gold is the reference denomination (1 EGP).
	Gold
	// Platinum is the largest denomination (10 EGP).
	Platinum

	denominationCount
)

// ErrNotIntegral indicates a conversion that is not a whole number of the
// target unit.
var ErrNotIntegral = errors.New("conversion is not integral in the target unit")

// ErrUnknownDenomination indicates an unrecognized unit token.
var ErrUnknownDenomination = errors.New("unknown denomination")

// Denominations returns all denominations smallest to largest.
func Denominations() [4]Denomination {
	return [4]Denomination{Copper, Silver, Gold, Platinum}
}

func (d Denomination) String() string {
	switch d {
	case Copper:
		return "cp"
	case Silver:
		return "sp"
	case Gold:
		return "gp"
	case Platinum:
		return "pp"
	default:
		return "unknown"
	}
}

// Symbol returns the display form of the denomination.
func (d Denomination) Symbol() string {
	return strings.ToUpper(d.String())
}

// Reference returns the denomination's value in reference units.
func (d Denomination) Reference() decimal.Decimal {
	switch d {
	case Copper:
		return decimal.New(1, -2)
	case Silver:
		return decimal.New(1, -1)
	case Gold:
		return decimal.New(1, 0)
	case Platinum:
		return decimal.New(1, 1)
	default:
		return decimal.Zero
	}
}

// ParseDenomination parses a case-insensitive unit token (cp, sp, gp, pp).
func ParseDenomination(token string) (Denomination, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "cp":
		return Copper, nil
	case "sp":
		return Silver, nil
	case "gp":
		return Gold, nil
	case "pp":
		return Platinum, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDenomination, token)
	}
}

// Amounts holds one signed integer per denomination, indexed by Denomination.
//
// Account balances use non-negative values; transaction deltas and conversion
// offsets may be negative.
type Amounts [denominationCount]int

// Get returns the amount for a denomination.
func (a Amounts) Get(d Denomination) int {
	return a[d]
}

// Add adds n to the denomination's bucket.
func (a *Amounts) Add(d Denomination, n int) {
	a[d] += n
}

// IsZero reports whether every bucket is zero.
func (a Amounts) IsZero() bool {
	return a == Amounts{}
}

// Plus returns the bucket-wise sum of a and b.
func (a Amounts) Plus(b Amounts) Amounts {
	var sum Amounts
	for _, d := range Denominations() {
		sum[d] = a[d] + b[d]
	}
	return sum
}

// Minus returns the bucket-wise difference of a and b.
func (a Amounts) Minus(b Amounts) Amounts {
	var diff Amounts
	for _, d := range Denominations() {
		diff[d] = a[d] - b[d]
	}
	return diff
}

// ToReference returns the exact reference-unit value of the amounts.
func ToReference(a Amounts) decimal.Decimal {
	total := decimal.Zero
	for _, d := range Denominations() {
		total = total.Add(decimal.NewFromInt(int64(a[d])).Mul(d.Reference()))
	}
	return total
}

// FromReference decomposes a reference-unit value into coin buckets added on
// top of acc, coarsest first: the integer part lands in gold, the fractional
// remainder scaled by ten and rounded to one decimal lands in silver, and the
// remaining fraction scaled by ten and rounded to an integer lands in copper.
// Platinum is never produced.
//
// A negative value decomposes as the decomposition of its absolute value with
// every bucket negated, so every bucket of the result carries the same sign.
func FromReference(value decimal.Decimal, acc Amounts) Amounts {
	if value.IsNegative() {
		neg := FromReference(value.Neg(), Amounts{})
		for _, d := range Denominations() {
			acc[d] -= neg[d]
		}
		return acc
	}

	acc[Gold] += int(value.IntPart())
	value = value.Sub(value.Floor()).Mul(decimal.New(1, 1)).Round(1)
	acc[Silver] += int(value.IntPart())
	value = value.Sub(value.Floor()).Mul(decimal.New(1, 1)).Round(0)
	acc[Copper] += int(value.IntPart())
	return acc
}

// ApplyOffset scales the amounts by (1 + pct/100) in reference units and
// re-decomposes the result into coin buckets.
func ApplyOffset(a Amounts, pct int) Amounts {
	factor := decimal.New(1, 0).Add(decimal.NewFromInt(int64(pct)).Div(decimal.New(1, 2)))
	return FromReference(ToReference(a).Mul(factor), Amounts{})
}

// NotIntegralError reports a conversion that does not yield a whole number
// of the target unit. It matches ErrNotIntegral under errors.Is.
type NotIntegralError struct {
	N        int
	From, To Denomination
}

func (e *NotIntegralError) Error() string {
	return fmt.Sprintf("cannot convert %d %s to %s", e.N, e.From.Symbol(), e.To.Symbol())
}

func (e *NotIntegralError) Is(target error) bool { return target == ErrNotIntegral }

// Convert computes how many units of the target denomination n units of the
// source denomination are worth. It fails with a NotIntegralError when the
// result is not a whole number of the target unit.
func Convert(n int, from, to Denomination) (int, error) {
	result := decimal.NewFromInt(int64(n)).Mul(from.Reference()).Div(to.Reference())
	if !result.IsInteger() {
		return 0, &NotIntegralError{N: n, From: from, To: to}
	}
	return int(result.IntPart()), nil
}
