// Package amount implements the fixed-point arithmetic used for all
// ledger balances and offer prices.
//
// Balances are scaled 64-bit integers with 7 decimal places: one whole
// unit of any asset is 10_000_000 base units. Prices are exact rational
// numbers; they are never converted to floating point so that price
// comparisons cannot drift.
package amount

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// One is the number of base units in one whole unit of an asset.
const One int64 = 10_000_000

// Max is the largest representable amount.
const Max Amount = math.MaxInt64

// Amount is a quantity of some asset in base units (7 decimal places).
type Amount int64

var (
	// ErrAmountRange indicates a parsed or computed amount does not fit
	// in the representable range.
	ErrAmountRange = errors.New("amount out of range")

	// ErrAmountFormat indicates an unparseable decimal string.
	ErrAmountFormat = errors.New("invalid amount string")
)

var (
	bigOne = big.NewInt(One)
	bigMax = big.NewInt(math.MaxInt64)
)

// Parse converts a decimal string such as "10.25" into base units.
// At most 7 fractional digits are accepted; excess precision is an
// error rather than a silent truncation.
func Parse(s string) (Amount, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrAmountFormat, s)
	}

	r.Mul(r, new(big.Rat).SetInt(bigOne))
	if !r.IsInt() {
		return 0, fmt.Errorf("%w: %q has more than 7 decimal places", ErrAmountFormat, s)
	}

	v := r.Num()
	if v.Sign() < 0 || v.Cmp(bigMax) > 0 {
		return 0, fmt.Errorf("%w: %q", ErrAmountRange, s)
	}
	return Amount(v.Int64()), nil
}

// MustParse is Parse for trusted literals; it panics on error.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the amount as a decimal with 7 fractional digits,
// e.g. 100000000 -> "10.0000000".
func (a Amount) String() string {
	whole := int64(a) / One
	frac := int64(a) % One
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%07d", whole, frac)
}

// StringTrimmed renders the amount with trailing fractional zeros
// removed, e.g. "10.25" rather than "10.2500000".
func (a Amount) StringTrimmed() string {
	s := a.String()
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// Add returns a+b, or an error if the sum overflows.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrAmountRange
	}
	return sum, nil
}

// Sub returns a-b, or an error if the difference underflows.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, ErrAmountRange
	}
	return diff, nil
}

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}
