package amount

import (
	"errors"
	"fmt"
	"math/big"
)

// Price is an exact exchange rate expressed as the rational N/D: the
// number of units of the buying asset per unit of the selling asset.
// Both terms are positive for a valid price.
type Price struct {
	N int32
	D int32
}

// ErrBadPrice indicates a price with a non-positive numerator or
// denominator.
var ErrBadPrice = errors.New("price terms must be positive")

// NewPrice returns the price n/d.
func NewPrice(n, d int32) Price {
	return Price{N: n, D: d}
}

// Valid reports whether both price terms are positive.
func (p Price) Valid() bool {
	return p.N > 0 && p.D > 0
}

// Invert returns the reciprocal price.
func (p Price) Invert() Price {
	return Price{N: p.D, D: p.N}
}

// Cmp compares two prices exactly: -1 if p < q, 0 if equal, +1 if p > q.
// Cross-multiplication in 64 bits is exact for 32-bit terms.
func (p Price) Cmp(q Price) int {
	l := int64(p.N) * int64(q.D)
	r := int64(q.N) * int64(p.D)
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// Crosses reports whether a taker selling at price p is matched by a
// resting offer selling the opposite asset at price q. The product of
// the two rates must not exceed one; at exactly one the offers touch.
// With strict set (passive takers) a touching price does not cross.
func (p Price) Crosses(q Price, strict bool) bool {
	l := int64(p.N) * int64(q.N)
	r := int64(p.D) * int64(q.D)
	if strict {
		return l < r
	}
	return l <= r
}

func (p Price) String() string {
	return fmt.Sprintf("%d/%d", p.N, p.D)
}

// ParsePrice converts a decimal price string such as "1.5" into an
// exact rational with 32-bit terms.
func ParsePrice(s string) (Price, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() <= 0 {
		return Price{}, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return Price{}, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	n, d := r.Num().Int64(), r.Denom().Int64()
	if n > int64(1)<<31-1 || d > int64(1)<<31-1 {
		return Price{}, fmt.Errorf("%w: %q does not fit 32-bit terms", ErrBadPrice, s)
	}
	return Price{N: int32(n), D: int32(d)}, nil
}

// MulFloor returns floor(a * n / d). Used when the result is an amount
// the book side gives away: rounding down never over-delivers.
func MulFloor(a Amount, n, d int32) (Amount, error) {
	return mulRatio(a, n, d, false)
}

// MulCeil returns ceil(a * n / d). Used when the result is an amount
// owed to an offer owner: rounding up never under-pays them.
func MulCeil(a Amount, n, d int32) (Amount, error) {
	return mulRatio(a, n, d, true)
}

func mulRatio(a Amount, n, d int32, roundUp bool) (Amount, error) {
	if n <= 0 || d <= 0 {
		return 0, ErrBadPrice
	}
	if a < 0 {
		return 0, ErrAmountRange
	}

	// a*n can exceed 64 bits, so the product is taken in big.Int.
	prod := new(big.Int).Mul(big.NewInt(int64(a)), big.NewInt(int64(n)))
	den := big.NewInt(int64(d))

	q, rem := new(big.Int).QuoRem(prod, den, new(big.Int))
	if roundUp && rem.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	if q.Cmp(bigMax) > 0 {
		return 0, ErrAmountRange
	}
	return Amount(q.Int64()), nil
}
