package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("1.5")
	require.NoError(t, err)
	assert.Equal(t, Price{N: 3, D: 2}, p)

	p, err = ParsePrice("2")
	require.NoError(t, err)
	assert.Equal(t, Price{N: 2, D: 1}, p)

	_, err = ParsePrice("0")
	assert.Error(t, err)
	_, err = ParsePrice("-1")
	assert.Error(t, err)
}

func TestPriceCmp(t *testing.T) {
	assert.Equal(t, -1, Price{1, 2}.Cmp(Price{2, 3}))
	assert.Equal(t, 0, Price{1, 2}.Cmp(Price{2, 4}))
	assert.Equal(t, 1, Price{3, 4}.Cmp(Price{1, 2}))
}

func TestPriceCrosses(t *testing.T) {
	// p*q == 1: touching prices cross unless strict.
	p := Price{1, 2}
	q := Price{2, 1}
	assert.True(t, p.Crosses(q, false))
	assert.False(t, p.Crosses(q, true))

	// p*q < 1: crosses either way.
	assert.True(t, Price{1, 3}.Crosses(q, true))

	// p*q > 1: never crosses.
	assert.False(t, Price{2, 3}.Crosses(q, false))
}

func TestMulFloorCeil(t *testing.T) {
	got, err := MulFloor(10, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, Amount(3), got)

	got, err = MulCeil(10, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, Amount(4), got)

	// Exact division rounds the same both ways.
	fl, _ := MulFloor(9, 1, 3)
	ce, _ := MulCeil(9, 1, 3)
	assert.Equal(t, fl, ce)

	_, err = MulFloor(Max, 2, 1)
	assert.ErrorIs(t, err, ErrAmountRange)

	_, err = MulFloor(10, 0, 1)
	assert.ErrorIs(t, err, ErrBadPrice)
}

func TestMulRoundingNeverCreatesValue(t *testing.T) {
	// ceil(floor(a*n/d)*d/n) <= a for the pairs used by the matcher.
	for _, a := range []Amount{1, 7, 100, 1_000_003} {
		for _, p := range []Price{{1, 3}, {3, 1}, {7, 11}, {1, 1}} {
			b, err := MulFloor(a, p.D, p.N)
			require.NoError(t, err)
			back, err := MulCeil(b, p.N, p.D)
			require.NoError(t, err)
			assert.LessOrEqual(t, back, a, "a=%d p=%s", a, p)
		}
	}
}
