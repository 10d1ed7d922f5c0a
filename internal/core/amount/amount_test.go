package amount

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxIsInt64Bound(t *testing.T) {
	assert.Equal(t, Amount(math.MaxInt64), Max)
	assert.Equal(t, "922337203685.4775807", Max.StringTrimmed())
	assert.Equal(t, Max, MustParse(Max.String()))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
		err  bool
	}{
		{"0", 0, false},
		{"1", 10_000_000, false},
		{"10.25", 102_500_000, false},
		{"0.0000001", 1, false},
		{"922337203685.4775807", 1<<63 - 1, false},
		{"0.00000001", 0, true}, // 8 decimal places
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.err {
			assert.Error(t, err, "Parse(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "Parse(%q)", tt.in)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.in)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "10.2500000", MustParse("10.25").String())
	assert.Equal(t, "10.25", MustParse("10.25").StringTrimmed())
	assert.Equal(t, "0", Amount(0).StringTrimmed())
	assert.Equal(t, "0.0000001", Amount(1).StringTrimmed())
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "10.25", "0.0000001", "123456.789"} {
		a := MustParse(s)
		back, err := Parse(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, back, "round trip %q", s)
	}
}

func TestAddSubOverflow(t *testing.T) {
	_, err := Max.Add(1)
	assert.ErrorIs(t, err, ErrAmountRange)

	sum, err := MustParse("1").Add(MustParse("2"))
	require.NoError(t, err)
	assert.Equal(t, MustParse("3"), sum)

	diff, err := MustParse("3").Sub(MustParse("1"))
	require.NoError(t, err)
	assert.Equal(t, MustParse("2"), diff)
}

func TestMin(t *testing.T) {
	assert.Equal(t, Amount(1), Min(1, 2))
	assert.Equal(t, Amount(1), Min(2, 1))
}
