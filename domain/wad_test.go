package domain

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func wads(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), One())
}

func TestWadMulTruncates(t *testing.T) {
	// 100 * 1.005263157894736842 truncates the 0.2 wei tail.
	parsed, ok := new(big.Int).SetString("1005263157894736842", 10)
	require.True(t, ok)
	rate, overflow := uint256.FromBig(parsed)
	require.False(t, overflow)
	product := WadMul(wads(100), rate)
	require.Equal(t, "100526315789473684200", product.String())

	third := WadDiv(wads(1), uint256.NewInt(3))
	product = WadMul(uint256.NewInt(3), third)
	require.True(t, product.Lt(wads(1)))
}

func TestWadDivRoundTrip(t *testing.T) {
	require.Equal(t, One().String(), WadDiv(wads(7), wads(7)).String())
	require.Equal(t, wads(2).String(), WadDiv(wads(10), wads(5)).String())
}

func TestBpsOf(t *testing.T) {
	require.Equal(t, wads(45).String(), BpsOf(wads(100), 4500).String())
	require.Equal(t, wads(100).String(), BpsOf(wads(100), BpsMax).String())
	require.True(t, BpsOf(wads(100), 0).IsZero())
}

func TestBpsToWad(t *testing.T) {
	require.Equal(t, One().String(), BpsToWad(10000).String())
	require.Equal(t, "40000000000000000", BpsToWad(400).String())
}

func TestMinWadReturnsFreshValue(t *testing.T) {
	x, y := wads(3), wads(5)
	minimum := MinWad(x, y)
	require.Equal(t, x.String(), minimum.String())

	minimum.Add(minimum, One())
	require.Equal(t, wads(3).String(), x.String())
}

func TestSubClamped(t *testing.T) {
	require.Equal(t, wads(2).String(), SubClamped(wads(5), wads(3)).String())
	require.True(t, SubClamped(wads(3), wads(5)).IsZero())
	require.True(t, SubClamped(wads(3), wads(3)).IsZero())
}
