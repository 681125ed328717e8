package domain

import (
	"github.com/holiman/uint256"
)

const (
	// BpsMax is the denominator of every basis-point knob (100% = 10000).
	BpsMax = uint64(10000)
)

// One is 1.0 in the 1e18 fixed-point ("wad") scale used for prices and rates.
// Never mutate the returned value in place; helpers always allocate.
func One() *uint256.Int {
	return uint256.NewInt(1_000_000_000_000_000_000)
}

// WadMul returns x*y/1e18, truncating toward zero. Truncation always rounds
// in favor of the protocol, never the caller.
func WadMul(x, y *uint256.Int) *uint256.Int {
	z := new(uint256.Int).Mul(x, y)
	return z.Div(z, One())
}

// WadDiv returns x*1e18/y. y must be non-zero.
func WadDiv(x, y *uint256.Int) *uint256.Int {
	z := new(uint256.Int).Mul(x, One())
	return z.Div(z, y)
}

// BpsOf returns x*bps/10000.
func BpsOf(x *uint256.Int, bps uint64) *uint256.Int {
	z := new(uint256.Int).Mul(x, uint256.NewInt(bps))
	return z.Div(z, uint256.NewInt(BpsMax))
}

// BpsToWad converts a basis-point percentage to the wad scale (1 bps = 1e14).
func BpsToWad(bps uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(bps), uint256.NewInt(100_000_000_000_000))
}

// MinWad returns the smaller of x and y as a fresh value.
func MinWad(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return x.Clone()
	}
	return y.Clone()
}

// SubClamped returns x-y, or zero when y > x.
func SubClamped(x, y *uint256.Int) *uint256.Int {
	if y.Gt(x) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(x, y)
}
