package util

import (
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/holiman/uint256"
)

var wadFloat = new(big.Float).SetFloat64(1e18)

// WadString renders a wad-scaled amount as a human readable token quantity.
func WadString(amount *uint256.Int, symbol string) string {
	if amount == nil {
		return fmt.Sprintf("0 %v", symbol)
	}
	return fmt.Sprintf("%v %v", humanize.Commaf(WadFloat(amount)), symbol)
}

// WadFloat converts a wad-scaled amount to float64 for metric gauges.
func WadFloat(amount *uint256.Int) float64 {
	if amount == nil {
		return 0
	}
	value := new(big.Float).SetInt(amount.ToBig())
	value.Quo(value, wadFloat)
	float, _ := value.Float64()
	return float
}
