package util

import (
	"math/big"
)

var bigOne = big.NewInt(1)

// CompactToBig expands a compact difficulty encoding into the full target.
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	var bn *big.Int

	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}

	if isNegative {
		bn = bn.Neg(bn)
	}

	return bn
}

// CalculateWork returns the work represented by a block with the given
// compact target, 2^256 / (target + 1). Invalid targets carry no work.
func CalculateWork(bits uint32) *big.Int {
	target := CompactToBig(bits)
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}

	denominator := new(big.Int).Add(target, bigOne)

	return new(big.Int).Div(new(big.Int).Lsh(bigOne, 256), denominator)
}
