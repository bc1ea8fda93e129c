package aggregator

import (
	"math/big"
	"sort"

	"redstone.dev/oracle/protocol"
)

func toBig(v protocol.Value) *big.Int {
	return new(big.Int).SetBytes(v[:])
}

func toValue(x *big.Int) protocol.Value {
	var out protocol.Value
	b := x.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// average256 computes floor((a+b)/2) without a fixed-width overflow: big.Int
// is arbitrary precision, so a plain sum-then-shift never overflows. This is
// algebraically identical to §4.5.1's bit-split formula
// (a>>1)+(b>>1)+((a&1)+(b&1))>>1, which exists in the original source to
// avoid overflow in a fixed-width 256-bit accumulator; math/big makes that
// defense unnecessary while preserving the same floor-division result.
func average256(a, b *big.Int) *big.Int {
	sum := new(big.Int).Add(a, b)
	return sum.Rsh(sum, 1)
}

// middleOfThree returns the median of three values by pairwise comparison,
// without invoking a general sort (§4.5.1 length-3 rule).
func middleOfThree(a, b, c *big.Int) *big.Int {
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	if b.Cmp(c) > 0 {
		b, c = c, b
	}
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	return b
}

// Median256 computes the deterministic median of values under §4.5.1's
// rules: numeric big-endian comparison, no floating point, overflow-safe
// averaging of the two middle elements on even-length inputs.
//
// Median256 assumes values is non-empty; callers skip the feed entirely
// when there is nothing to aggregate (§4.5 step 3, §4.5.1 "empty -> no
// output").
func Median256(values []protocol.Value) protocol.Value {
	switch len(values) {
	case 1:
		return values[0]
	case 2:
		return toValue(average256(toBig(values[0]), toBig(values[1])))
	case 3:
		return toValue(middleOfThree(toBig(values[0]), toBig(values[1]), toBig(values[2])))
	default:
		ints := make([]*big.Int, len(values))
		for i, v := range values {
			ints[i] = toBig(v)
		}
		sort.Slice(ints, func(i, j int) bool { return ints[i].Cmp(ints[j]) < 0 })
		n := len(ints)
		if n%2 == 1 {
			return toValue(ints[n/2])
		}
		return toValue(average256(ints[n/2-1], ints[n/2]))
	}
}
