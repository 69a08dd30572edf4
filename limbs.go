package ecgpu

import (
	"fmt"
	"math/big"
	"strings"
)

// limbsOf decomposes x into little-endian limbs of the field's width.
// The decomposition is arithmetic (shift and mask on the big integer),
// never a reinterpretation of host memory, so it is independent of host
// endianness.
func limbsOf(x *big.Int, limbs, limbBits int) []uint64 {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(limbBits))
	mask.Sub(mask, big.NewInt(1))
	out := make([]uint64, limbs)
	rest := new(big.Int).Set(x)
	word := new(big.Int)
	for i := 0; i < limbs; i++ {
		word.And(rest, mask)
		out[i] = word.Uint64()
		rest.Rsh(rest, uint(limbBits))
	}
	return out
}

// limbInitializer renders limbs as a C aggregate initializer body,
// e.g. "0x1, 0x0, 0xffffffff".
func limbInitializer(vals []uint64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%#x", v)
	}
	return strings.Join(parts, ", ")
}

// constantTable renders one CONSTANT definition for a field value.
func constantTable(prefix, suffix string, vals []uint64) string {
	return fmt.Sprintf("CONSTANT %s_ %s__%s = { { %s } };\n",
		prefix, prefix, suffix, limbInitializer(vals))
}
