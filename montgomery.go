package ecgpu

import (
	"fmt"
	"math/big"
)

// ParameterDerivationError reports an inconsistency while deriving the
// Montgomery constants of a field. With an odd modulus this should be
// unreachable; it exists as a hard stop for the INV sanity check.
type ParameterDerivationError struct {
	Field  string
	Reason string
}

func (e *ParameterDerivationError) Error() string {
	return fmt.Sprintf("montgomery parameter derivation for %q failed: %s", e.Field, e.Reason)
}

// deriveMontgomery computes R = 2^(limbs*limbBits) mod p, R^2 mod p and
// INV = -p^-1 mod 2^limbBits. INV is lifted from the trivial inverse
// modulo 2 (p is odd, so p^-1 ≡ 1 mod 2), doubling the number of correct
// low bits with each Newton step until the limb width is covered.
func deriveMontgomery(p *big.Int, limbs, limbBits int) (r, r2 *big.Int, inv uint64, err error) {
	if p.Bit(0) == 0 {
		return nil, nil, 0, &ParameterDerivationError{Reason: "modulus is even"}
	}

	bits := uint(limbs * limbBits)
	r = new(big.Int).Lsh(big.NewInt(1), bits)
	r.Mod(r, p)

	r2 = new(big.Int).Mul(r, r)
	r2.Mod(r2, p)

	// Low limb of p; the whole lift happens in uint64 arithmetic and is
	// masked down for 32-bit limbs at the end.
	pLow := lowWord(p)

	x := uint64(1) // inverse of p modulo 2
	for i := 0; i < 6; i++ {
		x *= 2 - pLow*x // doubles the precision of the inverse
	}
	inv = -x // -p^-1 mod 2^64
	if limbBits == LimbBits32 {
		inv &= 0xffffffff
	}

	// INV * p must be ≡ -1 modulo the limb base.
	check := inv * pLow
	want := uint64(0xffffffffffffffff)
	if limbBits == LimbBits32 {
		check &= 0xffffffff
		want = 0xffffffff
	}
	if check != want {
		return nil, nil, 0, &ParameterDerivationError{
			Reason: fmt.Sprintf("INV sanity check failed: INV*p = %#x mod 2^%d", check, limbBits),
		}
	}
	return r, r2, inv, nil
}

// lowWord extracts p mod 2^64 without relying on the internal word
// layout of big.Int.
func lowWord(p *big.Int) uint64 {
	var lo uint64
	for i := 0; i < 64; i++ {
		lo |= uint64(p.Bit(i)) << uint(i)
	}
	return lo
}
