package ecgpu

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Moduli of the preset configurations.
const (
	// BLS12-381 base field modulus q.
	Bls12381QHex = "1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab"
	// BLS12-381 scalar field modulus r.
	Bls12381RHex = "73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001"
)

// mustHex parses a hex constant known to be valid.
func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex constant: " + s)
	}
	return v
}

// limbCount returns how many limbs of the given width hold bits.
func limbCount(bits, limbBits int) int {
	n := (bits + limbBits - 1) / limbBits
	if n%2 != 0 {
		n++
	}
	return n
}

// BLS12381 returns the configuration for the BLS12-381 G1 group: base
// field Fq, scalar field Fr and curve G1. The limb width follows
// DefaultLimbBits, so EC_GPU_NUM_BITS applies.
func BLS12381() (*Config, error) {
	limbBits := DefaultLimbBits()
	q := mustHex(Bls12381QHex)
	r := mustHex(Bls12381RHex)

	fq, err := NewField("Fq", limbCount(q.BitLen(), limbBits), limbBits, q)
	if err != nil {
		return nil, err
	}
	fr, err := NewField("Fr", limbCount(r.BitLen(), limbBits), limbBits, r)
	if err != nil {
		return nil, err
	}
	g1, err := NewCurve("G1", fq, fr)
	if err != nil {
		return nil, err
	}
	return &Config{Fields: []*Field{fq, fr}, Curves: []*Curve{g1}}, nil
}

// Secp256k1 returns the configuration for the secp256k1 curve, with the
// field and order parameters taken from btcec so they cannot drift from
// the reference implementation.
func Secp256k1() (*Config, error) {
	limbBits := DefaultLimbBits()
	params := btcec.S256().Params()

	fp, err := NewField("Secp_Fp", limbCount(params.P.BitLen(), limbBits), limbBits, params.P)
	if err != nil {
		return nil, err
	}
	fn, err := NewField("Secp_Fn", limbCount(params.N.BitLen(), limbBits), limbBits, params.N)
	if err != nil {
		return nil, err
	}
	curve, err := NewCurve("Secp", fp, fn)
	if err != nil {
		return nil, err
	}
	return &Config{Fields: []*Field{fp, fn}, Curves: []*Curve{curve}}, nil
}
