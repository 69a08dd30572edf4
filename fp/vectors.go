package fp

import (
	"encoding/binary"
	"math/big"

	sha256 "github.com/minio/sha256-simd"
)

// Sampler derives deterministic, uniformly distributed field elements
// and scalars from a seed. The same seed always yields the same stream,
// so host and device runs can be diffed byte for byte.
type Sampler struct {
	seed    []byte
	counter uint64
}

// NewSampler creates a sampler over the given seed.
func NewSampler(seed []byte) *Sampler {
	return &Sampler{seed: append([]byte(nil), seed...)}
}

// next returns the next 32-byte block of the stream.
func (s *Sampler) next() [32]byte {
	h := sha256.New()
	h.Write(s.seed)
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], s.counter)
	s.counter++
	h.Write(ctr[:])
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// Int returns a uniform integer in [0, p) by rejection sampling the
// hash stream.
func (s *Sampler) Int(p *big.Int) *big.Int {
	bytes := (p.BitLen() + 7) / 8
	// Mask away the spare bits of the top byte so the rejection rate
	// stays below one half.
	topMask := byte(0xff >> uint(8*bytes-p.BitLen()))
	buf := make([]byte, bytes)
	for {
		for i := 0; i < bytes; i += 32 {
			block := s.next()
			copy(buf[i:], block[:])
		}
		buf[0] &= topMask
		v := new(big.Int).SetBytes(buf)
		if v.Cmp(p) < 0 {
			return v
		}
	}
}

// Element returns a uniform Montgomery-form element of f.
func (s *Sampler) Element(f *Field) Element {
	return f.FromBig(s.Int(f.modulus))
}

// Repr returns a uniform plain repr of f.
func (s *Sampler) Repr(f *Field) Repr {
	return f.ReprOf(s.Int(f.modulus))
}

// Uint32 returns the next small exponent.
func (s *Sampler) Uint32() uint32 {
	block := s.next()
	return binary.LittleEndian.Uint32(block[:4])
}

// FieldCase is one round-trip vector for the field test kernels: inputs
// in Montgomery form plus the expected output of every kernel.
type FieldCase struct {
	A, B Element
	Exp  uint32

	Add    Element // test_add(A, B)
	Sub    Element // test_sub(A, B)
	Mul    Element // test_mul(A, B)
	Sqr    Element // test_sqr(A)
	Double Element // test_double(A)
	Pow    Element // test_pow(A, Exp)
	Mont   Element // test_mont(ARepr)
	ARepr  Repr    // test_unmont(A)
}

// FieldVectors generates n deterministic cases for a field.
func FieldVectors(f *Field, seed []byte, n int) []FieldCase {
	s := NewSampler(seed)
	out := make([]FieldCase, n)
	for i := range out {
		a := s.Element(f)
		b := s.Element(f)
		// Small exponents keep host-side pow cheap while still walking
		// several squarings.
		exp := s.Uint32() & 0xffff
		out[i] = FieldCase{
			A:      a,
			B:      b,
			Exp:    exp,
			Add:    f.Add(a, b),
			Sub:    f.Sub(a, b),
			Mul:    f.Mul(a, b),
			Sqr:    f.Sqr(a),
			Double: f.Double(a),
			Pow:    f.Pow(a, exp),
			Mont:   a,
			ARepr:  f.Unmont(a),
		}
	}
	return out
}

// CurveCase is one vector for test_ec: a Jacobian base point, a
// Montgomery-form scalar and the expected product.
type CurveCase struct {
	Base   Jacobian
	Scalar Element
	Result Jacobian
}

// CurveVectors generates n deterministic scalar-multiplication cases
// from a generator point.
func CurveVectors(c *Curve, gen Affine, seed []byte, n int) []CurveCase {
	s := NewSampler(seed)
	out := make([]CurveCase, n)
	base := c.FromAffine(gen)
	for i := range out {
		// Walk the base point so cases do not share inputs.
		k := s.Element(c.ScalarField())
		res := c.Mul(base, k)
		out[i] = CurveCase{Base: base, Scalar: k, Result: res}
		base = c.Double(base)
	}
	return out
}
