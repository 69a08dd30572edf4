// Package fp is the host-side reference for the generated device code:
// prime-field Montgomery arithmetic and short-Weierstrass Jacobian group
// operations over arbitrary limb layouts, mirroring the emitted routines
// word for word. It produces the trusted expectations the device test
// kernels are compared against.
package fp

import (
	"errors"
	"fmt"
	"math/big"
)

// Supported limb widths.
const (
	LimbBits32 = 32
	LimbBits64 = 64
)

// Field holds the runtime parameters of one prime field: the modulus in
// limb form and the Montgomery constants derived from it.
type Field struct {
	limbs    int
	limbBits int
	mask     uint64 // 2^limbBits - 1

	modulus *big.Int
	p       []uint64 // modulus, little-endian limbs
	r       []uint64 // R = 2^(limbs*limbBits) mod p; Montgomery ONE
	r2      []uint64 // R^2 mod p
	inv     uint64   // -p^-1 mod 2^limbBits
}

// Element is a field value in Montgomery form, little-endian limbs. Each
// entry holds limbBits significant bits.
type Element []uint64

// Repr is the plain (non-Montgomery) integer form, same layout.
type Repr []uint64

// NewField derives a Field from a modulus and limb layout. The same
// rules as the generator apply: odd modulus, even limb count, 32- or
// 64-bit limbs, modulus fitting the representation.
func NewField(modulus *big.Int, limbs, limbBits int) (*Field, error) {
	if limbBits != LimbBits32 && limbBits != LimbBits64 {
		return nil, fmt.Errorf("fp: limb width must be 32 or 64, got %d", limbBits)
	}
	if limbs < 2 || limbs%2 != 0 {
		return nil, fmt.Errorf("fp: limb count must be even and positive, got %d", limbs)
	}
	if modulus == nil || modulus.Sign() <= 0 || modulus.Bit(0) == 0 {
		return nil, errors.New("fp: modulus must be a positive odd integer")
	}
	if modulus.BitLen() > limbs*limbBits {
		return nil, fmt.Errorf("fp: modulus needs %d bits, representation has %d",
			modulus.BitLen(), limbs*limbBits)
	}

	f := &Field{
		limbs:    limbs,
		limbBits: limbBits,
		mask:     ^uint64(0) >> uint(64-limbBits),
		modulus:  new(big.Int).Set(modulus),
	}

	bits := uint(limbs * limbBits)
	rBig := new(big.Int).Lsh(big.NewInt(1), bits)
	rBig.Mod(rBig, modulus)
	r2Big := new(big.Int).Mul(rBig, rBig)
	r2Big.Mod(r2Big, modulus)

	f.p = f.limbsOf(modulus)
	f.r = f.limbsOf(rBig)
	f.r2 = f.limbsOf(r2Big)

	// Hensel lift of p^-1 mod 2, negated.
	pLow := f.p[0]
	if limbBits == LimbBits32 && limbs > 1 {
		pLow |= f.p[1] << 32
	}
	x := uint64(1)
	for i := 0; i < 6; i++ {
		x *= 2 - pLow*x
	}
	f.inv = -x & f.mask
	if (f.inv*pLow)&f.mask != f.mask {
		return nil, errors.New("fp: montgomery INV sanity check failed")
	}
	return f, nil
}

// Limbs returns the limb count of the representation.
func (f *Field) Limbs() int { return f.limbs }

// LimbBits returns the limb width in bits.
func (f *Field) LimbBits() int { return f.limbBits }

// Bits returns the representation width in bits.
func (f *Field) Bits() int { return f.limbs * f.limbBits }

// Modulus returns a copy of the field modulus.
func (f *Field) Modulus() *big.Int { return new(big.Int).Set(f.modulus) }

// Inv returns -p^-1 mod 2^limbBits.
func (f *Field) Inv() uint64 { return f.inv }

// Zero returns the additive identity.
func (f *Field) Zero() Element { return make(Element, f.limbs) }

// One returns the multiplicative identity, R mod p in Montgomery form.
func (f *Field) One() Element {
	return Element(append([]uint64(nil), f.r...))
}

// limbsOf decomposes a big integer arithmetically into little-endian
// limbs of the field's width.
func (f *Field) limbsOf(x *big.Int) []uint64 {
	out := make([]uint64, f.limbs)
	rest := new(big.Int).Set(x)
	word := new(big.Int)
	maskBig := new(big.Int).SetUint64(f.mask)
	for i := range out {
		word.And(rest, maskBig)
		out[i] = word.Uint64()
		rest.Rsh(rest, uint(f.limbBits))
	}
	return out
}

// bigOf reassembles limbs into a big integer.
func (f *Field) bigOf(limbs []uint64) *big.Int {
	out := new(big.Int)
	word := new(big.Int)
	for i := len(limbs) - 1; i >= 0; i-- {
		out.Lsh(out, uint(f.limbBits))
		word.SetUint64(limbs[i])
		out.Or(out, word)
	}
	return out
}

// Gte reports a >= b, comparing from the most significant limb.
func (f *Field) Gte(a, b Element) bool { return gteLimbs(a, b) }

// Eq reports limb-wise equality.
func (f *Field) Eq(a, b Element) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func gteLimbs(a, b []uint64) bool {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] > b[i] {
			return true
		}
		if a[i] < b[i] {
			return false
		}
	}
	return true
}

// addRaw mirrors the emitted plain addition: limb-serial with a boolean
// carry, no reduction. Returns the sum modulo 2^(limbs*limbBits).
func (f *Field) addRaw(a, b []uint64) []uint64 {
	res := make([]uint64, f.limbs)
	carry := false
	for i := 0; i < f.limbs; i++ {
		old := a[i]
		v := (a[i] + b[i]) & f.mask
		if carry {
			v = (v + 1) & f.mask
		}
		res[i] = v
		if carry {
			carry = old >= v
		} else {
			carry = old > v
		}
	}
	return res
}

// subRaw mirrors the emitted plain subtraction with a boolean borrow.
func (f *Field) subRaw(a, b []uint64) []uint64 {
	res := make([]uint64, f.limbs)
	borrow := false
	for i := 0; i < f.limbs; i++ {
		old := a[i]
		v := (a[i] - b[i]) & f.mask
		if borrow {
			v = (v - 1) & f.mask
		}
		res[i] = v
		if borrow {
			borrow = old <= v
		} else {
			borrow = old < v
		}
	}
	return res
}

// Add returns a + b mod p.
func (f *Field) Add(a, b Element) Element {
	res := f.addRaw(a, b)
	// A wrapped sum is below a; it still needs the subtraction of p.
	if !gteLimbs(res, a) || gteLimbs(res, f.p) {
		res = f.subRaw(res, f.p)
	}
	return res
}

// Sub returns a - b mod p.
func (f *Field) Sub(a, b Element) Element {
	res := f.subRaw(a, b)
	if !gteLimbs(a, b) {
		res = f.addRaw(res, f.p)
	}
	return res
}

// Double returns 2a mod p by a one-bit limb shift, like the device code.
func (f *Field) Double(a Element) Element {
	res := make(Element, f.limbs)
	for i := f.limbs - 1; i >= 1; i-- {
		res[i] = ((a[i] << 1) | (a[i-1] >> uint(f.limbBits-1))) & f.mask
	}
	res[0] = (a[0] << 1) & f.mask
	if a[f.limbs-1]>>uint(f.limbBits-1) != 0 || gteLimbs(res, f.p) {
		res = f.subRaw(res, f.p)
	}
	return res
}

// Sqr returns a^2 mod p.
func (f *Field) Sqr(a Element) Element { return f.Mul(a, a) }

// Pow raises base to a small exponent, square-and-multiply from the
// least significant bit.
func (f *Field) Pow(base Element, exponent uint32) Element {
	res := f.One()
	b := Element(append([]uint64(nil), base...))
	for exponent > 0 {
		if exponent&1 == 1 {
			res = f.Mul(res, b)
		}
		exponent >>= 1
		b = f.Sqr(b)
	}
	return res
}

// PowLookup raises a base to a small exponent using a caller-supplied
// table of successive squares, bases[i] = base^(2^i).
func (f *Field) PowLookup(bases []Element, exponent uint32) Element {
	res := f.One()
	i := 0
	for exponent > 0 {
		if exponent&1 == 1 {
			res = f.Mul(res, bases[i])
		}
		exponent >>= 1
		i++
	}
	return res
}

// Mont converts a plain repr into the Montgomery domain.
func (f *Field) Mont(a Repr) Element {
	return f.Mul(Element(a), Element(f.r2))
}

// Unmont converts a Montgomery element back to its plain repr.
func (f *Field) Unmont(a Element) Repr {
	one := f.Zero()
	one[0] = 1
	return Repr(f.Mul(a, one))
}

// GetBit returns bit i of a repr, counted from the most significant bit
// of the concatenated limbs.
func (f *Field) GetBit(l Repr, i int) bool {
	limb := f.limbs - 1 - i/f.limbBits
	shift := uint(f.limbBits - 1 - i%f.limbBits)
	return (l[limb]>>shift)&1 == 1
}

// GetBits concatenates window bits starting skip bits below the most
// significant bit.
func (f *Field) GetBits(l Repr, skip, window int) uint32 {
	var ret uint32
	for i := 0; i < window; i++ {
		ret <<= 1
		if f.GetBit(l, skip+i) {
			ret |= 1
		}
	}
	return ret
}

// FromBig maps an integer (reduced mod p) into Montgomery form.
func (f *Field) FromBig(x *big.Int) Element {
	v := new(big.Int).Mod(x, f.modulus)
	return f.Mont(Repr(f.limbsOf(v)))
}

// FromUint64 maps a small integer into Montgomery form.
func (f *Field) FromUint64(x uint64) Element {
	return f.FromBig(new(big.Int).SetUint64(x))
}

// ToBig returns the plain integer value of a Montgomery element.
func (f *Field) ToBig(a Element) *big.Int {
	return f.bigOf(f.Unmont(a))
}

// ReprOf decomposes an integer (reduced mod p) into a plain repr.
func (f *Field) ReprOf(x *big.Int) Repr {
	v := new(big.Int).Mod(x, f.modulus)
	return Repr(f.limbsOf(v))
}

// ReprToBig reassembles a repr into an integer.
func (f *Field) ReprToBig(r Repr) *big.Int { return f.bigOf(r) }

// IsZero reports whether a is the additive identity.
func (f *Field) IsZero(a Element) bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}
	return true
}
