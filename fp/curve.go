package fp

import (
	"errors"
	"math/big"
)

// Curve is a short-Weierstrass a=0 curve y^2 = x^3 + b over a base
// field, with scalars drawn from a second field. It mirrors the emitted
// group operations formula for formula.
type Curve struct {
	fq *Field // coordinate field
	fr *Field // scalar field
	b  Element
}

// Affine is a point (x, y), both coordinates in Montgomery form.
type Affine struct {
	X, Y Element
}

// Jacobian is a projective point (X, Y, Z) for affine (X/Z^2, Y/Z^3).
// The identity is (ZERO, ONE, ZERO).
type Jacobian struct {
	X, Y, Z Element
}

// NewCurve builds a curve over fq with scalar field fr and constant b.
func NewCurve(fq, fr *Field, b *big.Int) (*Curve, error) {
	if fq == nil || fr == nil {
		return nil, errors.New("fp: curve needs a base and a scalar field")
	}
	return &Curve{fq: fq, fr: fr, b: fq.FromBig(b)}, nil
}

// BaseField returns the coordinate field.
func (c *Curve) BaseField() *Field { return c.fq }

// ScalarField returns the scalar field.
func (c *Curve) ScalarField() *Field { return c.fr }

// Zero returns the point at infinity.
func (c *Curve) Zero() Jacobian {
	return Jacobian{X: c.fq.Zero(), Y: c.fq.One(), Z: c.fq.Zero()}
}

// IsZero reports whether p is the point at infinity.
func (c *Curve) IsZero(p Jacobian) bool { return c.fq.IsZero(p.Z) }

// FromAffine promotes an affine point to Jacobian with Z = 1.
func (c *Curve) FromAffine(a Affine) Jacobian {
	return Jacobian{
		X: append(Element(nil), a.X...),
		Y: append(Element(nil), a.Y...),
		Z: c.fq.One(),
	}
}

// IsOnCurve checks y^2 = x^3 + b for an affine point.
func (c *Curve) IsOnCurve(a Affine) bool {
	f := c.fq
	lhs := f.Sqr(a.Y)
	rhs := f.Add(f.Mul(f.Sqr(a.X), a.X), c.b)
	return f.Eq(lhs, rhs)
}

// Double doubles a Jacobian point, EFD dbl-2009-l.
func (c *Curve) Double(p Jacobian) Jacobian {
	f := c.fq
	if c.IsZero(p) {
		return p
	}

	a := f.Sqr(p.X)        // A = X1^2
	b := f.Sqr(p.Y)        // B = Y1^2
	cc := f.Sqr(b)         // C = B^2
	d := f.Add(p.X, b)     // D = 2*((X1+B)^2-A-C)
	d = f.Sqr(d)
	d = f.Double(f.Sub(f.Sub(d, a), cc))
	e := f.Add(f.Double(a), a) // E = 3*A
	ff := f.Sqr(e)             // F = E^2

	var r Jacobian
	r.Z = f.Double(f.Mul(p.Y, p.Z))  // Z3 = 2*Y1*Z1
	r.X = f.Sub(f.Sub(ff, d), d)     // X3 = F-2*D
	cc = f.Double(f.Double(f.Double(cc)))
	r.Y = f.Sub(f.Mul(f.Sub(d, r.X), e), cc) // Y3 = E*(D-X3)-8*C
	return r
}

// AddMixed adds an affine point to a Jacobian one, EFD madd-2007-bl.
func (c *Curve) AddMixed(a Jacobian, b Affine) Jacobian {
	f := c.fq
	if c.IsZero(a) {
		return c.FromAffine(b)
	}

	z1z1 := f.Sqr(a.Z)
	u2 := f.Mul(b.X, z1z1)
	s2 := f.Mul(f.Mul(b.Y, a.Z), z1z1)

	if f.Eq(a.X, u2) && f.Eq(a.Y, s2) {
		return c.Double(a)
	}

	h := f.Sub(u2, a.X)              // H = U2-X1
	hh := f.Sqr(h)                   // HH = H^2
	i := f.Double(f.Double(hh))      // I = 4*HH
	j := f.Mul(h, i)                 // J = H*I
	r := f.Double(f.Sub(s2, a.Y))    // r = 2*(S2-Y1)
	v := f.Mul(a.X, i)               // V = X1*I

	var ret Jacobian
	ret.X = f.Sub(f.Sub(f.Sqr(r), j), f.Double(v)) // X3 = r^2-J-2*V
	j = f.Double(f.Mul(a.Y, j))
	ret.Y = f.Sub(f.Mul(f.Sub(v, ret.X), r), j) // Y3 = r*(V-X3)-2*Y1*J
	ret.Z = f.Add(a.Z, h)
	ret.Z = f.Sub(f.Sub(f.Sqr(ret.Z), z1z1), hh) // Z3 = (Z1+H)^2-Z1Z1-HH
	return ret
}

// Add adds two Jacobian points, EFD add-2007-bl with the
// ((Z1+Z2)^2-Z1Z1-Z2Z2)*H form for Z3.
func (c *Curve) Add(a, b Jacobian) Jacobian {
	f := c.fq
	if c.IsZero(a) {
		return b
	}
	if c.IsZero(b) {
		return a
	}

	z1z1 := f.Sqr(a.Z)
	z2z2 := f.Sqr(b.Z)
	u1 := f.Mul(a.X, z2z2)
	u2 := f.Mul(b.X, z1z1)
	s1 := f.Mul(f.Mul(a.Y, b.Z), z2z2)
	s2 := f.Mul(f.Mul(b.Y, a.Z), z1z1)

	if f.Eq(u1, u2) && f.Eq(s1, s2) {
		return c.Double(a)
	}

	h := f.Sub(u2, u1)            // H = U2-U1
	i := f.Sqr(f.Double(h))       // I = (2*H)^2
	j := f.Mul(h, i)              // J = H*I
	r := f.Double(f.Sub(s2, s1))  // r = 2*(S2-S1)
	v := f.Mul(u1, i)             // V = U1*I

	var ret Jacobian
	ret.X = f.Sub(f.Sub(f.Sub(f.Sqr(r), j), v), v) // X3 = r^2-J-2*V
	s1 = f.Double(f.Mul(s1, j))
	ret.Y = f.Sub(f.Mul(f.Sub(v, ret.X), r), s1) // Y3 = r*(V-X3)-2*S1*J
	ret.Z = f.Sqr(f.Add(a.Z, b.Z))
	ret.Z = f.Mul(f.Sub(f.Sub(ret.Z, z1z1), z2z2), h)
	return ret
}

// Neg mirrors the emitted negation: y = 0 - y.
func (c *Curve) Neg(a Jacobian) Jacobian {
	return Jacobian{X: a.X, Y: c.fq.Sub(c.fq.Zero(), a.Y), Z: a.Z}
}

// Sub returns a - b.
func (c *Curve) Sub(a, b Jacobian) Jacobian {
	return c.Add(a, c.Neg(b))
}

// MulExponent is the emitted scalar multiplication: double-and-add over
// the scalar repr, most significant bit first.
func (c *Curve) MulExponent(base Jacobian, exp Repr) Jacobian {
	res := c.Zero()
	for i := 0; i < c.fr.Bits(); i++ {
		res = c.Double(res)
		if c.fr.GetBit(exp, i) {
			res = c.Add(res, base)
		}
	}
	return res
}

// Mul multiplies by a Montgomery-form scalar, like the emitted POINT_mul.
func (c *Curve) Mul(base Jacobian, exp Element) Jacobian {
	return c.MulExponent(base, c.fr.Unmont(exp))
}

// MulWindowed is a fixed-window variant built on GetBits; it must agree
// with MulExponent and exists to exercise windowed repr access the way
// MSM consumers do.
func (c *Curve) MulWindowed(base Jacobian, exp Repr, window int) Jacobian {
	if window < 1 {
		window = 4
	}
	// Precompute 0..2^window-1 multiples.
	table := make([]Jacobian, 1<<uint(window))
	table[0] = c.Zero()
	for i := 1; i < len(table); i++ {
		table[i] = c.Add(table[i-1], base)
	}

	res := c.Zero()
	bits := c.fr.Bits()
	for skip := 0; skip < bits; skip += window {
		w := window
		if skip+w > bits {
			w = bits - skip
		}
		for i := 0; i < w; i++ {
			res = c.Double(res)
		}
		idx := c.fr.GetBits(exp, skip, w)
		if idx != 0 {
			res = c.Add(res, table[idx])
		}
	}
	return res
}

// ToAffine normalises a Jacobian point. Host-only: it uses a modular
// inverse, which the device code deliberately does not have. Reports
// false for the point at infinity.
func (c *Curve) ToAffine(p Jacobian) (Affine, bool) {
	if c.IsZero(p) {
		return Affine{}, false
	}
	f := c.fq
	z := f.ToBig(p.Z)
	zInv := new(big.Int).ModInverse(z, f.modulus)
	zInv2 := new(big.Int).Mul(zInv, zInv)
	zInv2.Mod(zInv2, f.modulus)
	zInv3 := new(big.Int).Mul(zInv2, zInv)
	zInv3.Mod(zInv3, f.modulus)

	x := new(big.Int).Mul(f.ToBig(p.X), zInv2)
	y := new(big.Int).Mul(f.ToBig(p.Y), zInv3)
	return Affine{X: f.FromBig(x), Y: f.FromBig(y)}, true
}

// Equal compares two Jacobian points as group elements, via
// normalisation.
func (c *Curve) Equal(a, b Jacobian) bool {
	az, bz := c.IsZero(a), c.IsZero(b)
	if az || bz {
		return az == bz
	}
	aa, _ := c.ToAffine(a)
	ba, _ := c.ToAffine(b)
	return c.fq.Eq(aa.X, ba.X) && c.fq.Eq(aa.Y, ba.Y)
}
