package fp

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
)

// BLS12-381 G1 generator.
const (
	blsG1XHex = "17f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb"
	blsG1YHex = "08b3f481e3aaa0f1a09e30ed741d8ae4fcf5e095d5d00af600db18cb2c04b3edd03cc744a2888ae40caa232946c5e7e1"
)

func newBlsG1(t *testing.T) (*Curve, Affine) {
	t.Helper()
	fq := newTestField(t, blsQHex, 12, 32)
	fr := newTestField(t, blsRHex, 8, 32)
	c, err := NewCurve(fq, fr, big.NewInt(4))
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	gen := Affine{
		X: fq.FromBig(mustBig(t, blsG1XHex)),
		Y: fq.FromBig(mustBig(t, blsG1YHex)),
	}
	if !c.IsOnCurve(gen) {
		t.Fatal("generator is not on the curve")
	}
	return c, gen
}

func TestCurveIdentities(t *testing.T) {
	c, gen := newBlsG1(t)
	p := c.FromAffine(gen)
	zero := c.Zero()

	if !c.Equal(c.Add(p, zero), p) {
		t.Error("P + 0 != P")
	}
	if !c.Equal(c.Add(zero, p), p) {
		t.Error("0 + P != P")
	}
	if !c.IsZero(c.Add(p, c.Neg(p))) {
		t.Error("P + (-P) != 0")
	}
	if !c.IsZero(c.Sub(p, p)) {
		t.Error("P - P != 0")
	}
	if !c.Equal(c.Add(p, p), c.Double(p)) {
		t.Error("P + P != double(P)")
	}
	if !c.IsZero(c.Double(zero)) {
		t.Error("double(0) != 0")
	}
}

func TestCurveAddMixedMatchesAdd(t *testing.T) {
	c, gen := newBlsG1(t)
	p := c.FromAffine(gen)

	// Walk a few multiples so the Jacobian operand has a non-trivial Z.
	q := c.Double(c.Double(p))
	for i := 0; i < 10; i++ {
		got := c.AddMixed(q, gen)
		want := c.Add(q, c.FromAffine(gen))
		if !c.Equal(got, want) {
			t.Fatalf("add_mixed disagrees with add at step %d", i)
		}
		q = c.Double(got)
	}

	// Mixed addition onto infinity promotes the affine point.
	if !c.Equal(c.AddMixed(c.Zero(), gen), p) {
		t.Error("add_mixed(0, G) != G")
	}
	// Mixed addition of the same point falls back to doubling.
	if !c.Equal(c.AddMixed(p, gen), c.Double(p)) {
		t.Error("add_mixed(G, G) != double(G)")
	}
}

func TestCurveDoubleStaysOnCurve(t *testing.T) {
	c, gen := newBlsG1(t)
	p := c.FromAffine(gen)
	for i := 0; i < 20; i++ {
		p = c.Double(p)
		aff, ok := c.ToAffine(p)
		if !ok {
			t.Fatal("doubling collapsed to infinity")
		}
		if !c.IsOnCurve(aff) {
			t.Fatalf("2^%d G left the curve", i+1)
		}
	}
}

func TestCurveScalarMul(t *testing.T) {
	c, gen := newBlsG1(t)
	fr := c.ScalarField()
	p := c.FromAffine(gen)

	if !c.IsZero(c.Mul(p, fr.Zero())) {
		t.Error("P * 0 != 0")
	}
	if !c.Equal(c.Mul(p, fr.One()), p) {
		t.Error("P * 1 != P")
	}
	if !c.IsZero(c.Mul(c.Zero(), fr.FromUint64(12345))) {
		t.Error("0 * k != 0")
	}
	if !c.Equal(c.Mul(p, fr.FromUint64(2)), c.Double(p)) {
		t.Error("P * 2 != double(P)")
	}

	// Distributivity over scalar addition.
	s := NewSampler([]byte("scalars"))
	r := fr.Modulus()
	for i := 0; i < 5; i++ {
		k1 := s.Int(r)
		k2 := s.Int(r)
		k3 := new(big.Int).Add(k1, k2)
		k3.Mod(k3, r)
		lhs := c.Mul(p, fr.FromBig(k3))
		rhs := c.Add(c.Mul(p, fr.FromBig(k1)), c.Mul(p, fr.FromBig(k2)))
		if !c.Equal(lhs, rhs) {
			t.Fatalf("P*(k1+k2) != P*k1 + P*k2 at case %d", i)
		}
	}
}

func TestCurveMulWindowedMatchesMulExponent(t *testing.T) {
	c, gen := newBlsG1(t)
	fr := c.ScalarField()
	p := c.FromAffine(gen)
	s := NewSampler([]byte("windowed"))

	for _, window := range []int{2, 4, 5} {
		for i := 0; i < 5; i++ {
			exp := s.Repr(fr)
			if !c.Equal(c.MulWindowed(p, exp, window), c.MulExponent(p, exp)) {
				t.Fatalf("windowed (w=%d) disagrees with bit-serial at case %d", window, i)
			}
		}
	}
}

// The host reference must agree with an independent secp256k1
// implementation.
func TestCurveAgainstBtcec(t *testing.T) {
	params := btcec.S256().Params()
	fq, err := NewField(params.P, 8, 32)
	if err != nil {
		t.Fatal(err)
	}
	fr, err := NewField(params.N, 8, 32)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCurve(fq, fr, params.B)
	if err != nil {
		t.Fatal(err)
	}
	gen := Affine{X: fq.FromBig(params.Gx), Y: fq.FromBig(params.Gy)}
	if !c.IsOnCurve(gen) {
		t.Fatal("btcec generator rejected by the host reference")
	}
	base := c.FromAffine(gen)

	s := NewSampler([]byte("btcec"))
	for i := 0; i < 10; i++ {
		k := s.Int(params.N)
		if k.Sign() == 0 {
			continue
		}
		aff, ok := c.ToAffine(c.Mul(base, fr.FromBig(k)))
		if !ok {
			t.Fatalf("k*G collapsed to infinity for k = %v", k)
		}

		kBytes := make([]byte, 32)
		k.FillBytes(kBytes)
		wantX, wantY := btcec.S256().ScalarBaseMult(kBytes)
		if fq.ToBig(aff.X).Cmp(wantX) != 0 || fq.ToBig(aff.Y).Cmp(wantY) != 0 {
			t.Fatalf("scalar mult disagrees with btcec for k = %v", k)
		}
	}
}
