package fp

import (
	"math/big"
	"testing"
)

func TestSamplerDeterministic(t *testing.T) {
	f := newTestField(t, blsRHex, 8, 32)
	a := NewSampler([]byte("seed"))
	b := NewSampler([]byte("seed"))
	for i := 0; i < 10; i++ {
		if !f.Eq(a.Element(f), b.Element(f)) {
			t.Fatal("same seed produced different elements")
		}
	}

	c := NewSampler([]byte("other"))
	if f.Eq(NewSampler([]byte("seed")).Element(f), c.Element(f)) {
		t.Error("different seeds produced identical streams")
	}
}

func TestSamplerIntRange(t *testing.T) {
	s := NewSampler([]byte("range"))
	for _, p := range []*big.Int{
		big.NewInt(7),
		big.NewInt(1 << 20),
		new(big.Int).SetUint64(0xffffffffffffffff),
	} {
		for i := 0; i < 50; i++ {
			v := s.Int(p)
			if v.Sign() < 0 || v.Cmp(p) >= 0 {
				t.Fatalf("Int(%v) out of range: %v", p, v)
			}
		}
	}
}

func TestFieldVectors(t *testing.T) {
	f := newTestField(t, blsRHex, 8, 32)
	cases := FieldVectors(f, []byte("kernels"), 16)
	if len(cases) != 16 {
		t.Fatalf("got %d cases", len(cases))
	}
	p := f.Modulus()
	for i, tc := range cases {
		// Recompute every expectation through big.Int.
		a, b := f.ToBig(tc.A), f.ToBig(tc.B)

		sum := new(big.Int).Mod(new(big.Int).Add(a, b), p)
		if f.ToBig(tc.Add).Cmp(sum) != 0 {
			t.Fatalf("case %d: bad add expectation", i)
		}
		diff := new(big.Int).Mod(new(big.Int).Sub(a, b), p)
		if f.ToBig(tc.Sub).Cmp(diff) != 0 {
			t.Fatalf("case %d: bad sub expectation", i)
		}
		prod := new(big.Int).Mod(new(big.Int).Mul(a, b), p)
		if f.ToBig(tc.Mul).Cmp(prod) != 0 {
			t.Fatalf("case %d: bad mul expectation", i)
		}
		sqr := new(big.Int).Mod(new(big.Int).Mul(a, a), p)
		if f.ToBig(tc.Sqr).Cmp(sqr) != 0 {
			t.Fatalf("case %d: bad sqr expectation", i)
		}
		dbl := new(big.Int).Mod(new(big.Int).Lsh(a, 1), p)
		if f.ToBig(tc.Double).Cmp(dbl) != 0 {
			t.Fatalf("case %d: bad double expectation", i)
		}
		pow := new(big.Int).Exp(a, new(big.Int).SetUint64(uint64(tc.Exp)), p)
		if f.ToBig(tc.Pow).Cmp(pow) != 0 {
			t.Fatalf("case %d: bad pow expectation", i)
		}
		if f.ReprToBig(tc.ARepr).Cmp(a) != 0 {
			t.Fatalf("case %d: bad repr expectation", i)
		}
	}

	again := FieldVectors(f, []byte("kernels"), 16)
	for i := range cases {
		if !f.Eq(cases[i].A, again[i].A) || !f.Eq(cases[i].Mul, again[i].Mul) {
			t.Fatal("vectors are not reproducible")
		}
	}
}

func TestCurveVectors(t *testing.T) {
	c, gen := newBlsG1(t)
	cases := CurveVectors(c, gen, []byte("points"), 8)
	for i, tc := range cases {
		// Bases stay on the curve.
		aff, ok := c.ToAffine(tc.Base)
		if !ok || !c.IsOnCurve(aff) {
			t.Fatalf("case %d: base left the curve", i)
		}
		// The expectation matches an independent windowed recomputation.
		want := c.MulWindowed(tc.Base, c.ScalarField().Unmont(tc.Scalar), 4)
		if !c.Equal(tc.Result, want) {
			t.Fatalf("case %d: result mismatch", i)
		}
	}
}
