package ecgpu

import (
	"math/big"
	"testing"
)

func TestDeriveMontgomeryBls12381Fr(t *testing.T) {
	r := mustHex(Bls12381RHex)

	testCases := []struct {
		name     string
		limbs    int
		limbBits int
		wantInv  uint64
	}{
		{name: "8x32", limbs: 8, limbBits: 32, wantInv: 0xffffffff},
		{name: "4x64", limbs: 4, limbBits: 64, wantInv: 0xfffffffeffffffff},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gotR, gotR2, gotInv, err := deriveMontgomery(r, tc.limbs, tc.limbBits)
			if err != nil {
				t.Fatalf("deriveMontgomery failed: %v", err)
			}
			if gotInv != tc.wantInv {
				t.Errorf("INV = %#x, want %#x", gotInv, tc.wantInv)
			}

			wantR := new(big.Int).Lsh(big.NewInt(1), uint(tc.limbs*tc.limbBits))
			wantR.Mod(wantR, r)
			if gotR.Cmp(wantR) != 0 {
				t.Errorf("R = %v, want %v", gotR, wantR)
			}
			wantR2 := new(big.Int).Mul(wantR, wantR)
			wantR2.Mod(wantR2, r)
			if gotR2.Cmp(wantR2) != 0 {
				t.Errorf("R2 = %v, want %v", gotR2, wantR2)
			}
		})
	}
}

// INV * p must be -1 modulo the limb base for the BLS12-381 preset fields.
func TestDeriveMontgomeryInvIdentity(t *testing.T) {
	moduli := map[string]*big.Int{
		"bls_q": mustHex(Bls12381QHex),
		"bls_r": mustHex(Bls12381RHex),
	}
	for name, p := range moduli {
		for _, limbBits := range []int{32, 64} {
			limbs := limbCount(p.BitLen(), limbBits)
			_, _, inv, err := deriveMontgomery(p, limbs, limbBits)
			if err != nil {
				t.Fatalf("%s/%d: %v", name, limbBits, err)
			}
			base := new(big.Int).Lsh(big.NewInt(1), uint(limbBits))
			prod := new(big.Int).Mul(new(big.Int).SetUint64(inv), p)
			prod.Mod(prod, base)
			want := new(big.Int).Sub(base, big.NewInt(1))
			if prod.Cmp(want) != 0 {
				t.Errorf("%s/%d: INV*p mod 2^%d = %v, want %v", name, limbBits, limbBits, prod, want)
			}
		}
	}
}

func TestDeriveMontgomeryEvenModulus(t *testing.T) {
	_, _, _, err := deriveMontgomery(big.NewInt(1<<16), 4, 32)
	if err == nil {
		t.Fatal("expected derivation to fail for an even modulus")
	}
	if _, ok := err.(*ParameterDerivationError); !ok {
		t.Fatalf("got %T, want *ParameterDerivationError", err)
	}
}

func TestLowWord(t *testing.T) {
	v, _ := new(big.Int).SetString("123456789abcdef0fedcba9876543211", 16)
	if got := lowWord(v); got != 0xfedcba9876543211 {
		t.Errorf("lowWord = %#x, want 0xfedcba9876543211", got)
	}
	if got := lowWord(big.NewInt(5)); got != 5 {
		t.Errorf("lowWord(5) = %d", got)
	}
}
