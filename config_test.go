package ecgpu

import (
	"math/big"
	"strings"
	"testing"
)

func testField(t *testing.T, name string, limbs, limbBits int) *Field {
	t.Helper()
	f, err := NewField(name, limbs, limbBits, mustHex(Bls12381RHex))
	if err != nil {
		t.Fatalf("NewField(%s): %v", name, err)
	}
	return f
}

func TestNewFieldRejectsBadDescriptors(t *testing.T) {
	r := mustHex(Bls12381RHex)

	testCases := []struct {
		name     string
		field    string
		limbs    int
		limbBits int
		modulus  *big.Int
		reason   string
	}{
		{name: "empty_name", field: "", limbs: 8, limbBits: 32, modulus: r, reason: "identifier"},
		{name: "bad_identifier", field: "2Fr", limbs: 8, limbBits: 32, modulus: r, reason: "identifier"},
		{name: "dash_in_name", field: "Fr-mont", limbs: 8, limbBits: 32, modulus: r, reason: "identifier"},
		{name: "odd_limbs", field: "Fr", limbs: 7, limbBits: 32, modulus: r, reason: "even"},
		{name: "zero_limbs", field: "Fr", limbs: 0, limbBits: 32, modulus: r, reason: "even"},
		{name: "bad_limb_bits", field: "Fr", limbs: 8, limbBits: 16, modulus: r, reason: "limb width"},
		{name: "nil_modulus", field: "Fr", limbs: 8, limbBits: 32, modulus: nil, reason: "positive"},
		{name: "even_modulus", field: "Fr", limbs: 8, limbBits: 32, modulus: big.NewInt(1 << 20), reason: "odd"},
		{name: "too_small_layout", field: "Fr", limbs: 4, limbBits: 32, modulus: r, reason: "bits"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewField(tc.field, tc.limbs, tc.limbBits, tc.modulus)
			if err == nil {
				t.Fatal("expected an error")
			}
			ce, ok := err.(*ConfigInvalidError)
			if !ok {
				t.Fatalf("got %T, want *ConfigInvalidError", err)
			}
			if !strings.Contains(ce.Reason, tc.reason) {
				t.Errorf("reason %q does not mention %q", ce.Reason, tc.reason)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	fq := testField(t, "Fq", 8, 32)
	fr := testField(t, "Fr", 8, 32)
	orphan := testField(t, "Orphan", 8, 32)
	g1, err := NewCurve("G1", fq, fr)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("valid", func(t *testing.T) {
		cfg := &Config{Fields: []*Field{fq, fr}, Curves: []*Curve{g1}}
		if err := cfg.validate(); err != nil {
			t.Errorf("validate: %v", err)
		}
	})

	t.Run("no_fields", func(t *testing.T) {
		if err := (&Config{}).validate(); err == nil {
			t.Error("expected error for empty configuration")
		}
	})

	t.Run("duplicate_field_name", func(t *testing.T) {
		dup := testField(t, "Fq", 8, 32)
		cfg := &Config{Fields: []*Field{fq, dup}}
		if err := cfg.validate(); err == nil {
			t.Error("expected error for duplicate field name")
		}
	})

	t.Run("curve_shadows_field_name", func(t *testing.T) {
		bad, err := NewCurve("Fq", fq, fr)
		if err != nil {
			t.Fatal(err)
		}
		cfg := &Config{Fields: []*Field{fq, fr}, Curves: []*Curve{bad}}
		if err := cfg.validate(); err == nil {
			t.Error("expected error for curve reusing a field name")
		}
	})

	t.Run("undeclared_base_field", func(t *testing.T) {
		bad, err := NewCurve("G1", orphan, fr)
		if err != nil {
			t.Fatal(err)
		}
		cfg := &Config{Fields: []*Field{fq, fr}, Curves: []*Curve{bad}}
		if err := cfg.validate(); err == nil {
			t.Error("expected error for undeclared base field")
		}
	})

	t.Run("undeclared_scalar_field", func(t *testing.T) {
		bad, err := NewCurve("G1", fq, orphan)
		if err != nil {
			t.Fatal(err)
		}
		cfg := &Config{Fields: []*Field{fq, fr}, Curves: []*Curve{bad}}
		if err := cfg.validate(); err == nil {
			t.Error("expected error for undeclared scalar field")
		}
	})
}

func TestDefaultLimbBits(t *testing.T) {
	t.Setenv(EnvNumBits, "")
	if got := DefaultLimbBits(); got != 32 {
		t.Errorf("default = %d, want 32", got)
	}
	t.Setenv(EnvNumBits, "64")
	if got := DefaultLimbBits(); got != 64 {
		t.Errorf("override = %d, want 64", got)
	}
	t.Setenv(EnvNumBits, "48")
	if got := DefaultLimbBits(); got != 32 {
		t.Errorf("invalid override = %d, want fallback 32", got)
	}
}

func TestIsCIdentifier(t *testing.T) {
	good := []string{"Fr", "blstrs__scalar__Scalar", "_p", "F2"}
	bad := []string{"", "2F", "Fr-mont", "Fr Fq", "Fr.q"}
	for _, s := range good {
		if !isCIdentifier(s) {
			t.Errorf("isCIdentifier(%q) = false, want true", s)
		}
	}
	for _, s := range bad {
		if isCIdentifier(s) {
			t.Errorf("isCIdentifier(%q) = true, want false", s)
		}
	}
}
