package ecgpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const descriptorDoc = `
fields:
  - name: Fq
    modulus: "0x1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab"
    limbs: 12
    limb_bits: 32
  - name: Fr
    modulus: "0x73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001"
curves:
  - name: G1
    base: Fq
    scalar: Fr
`

func TestParseConfigYAML(t *testing.T) {
	t.Setenv(EnvNumBits, "")

	cfg, err := ParseConfigYAML([]byte(descriptorDoc))
	require.NoError(t, err)
	require.Len(t, cfg.Fields, 2)
	require.Len(t, cfg.Curves, 1)

	fq, fr := cfg.Fields[0], cfg.Fields[1]
	require.Equal(t, "Fq", fq.Name)
	require.Equal(t, 12, fq.Limbs)
	require.Equal(t, 32, fq.LimbBits)

	// Unset limb layout falls back to the default width and an even
	// derived limb count.
	require.Equal(t, 32, fr.LimbBits)
	require.Equal(t, 8, fr.Limbs)

	g1 := cfg.Curves[0]
	require.Equal(t, "G1", g1.Name)
	require.Same(t, fq, g1.Base)
	require.Same(t, fr, g1.Scalar)

	src, err := Generate(cfg)
	require.NoError(t, err)
	require.Contains(t, src, "G1__mul_exponent")
}

func TestParseConfigYAMLDecimalModulus(t *testing.T) {
	doc := `
fields:
  - name: Small
    modulus: "170141183460469231731687303715884105727"
    limbs: 4
    limb_bits: 32
`
	cfg, err := ParseConfigYAML([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, 127, cfg.Fields[0].Modulus.BitLen())
}

func TestParseConfigYAMLErrors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "broken_yaml", doc: "fields: ["},
		{name: "missing_modulus", doc: "fields:\n  - name: Fr\n"},
		{
			name: "bad_modulus",
			doc:  "fields:\n  - name: Fr\n    modulus: \"0xZZ\"\n",
		},
		{
			name: "undeclared_base",
			doc: descriptorDoc + `
  - name: G2
    base: Fq2
    scalar: Fr
`,
		},
		{
			name: "undeclared_scalar",
			doc: descriptorDoc + `
  - name: G2
    base: Fq
    scalar: Ft
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfigYAML([]byte(tc.doc))
			require.Error(t, err)
		})
	}
}
