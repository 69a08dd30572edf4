// Package ecgpu generates self-contained GPU source text (compilable as
// both CUDA and OpenCL) implementing arbitrary-precision prime-field and
// short-Weierstrass elliptic-curve arithmetic. A configuration of fields
// and curves is expanded into one translation unit carrying per-field
// Montgomery arithmetic and per-curve Jacobian group operations, with
// every symbol prefixed by the field or curve name.
package ecgpu

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
)

// Supported limb widths for the generated representation.
const (
	LimbBits32 = 32
	LimbBits64 = 64
)

// EnvNumBits optionally overrides the default limb width used by the
// presets and the CLI. Accepted values are "32" and "64".
const EnvNumBits = "EC_GPU_NUM_BITS"

// Field describes one prime field of the configuration. Name becomes the
// prefix of every emitted symbol and must be a legal C identifier, unique
// across the whole configuration.
type Field struct {
	Name     string
	Limbs    int
	LimbBits int
	Modulus  *big.Int

	// Derived Montgomery parameters, filled in by NewField.
	r   *big.Int // R = 2^(Limbs*LimbBits) mod Modulus
	r2  *big.Int // R^2 mod Modulus
	inv uint64   // -Modulus^-1 mod 2^LimbBits
}

// Curve describes a short-Weierstrass a=0 curve over one of the
// configured fields. Base is the coordinate field, Scalar the field whose
// repr drives scalar multiplication.
type Curve struct {
	Name   string
	Base   *Field
	Scalar *Field
}

// Config is the complete input to the generator: every field and every
// curve that the emitted translation unit must contain.
type Config struct {
	Fields []*Field
	Curves []*Curve
}

// ConfigInvalidError reports a malformed field or curve descriptor.
// Generation aborts before any output is produced.
type ConfigInvalidError struct {
	Entry  string // name of the offending field or curve
	Reason string
}

func (e *ConfigInvalidError) Error() string {
	return fmt.Sprintf("invalid config entry %q: %s", e.Entry, e.Reason)
}

func configInvalid(entry, format string, args ...any) error {
	return &ConfigInvalidError{Entry: entry, Reason: fmt.Sprintf(format, args...)}
}

// NewField validates a field descriptor and derives its Montgomery
// parameters. The modulus must be odd and fit the limb layout, the limb
// count must be even (the NVIDIA reduction pairs limbs) and the limb
// width must be 32 or 64.
func NewField(name string, limbs, limbBits int, modulus *big.Int) (*Field, error) {
	if !isCIdentifier(name) {
		return nil, configInvalid(name, "field name must be a legal C identifier")
	}
	if limbBits != LimbBits32 && limbBits != LimbBits64 {
		return nil, configInvalid(name, "limb width must be 32 or 64, got %d", limbBits)
	}
	if limbs < 2 || limbs%2 != 0 {
		return nil, configInvalid(name, "limb count must be even and positive, got %d", limbs)
	}
	if modulus == nil || modulus.Sign() <= 0 {
		return nil, configInvalid(name, "modulus must be a positive integer")
	}
	if modulus.Bit(0) == 0 {
		return nil, configInvalid(name, "modulus must be odd")
	}
	if modulus.BitLen() > limbs*limbBits {
		return nil, configInvalid(name, "modulus has %d bits, representation only %d",
			modulus.BitLen(), limbs*limbBits)
	}
	f := &Field{
		Name:     name,
		Limbs:    limbs,
		LimbBits: limbBits,
		Modulus:  new(big.Int).Set(modulus),
	}
	var err error
	f.r, f.r2, f.inv, err = deriveMontgomery(f.Modulus, limbs, limbBits)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// NewCurve wires a curve over an already constructed base and scalar
// field. The fields must still be part of the Config handed to Generate.
func NewCurve(name string, base, scalar *Field) (*Curve, error) {
	if !isCIdentifier(name) {
		return nil, configInvalid(name, "curve name must be a legal C identifier")
	}
	if base == nil || scalar == nil {
		return nil, configInvalid(name, "curve needs both a base and a scalar field")
	}
	return &Curve{Name: name, Base: base, Scalar: scalar}, nil
}

// Bits returns the width of the full representation in bits.
func (f *Field) Bits() int { return f.Limbs * f.LimbBits }

// R returns the Montgomery radix 2^(Limbs*LimbBits) mod Modulus. ONE of
// the emitted field is exactly this value.
func (f *Field) R() *big.Int { return new(big.Int).Set(f.r) }

// R2 returns R^2 mod Modulus, the constant used to enter Montgomery form.
func (f *Field) R2() *big.Int { return new(big.Int).Set(f.r2) }

// Inv returns -Modulus^-1 mod 2^LimbBits, the low-limb Montgomery
// constant.
func (f *Field) Inv() uint64 { return f.inv }

// validate checks cross-descriptor invariants: unique names and curves
// referencing declared fields.
func (c *Config) validate() error {
	if len(c.Fields) == 0 {
		return configInvalid("", "configuration declares no fields")
	}
	names := make(map[string]bool, len(c.Fields)+len(c.Curves))
	declared := make(map[*Field]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f == nil {
			return configInvalid("", "nil field descriptor")
		}
		if names[f.Name] {
			return configInvalid(f.Name, "duplicate name")
		}
		names[f.Name] = true
		declared[f] = true
	}
	for _, e := range c.Curves {
		if e == nil {
			return configInvalid("", "nil curve descriptor")
		}
		if names[e.Name] {
			return configInvalid(e.Name, "duplicate name")
		}
		names[e.Name] = true
		if !declared[e.Base] {
			return configInvalid(e.Name, "base field is not part of the configuration")
		}
		if !declared[e.Scalar] {
			return configInvalid(e.Name, "scalar field is not part of the configuration")
		}
	}
	return nil
}

// DefaultLimbBits returns the limb width presets use: 32 unless the
// EC_GPU_NUM_BITS environment variable selects 64.
func DefaultLimbBits() int {
	v := os.Getenv(EnvNumBits)
	if v == "" {
		return LimbBits32
	}
	n, err := strconv.Atoi(v)
	if err == nil && (n == LimbBits32 || n == LimbBits64) {
		return n
	}
	return LimbBits32
}

func isCIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
