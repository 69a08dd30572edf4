package ecgpu

import (
	"fmt"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlField is the on-disk shape of a field descriptor.
type yamlField struct {
	Name     string `yaml:"name"`
	Modulus  string `yaml:"modulus"`
	Limbs    int    `yaml:"limbs"`
	LimbBits int    `yaml:"limb_bits"`
}

// yamlCurve is the on-disk shape of a curve descriptor.
type yamlCurve struct {
	Name   string `yaml:"name"`
	Base   string `yaml:"base"`
	Scalar string `yaml:"scalar"`
}

type yamlConfig struct {
	Fields []yamlField `yaml:"fields"`
	Curves []yamlCurve `yaml:"curves"`
}

// ParseConfigYAML reads a descriptor file. Moduli are decimal or, with a
// 0x prefix, hexadecimal. A zero limb width falls back to
// DefaultLimbBits (so EC_GPU_NUM_BITS applies); a zero limb count is
// derived from the modulus size, rounded up to an even count.
func ParseConfigYAML(data []byte) (*Config, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing descriptor file: %w", err)
	}

	cfg := &Config{}
	byName := make(map[string]*Field, len(raw.Fields))
	for _, yf := range raw.Fields {
		modulus, err := parseModulus(yf.Modulus)
		if err != nil {
			return nil, configInvalid(yf.Name, "%v", err)
		}
		limbBits := yf.LimbBits
		if limbBits == 0 {
			limbBits = DefaultLimbBits()
		}
		limbs := yf.Limbs
		if limbs == 0 {
			limbs = limbCount(modulus.BitLen(), limbBits)
		}
		f, err := NewField(yf.Name, limbs, limbBits, modulus)
		if err != nil {
			return nil, err
		}
		cfg.Fields = append(cfg.Fields, f)
		byName[f.Name] = f
	}
	for _, yc := range raw.Curves {
		base, ok := byName[yc.Base]
		if !ok {
			return nil, configInvalid(yc.Name, "base field %q is not declared", yc.Base)
		}
		scalar, ok := byName[yc.Scalar]
		if !ok {
			return nil, configInvalid(yc.Name, "scalar field %q is not declared", yc.Scalar)
		}
		e, err := NewCurve(yc.Name, base, scalar)
		if err != nil {
			return nil, err
		}
		cfg.Curves = append(cfg.Curves, e)
	}
	return cfg, nil
}

func parseModulus(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("missing modulus")
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("unparseable modulus %q", s)
	}
	return v, nil
}
