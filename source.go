package ecgpu

import "strings"

// Generate expands a configuration into one translation unit, valid
// under both nvcc and OpenCL. The output is a pure function of the
// configuration: same descriptors, byte-identical text.
//
// Fragment order: the portability preamble once, every field in
// declaration order, every curve (validation guarantees a curve's base
// and scalar fields are declared, so fields always precede the curves
// using them), then the test kernels for the first field and curve. No
// prefix is emitted twice.
func Generate(cfg *Config) (string, error) {
	return generate(cfg, true)
}

// GenerateLibrary is Generate without the trailing test kernels, for
// consumers that link the arithmetic into their own kernels.
func GenerateLibrary(cfg *Config) (string, error) {
	return generate(cfg, false)
}

func generate(cfg *Config, kernels bool) (string, error) {
	if err := cfg.validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(commonSource)

	// validate rejected duplicate names, so every prefix is emitted
	// exactly once and the preamble only here.
	for _, f := range cfg.Fields {
		b.WriteString(fieldSource(f))
	}
	for _, e := range cfg.Curves {
		b.WriteString(curveSource(e))
	}

	if kernels {
		var rep *Curve
		if len(cfg.Curves) > 0 {
			rep = cfg.Curves[0]
		}
		b.WriteString(kernelSource(cfg.Fields[0], rep))
	}
	return b.String(), nil
}
