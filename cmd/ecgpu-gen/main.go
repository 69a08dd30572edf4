// Package main provides the ecgpu-gen CLI: it expands a descriptor file
// (or a built-in preset) into a CUDA/OpenCL translation unit.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ecgpu "ecgpu.mleku.dev"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ecgpu-gen",
		Short: "ecgpu-gen - GPU field and curve arithmetic source generator",
		Long: `ecgpu-gen expands a configuration of prime fields and short-Weierstrass
curves into a single source file compilable as both CUDA and OpenCL,
containing Montgomery field arithmetic and Jacobian group operations
with all symbols prefixed per field or curve.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ecgpu-gen v%s\n", version)
		},
	})

	rootCmd.AddCommand(newGenerateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate GPU source from a descriptor file or preset",
		RunE:  runGenerate,
	}
	genCmd.Flags().String("config", "", "YAML descriptor file (fields + curves)")
	genCmd.Flags().String("preset", "", "Built-in configuration: bls12381 or secp256k1")
	genCmd.Flags().String("out", "", "Output file (default: stdout)")
	genCmd.Flags().Bool("no-kernels", false, "Omit the device test kernels")
	return genCmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	preset, _ := cmd.Flags().GetString("preset")
	out, _ := cmd.Flags().GetString("out")
	noKernels, _ := cmd.Flags().GetBool("no-kernels")

	cfg, err := loadConfig(path, preset)
	if err != nil {
		return err
	}

	var src string
	if noKernels {
		src, err = ecgpu.GenerateLibrary(cfg)
	} else {
		src, err = ecgpu.Generate(cfg)
	}
	if err != nil {
		return err
	}

	if out == "" {
		fmt.Fprint(cmd.OutOrStdout(), src)
		return nil
	}
	// Written in one shot so a failed generation never leaves a partial
	// file behind.
	return os.WriteFile(out, []byte(src), 0o644)
}

func loadConfig(path, preset string) (*ecgpu.Config, error) {
	switch {
	case path != "" && preset != "":
		return nil, fmt.Errorf("--config and --preset are mutually exclusive")
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading descriptor file: %w", err)
		}
		return ecgpu.ParseConfigYAML(data)
	case preset == "bls12381":
		return ecgpu.BLS12381()
	case preset == "secp256k1":
		return ecgpu.Secp256k1()
	case preset != "":
		return nil, fmt.Errorf("unknown preset %q", preset)
	default:
		return nil, fmt.Errorf("either --config or --preset is required")
	}
}
