package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/qrstyle/internal/config"
	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/qrencode"
	"github.com/systmms/qrstyle/internal/qrencode/qrcodeecc"
	"github.com/systmms/qrstyle/internal/validate"
)

var validateConfigPath string

// validateCmd checks a style config against the Composition Validator's
// invariants (spec.md §4.9) without rendering an SVG. Since several of those
// invariants are ECC/version-dependent (centerpiece cap, function-pattern
// clipping), a small placeholder payload is encoded and classified purely to
// have a matrix to validate against; the payload text itself is discarded.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a style config against the composition invariants, without rendering",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(validateConfigPath)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", validateConfigPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("static config validation: %w", err)
		}

		ecl := qrcodeecc.Medium
		qr, err := qrencode.EncodeText("qrstyle validate placeholder", ecl)
		if err != nil {
			return fmt.Errorf("encoding placeholder payload: %w", err)
		}
		m, err := matrix.Classify(qr.DarkModules(), int(qr.Version().Value()), matrix.ECCMedium)
		if err != nil {
			return fmt.Errorf("classifying placeholder matrix: %w", err)
		}

		report, err := validate.Check(cfg, m)
		if err != nil {
			for _, f := range report.Findings {
				logger.Warn(f.Message, "code", f.Code, "severity", f.Severity, "field", f.Field)
			}
			return err
		}

		if len(report.Findings) == 0 {
			fmt.Println("no findings")
			return nil
		}
		for _, f := range report.Findings {
			fmt.Printf("[%s] %s: %s (%s)\n", f.Severity, f.Code, f.Message, f.Field)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "path to a YAML style config")
	validateCmd.MarkFlagRequired("config")
}
