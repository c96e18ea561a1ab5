package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/qrstyle"
	"github.com/systmms/qrstyle/internal/config"
	"github.com/systmms/qrstyle/internal/matrix"
	"github.com/systmms/qrstyle/internal/qrencode"
	"github.com/systmms/qrstyle/internal/qrencode/qrcodeecc"
)

var (
	renderText       string
	renderConfigPath string
	renderOut        string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a QR code SVG from a text payload and a config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Defaults()
		if renderConfigPath != "" {
			loaded, err := config.Load(renderConfigPath)
			if err != nil {
				return fmt.Errorf("loading config %s: %w", renderConfigPath, err)
			}
			cfg = loaded
			logger.Info("loaded config", "path", renderConfigPath)
		}

		qr, err := qrencode.EncodeText(renderText, qrcodeecc.Medium)
		if err != nil {
			return fmt.Errorf("encoding text: %w", err)
		}
		m, err := matrix.Classify(qr.DarkModules(), int(qr.Version().Value()), matrix.ECCMedium)
		if err != nil {
			return fmt.Errorf("classifying matrix: %w", err)
		}

		result, err := qrstyle.Render(m, cfg)
		if err != nil {
			return err
		}

		if len(result.Report.Findings) > 0 {
			logger.Warn("render produced warnings", "count", len(result.Report.Findings))
		}

		if renderOut == "" || renderOut == "-" {
			_, err = os.Stdout.Write(result.SVG)
			return err
		}
		return os.WriteFile(renderOut, result.SVG, 0o644)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderText, "text", "t", "", "text payload to encode")
	renderCmd.Flags().StringVarP(&renderConfigPath, "config", "c", "", "path to a YAML style config")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "-", "output SVG path, or - for stdout")
	renderCmd.MarkFlagRequired("text")
}
