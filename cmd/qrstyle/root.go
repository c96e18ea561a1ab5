package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "qrstyle",
	Short: "Render styled, scannable QR code SVGs",
}

var logger *slog.Logger

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(capabilitiesCmd)
	rootCmd.AddCommand(validateCmd)
}
