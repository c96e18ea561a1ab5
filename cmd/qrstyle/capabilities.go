package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/qrstyle"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Print the shapes, frame shapes, clip modes, and merge strategies this build supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		caps := qrstyle.ListCapabilities()
		out, err := json.MarshalIndent(caps, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling capabilities: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}
