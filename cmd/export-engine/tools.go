// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/export-engine/pkg/tool"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the agent tool definitions as JSON",
	Long: `Tools prints the JSON definitions of the tools this binary exposes to
agent frameworks, including the export_pdf parameter schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tool.Definitions())
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
