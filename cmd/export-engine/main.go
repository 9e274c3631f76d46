// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the export-engine CLI.
// Implements: prd001-render, prd002-export, prd003-history,
//             prd004-tool-surface (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the export-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "export-engine",
	Short: "PDF export infrastructure for chat-automation agents",
	Long: `export-engine converts agent-authored Markdown into styled, paginated PDF
files on durable storage. The surrounding agent decides when to export and how
to deliver the file; export-engine handles rendering, naming, atomic writes,
and the export history.

Use export to render a document, history to inspect past exports, and tools
to print the agent tool definitions.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./export-engine.yaml or ~/.config/export-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("export-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "export-engine"))
		}
	}

	viper.SetEnvPrefix("EXPORT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setting returns the flag value when set, then the viper key, then fallback.
func setting(cmd *cobra.Command, flag, key, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
