// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/export-engine/internal/history"
	"github.com/pdiddy/export-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and export the export history log",
	Long: `History manages the SQLite log of completed exports. Use subcommands to
list recent exports or write the full log to YAML or JSON.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded exports, most recent first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), queryOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatListOutput(records, jsonOutput)
}

func formatListOutput(records []types.ExportRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No exports recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-19s  %-30s  %-5s  %-9s  %s\n",
		"Created", "Title", "Pages", "Size", "Path")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range records {
		title := r.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-19s  %-30s  %-5d  %-9d  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			title, r.Pages, r.SizeBytes, r.Path)
	}

	fmt.Fprintf(os.Stdout, "\n%d exports\n", len(records))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the export history to YAML or JSON",
	Long: `Export writes the history log (or a filtered subset) to
history/export.yaml or export.json. Supports the same filter flags as list.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to export.yaml")
	case "json":
		if err := store.ExportJSON(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func historyConfig(cmd *cobra.Command) types.HistoryConfig {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = viper.GetInt("history.max_results")
	}

	return types.HistoryConfig{
		Enabled:    true,
		HistoryDir: setting(cmd, "history-dir", "history.history_dir", "history"),
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command) history.QueryOptions {
	title, _ := cmd.Flags().GetString("title")
	backend, _ := cmd.Flags().GetString("backend")
	limit, _ := cmd.Flags().GetInt("limit")

	return history.QueryOptions{
		Title:      title,
		Backend:    backend,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().String("history-dir", "", "directory for the export history (default history)")
	historyCmd.PersistentFlags().Int("max-results", 0, "maximum number of list results")
	historyCmd.PersistentFlags().String("title", "", "filter by requested title")
	historyCmd.PersistentFlags().String("backend", "", "filter by rendering backend: builtin or weasyprint")
	historyCmd.PersistentFlags().Int("limit", 0, "maximum results (0 = use default)")

	// List flags.
	historyListCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
