// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/export-engine/internal/export"
	"github.com/pdiddy/export-engine/internal/history"
	"github.com/pdiddy/export-engine/internal/render"
	"github.com/pdiddy/export-engine/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Render a Markdown file (or stdin) into a PDF",
	Long: `Export converts a Markdown document into a styled PDF in the export
directory and prints the written file's absolute path. Reads the named file,
or stdin when the argument is omitted or is "-".

The filename is derived from the title plus a timestamp; repeated exports
with the same title never overwrite each other.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	content, source, err := readContent(args)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	if title == "" && source != "" {
		base := filepath.Base(source)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if title == "" {
		return fmt.Errorf("title required: pass --title when reading from stdin")
	}

	cfg := pipelineConfig(cmd)

	engine, err := render.NewEngine(cfg.Render)
	if err != nil {
		return err
	}

	var recorder export.Recorder
	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			// History is best-effort; the export itself still proceeds.
			fmt.Fprintf(os.Stderr, "warning: export history unavailable: %v\n", err)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	exporter := export.New(engine, cfg.Export, recorder, os.Stderr)

	rec, err := exporter.Export(cmd.Context(), types.ExportRequest{
		Content: string(content),
		Title:   title,
	})
	if err != nil {
		return err
	}

	fmt.Println(rec.Path)
	return nil
}

// readContent returns the Markdown bytes and the source filename ("" for stdin).
func readContent(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, args[0], nil
}

// pipelineConfig assembles the stage configuration from flags, the config
// file, and defaults, in that order.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	fontSize, _ := cmd.Flags().GetFloat64("font-size")
	if fontSize == 0 {
		fontSize = viper.GetFloat64("render.font_size")
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	historyEnabled := !noHistory
	if historyEnabled && viper.IsSet("history.enabled") {
		historyEnabled = viper.GetBool("history.enabled")
	}

	return types.PipelineConfig{
		Render: types.RenderConfig{
			Backend:  types.RenderBackend(setting(cmd, "backend", "render.backend", "builtin")),
			FontSize: fontSize,
			Fonts: types.FontConfig{
				Regular: setting(cmd, "font-regular", "render.fonts.regular", ""),
				Bold:    setting(cmd, "font-bold", "render.fonts.bold", ""),
				Italic:  setting(cmd, "font-italic", "render.fonts.italic", ""),
				Mono:    setting(cmd, "font-mono", "render.fonts.mono", ""),
				CJK:     setting(cmd, "font-cjk", "render.fonts.cjk", ""),
			},
		},
		Export: types.ExportConfig{
			ExportDir: setting(cmd, "export-dir", "export.export_dir", "exports"),
		},
		History: types.HistoryConfig{
			Enabled:    historyEnabled,
			HistoryDir: setting(cmd, "history-dir", "history.history_dir", "history"),
			MaxResults: viper.GetInt("history.max_results"),
		},
	}
}

func init() {
	exportCmd.Flags().String("title", "", "document title and filename prefix (default: source filename)")
	exportCmd.Flags().String("export-dir", "", "directory for generated PDFs (default exports)")
	exportCmd.Flags().String("backend", "", "rendering backend: builtin or weasyprint")
	exportCmd.Flags().Float64("font-size", 0, "base body font size in points")
	exportCmd.Flags().String("font-regular", "", "TTF path for the regular face")
	exportCmd.Flags().String("font-bold", "", "TTF path for the bold face")
	exportCmd.Flags().String("font-italic", "", "TTF path for the italic face")
	exportCmd.Flags().String("font-mono", "", "TTF path for the code face")
	exportCmd.Flags().String("font-cjk", "", "TTF path for a CJK-capable face")
	exportCmd.Flags().Bool("no-history", false, "skip recording this export in the history log")
	exportCmd.Flags().String("history-dir", "", "directory for the export history (default history)")

	rootCmd.AddCommand(exportCmd)
}
