// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RenderBackend identifies the PDF rendering backend.
// Per prd001-render R5.1.
type RenderBackend string

const (
	// BackendBuiltin renders directly with the embedded layout engine.
	BackendBuiltin RenderBackend = "builtin"

	// BackendWeasyprint pipes Goldmark HTML through a weasyprint container.
	BackendWeasyprint RenderBackend = "weasyprint"
)

// FontConfig holds TTF file paths for the builtin renderer. Empty fields fall
// back to discovery across standard system font directories; an unresolvable
// regular face is a configuration error. Per prd001-render R4.1-R4.4.
type FontConfig struct {
	// Regular is the base text face. Required (directly or via discovery).
	Regular string `json:"regular" yaml:"regular"`

	// Bold is the strong-emphasis face. Falls back to Regular.
	Bold string `json:"bold,omitempty" yaml:"bold,omitempty"`

	// Italic is the emphasis face. Falls back to Regular.
	Italic string `json:"italic,omitempty" yaml:"italic,omitempty"`

	// Mono is the code face. Falls back to Regular.
	Mono string `json:"mono,omitempty" yaml:"mono,omitempty"`

	// CJK is a face covering Han, Kana, and Hangul. Only required when the
	// rendered content actually contains CJK text (R4.3).
	CJK string `json:"cjk,omitempty" yaml:"cjk,omitempty"`
}

// RenderConfig holds settings for the rendering stage.
// Per prd001-render R5.1-R5.4.
type RenderConfig struct {
	// Backend selects the rendering backend: builtin or weasyprint.
	Backend RenderBackend `json:"backend" yaml:"backend"`

	// FontSize is the base body size in points (default 11).
	FontSize float64 `json:"font_size" yaml:"font_size"`

	// Fonts configures the builtin renderer's typefaces.
	Fonts FontConfig `json:"fonts" yaml:"fonts"`
}

// ExportConfig holds settings for the export stage.
// Per prd002-export R2.1.
type ExportConfig struct {
	// ExportDir is the directory receiving generated PDFs. Created on
	// demand if absent.
	ExportDir string `json:"export_dir" yaml:"export_dir"`
}

// HistoryConfig holds settings for the export history log.
// Per prd003-history R1.1, R2.3.
type HistoryConfig struct {
	// Enabled controls whether successful exports are recorded.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// HistoryDir is the directory holding the SQLite database and export
	// files (contains exports.db, export.yaml, export.json).
	HistoryDir string `json:"history_dir" yaml:"history_dir"`

	// MaxResults is the default maximum number of list results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the exporter.
type PipelineConfig struct {
	Render  RenderConfig  `json:"render" yaml:"render"`
	Export  ExportConfig  `json:"export" yaml:"export"`
	History HistoryConfig `json:"history" yaml:"history"`
}
