// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns parsed Markdown documents into PDF bytes with
// pluggable backends.
// Implements: prd001-render (R1-R5);
//
//	docs/ARCHITECTURE § Rendering.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/export-engine/internal/container"
	"github.com/pdiddy/export-engine/internal/markdown"
	"github.com/pdiddy/export-engine/pkg/types"
)

// Engine renders a parsed document into PDF bytes. Different backends
// (builtin, weasyprint) implement this interface.
type Engine interface {
	// Render produces a complete PDF. title goes into the document
	// metadata, not the page content.
	Render(ctx context.Context, doc *markdown.Document, title string) (*Result, error)

	// Backend identifies the rendering backend for history records.
	Backend() types.RenderBackend
}

// Result is a rendered PDF.
type Result struct {
	Data  []byte
	Pages int
}

// NewEngine constructs the rendering backend selected by cfg. An empty
// backend selects builtin (R5.1).
func NewEngine(cfg types.RenderConfig) (Engine, error) {
	switch cfg.Backend {
	case "", types.BackendBuiltin:
		return NewBuiltin(cfg)

	case types.BackendWeasyprint:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, fmt.Errorf("%w: weasyprint backend: %v", types.ErrRenderConfiguration, err)
		}
		return NewWeasyprint(rt)

	default:
		return nil, fmt.Errorf("%w: unsupported backend %q: use builtin or weasyprint",
			types.ErrRenderConfiguration, cfg.Backend)
	}
}

// countPages counts page objects in a serialized PDF. Used by backends that
// do not produce a page count of their own.
func countPages(data []byte) int {
	n := bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
	if n < 1 {
		n = 1
	}
	return n
}
