// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error kinds surfaced by the export pipeline. Callers match them with
// errors.Is; the wrapped message carries the detail.
var (
	// ErrInvalidInput indicates empty or unrenderable Markdown content,
	// or a blank title.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorage indicates the export directory could not be created or
	// the output file could not be written.
	ErrStorage = errors.New("storage failure")

	// ErrRenderConfiguration indicates a missing or unusable rendering
	// resource: a font file, a CJK-capable face for CJK content, or an
	// unavailable rendering backend.
	ErrRenderConfiguration = errors.New("render configuration error")
)
