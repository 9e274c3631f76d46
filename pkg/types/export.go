// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for the export pipeline.
// Implements: prd001-render R1.1-R1.3, prd002-export R2.1-R2.4 (data model).
package types

import "time"

// ExportRequest is the input of one PDF export operation.
// Per prd002-export R1.1: content is arbitrary user-authored Markdown
// (encoding-agnostic, non-Latin scripts included); title is a human-readable
// label also used to derive the output filename.
type ExportRequest struct {
	// Content is the Markdown-formatted document body.
	Content string `json:"content" yaml:"content"`

	// Title labels the document and prefixes the output filename.
	// It has no uniqueness constraint; the exporter sanitizes it.
	Title string `json:"title" yaml:"title"`
}

// ExportRecord describes one completed export: the operation result and the
// row persisted to the export history. Per prd002-export R3.1, prd003-history R1.2.
type ExportRecord struct {
	// ID is a UUID assigned when the record is stored.
	ID string `json:"id" yaml:"id"`

	// Title is the requested title before sanitization.
	Title string `json:"title" yaml:"title"`

	// Filename is the base name of the written PDF
	// (<sanitized title>_<YYYYMMDD>_<HHMMSS>.pdf).
	Filename string `json:"filename" yaml:"filename"`

	// Path is the absolute path of the written PDF.
	Path string `json:"path" yaml:"path"`

	// SizeBytes is the size of the written file.
	SizeBytes int64 `json:"size_bytes" yaml:"size_bytes"`

	// Pages is the page count of the generated document.
	Pages int `json:"pages" yaml:"pages"`

	// Backend identifies the rendering backend that produced the file.
	Backend RenderBackend `json:"backend" yaml:"backend"`

	// CreatedAt is the export timestamp (also embedded in Filename).
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
