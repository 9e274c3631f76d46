// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tool exposes the export pipeline as an agent tool: a definition
// (name, description, JSON-schema parameters) plus an executing handler.
// The companion message/delivery tool belongs to the surrounding agent
// runtime, not to this package.
// Implements: prd004-tool-surface (R1-R3);
//
//	docs/ARCHITECTURE § Tool Surface.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/pdiddy/export-engine/pkg/types"
)

// ToolExportPDF is the tool name agents invoke.
const ToolExportPDF = "export_pdf"

// ExportPDFInput defines the JSON input for the export_pdf tool.
type ExportPDFInput struct {
	Content string `json:"content" jsonschema:"description=Markdown-formatted document body. Tables and fenced code blocks and lists and hard line breaks all render."`
	Title   string `json:"title" jsonschema:"description=Human-readable document title; also used as the output filename prefix."`
}

// Definition describes one tool to an agent runtime.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// GenerateSchema generates the JSON schema for a tool input type.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

// ExportPDFDefinition returns the export_pdf tool definition.
func ExportPDFDefinition() Definition {
	return Definition{
		Name: ToolExportPDF,
		Description: "Convert Markdown content to a styled PDF file and return its " +
			"absolute path. Use for documents the user wants as a file: reports, " +
			"summaries, formatted write-ups. CJK text is supported.",
		Parameters: GenerateSchema[ExportPDFInput](),
	}
}

// Definitions returns all tool definitions this package provides.
func Definitions() []Definition {
	return []Definition{ExportPDFDefinition()}
}

// Exporter is the pipeline surface the handler drives.
type Exporter interface {
	Export(ctx context.Context, req types.ExportRequest) (types.ExportRecord, error)
}

// Handler executes export_pdf calls against an Exporter.
type Handler struct {
	exporter Exporter
}

// NewHandler creates a Handler.
func NewHandler(exporter Exporter) *Handler {
	return &Handler{exporter: exporter}
}

// Execute runs one export_pdf invocation. Raw arguments that do not decode
// into ExportPDFInput are invalid input, matching the pipeline's own
// validation errors.
func (h *Handler) Execute(ctx context.Context, raw json.RawMessage) (types.ExportRecord, error) {
	var input ExportPDFInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return types.ExportRecord{}, fmt.Errorf("%w: decoding export_pdf arguments: %v",
			types.ErrInvalidInput, err)
	}

	return h.exporter.Export(ctx, types.ExportRequest{
		Content: input.Content,
		Title:   input.Title,
	})
}
