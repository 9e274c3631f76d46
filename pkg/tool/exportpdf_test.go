// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/export-engine/pkg/types"
)

// fakeExporter implements Exporter, capturing the request it receives.
type fakeExporter struct {
	req types.ExportRequest
	rec types.ExportRecord
	err error
}

func (f *fakeExporter) Export(_ context.Context, req types.ExportRequest) (types.ExportRecord, error) {
	f.req = req
	if f.err != nil {
		return types.ExportRecord{}, f.err
	}
	return f.rec, nil
}

func TestExportPDFDefinition(t *testing.T) {
	def := ExportPDFDefinition()

	assert.Equal(t, "export_pdf", def.Name)
	assert.NotEmpty(t, def.Description)
	require.NotNil(t, def.Parameters)

	// Both parameters are present and required; extra keys are rejected.
	assert.Equal(t, "object", def.Parameters.Type)
	_, ok := def.Parameters.Properties.Get("content")
	assert.True(t, ok)
	_, ok = def.Parameters.Properties.Get("title")
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"content", "title"}, def.Parameters.Required)
}

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, ToolExportPDF, defs[0].Name)
}

func TestHandlerExecute(t *testing.T) {
	exporter := &fakeExporter{
		rec: types.ExportRecord{Filename: "Report_20260501_100000.pdf", Path: "/exports/Report_20260501_100000.pdf"},
	}
	h := NewHandler(exporter)

	raw := json.RawMessage(`{"content": "# Report\n\nBody.", "title": "Report"}`)
	rec, err := h.Execute(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "Report", exporter.req.Title)
	assert.Equal(t, "# Report\n\nBody.", exporter.req.Content)
	assert.Equal(t, "/exports/Report_20260501_100000.pdf", rec.Path)
}

func TestHandlerExecute_BadJSON(t *testing.T) {
	h := NewHandler(&fakeExporter{})

	tests := []struct {
		name string
		raw  string
	}{
		{name: "malformed", raw: `{"content": `},
		{name: "wrong types", raw: `{"content": 42, "title": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidInput)
		})
	}
}
