// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/export-engine/internal/markdown"
	"github.com/pdiddy/export-engine/internal/render"
	"github.com/pdiddy/export-engine/pkg/types"
)

// fakeEngine implements render.Engine for testing. It returns canned PDF
// bytes or an error, depending on configuration.
type fakeEngine struct {
	data []byte
	err  error
}

func (f *fakeEngine) Render(_ context.Context, _ *markdown.Document, _ string) (*render.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &render.Result{Data: f.data, Pages: 1}, nil
}

func (f *fakeEngine) Backend() types.RenderBackend { return types.BackendBuiltin }

// fakeRecorder implements Recorder, capturing records or failing on demand.
type fakeRecorder struct {
	records []types.ExportRecord
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, rec types.ExportRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

var pdfBytes = []byte("%PDF-1.4 fake body\n/Type /Page\n%%EOF")

func newTestExporter(t *testing.T, rec Recorder, warn io.Writer) (*Exporter, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "exports")
	e := New(&fakeEngine{data: pdfBytes}, types.ExportConfig{ExportDir: dir}, rec, warn)
	return e, dir
}

func TestExport_WritesPDF(t *testing.T) {
	e, dir := newTestExporter(t, nil, nil)

	rec, err := e.Export(context.Background(), types.ExportRequest{
		Content: "# Report\n\nBody.",
		Title:   "Weekly Report",
	})
	require.NoError(t, err)

	// Name follows <title>_<YYYYMMDD>_<HHMMSS>.pdf.
	assert.Regexp(t, regexp.MustCompile(`^Weekly_Report_\d{8}_\d{6}\.pdf$`), rec.Filename)
	assert.True(t, filepath.IsAbs(rec.Path))
	assert.Equal(t, int64(len(pdfBytes)), rec.SizeBytes)
	assert.Equal(t, types.BackendBuiltin, rec.Backend)

	// File exists, starts with the PDF magic, and no temp files remain.
	data, err := os.ReadFile(filepath.Join(dir, rec.Filename))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
	assertNoTempFiles(t, dir)
}

func TestExport_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  types.ExportRequest
	}{
		{name: "empty content", req: types.ExportRequest{Title: "T", Content: ""}},
		{name: "whitespace content", req: types.ExportRequest{Title: "T", Content: "  \n\t "}},
		{name: "empty title", req: types.ExportRequest{Title: "", Content: "# H"}},
		{name: "whitespace title", req: types.ExportRequest{Title: "   ", Content: "# H"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, dir := newTestExporter(t, nil, nil)

			_, err := e.Export(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidInput)

			// No file, not even the directory, is created.
			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestExport_RenderFailureLeavesNoFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	renderErr := errors.New("font table corrupt")
	e := New(&fakeEngine{err: renderErr}, types.ExportConfig{ExportDir: dir}, nil, nil)

	_, err := e.Export(context.Background(), types.ExportRequest{Title: "T", Content: "# H"})
	require.ErrorIs(t, err, renderErr)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_UnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0o555))
	t.Cleanup(func() { os.Chmod(parent, 0o755) })

	e := New(&fakeEngine{data: pdfBytes},
		types.ExportConfig{ExportDir: filepath.Join(parent, "exports")}, nil, nil)

	_, err := e.Export(context.Background(), types.ExportRequest{Title: "T", Content: "# H"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStorage)
}

func TestExport_CollisionSuffix(t *testing.T) {
	e, dir := newTestExporter(t, nil, nil)

	// Pin the clock so successive exports resolve to the same base name.
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	req := types.ExportRequest{Title: "Same Title", Content: "# H"}

	first, err := e.Export(context.Background(), req)
	require.NoError(t, err)
	second, err := e.Export(context.Background(), req)
	require.NoError(t, err)
	third, err := e.Export(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Same_Title_20260314_092653.pdf", first.Filename)
	assert.Equal(t, "Same_Title_20260314_092653-1.pdf", second.Filename)
	assert.Equal(t, "Same_Title_20260314_092653-2.pdf", third.Filename)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestExport_RecordsHistory(t *testing.T) {
	recorder := &fakeRecorder{}
	e, _ := newTestExporter(t, recorder, nil)

	rec, err := e.Export(context.Background(), types.ExportRequest{Title: "T", Content: "# H"})
	require.NoError(t, err)

	require.Len(t, recorder.records, 1)
	assert.Equal(t, rec.Filename, recorder.records[0].Filename)
}

func TestExport_RecorderFailureIsWarning(t *testing.T) {
	var warn strings.Builder
	recorder := &fakeRecorder{err: errors.New("database is locked")}
	e, dir := newTestExporter(t, recorder, &warn)

	rec, err := e.Export(context.Background(), types.ExportRequest{Title: "T", Content: "# H"})
	require.NoError(t, err)

	// Export succeeded despite the recorder failure.
	_, statErr := os.Stat(filepath.Join(dir, rec.Filename))
	assert.NoError(t, statErr)
	assert.Contains(t, warn.String(), "history recording failed")
	assert.Contains(t, warn.String(), "database is locked")
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}
