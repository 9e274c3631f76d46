// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export validates export requests, names output files, and writes
// rendered PDFs atomically into the export directory.
// Implements: prd002-export (R1-R3);
//
//	docs/ARCHITECTURE § Export.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/export-engine/internal/markdown"
	"github.com/pdiddy/export-engine/internal/render"
	"github.com/pdiddy/export-engine/pkg/types"
)

// Recorder persists a completed export. History recording is best-effort:
// a Recorder failure is reported as a warning, never as an export failure.
type Recorder interface {
	Record(ctx context.Context, rec types.ExportRecord) error
}

// Exporter runs the export pipeline: validate, render, write, record.
// Each call is independent; concurrent callers are safe because names are
// collision-suffixed and writes go temp-then-rename.
type Exporter struct {
	engine   render.Engine
	dir      string
	recorder Recorder
	warn     io.Writer
	now      func() time.Time
}

// New creates an Exporter writing into cfg.ExportDir (default "exports").
// recorder may be nil; warn receives non-fatal warnings and may be nil.
func New(engine render.Engine, cfg types.ExportConfig, recorder Recorder, warn io.Writer) *Exporter {
	dir := cfg.ExportDir
	if dir == "" {
		dir = "exports"
	}
	if warn == nil {
		warn = io.Discard
	}
	return &Exporter{
		engine:   engine,
		dir:      dir,
		recorder: recorder,
		warn:     warn,
		now:      time.Now,
	}
}

// Export converts req.Content to a PDF file and returns its record. The
// export directory is created on demand (R2.1); no partial file remains on
// any failure path (R3.2).
func (e *Exporter) Export(ctx context.Context, req types.ExportRequest) (types.ExportRecord, error) {
	var zero types.ExportRecord

	if strings.TrimSpace(req.Title) == "" {
		return zero, fmt.Errorf("%w: title must not be empty", types.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Content) == "" {
		return zero, fmt.Errorf("%w: content must not be empty", types.ErrInvalidInput)
	}

	doc := markdown.Parse(req.Content)
	if len(doc.Blocks) == 0 {
		return zero, fmt.Errorf("%w: content has no renderable Markdown blocks", types.ErrInvalidInput)
	}

	res, err := e.engine.Render(ctx, doc, req.Title)
	if err != nil {
		return zero, err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return zero, fmt.Errorf("%w: creating export directory %s: %v", types.ErrStorage, e.dir, err)
	}

	ts := e.now()
	path, filename, err := e.writeAtomic(res.Data, req.Title, ts)
	if err != nil {
		return zero, err
	}

	rec := types.ExportRecord{
		Title:     req.Title,
		Filename:  filename,
		Path:      path,
		SizeBytes: int64(len(res.Data)),
		Pages:     res.Pages,
		Backend:   e.engine.Backend(),
		CreatedAt: ts,
	}

	if e.recorder != nil {
		if err := e.recorder.Record(ctx, rec); err != nil {
			fmt.Fprintf(e.warn, "warning: export written but history recording failed: %v\n", err)
		}
	}

	return rec, nil
}

// writeAtomic writes data to a temp file in the export directory and renames
// it into place, bumping a numeric suffix when the target name is already
// taken (two exports with the same title in the same second).
func (e *Exporter) writeAtomic(data []byte, title string, ts time.Time) (string, string, error) {
	tmp, err := os.CreateTemp(e.dir, ".export-*.tmp")
	if err != nil {
		return "", "", fmt.Errorf("%w: creating temp file in %s: %v", types.ErrStorage, e.dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", "", fmt.Errorf("%w: writing %s: %v", types.ErrStorage, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", "", fmt.Errorf("%w: closing %s: %v", types.ErrStorage, tmpName, err)
	}

	base := Filename(title, ts)
	filename := base
	for n := 1; ; n++ {
		dst := filepath.Join(e.dir, filename)
		if _, err := os.Lstat(dst); err == nil {
			filename = strings.TrimSuffix(base, ".pdf") + fmt.Sprintf("-%d.pdf", n)
			continue
		}

		if err := os.Rename(tmpName, dst); err != nil {
			os.Remove(tmpName)
			return "", "", fmt.Errorf("%w: moving %s into place: %v", types.ErrStorage, dst, err)
		}
		// CreateTemp made the file 0600.
		_ = os.Chmod(dst, 0o644)

		abs, err := filepath.Abs(dst)
		if err != nil {
			abs = dst
		}
		return abs, filename, nil
	}
}
