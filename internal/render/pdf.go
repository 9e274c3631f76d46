// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"fmt"
	"time"

	"github.com/signintech/gopdf"

	"github.com/pdiddy/export-engine/internal/markdown"
	"github.com/pdiddy/export-engine/pkg/types"
)

// Font family names registered with gopdf.
const (
	familyRegular = "regular"
	familyBold    = "bold"
	familyItalic  = "italic"
	familyMono    = "mono"
	familyCJK     = "cjk"
)

const defaultFontSize = 11.0

// Builtin renders documents directly with gopdf: A4 pages, embedded TTF
// fonts, word wrap with CJK break-anywhere, tables, code blocks, and lists.
type Builtin struct {
	fonts    FontSet
	fontSize float64
}

// NewBuiltin resolves the font set and returns the direct rendering engine.
// An unresolvable regular face fails here; a missing CJK face only fails
// later, when CJK content is actually rendered (R4.1, R4.3).
func NewBuiltin(cfg types.RenderConfig) (*Builtin, error) {
	fonts, err := ResolveFonts(cfg.Fonts)
	if err != nil {
		return nil, err
	}

	size := cfg.FontSize
	if size <= 0 {
		size = defaultFontSize
	}

	return &Builtin{fonts: fonts, fontSize: size}, nil
}

// Backend identifies this engine in history records.
func (b *Builtin) Backend() types.RenderBackend { return types.BackendBuiltin }

// Render lays the document out into a complete PDF and returns its bytes
// and page count.
func (b *Builtin) Render(ctx context.Context, doc *markdown.Document, title string) (*Result, error) {
	if doc.HasCJK && b.fonts.CJK == "" {
		return nil, fmt.Errorf(
			"%w: content contains CJK text but no CJK-capable font is configured or discoverable",
			types.ErrRenderConfiguration)
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.SetInfo(gopdf.PdfInfo{
		Title:        title,
		Producer:     "export-engine",
		CreationDate: time.Now(),
	})

	if err := b.registerFonts(pdf); err != nil {
		return nil, err
	}

	w := newWriter(pdf, b.fonts, b.fontSize)
	if err := w.blocks(ctx, doc.Blocks, margin, contentWidth); err != nil {
		return nil, err
	}

	return &Result{Data: pdf.GetBytesPdf(), Pages: w.pages}, nil
}

func (b *Builtin) registerFonts(pdf *gopdf.GoPdf) error {
	faces := []struct {
		family string
		path   string
	}{
		{familyRegular, b.fonts.Regular},
		{familyBold, b.fonts.Bold},
		{familyItalic, b.fonts.Italic},
		{familyMono, b.fonts.Mono},
		{familyCJK, b.fonts.CJK},
	}

	for _, f := range faces {
		if f.path == "" {
			continue
		}
		if err := pdf.AddTTFFont(f.family, f.path); err != nil {
			return fmt.Errorf("%w: loading %s font %s: %v",
				types.ErrRenderConfiguration, f.family, f.path, err)
		}
	}
	return nil
}
