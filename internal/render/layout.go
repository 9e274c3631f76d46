// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/signintech/gopdf"

	"github.com/pdiddy/export-engine/internal/markdown"
)

// A4 geometry in points, top-left origin.
const (
	pageWidth    = 595.28
	pageHeight   = 841.89
	margin       = 56.7 // 2 cm
	contentWidth = pageWidth - 2*margin
	bottomLimit  = pageHeight - margin

	cellPad     = 4.0
	listIndent  = 18.0
	quoteIndent = 14.0
)

// Body text color.
const (
	textR, textG, textB = 33, 33, 33
)

var headingScale = map[int]float64{1: 2.0, 2: 1.6, 3: 1.35, 4: 1.15, 5: 1.0, 6: 0.9}

func lineHeight(size float64) float64 { return size * 1.45 }

// chunk is an unbreakable run of text: a word with its trailing space, a
// single CJK rune, or a hard break marker.
type chunk struct {
	text  string
	style markdown.Style
	link  string
	cjk   bool
	brk   bool
	width float64
}

// line is a laid-out row of chunks with its measured width.
type line struct {
	chunks []chunk
	width  float64
}

// writer lays blocks out onto gopdf pages, tracking the vertical cursor and
// page count.
type writer struct {
	pdf   *gopdf.GoPdf
	fonts FontSet
	size  float64
	y     float64
	pages int
}

func newWriter(pdf *gopdf.GoPdf, fonts FontSet, size float64) *writer {
	pdf.AddPage()
	return &writer{pdf: pdf, fonts: fonts, size: size, y: margin, pages: 1}
}

// blocks renders a block sequence at x with the given width, separating
// blocks with a vertical gap.
func (w *writer) blocks(ctx context.Context, blocks []markdown.Block, x, width float64) error {
	for i, b := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.block(ctx, b, x, width); err != nil {
			return err
		}
		if i < len(blocks)-1 {
			w.y += w.size * 0.6
		}
	}
	return nil
}

func (w *writer) block(ctx context.Context, b markdown.Block, x, width float64) error {
	switch t := b.(type) {
	case markdown.Heading:
		return w.heading(t, x, width)
	case markdown.Paragraph:
		return w.paragraph(t.Spans, w.size, x, width)
	case markdown.CodeBlock:
		return w.codeBlock(t, x, width)
	case markdown.List:
		return w.list(ctx, t, x, width)
	case markdown.Table:
		return w.table(t, x, width)
	case markdown.Blockquote:
		return w.blockquote(ctx, t, x, width)
	case markdown.Rule:
		return w.rule(x, width)
	default:
		return nil
	}
}

func (w *writer) heading(h markdown.Heading, x, width float64) error {
	scale := headingScale[h.Level]
	if scale == 0 {
		scale = 1.0
	}
	spans := make([]markdown.Span, len(h.Spans))
	for i, s := range h.Spans {
		s.Style |= markdown.StyleBold
		spans[i] = s
	}
	return w.paragraph(spans, w.size*scale, x, width)
}

func (w *writer) paragraph(spans []markdown.Span, size, x, width float64) error {
	lines, err := w.layout(spans, size, width)
	if err != nil {
		return err
	}
	return w.writeLines(lines, size, x, width, markdown.AlignDefault)
}

// setFontFor selects the gopdf family for a chunk. CJK wins over style so
// CJK text inside code spans or bold runs still gets covering glyphs.
func (w *writer) setFontFor(c chunk, size float64) error {
	family := familyRegular
	switch {
	case c.cjk && w.fonts.CJK != "":
		family = familyCJK
	case c.style&markdown.StyleCode != 0:
		family = familyMono
	case c.style&markdown.StyleBold != 0:
		family = familyBold
	case c.style&markdown.StyleItalic != 0:
		family = familyItalic
	}
	return w.pdf.SetFont(family, "", size)
}

func (w *writer) setColorFor(c chunk) {
	switch {
	case c.link != "":
		w.pdf.SetTextColor(5, 99, 193)
	case c.style&markdown.StyleCode != 0:
		w.pdf.SetTextColor(166, 38, 57)
	default:
		w.pdf.SetTextColor(textR, textG, textB)
	}
}

// layout fills chunks into lines no wider than width. Oversized single
// atoms (long words, URLs) are split at rune boundaries.
func (w *writer) layout(spans []markdown.Span, size, width float64) ([]line, error) {
	var lines []line
	var cur line
	flush := func() {
		lines = append(lines, cur)
		cur = line{}
	}

	for _, atom := range atoms(spans) {
		if atom.brk {
			flush()
			continue
		}
		if err := w.setFontFor(atom, size); err != nil {
			return nil, err
		}
		aw, err := w.pdf.MeasureTextWidth(atom.text)
		if err != nil {
			return nil, err
		}
		atom.width = aw

		if atom.width > width {
			pieces, err := w.splitChunk(atom, size, width)
			if err != nil {
				return nil, err
			}
			for _, p := range pieces {
				if cur.width+p.width > width && len(cur.chunks) > 0 {
					flush()
				}
				cur.chunks = append(cur.chunks, p)
				cur.width += p.width
			}
			continue
		}

		if cur.width+atom.width > width && len(cur.chunks) > 0 {
			flush()
			if strings.TrimSpace(atom.text) == "" {
				continue // no leading whitespace after a wrap
			}
		}
		cur.chunks = append(cur.chunks, atom)
		cur.width += atom.width
	}
	if len(cur.chunks) > 0 {
		flush()
	}
	if len(lines) == 0 {
		lines = append(lines, line{})
	}
	return lines, nil
}

// atoms flattens spans into unbreakable atoms.
func atoms(spans []markdown.Span) []chunk {
	var out []chunk
	for _, s := range spans {
		if s.Break {
			out = append(out, chunk{brk: true})
			continue
		}
		out = append(out, tokenize(s)...)
	}
	return out
}

// tokenize splits a span into atoms: words with their trailing space
// attached, and individual CJK runes (CJK text wraps at any rune).
func tokenize(s markdown.Span) []chunk {
	var out []chunk
	var word []rune
	flushWord := func() {
		if len(word) > 0 {
			out = append(out, chunk{text: string(word), style: s.Style, link: s.Link})
			word = nil
		}
	}

	for _, r := range s.Text {
		switch {
		case markdown.IsCJKRune(r):
			flushWord()
			out = append(out, chunk{text: string(r), style: s.Style, link: s.Link, cjk: true})
		case r == ' ' || r == '\t':
			word = append(word, ' ')
			flushWord()
		default:
			word = append(word, r)
		}
	}
	flushWord()
	return out
}

// splitChunk cuts one over-wide chunk into pieces that each fit width.
func (w *writer) splitChunk(c chunk, size, width float64) ([]chunk, error) {
	if c.text == "" {
		return []chunk{c}, nil
	}
	if err := w.setFontFor(c, size); err != nil {
		return nil, err
	}

	piece := func(text string, pw float64) chunk {
		return chunk{text: text, style: c.style, link: c.link, cjk: c.cjk, width: pw}
	}

	var out []chunk
	var cur []rune
	curW := 0.0
	for _, r := range c.text {
		rw, err := w.pdf.MeasureTextWidth(string(r))
		if err != nil {
			return nil, err
		}
		if curW+rw > width && len(cur) > 0 {
			out = append(out, piece(string(cur), curW))
			cur, curW = nil, 0
		}
		cur = append(cur, r)
		curW += rw
	}
	if len(cur) > 0 {
		out = append(out, piece(string(cur), curW))
	}
	return out, nil
}

// writeLines emits laid-out lines at x, honoring the column alignment.
func (w *writer) writeLines(lines []line, size, x, width float64, align markdown.Alignment) error {
	lh := lineHeight(size)
	for _, ln := range lines {
		w.ensureSpace(lh)

		startX := x
		switch align {
		case markdown.AlignCenter:
			startX = x + (width-ln.width)/2
		case markdown.AlignRight:
			startX = x + width - ln.width
		}
		w.pdf.SetXY(startX, w.y)

		for _, c := range ln.chunks {
			if err := w.setFontFor(c, size); err != nil {
				return err
			}
			w.setColorFor(c)
			chunkX := w.pdf.GetX()
			if err := w.pdf.Cell(nil, c.text); err != nil {
				return err
			}
			if c.link != "" {
				w.pdf.AddExternalLink(c.link, chunkX, w.y, c.width, lh)
			}
			if c.style&markdown.StyleStrike != 0 {
				w.pdf.SetStrokeColor(textR, textG, textB)
				w.pdf.SetLineWidth(0.6)
				w.pdf.Line(chunkX, w.y+size*0.55, chunkX+c.width, w.y+size*0.55)
			}
		}
		w.pdf.SetTextColor(textR, textG, textB)
		w.y += lh
	}
	return nil
}

func (w *writer) codeBlock(cb markdown.CodeBlock, x, width float64) error {
	size := w.size * 0.9
	lh := lineHeight(size)

	srcLines := cb.Lines
	if len(srcLines) == 0 {
		srcLines = []string{""}
	}

	// No syntax highlighting; the language tag only travels in the model.
	for _, src := range srcLines {
		pieces, err := w.splitChunk(chunk{text: src, style: markdown.StyleCode}, size, width-2*cellPad)
		if err != nil {
			return err
		}
		for _, p := range pieces {
			w.ensureSpace(lh)
			w.pdf.SetFillColor(246, 248, 250)
			w.pdf.RectFromUpperLeftWithStyle(x, w.y, width, lh, "F")
			if err := w.setFontFor(p, size); err != nil {
				return err
			}
			w.pdf.SetTextColor(36, 41, 46)
			w.pdf.SetXY(x+cellPad, w.y)
			if err := w.pdf.Cell(nil, p.text); err != nil {
				return err
			}
			w.y += lh
		}
	}

	w.pdf.SetTextColor(textR, textG, textB)
	return nil
}

func (w *writer) list(ctx context.Context, l markdown.List, x, width float64) error {
	for i, item := range l.Items {
		label := "•"
		if l.Ordered {
			label = fmt.Sprintf("%d.", l.Start+i)
		}

		w.ensureSpace(lineHeight(w.size))
		if err := w.setFontFor(chunk{}, w.size); err != nil {
			return err
		}
		w.pdf.SetTextColor(textR, textG, textB)
		w.pdf.SetXY(x, w.y)
		if err := w.pdf.Cell(nil, label); err != nil {
			return err
		}

		if err := w.blocks(ctx, item.Blocks, x+listIndent, width-listIndent); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) table(t markdown.Table, x, width float64) error {
	cols := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return nil
	}
	colW := width / float64(cols)
	size := w.size * 0.95

	if len(t.Header) > 0 {
		hdr := make([]markdown.TableCell, len(t.Header))
		for i, c := range t.Header {
			spans := make([]markdown.Span, len(c.Spans))
			for j, s := range c.Spans {
				s.Style |= markdown.StyleBold
				spans[j] = s
			}
			hdr[i] = markdown.TableCell{Spans: spans, Align: c.Align}
		}
		if err := w.tableRow(hdr, cols, colW, x, size, true); err != nil {
			return err
		}
	}

	for _, row := range t.Rows {
		if err := w.tableRow(row, cols, colW, x, size, false); err != nil {
			return err
		}
	}
	return nil
}

// tableRow lays out and draws one row. Rows are kept whole: the page breaks
// between rows, never inside one (a row taller than a page will overflow).
func (w *writer) tableRow(cells []markdown.TableCell, cols int, colW, x, size float64, header bool) error {
	lh := lineHeight(size)

	laid := make([][]line, cols)
	maxLines := 1
	for i := 0; i < cols; i++ {
		var spans []markdown.Span
		if i < len(cells) {
			spans = cells[i].Spans
		}
		lines, err := w.layout(spans, size, colW-2*cellPad)
		if err != nil {
			return err
		}
		laid[i] = lines
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	rowH := float64(maxLines)*lh + 2*cellPad

	w.ensureSpace(rowH)
	top := w.y

	for i := 0; i < cols; i++ {
		cx := x + float64(i)*colW
		w.pdf.SetLineWidth(0.4)
		w.pdf.SetStrokeColor(180, 180, 180)
		if header {
			w.pdf.SetFillColor(240, 240, 240)
			w.pdf.RectFromUpperLeftWithStyle(cx, top, colW, rowH, "FD")
		} else {
			w.pdf.RectFromUpperLeftWithStyle(cx, top, colW, rowH, "D")
		}

		align := markdown.AlignDefault
		if i < len(cells) {
			align = cells[i].Align
		}
		w.y = top + cellPad
		if err := w.writeLines(laid[i], size, cx+cellPad, colW-2*cellPad, align); err != nil {
			return err
		}
	}

	w.y = top + rowH
	return nil
}

func (w *writer) blockquote(ctx context.Context, q markdown.Blockquote, x, width float64) error {
	top := w.y
	startPage := w.pages

	if err := w.blocks(ctx, q.Blocks, x+quoteIndent, width-quoteIndent); err != nil {
		return err
	}

	// The side bar is drawn only when the quote stays on one page.
	if w.pages == startPage {
		w.pdf.SetFillColor(200, 200, 200)
		w.pdf.RectFromUpperLeftWithStyle(x, top, 3, w.y-top, "F")
	}
	return nil
}

func (w *writer) rule(x, width float64) error {
	lh := lineHeight(w.size)
	w.ensureSpace(lh)
	w.pdf.SetStrokeColor(190, 190, 190)
	w.pdf.SetLineWidth(0.8)
	w.pdf.Line(x, w.y+lh/2, x+width, w.y+lh/2)
	w.y += lh
	return nil
}

// ensureSpace starts a new page when h does not fit above the bottom margin.
func (w *writer) ensureSpace(h float64) {
	if w.y+h > bottomLimit {
		w.pdf.AddPage()
		w.pages++
		w.y = margin
	}
}
