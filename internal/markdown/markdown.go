// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown parses Markdown into a renderer-neutral block model.
// Implements: prd001-render R1 (GFM parsing, CJK detection);
//
//	docs/ARCHITECTURE § Rendering.
package markdown

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Document is a parsed Markdown document. An empty Blocks slice means the
// source contained nothing renderable.
type Document struct {
	// Source is the original Markdown bytes, kept for backends that
	// re-render through HTML instead of consuming Blocks.
	Source []byte

	// Blocks is the block-level content in document order.
	Blocks []Block

	// HasCJK reports whether the source contains Han, Hiragana, Katakana,
	// or Hangul runes. Renderers use it to decide whether a CJK-capable
	// face is required (R4.3).
	HasCJK bool
}

// gm is shared: goldmark instances are safe for concurrent use.
var gm = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Parse converts Markdown source into a Document. Parsing itself cannot
// fail; callers treat a document with no blocks as invalid input.
func Parse(content string) *Document {
	source := []byte(content)
	root := gm.Parser().Parse(text.NewReader(source))

	return &Document{
		Source: source,
		Blocks: blocksOf(root, source),
		HasCJK: containsCJK(content),
	}
}

// ToHTML renders the document's source through Goldmark's HTML renderer.
// Used by backends that consume HTML instead of the block model.
func (d *Document) ToHTML() (string, error) {
	var b strings.Builder
	if err := gm.Convert(d.Source, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// IsCJKRune reports whether r is a Han, Hiragana, Katakana, or Hangul rune.
// Renderers also use it to pick a CJK face and to wrap CJK text at any rune.
func IsCJKRune(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

// containsCJK reports whether s contains any CJK rune.
func containsCJK(s string) bool {
	for _, r := range s {
		if IsCJKRune(r) {
			return true
		}
	}
	return false
}

// blocksOf converts the children of n into blocks, skipping nodes with no
// renderable mapping (raw HTML blocks).
func blocksOf(n ast.Node, src []byte) []Block {
	var out []Block
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if b, ok := blockOf(c, src); ok {
			out = append(out, b)
		}
	}
	return out
}

func blockOf(n ast.Node, src []byte) (Block, bool) {
	switch t := n.(type) {
	case *ast.Heading:
		return Heading{Level: t.Level, Spans: spansOf(t, src, 0, "")}, true

	case *ast.Paragraph:
		return Paragraph{Spans: spansOf(t, src, 0, "")}, true

	case *ast.TextBlock:
		// Tight list items wrap their text in a TextBlock.
		return Paragraph{Spans: spansOf(t, src, 0, "")}, true

	case *ast.FencedCodeBlock:
		return CodeBlock{
			Language: string(t.Language(src)),
			Lines:    codeLines(t, src),
		}, true

	case *ast.CodeBlock:
		return CodeBlock{Lines: codeLines(t, src)}, true

	case *ast.List:
		list := List{Ordered: t.IsOrdered(), Start: t.Start}
		if list.Ordered && list.Start == 0 {
			list.Start = 1
		}
		for item := t.FirstChild(); item != nil; item = item.NextSibling() {
			list.Items = append(list.Items, ListItem{Blocks: blocksOf(item, src)})
		}
		return list, true

	case *ast.Blockquote:
		return Blockquote{Blocks: blocksOf(t, src)}, true

	case *ast.ThematicBreak:
		return Rule{}, true

	case *east.Table:
		return tableOf(t, src), true

	default:
		return nil, false
	}
}

func tableOf(t *east.Table, src []byte) Table {
	var table Table
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		switch r := row.(type) {
		case *east.TableHeader:
			table.Header = cellsOf(r, src)
		case *east.TableRow:
			table.Rows = append(table.Rows, cellsOf(r, src))
		}
	}
	return table
}

func cellsOf(row ast.Node, src []byte) []TableCell {
	var cells []TableCell
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cell, ok := c.(*east.TableCell)
		if !ok {
			continue
		}
		cells = append(cells, TableCell{
			Spans: spansOf(cell, src, 0, ""),
			Align: alignmentOf(cell.Alignment),
		})
	}
	return cells
}

func alignmentOf(a east.Alignment) Alignment {
	switch a {
	case east.AlignLeft:
		return AlignLeft
	case east.AlignCenter:
		return AlignCenter
	case east.AlignRight:
		return AlignRight
	default:
		return AlignDefault
	}
}

// codeLines joins the source segments of a code block and splits them into
// lines without the trailing newline.
func codeLines(n ast.Node, src []byte) []string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	joined := strings.TrimSuffix(b.String(), "\n")
	if joined == "" {
		return nil
	}
	return strings.Split(joined, "\n")
}

// spansOf flattens the inline children of n into styled spans. Styles and
// link targets accumulate through nesting (bold inside a link, etc.).
func spansOf(n ast.Node, src []byte, style Style, link string) []Span {
	var spans []Span
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		spans = append(spans, inlineSpans(c, src, style, link)...)
	}
	return spans
}

func inlineSpans(n ast.Node, src []byte, style Style, link string) []Span {
	switch t := n.(type) {
	case *ast.Text:
		var spans []Span
		if s := string(t.Segment.Value(src)); s != "" {
			spans = append(spans, Span{Text: s, Style: style, Link: link})
		}
		switch {
		case t.HardLineBreak():
			spans = append(spans, Span{Break: true})
		case t.SoftLineBreak():
			spans = append(spans, Span{Text: " ", Style: style, Link: link})
		}
		return spans

	case *ast.String:
		return []Span{{Text: string(t.Value), Style: style, Link: link}}

	case *ast.Emphasis:
		if t.Level >= 2 {
			style |= StyleBold
		} else {
			style |= StyleItalic
		}
		return spansOf(t, src, style, link)

	case *ast.CodeSpan:
		return spansOf(t, src, style|StyleCode, link)

	case *east.Strikethrough:
		return spansOf(t, src, style|StyleStrike, link)

	case *ast.Link:
		return spansOf(t, src, style, string(t.Destination))

	case *ast.AutoLink:
		url := string(t.URL(src))
		return []Span{{Text: url, Style: style, Link: url}}

	case *ast.Image:
		// Images render as their alt text.
		return spansOf(t, src, style|StyleItalic, link)

	case *ast.RawHTML:
		return nil

	default:
		return spansOf(t, src, style, link)
	}
}
