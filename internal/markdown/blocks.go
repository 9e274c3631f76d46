// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

// Style is a bitmask of inline text styles.
type Style uint8

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleCode
	StyleStrike
)

// Span is a run of text with uniform styling. A Span with Break set carries
// no text and forces a hard line break (two-space or backslash break).
type Span struct {
	Text  string
	Style Style
	Link  string
	Break bool
}

// Alignment is a table column alignment.
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Block is one renderable block-level element.
type Block interface {
	block()
}

// Heading is an ATX or setext heading, level 1-6.
type Heading struct {
	Level int
	Spans []Span
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Spans []Span
}

// CodeBlock is a fenced or indented code block, split into source lines.
type CodeBlock struct {
	Language string
	Lines    []string
}

// List is an ordered or unordered list. Items may nest further blocks.
type List struct {
	Ordered bool
	Start   int
	Items   []ListItem
}

// ListItem is one list entry.
type ListItem struct {
	Blocks []Block
}

// TableCell is one table cell with its resolved column alignment.
type TableCell struct {
	Spans []Span
	Align Alignment
}

// Table is a GFM table: one header row plus zero or more body rows.
type Table struct {
	Header []TableCell
	Rows   [][]TableCell
}

// Blockquote wraps nested blocks.
type Blockquote struct {
	Blocks []Block
}

// Rule is a thematic break.
type Rule struct{}

func (Heading) block()    {}
func (Paragraph) block()  {}
func (CodeBlock) block()  {}
func (List) block()       {}
func (Table) block()      {}
func (Blockquote) block() {}
func (Rule) block()       {}

// PlainText flattens spans to their unstyled text. Hard breaks become
// newlines.
func PlainText(spans []Span) string {
	var out []byte
	for _, s := range spans {
		if s.Break {
			out = append(out, '\n')
			continue
		}
		out = append(out, s.Text...)
	}
	return string(out)
}
