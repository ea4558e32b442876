package docx

import (
	"fmt"
	"strings"
)

// Intermediate representation (IR) for DOCX documents.
//
// These types capture just the information the merge and HTML rendering steps
// care about. All colours are expressed as 6-character RGB hex strings without
// the leading "#" (e.g. "FF0000" for red).

// -----------------------------------------------------------------------------
// Run-level information
// -----------------------------------------------------------------------------

// RunStyle captures the character formatting for a run of text.
type RunStyle struct {
	FontFamily string  // e.g. "Calibri"
	FontSizePt float64 // size in points
	FontColor  string  // "RRGGBB"
	Bold       bool
	Italic     bool
	Underline  bool
}

func (s RunStyle) String() string {
	return fmt.Sprintf("FontFamily: %s, FontSizePt: %f, FontColor: %s, Bold: %t, Italic: %t, Underline: %t",
		s.FontFamily, s.FontSizePt, s.FontColor, s.Bold, s.Italic, s.Underline)
}

// inherit returns the subset of s that a substituted span keeps: font family,
// size, bold, italic and underline. Colour is deliberately not carried over.
func (s RunStyle) inherit() RunStyle {
	return RunStyle{
		FontFamily: s.FontFamily,
		FontSizePt: s.FontSizePt,
		Bold:       s.Bold,
		Italic:     s.Italic,
		Underline:  s.Underline,
	}
}

// Span is a contiguous run of text sharing one style (a <w:r>).
type Span struct {
	Text  string
	Style RunStyle
}

func (s Span) String() string {
	return fmt.Sprintf("Text: %q, Style: [%s]", s.Text, s.Style.String())
}

// -----------------------------------------------------------------------------
// Paragraph-level information
// -----------------------------------------------------------------------------

// ParagraphStyle captures paragraph-level formatting.
type ParagraphStyle struct {
	Alignment     string  // "left" | "center" | "right" | "justify"
	SpaceBeforePt float64 // spacing before paragraph in points
	SpaceAfterPt  float64 // spacing after paragraph in points
	HeadingLevel  int     // 0 means normal paragraph, 1-6 for headings
}

func (s ParagraphStyle) String() string {
	return fmt.Sprintf("Alignment: %s, SpaceBeforePt: %f, SpaceAfterPt: %f, HeadingLevel: %d",
		s.Alignment, s.SpaceBeforePt, s.SpaceAfterPt, s.HeadingLevel)
}

// Paragraph is the in-memory IR for a paragraph. It is also a Container, so
// the resolver can work on it without a backing DOCX.
type Paragraph struct {
	Runs  []Span
	Style ParagraphStyle
}

var _ Container = (*Paragraph)(nil)

// Spans implements Container.
func (p *Paragraph) Spans() []Span {
	return p.Runs
}

// Rewrite implements Container.
func (p *Paragraph) Rewrite(text string, from int, color string) {
	var st RunStyle
	if from >= 0 && from < len(p.Runs) {
		st = p.Runs[from].Style.inherit()
	}
	if color != "" {
		st.FontColor = color
	}
	p.Runs = []Span{{Text: text, Style: st}}
}

// Text returns the paragraph's displayed text.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func (p Paragraph) String() string {
	return fmt.Sprintf("Runs: %d, Style: [%s]", len(p.Runs), p.Style.String())
}

// -----------------------------------------------------------------------------
// Table-level information
// -----------------------------------------------------------------------------

// TableCellStyle represents the limited set of cell properties we are currently
// interested in.
type TableCellStyle struct {
	BackgroundColor string // fill colour – "RRGGBB"
	VerticalAlign   string // "top" | "middle" | "bottom"
}

func (s TableCellStyle) String() string {
	return fmt.Sprintf("BackgroundColor: %s, VerticalAlign: %s", s.BackgroundColor, s.VerticalAlign)
}

// TableCell is the IR for a single table cell. It can contain multiple
// paragraphs.
type TableCell struct {
	Paragraphs []Paragraph
	ColSpan    int // 1 if not horizontally merged
	Style      TableCellStyle
}

// TableRow represents a row within a table.
type TableRow struct {
	Cells []TableCell
}

// Table is the IR for a table – rows in order.
type Table struct {
	Rows []TableRow
}

func (t Table) String() string {
	return fmt.Sprintf("Rows: %d", len(t.Rows))
}

// -----------------------------------------------------------------------------
// Block ordering
// -----------------------------------------------------------------------------

// Block is a top-level element in the DOCX body – either a paragraph or a
// table. Exactly one of Paragraph/Table will be non-nil.
type Block struct {
	Paragraph *Paragraph
	Table     *Table
}

// Model is the top-level IR: body blocks in document order.
type Model struct {
	Blocks []Block
}

func (m Model) String() string {
	return fmt.Sprintf("Blocks: %d", len(m.Blocks))
}
