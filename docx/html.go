package docx

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

// DebugHTML adds data attributes with the raw style of every element.
var DebugHTML bool

// DocxToHTML converts a DOCX reader to a standalone HTML page.
func DocxToHTML(r io.ReaderAt, size int64) (string, error) {
	m, err := ParseModel(r, size)
	if err != nil {
		return "", err
	}
	return RenderHTML(m), nil
}

// RenderHTML converts the Model into a standalone HTML page.
func RenderHTML(m Model) string {
	return "<html><body>\n" + RenderBody(m) + "</body></html>\n"
}

// RenderBody renders the blocks of m without the surrounding page, so several
// documents can share one HTML file.
func RenderBody(m Model) string {
	var w htmlWriter
	for _, blk := range m.Blocks {
		switch {
		case blk.Paragraph != nil:
			w.paragraph(*blk.Paragraph)
		case blk.Table != nil:
			w.table(*blk.Table)
		}
	}
	return w.String()
}

var (
	unsafeFontRe = regexp.MustCompile(`[^a-zA-Z0-9 ,_-]+`)
	hexColorRe   = regexp.MustCompile(`^[0-9a-fA-F]{3}([0-9a-fA-F]{3})?$`)
)

// sanitizeFontFamily keeps only characters that cannot end a CSS value.
func sanitizeFontFamily(s string) string {
	return unsafeFontRe.ReplaceAllString(s, "")
}

// sanitizeColor returns s if it is 3 or 6 hex digits, else "".
func sanitizeColor(s string) string {
	if hexColorRe.MatchString(s) {
		return s
	}
	return ""
}

// css collects declarations for a style attribute.
type css []string

func (c *css) add(format string, args ...any) {
	*c = append(*c, fmt.Sprintf(format, args...)+";")
}

func (c *css) color(prop, hex string) {
	if safe := sanitizeColor(hex); safe != "" {
		c.add("%s:#%s", prop, safe)
	}
}

func (c css) String() string { return strings.Join(c, "") }

// attr renders ` style="..."` plus an optional debug attribute.
func (c css) attr(debugName string, debug fmt.Stringer) string {
	var a string
	if len(c) > 0 {
		a = fmt.Sprintf(` style="%s"`, c)
	}
	if DebugHTML {
		a += fmt.Sprintf(` data-%s="%s"`, debugName, html.EscapeString(debug.String()))
	}
	return a
}

func runCSS(s RunStyle) css {
	var c css
	if s.FontFamily != "" {
		c.add("font-family:'%s'", sanitizeFontFamily(s.FontFamily))
	}
	if s.FontSizePt > 0 {
		c.add("font-size:%.1fpt", s.FontSizePt)
	}
	c.color("color", s.FontColor)
	if s.Bold {
		c.add("font-weight:bold")
	}
	if s.Italic {
		c.add("font-style:italic")
	}
	if s.Underline {
		c.add("text-decoration:underline")
	}
	return c
}

func paragraphCSS(s ParagraphStyle) css {
	var c css
	switch s.Alignment {
	case "center", "right", "justify":
		c.add("text-align:%s", s.Alignment)
	}
	if s.SpaceBeforePt > 0 {
		c.add("margin-top:%.0fpt", s.SpaceBeforePt)
	}
	if s.SpaceAfterPt > 0 {
		c.add("margin-bottom:%.0fpt", s.SpaceAfterPt)
	}
	return c
}

func cellCSS(s TableCellStyle) css {
	var c css
	c.color("background-color", s.BackgroundColor)
	switch s.VerticalAlign {
	case "":
	case "top", "middle":
		c.add("vertical-align:%s", s.VerticalAlign)
	default:
		c.add("vertical-align:bottom")
	}
	c.add("border:1px solid #333")
	c.add("padding:4px")
	return c
}

type htmlWriter struct {
	strings.Builder
}

func (w *htmlWriter) spans(spans []Span) {
	for _, s := range spans {
		text := strings.ReplaceAll(html.EscapeString(s.Text), "\n", "<br>")
		fmt.Fprintf(w, "<span%s>%s</span>", runCSS(s.Style).attr("run-style", s.Style), text)
	}
}

func (w *htmlWriter) paragraph(p Paragraph) {
	tag := "p"
	if l := p.Style.HeadingLevel; l >= 1 && l <= 6 {
		tag = fmt.Sprintf("h%d", l)
	}
	fmt.Fprintf(w, "<%s%s>", tag, paragraphCSS(p.Style).attr("para-style", p.Style))
	w.spans(p.Runs)
	fmt.Fprintf(w, "</%s>\n", tag)
}

func (w *htmlWriter) table(t Table) {
	w.WriteString("<table style=\"border-collapse:collapse;\">\n")
	for _, row := range t.Rows {
		w.WriteString("  <tr>")
		for _, cell := range row.Cells {
			w.WriteString("<td")
			if cell.ColSpan > 1 {
				fmt.Fprintf(w, " colspan=\"%d\"", cell.ColSpan)
			}
			w.WriteString(cellCSS(cell.Style).attr("cell-style", cell.Style))
			w.WriteString(">")
			if len(cell.Paragraphs) == 0 {
				w.WriteString("&nbsp;")
			}
			for _, p := range cell.Paragraphs {
				w.paragraph(p)
			}
			w.WriteString("</td>")
		}
		w.WriteString("</tr>\n")
	}
	w.WriteString("</table>\n")
}
