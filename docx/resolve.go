package docx

import (
	"strings"

	"github.com/aerissecure/docmerge"
)

// Container is a paragraph-like sequence of formatted spans whose
// concatenated text is what the reader sees.
type Container interface {
	// Spans returns the current spans in order.
	Spans() []Span
	// Rewrite replaces every span with a single span holding text. The new
	// span inherits the formatting of span index from (-1 means unstyled);
	// a non-empty color overrides the inherited colour.
	Rewrite(text string, from int, color string)
}

const (
	// DefaultHighlightField is the placeholder rendered in HighlightColor.
	DefaultHighlightField = "Car Number"
	// DefaultHighlightColor is bright red.
	DefaultHighlightColor = "FF0000"
)

// Resolver substitutes placeholder tokens in containers.
type Resolver struct {
	HighlightField string // placeholder forced to HighlightColor; empty disables
	HighlightColor string // "RRGGBB"
}

// DefaultResolver highlights the registration number in red.
var DefaultResolver = Resolver{
	HighlightField: DefaultHighlightField,
	HighlightColor: DefaultHighlightColor,
}

// Resolve replaces the first {{name}} in c with value and reports whether the
// container changed. Tokens may straddle run boundaries; the container is
// matched on its full text and collapsed to a single run when it changes.
func (r Resolver) Resolve(c Container, name, value string) bool {
	spans := c.Spans()

	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	full := b.String()

	token := docmerge.Token(name)
	if !strings.Contains(full, token) {
		return false
	}

	from := styleSource(spans, full, token)

	color := ""
	if r.HighlightField != "" && name == r.HighlightField {
		color = r.HighlightColor
	}

	c.Rewrite(strings.Replace(full, token, value, 1), from, color)
	return true
}

// styleSource picks the span whose formatting the substituted text inherits:
// the first span holding the whole token, otherwise the span in which the
// first (straddling) occurrence begins.
func styleSource(spans []Span, full, token string) int {
	for i, s := range spans {
		if strings.Contains(s.Text, token) {
			return i
		}
	}
	start := strings.Index(full, token)
	off := 0
	for i, s := range spans {
		if start < off+len(s.Text) {
			return i
		}
		off += len(s.Text)
	}
	return -1
}

// ResolveAll substitutes every occurrence of {{name}} in c. It stops early if
// value itself reintroduces the token.
func (r Resolver) ResolveAll(c Container, name, value string) int {
	if strings.Contains(value, docmerge.Token(name)) {
		if r.Resolve(c, name, value) {
			return 1
		}
		return 0
	}
	n := 0
	for r.Resolve(c, name, value) {
		n++
	}
	return n
}
