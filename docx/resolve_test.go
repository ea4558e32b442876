package docx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAbsentTokenIsNoop(t *testing.T) {
	p := &Paragraph{Runs: []Span{
		{Text: "Dear ", Style: RunStyle{Bold: true}},
		{Text: "{{Name}}", Style: RunStyle{Italic: true}},
	}}
	before := append([]Span(nil), p.Runs...)

	changed := DefaultResolver.Resolve(p, "Address", "Storgatan 1")

	assert.False(t, changed)
	assert.Equal(t, before, p.Runs)
}

func TestResolveSingleSpanKeepsFormatting(t *testing.T) {
	style := RunStyle{FontFamily: "Arial", FontSizePt: 12, Bold: true, Italic: true, Underline: true}
	p := &Paragraph{Runs: []Span{{Text: "Hello {{Name}}!", Style: style}}}

	require.True(t, DefaultResolver.Resolve(p, "Name", "Anna"))

	require.Len(t, p.Runs, 1)
	assert.Equal(t, "Hello Anna!", p.Runs[0].Text)
	assert.Equal(t, style, p.Runs[0].Style)
}

func TestResolveDoesNotInheritColor(t *testing.T) {
	p := &Paragraph{Runs: []Span{{Text: "{{Name}}", Style: RunStyle{FontColor: "0000FF", Bold: true}}}}

	DefaultResolver.Resolve(p, "Name", "Anna")

	assert.Equal(t, RunStyle{Bold: true}, p.Runs[0].Style)
}

func TestResolveHighlightField(t *testing.T) {
	p := &Paragraph{Runs: []Span{
		{Text: "Reg: ", Style: RunStyle{FontColor: "00FF00"}},
		{Text: "{{Car Number}}", Style: RunStyle{FontColor: "0000FF", Bold: true}},
	}}

	require.True(t, DefaultResolver.Resolve(p, "Car Number", "ABC123"))

	require.Len(t, p.Runs, 1)
	assert.Equal(t, "Reg: ABC123", p.Runs[0].Text)
	assert.Equal(t, "FF0000", p.Runs[0].Style.FontColor)
	assert.True(t, p.Runs[0].Style.Bold)
}

func TestResolveHighlightDisabled(t *testing.T) {
	p := &Paragraph{Runs: []Span{{Text: "{{Car Number}}"}}}

	Resolver{}.Resolve(p, "Car Number", "ABC123")

	assert.Empty(t, p.Runs[0].Style.FontColor)
}

func TestResolveCollapsesContainerToOneSpan(t *testing.T) {
	p := &Paragraph{Runs: []Span{
		{Text: "To: ", Style: RunStyle{Bold: true}},
		{Text: "{{Name}}", Style: RunStyle{Italic: true}},
		{Text: ", {{Address}}", Style: RunStyle{Underline: true}},
	}}

	require.True(t, DefaultResolver.Resolve(p, "Name", "Anna"))
	require.Len(t, p.Runs, 1)
	assert.Equal(t, "To: Anna, {{Address}}", p.Runs[0].Text)
	assert.Equal(t, RunStyle{Italic: true}, p.Runs[0].Style)

	// A second placeholder still resolves on the collapsed container.
	require.True(t, DefaultResolver.Resolve(p, "Address", "Storgatan 1"))
	require.Len(t, p.Runs, 1)
	assert.Equal(t, "To: Anna, Storgatan 1", p.Runs[0].Text)
	assert.Equal(t, RunStyle{Italic: true}, p.Runs[0].Style)
}

func TestResolveFirstOccurrenceOnly(t *testing.T) {
	p := &Paragraph{Runs: []Span{{Text: "{{Name}} and {{Name}}"}}}

	require.True(t, DefaultResolver.Resolve(p, "Name", "Anna"))

	assert.Equal(t, "Anna and {{Name}}", p.Text())
}

func TestResolveAllFillsEveryOccurrence(t *testing.T) {
	p := &Paragraph{Runs: []Span{{Text: "{{Name}} and "}, {Text: "{{Name}}"}}}

	n := DefaultResolver.ResolveAll(p, "Name", "Anna")

	assert.Equal(t, 2, n)
	assert.Equal(t, "Anna and Anna", p.Text())
	assert.Len(t, p.Runs, 1)
}

func TestResolveAllValueContainingToken(t *testing.T) {
	p := &Paragraph{Runs: []Span{{Text: "{{Name}}"}}}

	n := DefaultResolver.ResolveAll(p, "Name", "x{{Name}}")

	assert.Equal(t, 1, n)
	assert.Equal(t, "x{{Name}}", p.Text())
}

// TestResolveStraddlingToken covers a token with no span of its own. The
// rewritten span takes the style of the span where the token starts instead
// of being left unformatted.
func TestResolveStraddlingToken(t *testing.T) {
	// Word frequently splits a token across runs, e.g. after spell checking.
	p := &Paragraph{Runs: []Span{
		{Text: "Dear ", Style: RunStyle{Bold: true}},
		{Text: "{{Na", Style: RunStyle{Italic: true, FontFamily: "Arial"}},
		{Text: "me}}", Style: RunStyle{Underline: true}},
	}}

	require.True(t, DefaultResolver.Resolve(p, "Name", "Anna"))

	require.Len(t, p.Runs, 1)
	assert.Equal(t, "Dear Anna", p.Runs[0].Text)
	// The span in which the token starts supplies the formatting.
	assert.Equal(t, RunStyle{Italic: true, FontFamily: "Arial"}, p.Runs[0].Style)
}

func TestResolvePrefersSpanHoldingWholeToken(t *testing.T) {
	// The first occurrence straddles runs, a later one sits in its own run.
	p := &Paragraph{Runs: []Span{
		{Text: "{{Na", Style: RunStyle{Italic: true}},
		{Text: "me}} / "},
		{Text: "{{Name}}", Style: RunStyle{Bold: true}},
	}}

	require.True(t, DefaultResolver.Resolve(p, "Name", "Anna"))

	assert.Equal(t, "Anna / {{Name}}", p.Text())
	assert.Equal(t, RunStyle{Bold: true}, p.Runs[0].Style)
}

func TestStyleSourceSkipsEmptySpans(t *testing.T) {
	spans := []Span{{Text: ""}, {Text: "{{"}, {Text: "X}}"}}
	assert.Equal(t, 1, styleSource(spans, "{{X}}", "{{X}}"))
}
