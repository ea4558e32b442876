package docx

import (
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

// paragraph adapts a unioffice paragraph to Container.
type paragraph struct {
	p document.Paragraph
}

var _ Container = paragraph{}

// Spans implements Container.
func (a paragraph) Spans() []Span {
	runs := a.runs()
	spans := make([]Span, 0, len(runs))
	for _, r := range runs {
		spans = append(spans, Span{Text: runText(r), Style: runStyle(r)})
	}
	return spans
}

// runs is p.Runs() without the empty entries unioffice reports for
// hyperlinks holding only markup.
func (a paragraph) runs() []document.Run {
	all := a.p.Runs()
	runs := all[:0]
	for _, r := range all {
		if r.X() != nil {
			runs = append(runs, r)
		}
	}
	return runs
}

// runText is the displayed text of r. Breaks read as "\n" and tabs as "\t",
// the same characters addText writes back.
func runText(r document.Run) string {
	var sb strings.Builder
	for _, ic := range r.X().EG_RunInnerContent {
		switch {
		case ic.T != nil:
			sb.WriteString(ic.T.Content)
		case ic.Tab != nil, ic.Ptab != nil:
			sb.WriteByte('\t')
		case ic.Br != nil, ic.Cr != nil:
			sb.WriteByte('\n')
		case ic.NoBreakHyphen != nil:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Rewrite implements Container. The old runs are removed, so the paragraph
// ends up with exactly one run.
func (a paragraph) Rewrite(text string, from int, hex string) {
	runs := a.runs()
	var rpr *wml.CT_RPr
	if from >= 0 && from < len(runs) && runs[from].X().RPr != nil {
		rpr = inheritRPr(runs[from].X().RPr)
	}

	a.clearRuns()

	run := a.p.AddRun()
	if rpr != nil {
		run.X().RPr = rpr
	}
	addText(run, text)
	if c, ok := parseHex(hex); ok {
		run.Properties().SetColor(c)
	}
}

// clearRuns drops every run Spans reports, including those nested in
// hyperlinks and content controls. Other paragraph content such as bookmarks
// is left in place.
func (a paragraph) clearRuns() {
	x := a.p.X()
	kept := x.EG_PContent[:0]
	for _, pc := range x.EG_PContent {
		if pc.Hyperlink != nil {
			pc.Hyperlink.EG_ContentRunContent = dropRuns(pc.Hyperlink.EG_ContentRunContent)
			if len(pc.Hyperlink.EG_ContentRunContent) == 0 && len(pc.Hyperlink.FldSimple) == 0 {
				pc.Hyperlink = nil
			}
		}
		pc.EG_ContentRunContent = dropRuns(pc.EG_ContentRunContent)
		if pc.Hyperlink == nil && len(pc.EG_ContentRunContent) == 0 &&
			len(pc.FldSimple) == 0 && pc.SubDoc == nil {
			continue
		}
		kept = append(kept, pc)
	}
	x.EG_PContent = kept
}

func dropRuns(rcs []*wml.EG_ContentRunContent) []*wml.EG_ContentRunContent {
	kept := rcs[:0]
	for _, rc := range rcs {
		if rc.R != nil {
			continue
		}
		if rc.Sdt != nil && rc.Sdt.SdtContent != nil {
			rc.Sdt.SdtContent.EG_ContentRunContent = dropRuns(rc.Sdt.SdtContent.EG_ContentRunContent)
			if len(rc.Sdt.SdtContent.EG_ContentRunContent) == 0 {
				continue
			}
		}
		kept = append(kept, rc)
	}
	return kept
}

// addText writes text into run, turning newlines and tabs into the
// corresponding DOCX elements.
func addText(run document.Run, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			run.AddBreak()
		}
		for j, part := range strings.Split(line, "\t") {
			if j > 0 {
				run.AddTab()
			}
			if part != "" {
				run.AddText(part)
			}
		}
	}
}
