package docx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

func TestRenderHTML(t *testing.T) {
	m := Model{Blocks: []Block{
		{Paragraph: &Paragraph{
			Runs:  []Span{{Text: "Receipt", Style: RunStyle{Bold: true, FontSizePt: 16}}},
			Style: ParagraphStyle{HeadingLevel: 1},
		}},
		{Paragraph: &Paragraph{
			Runs:  []Span{{Text: "ABC<123>", Style: RunStyle{FontColor: "FF0000"}}},
			Style: ParagraphStyle{Alignment: "center"},
		}},
		{Table: &Table{Rows: []TableRow{{Cells: []TableCell{
			{Paragraphs: []Paragraph{{Runs: []Span{{Text: "cell"}}}}, ColSpan: 2},
			{},
		}}}}},
	}}

	out := RenderHTML(m)

	assert.Contains(t, out, `<h1><span style="font-size:16.0pt;font-weight:bold;">Receipt</span></h1>`)
	assert.Contains(t, out, `<p style="text-align:center;"><span style="color:#FF0000;">ABC&lt;123&gt;</span></p>`)
	assert.Contains(t, out, `colspan="2"`)
	assert.Contains(t, out, "&nbsp;")
	assert.Contains(t, out, "<html><body>")
}

func TestSanitizers(t *testing.T) {
	assert.Equal(t, "Arial Black", sanitizeFontFamily("Arial Black';}"))
	assert.Equal(t, "", sanitizeColor("red;"))
	assert.Equal(t, "00ff00", sanitizeColor("00ff00"))
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 2, headingLevel("Heading2"))
	assert.Equal(t, 0, headingLevel("Heading9"))
	assert.Equal(t, 0, headingLevel("Title"))
}

func TestParseModelStyles(t *testing.T) {
	doc := document.New()
	p := doc.AddParagraph()
	p.SetStyle("Heading2")
	p.Properties().SetAlignment(wml.ST_JcCenter)
	p.Properties().Spacing().SetBefore(12 * measurement.Point)
	p.AddRun().AddText("Kvitto")

	row := doc.AddTable().AddRow()
	cell := row.AddCell()
	cell.Properties().SetColumnSpan(2)
	cell.Properties().SetVerticalAlignment(wml.ST_VerticalJcCenter)
	cell.AddParagraph().AddRun().AddText("Summa")
	shaded := row.AddCell()
	shaded.Properties().SetShading(wml.ST_ShdClear, color.Auto, color.RGB(0xd9, 0xe2, 0xf3))
	shaded.AddParagraph().AddRun().AddText("100 kr")
	auto := row.AddCell()
	auto.Properties().SetShading(wml.ST_ShdClear, color.Auto, color.Auto)
	auto.AddParagraph().AddRun().AddText("-")

	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf))
	m, err := ParseModel(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, m.Blocks, 2)

	para := m.Blocks[0].Paragraph
	require.NotNil(t, para)
	assert.Equal(t, ParagraphStyle{Alignment: "center", SpaceBeforePt: 12, HeadingLevel: 2}, para.Style)
	assert.Equal(t, "Kvitto", para.Text())

	tbl := m.Blocks[1].Table
	require.NotNil(t, tbl)
	c := tbl.Rows[0].Cells[0]
	assert.Equal(t, 2, c.ColSpan)
	assert.Equal(t, "middle", c.Style.VerticalAlign)
	require.Len(t, tbl.Rows[0].Cells, 3)
	assert.Equal(t, "D9E2F3", tbl.Rows[0].Cells[1].Style.BackgroundColor)
	assert.Empty(t, tbl.Rows[0].Cells[2].Style.BackgroundColor)

	out := RenderBody(m)
	assert.Contains(t, out, `<h2 style="text-align:center;margin-top:12pt;"><span>Kvitto</span></h2>`)
	assert.Contains(t, out, `<td colspan="2" style="vertical-align:middle;border:1px solid #333;padding:4px;">`)
	assert.Contains(t, out, `<td style="background-color:#D9E2F3;border:1px solid #333;padding:4px;"><p><span>100 kr</span></p>`)
}
