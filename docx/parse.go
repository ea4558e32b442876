package docx

import (
	"io"
	"strings"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

// ParseModel reads a DOCX document from the provided reader and size and
// builds the Model intermediate representation.
func ParseModel(r io.ReaderAt, size int64) (Model, error) {
	doc, err := document.Read(r, size)
	if err != nil {
		return Model{}, err
	}
	return buildModel(doc), nil
}

// buildModel walks the body of doc in order. The current implementation
// focuses on text content, run formatting and basic structure (paragraphs and
// tables).
func buildModel(doc *document.Document) Model {
	var mdl Model

	// ---- Build lookup maps from underlying XML ptr -> high-level wrapper ----
	pMap := make(map[*wml.CT_P]document.Paragraph)
	for _, p := range doc.Paragraphs() {
		pMap[p.X()] = p
	}

	tMap := make(map[*wml.CT_Tbl]document.Table)
	for _, tbl := range doc.Tables() {
		tMap[tbl.X()] = tbl
	}

	body := doc.X().Body
	if body == nil {
		// Empty document
		return mdl
	}

	for _, bl := range body.EG_BlockLevelElts {
		for _, c := range bl.EG_ContentBlockContent {
			for _, cp := range c.P {
				if par, ok := pMap[cp]; ok {
					rp := convertParagraph(par)
					mdl.Blocks = append(mdl.Blocks, Block{Paragraph: &rp})
				}
			}
			for _, ct := range c.Tbl {
				if tbl, ok := tMap[ct]; ok {
					rt := convertTable(tbl)
					mdl.Blocks = append(mdl.Blocks, Block{Table: &rt})
				}
			}
		}
	}

	return mdl
}

// convertParagraph converts a unioffice Paragraph into the Paragraph IR.
func convertParagraph(p document.Paragraph) Paragraph {
	return Paragraph{
		Runs:  paragraph{p: p}.Spans(),
		Style: paragraphStyle(p),
	}
}

func paragraphStyle(p document.Paragraph) ParagraphStyle {
	var st ParagraphStyle
	ppr := p.X().PPr
	if ppr == nil {
		return st
	}
	if ppr.Jc != nil {
		switch ppr.Jc.ValAttr {
		case wml.ST_JcCenter:
			st.Alignment = "center"
		case wml.ST_JcRight, wml.ST_JcEnd:
			st.Alignment = "right"
		case wml.ST_JcBoth:
			st.Alignment = "justify"
		}
	}
	if ppr.PStyle != nil {
		st.HeadingLevel = headingLevel(ppr.PStyle.ValAttr)
	}
	if sp := ppr.Spacing; sp != nil {
		if sp.BeforeAttr != nil && sp.BeforeAttr.ST_UnsignedDecimalNumber != nil {
			st.SpaceBeforePt = float64(*sp.BeforeAttr.ST_UnsignedDecimalNumber) / 20
		}
		if sp.AfterAttr != nil && sp.AfterAttr.ST_UnsignedDecimalNumber != nil {
			st.SpaceAfterPt = float64(*sp.AfterAttr.ST_UnsignedDecimalNumber) / 20
		}
	}
	return st
}

// headingLevel maps the built-in "Heading1".."Heading6" style ids to a level.
func headingLevel(styleID string) int {
	if len(styleID) == len("Heading1") && styleID[:7] == "Heading" {
		if l := int(styleID[7] - '0'); l >= 1 && l <= 6 {
			return l
		}
	}
	return 0
}

// convertTable converts a unioffice Table into the Table IR.
func convertTable(t document.Table) Table {
	rt := Table{}

	for _, row := range t.Rows() {
		rr := TableRow{}

		for _, cell := range row.Cells() {
			rc := cellProperties(cell)
			for _, p := range cell.Paragraphs() {
				rc.Paragraphs = append(rc.Paragraphs, convertParagraph(p))
			}
			rr.Cells = append(rr.Cells, rc)
		}

		rt.Rows = append(rt.Rows, rr)
	}

	return rt
}

// cellProperties reads the span, shading and vertical alignment of a cell.
func cellProperties(c document.Cell) TableCell {
	rc := TableCell{ColSpan: 1}
	tcpr := c.X().TcPr
	if tcpr == nil {
		return rc
	}
	if tcpr.GridSpan != nil && tcpr.GridSpan.ValAttr > 1 {
		rc.ColSpan = int(tcpr.GridSpan.ValAttr)
	}
	if tcpr.Shd != nil && tcpr.Shd.FillAttr != nil && tcpr.Shd.FillAttr.ST_HexColorRGB != nil {
		rc.Style.BackgroundColor = strings.ToUpper(*tcpr.Shd.FillAttr.ST_HexColorRGB)
	}
	if tcpr.VAlign != nil {
		switch tcpr.VAlign.ValAttr {
		case wml.ST_VerticalJcTop:
			rc.Style.VerticalAlign = "top"
		case wml.ST_VerticalJcCenter:
			rc.Style.VerticalAlign = "middle"
		case wml.ST_VerticalJcBottom:
			rc.Style.VerticalAlign = "bottom"
		}
	}
	return rc
}
