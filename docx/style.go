package docx

import (
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

// runStyle resolves the direct formatting of a run. Styles inherited from the
// paragraph or document defaults are not followed.
func runStyle(r document.Run) RunStyle {
	st := RunStyle{
		Bold:   r.Properties().IsBold(),
		Italic: r.Properties().IsItalic(),
	}
	rpr := r.X().RPr
	if rpr == nil {
		return st
	}
	if rpr.RFonts != nil && rpr.RFonts.AsciiAttr != nil {
		st.FontFamily = *rpr.RFonts.AsciiAttr
	}
	if rpr.Sz != nil && rpr.Sz.ValAttr.ST_UnsignedDecimalNumber != nil {
		// half-points
		st.FontSizePt = float64(*rpr.Sz.ValAttr.ST_UnsignedDecimalNumber) / 2
	}
	if rpr.Color != nil && rpr.Color.ValAttr.ST_HexColorRGB != nil {
		st.FontColor = strings.ToUpper(*rpr.Color.ValAttr.ST_HexColorRGB)
	}
	if rpr.U != nil {
		st.Underline = rpr.U.ValAttr != wml.ST_UnderlineNone && rpr.U.ValAttr != wml.ST_UnderlineUnset
	}
	return st
}

// inheritRPr copies the properties a substituted run keeps: font family, size,
// bold, italic and underline.
func inheritRPr(src *wml.CT_RPr) *wml.CT_RPr {
	dst := wml.NewCT_RPr()
	dst.RFonts = src.RFonts
	dst.Sz = src.Sz
	dst.SzCs = src.SzCs
	dst.B = src.B
	dst.BCs = src.BCs
	dst.I = src.I
	dst.ICs = src.ICs
	dst.U = src.U
	return dst
}

// parseHex turns "RRGGBB" into a unioffice colour. ok is false for malformed
// input.
func parseHex(s string) (color.Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.Color{}, false
	}
	return color.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), true
}
