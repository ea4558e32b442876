package docmerge

import (
	"fmt"
	"math"
	"strconv"
)

// Field pairs a template placeholder with the spreadsheet column that feeds it.
type Field struct {
	Placeholder string // e.g. "Name", matches {{Name}} in the template
	Column      string // header text in the spreadsheet, e.g. "Namn"
}

func (f Field) String() string {
	return fmt.Sprintf("Placeholder: %q, Column: %q", f.Placeholder, f.Column)
}

// Mapping is the ordered list of fields applied to every row. Order matters:
// placeholders are substituted in this order.
type Mapping []Field

// DefaultMapping is the receipt layout the tool ships with.
var DefaultMapping = Mapping{
	{Placeholder: "Name", Column: "Namn"},
	{Placeholder: "Address", Column: "Adress"},
	{Placeholder: "Postal Code", Column: "Postadress"},
	{Placeholder: "Car Number", Column: "Registreringsnr"},
}

// Validate checks that every placeholder is named and unique.
func (m Mapping) Validate() error {
	seen := make(map[string]struct{}, len(m))
	for i, f := range m {
		if f.Placeholder == "" {
			return fmt.Errorf("mapping entry %d: empty placeholder", i)
		}
		if _, ok := seen[f.Placeholder]; ok {
			return fmt.Errorf("mapping entry %d: duplicate placeholder %q", i, f.Placeholder)
		}
		seen[f.Placeholder] = struct{}{}
	}
	return nil
}

// Token returns the literal template text for a placeholder name.
func Token(name string) string {
	return "{{" + name + "}}"
}

// Row is one spreadsheet record keyed by header text. Values are string,
// float64, bool or nil for an empty cell.
type Row map[string]any

// Value returns the display string for column, or "" when the column is absent.
func (r Row) Value(column string) string {
	return FormatValue(r[column])
}

// FormatValue renders a cell value the way it should appear in a document.
// Whole floats drop the fractional part (5.0 -> "5").
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return formatFloat(t, 64)
	case float32:
		return formatFloat(float64(t), 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) {
		return ""
	}
	if !math.IsInf(f, 0) && f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
