package render

import (
	"context"
	"os"

	"github.com/aerissecure/docmerge/docx"
)

// HTML converts DOCX to a standalone HTML page. It needs no external tools.
type HTML struct{}

// Ext implements batch.Converter.
func (HTML) Ext() string { return "html" }

// Convert implements batch.Converter.
func (HTML) Convert(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	page, err := docx.DocxToHTML(f, fi.Size())
	if err != nil {
		return err
	}
	return os.WriteFile(dst, []byte(page), 0o644)
}
