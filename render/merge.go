package render

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var errNoInputs = errors.New("nothing to concatenate")

// PDFMerger joins PDF files page by page with pdfcpu.
type PDFMerger struct{}

// Concatenate implements batch.Concatenator.
func (PDFMerger) Concatenate(ctx context.Context, srcs []string, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(srcs) == 0 {
		return errNoInputs
	}
	return api.MergeCreateFile(srcs, dst, false, nil)
}

const pageBreak = `<div style="page-break-after: always"></div>` + "\n"

// HTMLMerger joins HTML pages produced by HTML into one page, with a page
// break between documents.
type HTMLMerger struct{}

// Concatenate implements batch.Concatenator.
func (HTMLMerger) Concatenate(ctx context.Context, srcs []string, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(srcs) == 0 {
		return errNoInputs
	}

	var b strings.Builder
	b.WriteString("<html><body>\n")
	for i, src := range srcs {
		data, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		if i > 0 {
			b.WriteString(pageBreak)
		}
		b.WriteString(body(string(data)))
	}
	b.WriteString("</body></html>\n")
	return os.WriteFile(dst, []byte(b.String()), 0o644)
}

// body returns the content between <body> and </body>, or the whole page if
// either tag is missing.
func body(page string) string {
	start := strings.Index(page, "<body>")
	end := strings.LastIndex(page, "</body>")
	if start < 0 || end < start {
		return page
	}
	start += len("<body>")
	return strings.TrimPrefix(page[start:end], "\n")
}
