package docx

import (
	"bytes"
	"fmt"
	"os"

	"github.com/unidoc/unioffice/document"

	"github.com/aerissecure/docmerge"
)

// Template is a DOCX template held in memory. Every Merge parses a fresh copy,
// so the template itself is never modified.
type Template struct {
	Path     string
	Resolver Resolver

	data []byte
}

// OpenTemplate reads the template at path and checks that it parses.
func OpenTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t := &Template{Path: path, Resolver: DefaultResolver, data: data}
	if _, err := t.load(); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	return t, nil
}

// NewTemplate wraps DOCX bytes already in memory.
func NewTemplate(data []byte) (*Template, error) {
	t := &Template{Resolver: DefaultResolver, data: data}
	if _, err := t.load(); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return t, nil
}

func (t *Template) load() (*document.Document, error) {
	return document.Read(bytes.NewReader(t.data), int64(len(t.data)))
}

// Document is one merged copy of a template.
type Document struct {
	doc *document.Document
}

// Merge fills every mapped placeholder with the row's values. Body
// paragraphs, table cells, headers and footers are all visited.
func (t *Template) Merge(row docmerge.Row, m docmerge.Mapping) (*Document, error) {
	doc, err := t.load()
	if err != nil {
		return nil, err
	}
	d := &Document{doc: doc}
	containers := d.containers()
	for _, f := range m {
		value := row.Value(f.Column)
		for _, c := range containers {
			t.Resolver.ResolveAll(c, f.Placeholder, value)
		}
	}
	return d, nil
}

// Render merges row into the template and writes the result to dst.
func (t *Template) Render(row docmerge.Row, m docmerge.Mapping, dst string) error {
	d, err := t.Merge(row, m)
	if err != nil {
		return err
	}
	return d.SaveToFile(dst)
}

// containers lists every paragraph-like text container in the document.
func (d *Document) containers() []Container {
	var out []Container
	for _, p := range d.doc.Paragraphs() {
		out = append(out, paragraph{p: p})
	}
	for _, tbl := range d.doc.Tables() {
		for _, row := range tbl.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					out = append(out, paragraph{p: p})
				}
			}
		}
	}
	for _, h := range d.doc.Headers() {
		for _, p := range h.Paragraphs() {
			out = append(out, paragraph{p: p})
		}
	}
	for _, f := range d.doc.Footers() {
		for _, p := range f.Paragraphs() {
			out = append(out, paragraph{p: p})
		}
	}
	return out
}

// Text returns the text of every container (body, tables, headers and
// footers), one line per paragraph.
func (d *Document) Text() string {
	var b bytes.Buffer
	for _, c := range d.containers() {
		for _, s := range c.Spans() {
			b.WriteString(s.Text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Paragraphs returns the body paragraphs as IR, in order.
func (d *Document) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, p := range d.doc.Paragraphs() {
		out = append(out, convertParagraph(p))
	}
	return out
}

// Model returns the IR of the merged document.
func (d *Document) Model() Model {
	return buildModel(d.doc)
}

// SaveToFile writes the document as DOCX.
func (d *Document) SaveToFile(path string) error {
	return d.doc.SaveToFile(path)
}
