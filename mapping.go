package docmerge

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadMapping reads a YAML document of the form
//
//	Name: Namn
//	Address: Adress
//
// keeping the entries in document order.
func LoadMapping(r io.Reader) (Mapping, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("mapping: empty document")
		}
		return nil, fmt.Errorf("mapping: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("mapping: empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("mapping: line %d: expected a mapping of placeholder to column", root.Line)
	}

	m := make(Mapping, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("mapping: line %d: placeholder and column must be plain strings", k.Line)
		}
		m = append(m, Field{Placeholder: k.Value, Column: v.Value})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadMappingFile is LoadMapping for a file on disk.
func LoadMappingFile(path string) (Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadMapping(f)
}
