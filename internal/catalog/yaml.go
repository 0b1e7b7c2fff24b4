package catalog

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func parseYAML(r io.Reader) (*Catalog, error) {
	cat := &Catalog{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cat); err != nil {
		// An empty document is an empty catalog.
		if errors.Is(err, io.EOF) {
			return cat, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cat, nil
}

// WriteYAML encodes cat as YAML.
func WriteYAML(w io.Writer, cat *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cat); err != nil {
		return fmt.Errorf("catalog: encode yaml: %w", err)
	}
	return enc.Close()
}
