// Package catalog loads the candidate sets that callers feed into the
// palette engine.
//
// A catalog is caller-owned data: a list of commands plus an optional list of
// recently used command IDs (most recent first). Catalogs are only ever read;
// nothing here writes recency back to disk.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/runger/cmdpal/internal/palette"
)

// Format is a catalog file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ErrUnsupportedFormat is returned for files whose extension maps to no format.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Catalog is a parsed, validated candidate set.
type Catalog struct {
	Commands []palette.Candidate `yaml:"commands" validate:"dive"`
	Recent   []string            `yaml:"recent,omitempty"`
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, cmd := range c.Commands {
		if cmd.Category == "" || seen[cmd.Category] {
			continue
		}
		seen[cmd.Category] = true
		out = append(out, cmd.Category)
	}
	return out
}

// Lookup returns the command with the given ID.
func (c *Catalog) Lookup(id string) (palette.Candidate, bool) {
	for _, cmd := range c.Commands {
		if cmd.ID == id {
			return cmd, true
		}
	}
	return palette.Candidate{}, false
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".txt", ".list":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads, parses and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	defer f.Close()

	cat, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return cat, nil
}

// Parse reads a catalog in the given format and validates it.
func Parse(r io.Reader, format Format) (*Catalog, error) {
	var (
		cat *Catalog
		err error
	)
	switch format {
	case FormatYAML:
		cat, err = parseYAML(r)
	case FormatText:
		cat, err = parseText(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(cat); err != nil {
		return nil, err
	}
	return cat, nil
}
