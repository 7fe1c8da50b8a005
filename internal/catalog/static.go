package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed static/services.yaml
var embeddedStatic []byte

// staticFile is the on-disk layout of the static catalog.
type staticFile struct {
	Services []StaticService `yaml:"services"`
}

// LoadStatic parses a static catalog document and adapts it into entries.
func LoadStatic(r io.Reader) ([]Entry, error) {
	var doc staticFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("catalog: parse static catalog: %w", err)
	}
	return FromStatic(doc.Services), nil
}

// LoadStaticFile parses a static catalog override from disk.
func LoadStaticFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open static catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := LoadStatic(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

var parseEmbedded = sync.OnceValues(func() ([]Entry, error) {
	return LoadStatic(bytes.NewReader(embeddedStatic))
})

// DefaultStatic returns the catalog shipped with the binary. It is parsed
// once per process; every caller gets its own copy.
func DefaultStatic() ([]Entry, error) {
	entries, err := parseEmbedded()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// importFile is the mapping form of an import document. Either key may
// be used; both are merged.
type importFile struct {
	Services []StaticService `yaml:"services"`
	Entries  []Entry         `yaml:"entries"`
}

// DecodeEntries parses an import document. YAML and JSON are both
// accepted, as a bare list of entries or as a mapping with a "services"
// (static table layout) or "entries" key.
func DecodeEntries(data []byte) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse import document: %w", err)
	}
	if doc.Kind == 0 {
		return []Entry{}, nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		var entries []Entry
		if err := root.Decode(&entries); err != nil {
			return nil, fmt.Errorf("catalog: decode entries: %w", err)
		}
		return Normalize(entries), nil
	case yaml.MappingNode:
		var f importFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("catalog: decode import document: %w", err)
		}
		return append(FromStatic(f.Services), Normalize(f.Entries)...), nil
	default:
		return nil, fmt.Errorf("catalog: import document must be a list or a mapping")
	}
}
