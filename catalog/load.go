package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only catalog document version this build understands.
const SchemaVersion = 1

//go:embed default.yaml
var defaultDocument []byte

// Document is the on-disk catalog shape. Items list their category explicitly;
// their order in the file is the button order inside that category.
type Document struct {
	Version    int           `yaml:"version"`
	Categories []CategoryDef `yaml:"categories"`
	Items      []ItemDef     `yaml:"items"`
}

type CategoryDef struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Warranty    string `yaml:"warranty"`
	Image       string `yaml:"image"`
}

type ItemDef struct {
	ID       string `yaml:"id"`
	Category string `yaml:"category"`
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Amount   string `yaml:"amount"`
	Detail   string `yaml:"detail"`
	Group    string `yaml:"group"`
	Hint     string `yaml:"hint"`
	Image    string `yaml:"image"`
}

// Parse decodes a YAML document and builds the catalog. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalid, err)
	}
	return New(doc)
}

// Load reads the catalog at path, or the embedded default catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultDocument)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// MustDefault returns the embedded catalog and panics if it does not validate.
func MustDefault() *Catalog {
	c, err := Parse(defaultDocument)
	if err != nil {
		panic(err)
	}
	return c
}
