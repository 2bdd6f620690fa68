// Package catalog overlays human- and agent-oriented presentation
// metadata on raw schema operations. It is a pure lookup table: no
// network access, no side effects. Operations without an entry fall
// back to whatever the schema itself provides.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Enhancement is the presentation metadata for one operation.
type Enhancement struct {
	OperationID string   `yaml:"operation_id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags,omitempty"`
	Examples    []string `yaml:"examples,omitempty"`
}

// Catalog is an immutable-by-convention set of enhancements keyed by
// operation id.
type Catalog struct {
	entries map[string]Enhancement
}

// catalogFile is the YAML export/import document.
type catalogFile struct {
	Enhancements []Enhancement `yaml:"enhancements"`
}

// New returns a Catalog with the built-in Care defaults.
func New() *Catalog {
	return NewWithEntries(defaultEnhancements)
}

// NewWithEntries returns a Catalog over a caller-supplied table. The
// built-in defaults are discarded entirely; there is no merging.
func NewWithEntries(entries map[string]Enhancement) *Catalog {
	c := &Catalog{entries: make(map[string]Enhancement, len(entries))}
	for id, e := range entries {
		c.entries[id] = e
	}
	return c
}

// Get returns the enhancement for an operation id.
func (c *Catalog) Get(operationID string) (Enhancement, bool) {
	e, ok := c.entries[operationID]
	return e, ok
}

// Has reports whether an enhancement exists for the operation id.
func (c *Catalog) Has(operationID string) bool {
	_, ok := c.entries[operationID]
	return ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.entries) }

// ExportFile writes the catalog as a YAML document under the
// "enhancements" key, sorted by operation id.
func (c *Catalog) ExportFile(path string) error {
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	doc := catalogFile{Enhancements: make([]Enhancement, 0, len(ids))}
	for _, id := range ids {
		doc.Enhancements = append(doc.Enhancements, c.entries[id])
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal enhancements: %w", err)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("write enhancements file: %w", err)
	}
	return nil
}

// ImportFile reads a catalog document written by ExportFile. The
// imported table replaces the defaults wholesale.
func ImportFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enhancements file: %w", err)
	}
	var doc catalogFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse enhancements file %s: %w", path, err)
	}

	entries := make(map[string]Enhancement, len(doc.Enhancements))
	for _, e := range doc.Enhancements {
		if e.OperationID == "" {
			return nil, fmt.Errorf("enhancements file %s: entry without operation_id", path)
		}
		entries[e.OperationID] = e
	}
	return NewWithEntries(entries), nil
}
