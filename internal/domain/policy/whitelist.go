// Package policy implements the default-deny allow-list that decides
// which schema operations may become callable tools. The deny-pattern
// check is a second, independent gate: it runs before the allow-list
// lookup so a destructive operation id can never be enabled, not even
// by being added to the allow set.
package policy

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Whitelist holds the allow set and the ordered deny patterns.
// Safe for concurrent use.
type Whitelist struct {
	mu           sync.RWMutex
	allow        map[string]struct{}
	denyPatterns []string
}

// policyFile is the YAML export/import document.
type policyFile struct {
	Whitelist       []string `yaml:"whitelist"`
	BlockedPatterns []string `yaml:"blocked_patterns"`
}

// New returns a Whitelist with the built-in Care defaults.
func New() *Whitelist {
	return newWhitelist(defaultAllow, defaultDenyPatterns)
}

// NewWithAllow returns a Whitelist with a caller-supplied allow set and
// the built-in deny patterns. The default allow set is discarded.
func NewWithAllow(ids []string) *Whitelist {
	return newWhitelist(ids, defaultDenyPatterns)
}

func newWhitelist(ids, patterns []string) *Whitelist {
	w := &Whitelist{
		allow:        make(map[string]struct{}, len(ids)),
		denyPatterns: append([]string(nil), patterns...),
	}
	for _, id := range ids {
		w.allow[id] = struct{}{}
	}
	return w
}

// IsAllowed reports whether the operation may be synthesized into a
// tool. Deny patterns are checked first and override allow-list
// membership unconditionally.
func (w *Whitelist) IsAllowed(operationID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, pattern := range w.denyPatterns {
		if strings.Contains(operationID, pattern) {
			return false
		}
	}
	_, ok := w.allow[operationID]
	return ok
}

// Add inserts an operation id into the allow set. It never touches the
// deny patterns, so adding a denied id has no effect on IsAllowed.
func (w *Whitelist) Add(operationID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.allow[operationID] = struct{}{}
}

// Remove deletes an operation id from the allow set.
func (w *Whitelist) Remove(operationID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.allow, operationID)
}

// Allowed returns the allow set as a sorted list.
func (w *Whitelist) Allowed() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ids := make([]string, 0, len(w.allow))
	for id := range w.allow {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DenyPatterns returns a copy of the deny patterns in evaluation order.
func (w *Whitelist) DenyPatterns() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.denyPatterns...)
}

// ExportFile writes the full policy (allow set and deny patterns) as a
// YAML document with top-level keys "whitelist" and "blocked_patterns".
func (w *Whitelist) ExportFile(path string) error {
	doc := policyFile{
		Whitelist:       w.Allowed(),
		BlockedPatterns: w.DenyPatterns(),
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal policy: %w", err)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("write policy file: %w", err)
	}
	return nil
}

// ImportFile reads a policy document written by ExportFile and returns
// a new Whitelist. The imported policy replaces everything: there is no
// merging with defaults or with an existing instance. A document
// without blocked_patterns falls back to the built-in deny patterns so
// a hand-written allow-list cannot silently disable the safety gate.
func ImportFile(path string) (*Whitelist, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	var doc policyFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	patterns := doc.BlockedPatterns
	if patterns == nil {
		patterns = defaultDenyPatterns
	}
	return newWhitelist(doc.Whitelist, patterns), nil
}
