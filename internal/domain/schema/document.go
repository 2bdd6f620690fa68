// Package schema loads an OpenAPI document and normalizes its path
// operations into plain Operation values that the rest of the system
// consumes. It works on the raw decoded document rather than a full
// OpenAPI object model: the Care schema is large and partially
// irregular, and parsing must degrade per-fragment instead of rejecting
// the whole document.
package schema

import "strings"

// Document is the decoded OpenAPI document. It is treated as immutable
// after load; all $ref resolution walks from its root.
type Document map[string]any

// Resolve walks a root-relative reference of the form "#/a/b/c" and
// returns the mapping it points at. Any other ref form, a missing
// segment at any depth, or a target that is not a mapping yields an
// empty map. Resolve never fails: a broken reference degrades the
// metadata of one fragment, it must not abort a parse pass.
func (d Document) Resolve(ref string) map[string]any {
	if !strings.HasPrefix(ref, "#/") {
		return map[string]any{}
	}

	current := map[string]any(d)
	for _, segment := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
		next, ok := current[segment].(map[string]any)
		if !ok {
			return map[string]any{}
		}
		current = next
	}
	return current
}

// Deref returns the fragment itself, or the resolved target when the
// fragment is a {"$ref": ...} object. Call sites must use this before
// reading any schema fragment that may be a reference.
func (d Document) Deref(fragment map[string]any) map[string]any {
	if ref, ok := fragment["$ref"].(string); ok {
		return d.Resolve(ref)
	}
	return fragment
}
