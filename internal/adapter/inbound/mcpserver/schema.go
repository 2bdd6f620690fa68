package mcpserver

import (
	"sort"

	"github.com/caregate/caregate/internal/domain/schema"
)

// inputSchema builds the JSON Schema advertised for one tool: a flat
// object with one property per declared path/query parameter and body
// property. Header parameters are not advertised; they are supplied by
// the auth capability, not by the agent.
func inputSchema(op schema.Operation) map[string]any {
	props := map[string]any{}
	var required []string

	add := func(specs []schema.ParamSpec) {
		for _, p := range specs {
			prop := map[string]any{"type": p.Type}
			if p.Description != "" {
				prop["description"] = p.Description
			}
			props[p.Name] = prop
			if p.Required {
				required = append(required, p.Name)
			}
		}
	}

	add(op.PathParams)
	add(op.QueryParams)
	if op.RequestBody != nil {
		add(op.RequestBody.Properties)
	}

	// Deterministic required list for stable tool listings.
	sort.Strings(required)

	result := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		result["required"] = required
	}
	return result
}
