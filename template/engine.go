// api/template/engine.go

// Package template is the static registry of predefined condition
// bundles. Like the attribute catalog it is compiled in and indexed
// once at init.
package template

import (
	"strings"
)

var templatesByID map[string]ConditionTemplate

func init() {
	templatesByID = make(map[string]ConditionTemplate, len(templates))
	for _, t := range templates {
		templatesByID[t.ID] = t
	}
}

// Categories lists the fixed filter set in display order.
func Categories() []string {
	return []string{CategoryAccess, CategoryTime, CategorySecurity, CategoryEnvironment}
}

// All returns every template in declaration order.
func All() []ConditionTemplate {
	out := make([]ConditionTemplate, len(templates))
	copy(out, templates)
	return out
}

// ByID looks up a single template.
func ByID(id string) (ConditionTemplate, bool) {
	t, ok := templatesByID[id]
	return t, ok
}

// Common returns the quick-bar subset.
func Common() []ConditionTemplate {
	var out []ConditionTemplate
	for _, t := range templates {
		if t.Common {
			out = append(out, t)
		}
	}
	return out
}

// ByCategory filters templates by one of the fixed categories.
func ByCategory(category string) []ConditionTemplate {
	var out []ConditionTemplate
	for _, t := range templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Search matches the query case-insensitively against template names
// and descriptions; an empty query matches everything. A non-empty
// category narrows the result further.
func Search(query, category string) []ConditionTemplate {
	needle := strings.ToLower(strings.TrimSpace(query))
	var out []ConditionTemplate
	for _, t := range templates {
		if category != "" && t.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Name), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}
