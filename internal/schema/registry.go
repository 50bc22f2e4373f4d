// Package schema maps reporting API field names to semantic types.
package schema

import (
	"sort"
	"strings"
)

// SemanticType is the business-level type of a field, independent of its
// wire representation.
type SemanticType string

// Semantic types.
const (
	Integer  SemanticType = "integer"
	Float    SemanticType = "float"
	Date     SemanticType = "date"
	Duration SemanticType = "duration"
	String   SemanticType = "string"
)

// DateLayout is the wire format of the date dimension.
const DateLayout = "20060102"

// Registry resolves field names to semantic types. The zero value is not
// usable; use Default or New.
type Registry struct {
	types map[string]SemanticType
}

var defaultRegistry = &Registry{types: fieldTypes}

// Default returns the built-in registry.
func Default() *Registry { return defaultRegistry }

// New returns a registry that layers overrides on top of the built-in
// table. The built-in table is not modified.
func New(overrides map[string]SemanticType) *Registry {
	types := make(map[string]SemanticType, len(fieldTypes)+len(overrides))
	for k, v := range fieldTypes {
		types[k] = v
	}
	for k, v := range overrides {
		types[StripNamespace(k)] = v
	}
	return &Registry{types: types}
}

// TypeOf returns the semantic type of a field. Namespaced names
// ("ga:sessions") and bare names ("sessions") resolve identically; unknown
// fields are String, meaning their values are left as-is.
func (r *Registry) TypeOf(name string) SemanticType {
	if t, ok := r.types[StripNamespace(name)]; ok {
		return t
	}
	return String
}

// Known reports whether the registry has an explicit entry for name.
func (r *Registry) Known(name string) bool {
	_, ok := r.types[StripNamespace(name)]
	return ok
}

// Fields returns every registered field name of the given type, sorted.
// An empty type returns all fields.
func (r *Registry) Fields(t SemanticType) []string {
	var out []string
	for name, ft := range r.types {
		if t == "" || ft == t {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// TypeOf resolves name against the built-in registry.
func TypeOf(name string) SemanticType { return defaultRegistry.TypeOf(name) }

// StripNamespace removes everything up to and including the first ':'.
func StripNamespace(name string) string {
	if _, after, ok := strings.Cut(name, ":"); ok {
		return after
	}
	return name
}
