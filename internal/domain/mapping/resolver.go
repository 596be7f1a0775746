// Package mapping rewrites raw bank descriptors into canonical merchant
// names. A per-user table of learned mappings takes priority over a
// static default table; an unmapped descriptor passes through trimmed.
package mapping

import (
	"sort"
	"strings"
)

// Resolver resolves raw bank descriptions to canonical merchant names.
// It is a pure lookup; learning new mappings happens at batch confirm
// time, not here.
type Resolver struct {
	user     map[string]string
	userKeys []string
}

var defaultKeys = sortedKeys(defaultMappings)

// NewResolver creates a resolver layering the given user mappings
// (pattern -> canonical name) over the built-in defaults.
func NewResolver(userMappings map[string]string) *Resolver {
	return &Resolver{
		user:     userMappings,
		userKeys: sortedKeys(userMappings),
	}
}

// Canonical returns the canonical merchant name for a raw bank
// description. Any user mapping whose pattern is a case-insensitive
// substring of the description wins outright; otherwise the default
// table is consulted; otherwise the trimmed description is returned
// unchanged. Patterns are checked in sorted order so repeated runs
// resolve identically.
func (r *Resolver) Canonical(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))

	for _, pattern := range r.userKeys {
		if pattern != "" && strings.Contains(upper, strings.ToUpper(pattern)) {
			return r.user[pattern]
		}
	}

	for _, pattern := range defaultKeys {
		if strings.Contains(upper, strings.ToUpper(pattern)) {
			return defaultMappings[pattern]
		}
	}

	return strings.TrimSpace(raw)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
