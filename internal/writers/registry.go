// internal/writers/registry.go
package writers

import (
	"fmt"
	"sort"
)

// LineFormat renders one domain as an output line (without newline).
type LineFormat func(domain string) string

// Format registry (name → renderer). "plain" is the canonical output;
// the others wrap each domain for direct use by resolvers and ad blockers.
var formats = map[string]LineFormat{
	"plain":   func(d string) string { return d },
	"hosts":   func(d string) string { return "0.0.0.0 " + d },
	"adblock": func(d string) string { return "||" + d + "^" },
}

const DefaultFormat = "plain"

// RegisterFormat adds or replaces a format (last wins).
func RegisterFormat(name string, fn LineFormat) { formats[name] = fn }

// LookupFormat returns the renderer for name ("" means DefaultFormat).
func LookupFormat(name string) (LineFormat, error) {
	if name == "" {
		name = DefaultFormat
	}
	fn, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (no writer registered)", name)
	}
	return fn, nil
}

// Formats lists registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(formats))
	for k := range formats {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
