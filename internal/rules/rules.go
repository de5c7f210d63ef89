// internal/rules/rules.go
package rules

import (
	"strings"
	"unicode"

	"golang.org/x/net/idna"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPrefixes are stripped from the start of an entry, first match wins.
var DefaultPrefixes = []string{"127.0.0.1", "0.0.0.0", "||", "http://", "https://"}

// Rule transforms a trimmed line. ok=false rejects the line.
type Rule interface {
	Apply(line string) (out string, ok bool)
}

// RuleFunc adapts a plain function to Rule.
type RuleFunc func(string) (string, bool)

func (f RuleFunc) Apply(s string) (string, bool) { return f(s) }

// RejectComment drops lines starting with marker.
func RejectComment(marker string) Rule {
	return RuleFunc(func(s string) (string, bool) {
		if strings.HasPrefix(s, marker) {
			return "", false
		}
		return s, true
	})
}

// StripPrefix removes the first prefix (in list order) the line starts
// with and re-trims. At most one prefix is stripped.
func StripPrefix(prefixes ...string) Rule {
	ps := append([]string(nil), prefixes...)
	return RuleFunc(func(s string) (string, bool) {
		for _, p := range ps {
			if p != "" && strings.HasPrefix(s, p) {
				return TrimSpace(s[len(p):]), true
			}
		}
		return s, true
	})
}

// TrimTrailingDots strips every trailing '.'.
func TrimTrailingDots() Rule {
	return RuleFunc(func(s string) (string, bool) { return strings.TrimRight(s, "."), true })
}

// Lowercase folds the whole line to lower case with full Unicode case
// mapping, so U+0130 becomes "i" plus a combining dot rather than a bare
// ASCII "i".
func Lowercase() Rule {
	return RuleFunc(func(s string) (string, bool) {
		if isASCII(s) {
			return strings.ToLower(s), true
		}
		// A Caser is stateful; one per call keeps the rule goroutine-safe.
		return cases.Lower(language.Und).String(s), true
	})
}

// IDNA converts internationalized labels to their ASCII (punycode) form.
// ASCII input passes through untouched; lines IDNA cannot map are rejected.
func IDNA() Rule {
	return RuleFunc(func(s string) (string, bool) {
		if isASCII(s) {
			return s, true
		}
		out, err := idna.Lookup.ToASCII(s)
		if err != nil {
			return "", false
		}
		return out, true
	})
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// TrimSpace strips leading and trailing white space, counting the ASCII
// separators U+001C..U+001F as space.
func TrimSpace(s string) string { return strings.TrimFunc(s, isSpace) }

func isSpace(r rune) bool { return unicode.IsSpace(r) || r >= 0x1c && r <= 0x1f }
