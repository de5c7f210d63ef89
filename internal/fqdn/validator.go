// Package fqdn decides whether a normalized candidate is a syntactically
// valid fully-qualified domain name.
//
// A candidate is valid when it is non-empty, has no '*', every dot-separated
// label is 1..63 of [A-Za-z0-9-] and does not start or end with '-', and a
// public-suffix split leaves both a registrable label and a suffix.
package fqdn

import "fqdnsan/internal/runutil"

const maxLabel = 63

// Validator memoizes Check results in a bounded LRU. A Validator is not
// safe for concurrent use; give each worker its own.
type Validator struct {
	split  Splitter
	cache  *runutil.LRU[string, bool]
	hits   uint64
	misses uint64
}

// NewValidator returns a validator over split with a cache of cacheSize
// entries (<=0 selects runutil.DefaultLRUCapacity).
func NewValidator(split Splitter, cacheSize int) *Validator {
	return &Validator{split: split, cache: runutil.NewLRU[string, bool](cacheSize)}
}

// Valid reports whether s is a valid FQDN. Eviction only costs a recompute.
func (v *Validator) Valid(s string) bool {
	if ok, hit := v.cache.Get(s); hit {
		v.hits++
		return ok
	}
	v.misses++
	ok := Check(v.split, s)
	v.cache.Add(s, ok)
	return ok
}

// CacheStats returns hit and miss counts since construction.
func (v *Validator) CacheStats() (hits, misses uint64) { return v.hits, v.misses }

// Check is the uncached rule set. Labels are checked before the suffix
// split, so the splitter only ever sees well-formed names.
func Check(split Splitter, s string) bool {
	if s == "" || !ValidLabels(s) {
		return false
	}
	reg, suf, ok := split.Split(s)
	return ok && reg != "" && suf != ""
}

// ValidLabels checks label syntax for every '.'-separated label of s.
// A '*' fails the character test, so wildcards are rejected here.
func ValidLabels(s string) bool {
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != '.' {
			if !isLDH(s[i]) {
				return false
			}
			continue
		}
		n := i - start
		if n < 1 || n > maxLabel || s[start] == '-' || s[i-1] == '-' {
			return false
		}
		start = i + 1
	}
	return true
}

func isLDH(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}
