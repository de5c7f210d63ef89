// internal/rules/pipeline.go
package rules

// Pipeline applies rules in order.
type Pipeline struct {
	rules []Rule
}

// New builds a pipeline from rules, applied in the given order.
func New(rs ...Rule) *Pipeline {
	return &Pipeline{rules: append([]Rule(nil), rs...)}
}

// Options selects the built-in normalization policy.
type Options struct {
	Prefixes []string // nil means DefaultPrefixes
	IDNA     bool     // punycode non-ASCII labels after lowercasing
}

// Default is the standard policy: comments, prefixes, trailing dots, case.
func Default(prefixes []string) *Pipeline {
	return FromOptions(Options{Prefixes: prefixes})
}

// FromOptions builds the standard policy with optional extras.
func FromOptions(o Options) *Pipeline {
	ps := o.Prefixes
	if ps == nil {
		ps = DefaultPrefixes
	}
	rs := []Rule{
		RejectComment("#"),
		StripPrefix(ps...),
		TrimTrailingDots(),
		Lowercase(),
	}
	if o.IDNA {
		rs = append(rs, IDNA())
	}
	return New(rs...)
}

// Len is the number of rules.
func (p *Pipeline) Len() int { return len(p.rules) }

// Apply runs every rule over line. Each rule receives trimmed input.
// An empty result is a rejection.
func (p *Pipeline) Apply(line string) (string, bool) {
	s := line
	for _, r := range p.rules {
		var ok bool
		s, ok = r.Apply(TrimSpace(s))
		if !ok {
			return "", false
		}
	}
	s = TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
