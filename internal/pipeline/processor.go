// internal/pipeline/processor.go
package pipeline

import (
	"fqdnsan/internal/fqdn"
	"fqdnsan/internal/rules"
)

// Processor turns one raw line into a valid domain, or rejects it.
// Each worker owns its Processor, so implementations need not be
// goroutine-safe.
type Processor interface {
	Process(line string) (string, bool)
}

// CacheReporter is implemented by processors that memoize validation.
type CacheReporter interface {
	CacheStats() (hits, misses uint64)
}

// LineProcessor applies the rule pipeline, then the validator.
type LineProcessor struct {
	Rules     *rules.Pipeline
	Validator *fqdn.Validator
}

func (p *LineProcessor) Process(line string) (string, bool) {
	s, ok := p.Rules.Apply(line)
	if !ok || !p.Validator.Valid(s) {
		return "", false
	}
	return s, true
}

func (p *LineProcessor) CacheStats() (uint64, uint64) { return p.Validator.CacheStats() }

// NewLineProcessors returns a factory producing one LineProcessor per
// worker: the rule pipeline is shared, each validator gets its own cache.
func NewLineProcessors(rp *rules.Pipeline, split fqdn.Splitter, cacheSize int) func() Processor {
	return func() Processor {
		return &LineProcessor{Rules: rp, Validator: fqdn.NewValidator(split, cacheSize)}
	}
}
