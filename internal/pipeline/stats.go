package pipeline

// DomainSet is the run-wide set of valid domains.
type DomainSet map[string]struct{}

func (s DomainSet) Add(d string) { s[d] = struct{}{} }

func (s DomainSet) Has(d string) bool { _, ok := s[d]; return ok }

// Stats tracks aggregate counters across a run.
type Stats struct {
	Chunks         int64
	Lines          int64
	Accepted       int64 // valid lines, duplicates included
	Rejected       int64
	Faults         int64 // lines whose processing panicked
	DecodeFailures int64 // invalid UTF-8
	Oversized      int64 // longer than the line limit
	Unique         int
}
