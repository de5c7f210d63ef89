// Package pipeline fans input chunks out to a fixed pool of workers, runs
// each line through a Processor, and merges the per-chunk results into one
// set of unique domains.
//
// The only contract a worker needs is Processor (Process). Workers share no
// mutable state; the result set is owned by a single collector goroutine.
package pipeline
