// internal/runutil/runutil.go
package runutil

import "runtime"

// Defaults for the sanitizing run.
const (
	DefaultChunkSize    = 50_000
	DefaultWriteBatch   = 10_000
	DefaultMaxLineBytes = 1 << 20
)

// ComputeWorkers returns the effective worker count. If workers > 0 it is
// used as-is. Otherwise one core is left for the reader/merge path:
// max(1, numCPU-1).
func ComputeWorkers(workers, numCPU int) int {
	if workers > 0 {
		return workers
	}
	if numCPU-1 < 1 {
		return 1
	}
	return numCPU - 1
}

// DefaultWorkers is ComputeWorkers(0, runtime.NumCPU()).
func DefaultWorkers() int { return ComputeWorkers(0, runtime.NumCPU()) }

// OrDefault returns v when positive, def otherwise.
func OrDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// QueueDepth sizes the job/result channels. Two slots per worker keeps
// every worker busy without letting the reader run far ahead (each queued
// chunk holds up to chunkSize lines in memory).
func QueueDepth(workers int) int {
	if workers < 1 {
		return 2
	}
	return workers * 2
}
