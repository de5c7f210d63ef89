// Package writers serializes the final domain set.
//
// Design:
//   - Output is a pure function of the set: sorted bytewise, one entry per line.
//   - Lines are written in fixed-size batches so peak buffer use stays bounded.
//   - File output goes to a temp file that is renamed into place only on
//     success; a failed or aborted run never leaves a partial output file.
package writers
