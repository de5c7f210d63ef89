// Package rules normalizes one raw list entry into a candidate host name.
//
// A Pipeline is an ordered list of Rules. Each rule sees the whitespace-
// trimmed output of the previous one and may reject the line, which ends
// processing for that line. Rules are pure; a Pipeline is safe to share
// between goroutines.
package rules
