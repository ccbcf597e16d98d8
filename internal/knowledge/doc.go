// Package knowledge loads persisted chunk collections into one
// canonical in-memory corpus.
//
// The Store scans a fixed, ordered list of candidate directories for
// collection files, accepts three authoring shapes (chunk records, a
// plain string list, or an arbitrary JSON tree), filters out
// heading-like fragments, prefers rule-like policy lines, and caches
// the result. The corpus is read-only after load; Reload replaces it
// wholesale. An empty corpus is a valid terminal state, not an error.
package knowledge
