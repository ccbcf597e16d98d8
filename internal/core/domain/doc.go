// Package domain defines the core business entities for SOP Search.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Section: An ordered unit of text extracted from a raw document
//   - KnowledgeChunk: A classified, size-bounded fragment of policy text
//   - Query: A question with a market preference
//   - RankedChunk: A chunk scored against a query
//   - Answer: The final result handed back to the caller
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
