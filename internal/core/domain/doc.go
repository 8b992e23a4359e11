// Package domain defines the core entities of the exam preparation pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Topic: A concept or skill named by an exam summary
//   - Page: One page of a vision-processed source document
//   - Chunk: A character window of a page plus the page's metadata
//   - VectorRecord: A chunk paired with its id and embedding
//   - Retrieval: Ranked matches for a query embedding
//   - GuideSection / Solution: Generated output artefacts
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
