// Package sqlite provides a persistent vector collection store on SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A single database file holds any
// number of named collections:
//
//   - collections: name, the embedding model it was created with, vector dimension
//   - records: id, document text, float32 embedding blob, JSON chunk metadata
//
// # Similarity
//
// Queries scan the collection and rank records by squared Euclidean distance,
// ascending. Records at equal distance keep insertion order.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// The database is stored at <dir>/vectors.db, where dir defaults to
// ./chroma_db_vision.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
