// Package sqlite persists the document store in a single SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each entry occupies one row keyed by
// its position, with the embedding stored as a little-endian float32 blob, so an
// entry and its vector can never be written apart.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// The database is stored at <store dir>/store.db.
//
// # Thread Safety
//
// Save replaces every row inside one transaction. The database runs in WAL mode.
package sqlite
