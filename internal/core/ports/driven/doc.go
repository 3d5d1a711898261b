// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: The lock-guarded table of entries and vectors
//   - Persister: Whole-store load and flush to disk
//   - Normaliser: Extracts plain text from one file format
//   - NormaliserRegistry: Selects a normaliser by file extension
//   - Chunker: Splits text into overlapping windows
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, inserts are
//     skipped and searches return no results.
//   - FolderWatcher: Reports file changes for the inbox watcher
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
