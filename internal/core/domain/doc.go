// Package domain defines the core business entities for the assistant store.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentEntry: One stored unit of text with its source and metadata
//   - Metadata: Typed chunk metadata with an open extension map
//   - AccessPolicy: The role to allowed-sources table used to filter results
//   - RawDocument: Opaque bytes handed to a normaliser
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
