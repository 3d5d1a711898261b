// Package jsonfile persists the document store as two sibling JSON files.
//
// documents.json holds an ordered array of entry objects with the fields
// content, source, metadata and user_role. embeddings.json holds an ordered
// array of number arrays; embeddings[i] is the vector for documents[i].
//
// Both files are rewritten wholesale on every Save. Each file is written to
// a temporary sibling and renamed into place, so a crash mid-write leaves
// the previous version intact.
package jsonfile
