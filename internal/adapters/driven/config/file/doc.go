// Package file provides the file-backed configuration adapter: a TOML config
// store under ~/.assistant plus .env and environment variable overrides.
package file
