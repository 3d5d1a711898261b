// Package driving defines the interfaces the CLI, TUI and MCP server
// call into. Implementations live in internal/core/services.
package driving
