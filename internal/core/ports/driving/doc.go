// Package driving provides interfaces for use-case entry points (primary/inbound ports).
// The CLI, HTTP API, MCP server and TUI all speak to the core through these.
package driving
