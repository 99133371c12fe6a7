// Package mcp provides an MCP (Model Context Protocol) server adapter for loom.
// It lets AI assistants query tenant indexes, ask the shop analyst or catalog
// concierge, and trigger rebuilds.
package mcp

import "errors"

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")
