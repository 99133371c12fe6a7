// Package domain defines the core business entities for loom.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A unit of tenant text stored in an index's doc store
//   - TenantID: The shop or catalog an index belongs to
//   - Match: A scored search hit resolved to its document
//   - RebuildRun: The record of one index rebuild
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
