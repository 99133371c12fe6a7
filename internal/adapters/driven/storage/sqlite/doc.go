// Package sqlite provides a SQLite-based implementation of the marketplace
// read ports and the rebuild history.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements several store interfaces
// through a single database connection:
//
//   - SalesStore: shops and their sales rows
//   - CatalogStore: active products with shop, stock and reviews
//   - RebuildRunStore: index rebuild history
//
// The adapter only reads marketplace rows; the marketplace application
// owns those tables and writes them.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.loom/data/loom.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
