// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentExporter: Turns a tenant's relational rows into text documents
//   - Chunker: Splits document text into bounded chunks
//   - VectorIndexBuilder: Builds and decodes tenant vector indexes
//   - ArtifactStore: Persists tenant indexes between processes
//   - SalesStore, CatalogStore: Read-only relational access for exporters
//   - RebuildRunStore: Rebuild history
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Without it no index can be built or queried.
//   - LLMService: Without it ask returns retrieved context only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, exporter, or postprocessor package
package driven
