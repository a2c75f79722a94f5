// Package internal contains the core implementation packages for grammarsync.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the grammarsync CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - config: Configuration management with validation
//   - errors: Structured error types for the fatal failure kinds
//   - fetch: Raw file retrieval from upstream repositories at pinned refs
//   - gitcmd: Subprocess git wrapper for clone and history queries
//   - grammar: Multi-format grammar normalization and variant derivation
//   - registry: Tracked-source records and canonical registry rewriting
//   - resolver: Monotonic pin-advance decisions over upstream history
//   - syncer: The download flow, from fetch to garbage collection
//
// # Inter-Package Communication
//
// The registry is the shared input of both entry flows: syncer materializes
// its state into the output directories, resolver computes its next state
// from upstream history and hands it back to the registry rewriter. Both
// flows are sequential and fail-fast; neither retries nor recovers
// partially.
//
// For detailed documentation, see the individual package documentation.
package internal
