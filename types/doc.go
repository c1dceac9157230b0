// Package types provides core type definitions and interfaces for the tawzi library.
//
// This package contains shared types that are used across multiple packages in the
// library. By keeping these types in a separate package, we avoid import cycles
// between the root tawzi package and its internal implementations.
//
// Key types:
//   - School, Supervisor, Guidance, Wish: Normalized input records
//   - Snapshot: The immutable input of one run
//   - Assignment, Method: The final assignment list and its provenance tags
//   - Result, RunLog: Run output and audit trace
//   - BalanceStrategy: Fallback candidate scoring
//   - AssignmentStore, SnapshotSource: Persistence and input boundaries
//   - Logger, MetricsCollector: Observability interfaces
package types
