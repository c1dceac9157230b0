// Package source provides built-in snapshot source implementations.
//
// Snapshot sources supply the input records of a distribution run.
// The package includes:
//
//   - Static: Fixed, typed snapshot
//   - YAMLFile: Raw sheet tables read from a YAML document and ingested
//
// Custom sources can be implemented by satisfying the types.SnapshotSource interface.
package source
