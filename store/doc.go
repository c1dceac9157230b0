// Package store provides types.AssignmentStore implementations.
//
// The package includes:
//
//   - Memory: In-process store keeping every saved version
//   - NATSKV: NATS JetStream KeyValue bucket, one JSON document per version
//
// Both stores assign monotonically increasing versions and keep a bounded or
// unbounded history that History returns oldest first.
package store
