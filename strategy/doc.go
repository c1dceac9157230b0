// Package strategy provides built-in balance strategy implementations.
//
// A balance strategy scores the fallback candidates of a school that no
// lock, mandatory, fixed or wish assignment covered. Lower scores win. The
// package includes two built-in strategies:
//
//   - FairnessBalanced: Weighted load score with a specialty penalty (default)
//   - LoadOnly: Total load only, ignores stage, type and specialty
//
// # Strategy Selection Guide
//
// FairnessBalanced:
//   - Use for regular runs
//   - Prefers supervisors of the school's own guidance
//   - Spreads stage and school type across supervisors when capacity allows
//   - Configuration: total, stage and type weights, specialty penalty
//
// LoadOnly:
//   - Use when guidance codes are missing or unreliable
//   - Every under-capacity supervisor competes equally, ties broken by jitter
//   - Configuration: load weight (TotalWeight in the distributor config)
//
// Strategies never draw random numbers. The engine adds the tie-break jitter
// so that a seeded run stays reproducible with any strategy.
//
// Custom strategies can be implemented by satisfying the types.BalanceStrategy interface.
package strategy
