package tawzi

import "github.com/arloliu/tawzi/types"

// Re-export types from the types package.
//
// Internal packages depend on types only, never on the root package, so
// the aliases here give callers tawzi.School, tawzi.Result, etc. without
// an import cycle.
type (
	School      = types.School
	Supervisor  = types.Supervisor
	Guidance    = types.Guidance
	Wish        = types.Wish
	Assignment  = types.Assignment
	Snapshot    = types.Snapshot
	Method      = types.Method
	Result      = types.Result
	RunLog      = types.RunLog
	LogEntry    = types.LogEntry
	LogKind     = types.LogKind
	RunStats    = types.RunStats
	FinalRecord = types.FinalRecord
)

// Re-export interfaces from the types package for convenience.
type (
	BalanceStrategy  = types.BalanceStrategy
	SnapshotSource   = types.SnapshotSource
	AssignmentStore  = types.AssignmentStore
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export Method constants from the types package.
const (
	MethodUnassigned        = types.MethodUnassigned
	MethodLockedCleared     = types.MethodLockedCleared
	MethodBalancedGeneral   = types.MethodBalancedGeneral
	MethodBalancedSpecialty = types.MethodBalancedSpecialty
	MethodWish4             = types.MethodWish4
	MethodWish3             = types.MethodWish3
	MethodWish2             = types.MethodWish2
	MethodWish1             = types.MethodWish1
	MethodFixed             = types.MethodFixed
	MethodMandatory         = types.MethodMandatory
	MethodLocked            = types.MethodLocked
)
