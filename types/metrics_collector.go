package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called from concurrent runs and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces.
type MetricsCollector interface {
	RunMetrics
	StoreMetrics
}

// RunMetrics defines metrics for distribution runs.
type RunMetrics interface {
	// RecordRunDuration records the time taken by one run.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	RecordRunDuration(duration float64)

	// RecordRun records a run outcome.
	//
	// Parameters:
	//   - success: false when the run was aborted (e.g. no schools)
	RecordRun(success bool)

	// RecordAssignments records the number of final assignments produced by a method.
	//
	// Parameters:
	//   - method: Method tag ("wish-1", "balanced-general", ...)
	//   - count: Assignments with that method in the last run
	RecordAssignments(method string, count int)

	// RecordCoverage sets the assigned ratio of the last run (gauge metric).
	RecordCoverage(ratio float64)

	// RecordUnassigned sets the number of unassigned schools of the last run (gauge metric).
	RecordUnassigned(count int)

	// RecordWarnings records non-fatal warnings of a run by kind.
	//
	// Parameters:
	//   - kind: Warning kind ("missing-reference", "capacity-exhausted", "stale")
	//   - count: Number of warnings
	RecordWarnings(kind string, count int)
}

// StoreMetrics defines metrics for assignment store operations.
type StoreMetrics interface {
	// RecordStoreOperation records a store operation latency.
	//
	// Parameters:
	//   - operation: Operation type ("save", "load")
	//   - duration: Time taken in seconds
	//   - success: true if the operation succeeded
	RecordStoreOperation(operation string, duration float64, success bool)
}
