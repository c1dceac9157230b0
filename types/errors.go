package types

import "errors"

// Sentinel errors for the tawzi library.
//
// These errors provide type-safe error checking using errors.Is().
// Components wrap them with context using fmt.Errorf("%w: ...", err).

// Distribution errors - returned by the engine and the Distributor.
var (
	// ErrNoSchools is returned when a run is started with an empty school set.
	ErrNoSchools = errors.New("no schools to distribute")

	// ErrSchoolNotFound is returned when a school code does not resolve.
	ErrSchoolNotFound = errors.New("school not found")

	// ErrSupervisorNotFound is returned when a supervisor name or code does not resolve.
	ErrSupervisorNotFound = errors.New("supervisor not found")

	// ErrMandatoryElsewhere is returned when a bulk mandatory update would pin a
	// supervisor that is already mandatory on a school outside the target set.
	ErrMandatoryElsewhere = errors.New("supervisor already mandatory on another school")

	// ErrUnknownMethod is returned when an assignment method tag cannot be parsed.
	ErrUnknownMethod = errors.New("unknown assignment method")
)

// Configuration errors.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSnapshotSourceRequired is returned when a snapshot source is nil.
	ErrSnapshotSourceRequired = errors.New("snapshot source is required")

	// ErrStoreRequired is returned when an assignment store is nil.
	ErrStoreRequired = errors.New("assignment store is required")
)

// Store errors.
var (
	// ErrNoFinalRecord is returned when no final list has been stored yet.
	ErrNoFinalRecord = errors.New("no final assignment record")

	// ErrStoreFailed is returned when a store operation fails.
	ErrStoreFailed = errors.New("assignment store operation failed")

	// ErrStoreUnavailable is returned when the store backend cannot be reached.
	ErrStoreUnavailable = errors.New("assignment store unavailable")
)

// Ingestion errors.
var (
	// ErrInvalidRecord is returned when a raw row cannot be turned into a record.
	ErrInvalidRecord = errors.New("invalid record")
)
