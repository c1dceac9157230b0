package tawzi

import "github.com/arloliu/tawzi/types"

// Re-export sentinel errors so callers can check them without importing types.
var (
	ErrNoSchools              = types.ErrNoSchools
	ErrSchoolNotFound         = types.ErrSchoolNotFound
	ErrSupervisorNotFound     = types.ErrSupervisorNotFound
	ErrMandatoryElsewhere     = types.ErrMandatoryElsewhere
	ErrUnknownMethod          = types.ErrUnknownMethod
	ErrInvalidConfig          = types.ErrInvalidConfig
	ErrSnapshotSourceRequired = types.ErrSnapshotSourceRequired
	ErrStoreRequired          = types.ErrStoreRequired
	ErrNoFinalRecord          = types.ErrNoFinalRecord
	ErrStoreFailed            = types.ErrStoreFailed
	ErrStoreUnavailable       = types.ErrStoreUnavailable
	ErrInvalidRecord          = types.ErrInvalidRecord
)
