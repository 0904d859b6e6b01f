package correction

import "errors"

var (
	ErrCorrectionNotFound         = errors.New("correction request not found")
	ErrPendingCorrectionExists    = errors.New("a pending correction already exists for this date")
	ErrCorrectionAlreadyProcessed = errors.New("correction request already approved or rejected")
)
