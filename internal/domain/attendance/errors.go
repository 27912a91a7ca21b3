package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrPunchInProgress  = errors.New("another punch is already in progress")
	ErrAlreadyCheckedIn = errors.New("you are already checked in")
	ErrNotCheckedIn     = errors.New("you are not checked in")
	ErrShiftNotEligible = errors.New("shift is not eligible for check-in right now")

	// Upstream errors
	ErrUpstreamUnavailable = errors.New("scheduling service is unavailable")
)
