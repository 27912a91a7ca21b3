package response

import (
	"errors"
	"net/http"

	"github.com/storecrew/timeclock/internal/domain/attendance"
	"github.com/storecrew/timeclock/internal/domain/session"
	"github.com/storecrew/timeclock/internal/pkg/validator"
	"github.com/storecrew/timeclock/internal/upstream"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Rejections from the scheduling API carry a user-facing message;
	// surface it as-is.
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		if upstream.IsRejection(err) {
			Conflict(w, apiErr.Message)
			return
		}
		BadGateway(w, "Scheduling service reported an error")
		return
	}

	switch {
	// Session domain errors
	case errors.Is(err, session.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, session.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, session.ErrSessionNotFound):
		Unauthorized(w, "No active kiosk session, please log in again")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrPunchInProgress):
		Conflict(w, "Another punch is already in progress")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You are already checked in")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "You are not checked in")
	case errors.Is(err, attendance.ErrShiftNotEligible):
		BadRequest(w, "Shift is not eligible for check-in right now", nil)
	case errors.Is(err, attendance.ErrUpstreamUnavailable):
		BadGateway(w, "Scheduling service is unavailable")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
