package attendance

import (
	"github.com/storecrew/timeclock/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	ShiftID int64 `json:"shift_id"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ShiftID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CandidateResponse struct {
	ShiftID   int64  `json:"shift_id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Window    string `json:"window"`
}

type SessionResponse struct {
	ShiftID     int64  `json:"shift_id"`
	ShiftTitle  string `json:"shift_title"`
	CheckInTime string `json:"check_in_time"`
}

// SnapshotResponse is the full kiosk view for one user: punch state, the
// open server session if any, the ordered candidate list and the
// auto-selected default.
type SnapshotResponse struct {
	EmployeeID     string              `json:"employee_id"`
	State          string              `json:"state"`
	Current        *SessionResponse    `json:"current,omitempty"`
	Candidates     []CandidateResponse `json:"candidates"`
	DefaultShiftID *int64              `json:"default_shift_id,omitempty"`
}

type PunchFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Event      *string `json:"event,omitempty"`
	Result     *string `json:"result,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`

	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortOrder string `json:"sort_order,omitempty"`
}

func (f *PunchFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Event != nil && !validator.IsInSlice(*f.Event, []string{string(PunchCheckIn), string(PunchCheckOut)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "event",
			Message: "event must be CHECK_IN or CHECK_OUT",
		})
	}

	if f.Result != nil && !validator.IsInSlice(*f.Result, []string{string(PunchSuccess), string(PunchRejected), string(PunchError)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "result",
			Message: "result must be SUCCESS, REJECTED or ERROR",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchEventResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	ShiftID    int64   `json:"shift_id"`
	Event      string  `json:"event"`
	Result     string  `json:"result"`
	Message    *string `json:"message,omitempty"`
	Hostname   string  `json:"hostname"`
	OccurredAt string  `json:"occurred_at"`
}

type ListPunchResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Events     []PunchEventResponse `json:"events"`
}
