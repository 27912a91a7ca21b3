package shift

import "time"

type AssignmentStatus string

const (
	StatusAssigned  AssignmentStatus = "ASSIGNED"
	StatusConfirmed AssignmentStatus = "CONFIRMED"
	StatusDeclined  AssignmentStatus = "DECLINED"
)

// Assignment is one shift the scheduling service has assigned to an
// employee, with its confirmation status.
type Assignment struct {
	ShiftID    int64
	EmployeeID string
	Title      string
	Status     AssignmentStatus
	Start      time.Time
	End        time.Time
}

// IsConfirmed reports whether the employee has accepted the shift. Only
// confirmed shifts may be punched.
func (a Assignment) IsConfirmed() bool {
	return a.Status == StatusConfirmed
}
