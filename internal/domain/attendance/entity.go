package attendance

import (
	"time"

	"github.com/storecrew/timeclock/internal/domain/shift"
)

type MarkerKind string

const (
	MarkerCheckedIn  MarkerKind = "CHECKED_IN"
	MarkerCheckedOut MarkerKind = "CHECKED_OUT"
)

// Marker records locally that a shift has already been checked into or out
// of. The scheduling API only tracks a single globally-open session per
// user, so markers are what keep already-attended shifts from being offered
// again after a reload or before a following shift on the same day.
type Marker struct {
	EmployeeID string
	Day        string // local work day, YYYY-MM-DD
	ShiftID    int64
	Kind       MarkerKind
	MarkedAt   time.Time
}

// Session is the server's single open attendance session for a user.
// The server remains the source of truth for "am I clocked in right now".
type Session struct {
	ShiftID    int64
	ShiftTitle string
	CheckIn    time.Time
}

// State is the punch state machine position for one user session.
type State string

const (
	StateIdle        State = "idle"
	StateCheckingIn  State = "checking_in"
	StateCheckedIn   State = "checked_in"
	StateCheckingOut State = "checking_out"
)

// Candidate is a shift eligible to be offered for check-in at the current
// instant, together with its window classification.
type Candidate struct {
	shift.Assignment
	Window shift.Window
}

// CandidateSet is the ordered result of the eligibility reduction.
// Default is the auto-selected shift, nil when no candidate exists.
type CandidateSet struct {
	Candidates []Candidate
	Default    *Candidate
}

// Contains reports whether the set offers the given shift.
func (s CandidateSet) Contains(shiftID int64) bool {
	for _, c := range s.Candidates {
		if c.ShiftID == shiftID {
			return true
		}
	}
	return false
}

type PunchEventType string

const (
	PunchCheckIn  PunchEventType = "CHECK_IN"
	PunchCheckOut PunchEventType = "CHECK_OUT"
)

type PunchResult string

const (
	PunchSuccess  PunchResult = "SUCCESS"
	PunchRejected PunchResult = "REJECTED"
	PunchError    PunchResult = "ERROR"
)

// PunchEvent is one journaled check-in or check-out attempt.
type PunchEvent struct {
	ID         string
	EmployeeID string
	ShiftID    int64
	Event      PunchEventType
	Result     PunchResult
	Message    *string
	Hostname   string
	OccurredAt time.Time
}

// Day formats t as the ledger's work-day key.
func Day(t time.Time) string {
	return t.Format("2006-01-02")
}
