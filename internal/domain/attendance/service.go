package attendance

import (
	"context"
	"time"

	"github.com/storecrew/timeclock/internal/domain/shift"
)

// Eligibility reduces a user's shifts for the day to the candidates that
// may be offered for check-in at now. Pure besides ledger reads; an empty
// shift list degrades to an empty candidate set.
type Eligibility interface {
	Reduce(employeeID string, shifts []shift.Assignment, open *Session, now time.Time) CandidateSet
}

// Orchestrator drives the punch state machine for one user session. All
// methods are safe for concurrent use; punch triggers arriving while a
// punch is in flight are rejected rather than issued twice.
type Orchestrator interface {
	// Snapshot fetches today's shifts and the open session from upstream
	// and returns the current kiosk view.
	Snapshot(ctx context.Context) (SnapshotResponse, error)

	// CheckIn opens an attendance session for the given candidate shift.
	CheckIn(ctx context.Context, req CheckInRequest) (SnapshotResponse, error)

	// CheckOut closes the open session, waits for upstream state to
	// reflect the mutation, and returns the refreshed view with the next
	// default selection so back-to-back shifts can be entered immediately.
	CheckOut(ctx context.Context) (SnapshotResponse, error)

	State() State
}
