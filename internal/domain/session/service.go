package session

import (
	"context"

	"github.com/storecrew/timeclock/internal/domain/attendance"
)

// Service manages the kiosk's active user sessions: upstream login, the
// per-user punch orchestrators, and eviction of idle sessions.
type Service interface {
	// Login exchanges employee credentials with the scheduling API and,
	// on success, registers an in-memory session and returns a local
	// access token for the kiosk UI.
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)

	// Orchestrator returns the punch orchestrator for an active session.
	Orchestrator(employeeID string) (attendance.Orchestrator, error)

	// Logout drops the session. Markers in the ledger are kept.
	Logout(employeeID string)

	// SweepIdle evicts sessions idle for longer than the configured
	// timeout and returns how many were removed.
	SweepIdle() int
}
