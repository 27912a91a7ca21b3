package attendance

import "time"

// Ledger is the durable local store of attendance markers, keyed by
// (employeeID, day, shiftID) so that accounts on a shared kiosk never see
// each other's markers.
//
// The ledger is advisory: if storage is unavailable it behaves as empty,
// which only degrades the offered candidate list, never the server-side
// clock. Callers log write errors and carry on.
type Ledger interface {
	// MarkCheckedIn records a CHECKED_IN marker, persisted immediately so
	// it survives a kiosk restart before check-out.
	MarkCheckedIn(employeeID, day string, shiftID int64) error

	// MarkCheckedOut records a CHECKED_OUT marker and removes any
	// CHECKED_IN marker for the same key. Idempotent.
	MarkCheckedOut(employeeID, day string, shiftID int64) error

	IsCheckedIn(employeeID, day string, shiftID int64) (bool, error)
	IsCheckedOut(employeeID, day string, shiftID int64) (bool, error)

	// Prune deletes markers whose day is before cutoff and returns how
	// many were removed. Keeps the ledger from growing without bound.
	Prune(cutoff time.Time) (int, error)

	Close() error
}
