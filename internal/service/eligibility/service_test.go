package eligibility

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/storecrew/timeclock/internal/domain/attendance"
	"github.com/storecrew/timeclock/internal/domain/shift"
)

// fakeLedger is an in-memory attendance.Ledger for reducer tests
type fakeLedger struct {
	checkedIn  map[string]bool
	checkedOut map[string]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		checkedIn:  make(map[string]bool),
		checkedOut: make(map[string]bool),
	}
}

func key(employeeID, day string, shiftID int64) string {
	return fmt.Sprintf("%s/%s/%d", employeeID, day, shiftID)
}

func (f *fakeLedger) MarkCheckedIn(employeeID, day string, shiftID int64) error {
	f.checkedIn[key(employeeID, day, shiftID)] = true
	return nil
}

func (f *fakeLedger) MarkCheckedOut(employeeID, day string, shiftID int64) error {
	delete(f.checkedIn, key(employeeID, day, shiftID))
	f.checkedOut[key(employeeID, day, shiftID)] = true
	return nil
}

func (f *fakeLedger) IsCheckedIn(employeeID, day string, shiftID int64) (bool, error) {
	return f.checkedIn[key(employeeID, day, shiftID)], nil
}

func (f *fakeLedger) IsCheckedOut(employeeID, day string, shiftID int64) (bool, error) {
	return f.checkedOut[key(employeeID, day, shiftID)], nil
}

func (f *fakeLedger) Prune(cutoff time.Time) (int, error) { return 0, nil }
func (f *fakeLedger) Close() error                        { return nil }

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

func assignment(id int64, status shift.AssignmentStatus, start, end time.Time) shift.Assignment {
	return shift.Assignment{
		ShiftID:    id,
		EmployeeID: "emp-1",
		Title:      fmt.Sprintf("Shift %d", id),
		Status:     status,
		Start:      start,
		End:        end,
	}
}

// A coworker's assignment embedded in the same shift payload must never
// be offered to the kiosk user
func TestReduce_ExcludesOtherEmployeesAssignments(t *testing.T) {
	now := at(t, "2026-03-02T09:00:00Z")
	svc := NewEligibilityService(newFakeLedger())

	coworker := assignment(42, shift.StatusConfirmed, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T17:00:00Z"))
	coworker.EmployeeID = "emp-2"

	mine := assignment(1, shift.StatusConfirmed, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T17:00:00Z"))

	set := svc.Reduce("emp-1", []shift.Assignment{coworker, mine}, nil, now)

	assert.Len(t, set.Candidates, 1)
	assert.Equal(t, int64(1), set.Candidates[0].ShiftID)

	// A payload with only coworker assignments reduces to nothing
	set = svc.Reduce("emp-1", []shift.Assignment{coworker}, nil, now)
	assert.Empty(t, set.Candidates)
	assert.Nil(t, set.Default)
}

// A confirmed shift on a future day is not a candidate and never becomes
// the default selection
func TestReduce_ExcludesShiftsOutsideToday(t *testing.T) {
	now := at(t, "2026-03-02T09:00:00Z")
	svc := NewEligibilityService(newFakeLedger())

	shifts := []shift.Assignment{
		assignment(7, shift.StatusConfirmed, at(t, "2026-03-05T09:00:00Z"), at(t, "2026-03-05T17:00:00Z")),
		assignment(8, shift.StatusConfirmed, at(t, "2026-03-01T09:00:00Z"), at(t, "2026-03-01T17:00:00Z")),
		assignment(1, shift.StatusConfirmed, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T17:00:00Z")),
	}

	set := svc.Reduce("emp-1", shifts, nil, now)

	assert.Len(t, set.Candidates, 1)
	assert.Equal(t, int64(1), set.Candidates[0].ShiftID)
	if assert.NotNil(t, set.Default) {
		assert.Equal(t, int64(1), set.Default.ShiftID)
	}
}

// An overnight shift counts toward the day it starts on
func TestReduce_OvernightShiftKeyedByStartDay(t *testing.T) {
	svc := NewEligibilityService(newFakeLedger())

	overnight := assignment(3, shift.StatusConfirmed, at(t, "2026-03-02T22:00:00Z"), at(t, "2026-03-03T06:00:00Z"))

	// Candidate on its start day
	set := svc.Reduce("emp-1", []shift.Assignment{overnight}, nil, at(t, "2026-03-02T21:55:00Z"))
	assert.Len(t, set.Candidates, 1)

	// Not offered the next day, even though its window is still open
	set = svc.Reduce("emp-1", []shift.Assignment{overnight}, nil, at(t, "2026-03-03T01:00:00Z"))
	assert.Empty(t, set.Candidates)
}

// Only confirmed assignments become candidates
func TestReduce_ExcludesUnconfirmed(t *testing.T) {
	now := at(t, "2026-03-02T09:00:00Z")
	svc := NewEligibilityService(newFakeLedger())

	shifts := []shift.Assignment{
		assignment(1, shift.StatusConfirmed, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T17:00:00Z")),
		assignment(2, shift.StatusAssigned, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T17:00:00Z")),
		assignment(3, shift.StatusDeclined, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T17:00:00Z")),
	}

	set := svc.Reduce("emp-1", shifts, nil, now)

	assert.Len(t, set.Candidates, 1)
	assert.Equal(t, int64(1), set.Candidates[0].ShiftID)
}

// Shifts already checked out of today never resurface, even while open
func TestReduce_ExcludesCheckedOut(t *testing.T) {
	now := at(t, "2026-03-02T10:00:00Z")
	ledger := newFakeLedger()
	ledger.MarkCheckedOut("emp-1", "2026-03-02", 1)
	svc := NewEligibilityService(ledger)

	shifts := []shift.Assignment{
		assignment(1, shift.StatusConfirmed, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T17:00:00Z")),
	}

	set := svc.Reduce("emp-1", shifts, nil, now)

	assert.Empty(t, set.Candidates)
	assert.Nil(t, set.Default)
}

// A checked-in shift stays listed only while its session is the open one
func TestReduce_CheckedInShiftRequiresOpenSession(t *testing.T) {
	now := at(t, "2026-03-02T10:00:00Z")
	ledger := newFakeLedger()
	ledger.MarkCheckedIn("emp-1", "2026-03-02", 1)
	svc := NewEligibilityService(ledger)

	shifts := []shift.Assignment{
		assignment(1, shift.StatusConfirmed, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T17:00:00Z")),
	}

	// No open session: hidden
	set := svc.Reduce("emp-1", shifts, nil, now)
	assert.Empty(t, set.Candidates)

	// Open session on the same shift: listed
	open := &attendance.Session{ShiftID: 1, CheckIn: at(t, "2026-03-02T09:00:00Z")}
	set = svc.Reduce("emp-1", shifts, open, now)
	assert.Len(t, set.Candidates, 1)

	// Open session on a different shift: hidden
	other := &attendance.Session{ShiftID: 9, CheckIn: at(t, "2026-03-02T09:00:00Z")}
	set = svc.Reduce("emp-1", shifts, other, now)
	assert.Empty(t, set.Candidates)
}

// Missed shifts are dropped; markers from another employee do not leak
func TestReduce_ExcludesMissedAndIsolatesEmployees(t *testing.T) {
	now := at(t, "2026-03-02T12:00:00Z")
	ledger := newFakeLedger()
	ledger.MarkCheckedOut("emp-2", "2026-03-02", 1)
	svc := NewEligibilityService(ledger)

	shifts := []shift.Assignment{
		assignment(1, shift.StatusConfirmed, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T17:00:00Z")),
		assignment(2, shift.StatusConfirmed, at(t, "2026-03-02T06:00:00Z"), at(t, "2026-03-02T08:00:00Z")),
	}

	set := svc.Reduce("emp-1", shifts, nil, now)

	// emp-2's marker must not hide shift 1 for emp-1
	assert.Len(t, set.Candidates, 1)
	assert.Equal(t, int64(1), set.Candidates[0].ShiftID)
}

// Candidates come back sorted by start; equal starts keep input order
func TestReduce_SortIsStable(t *testing.T) {
	now := at(t, "2026-03-02T09:00:00Z")
	svc := NewEligibilityService(newFakeLedger())

	sameStart := at(t, "2026-03-02T09:00:00Z")
	sameEnd := at(t, "2026-03-02T17:00:00Z")

	shifts := []shift.Assignment{
		assignment(7, shift.StatusConfirmed, sameStart, sameEnd),
		assignment(3, shift.StatusConfirmed, sameStart, sameEnd),
		assignment(5, shift.StatusConfirmed, at(t, "2026-03-02T08:00:00Z"), sameEnd),
	}

	set := svc.Reduce("emp-1", shifts, nil, now)

	ids := []int64{}
	for _, c := range set.Candidates {
		ids = append(ids, c.ShiftID)
	}
	assert.Equal(t, []int64{5, 7, 3}, ids)
}

// Default prefers the earliest open window over an earlier upcoming one
func TestReduce_DefaultPrefersOpenWindow(t *testing.T) {
	now := at(t, "2026-03-02T09:30:00Z")
	svc := NewEligibilityService(newFakeLedger())

	shifts := []shift.Assignment{
		// Opens at 13:50, not yet open at 09:30
		assignment(1, shift.StatusConfirmed, at(t, "2026-03-02T14:00:00Z"), at(t, "2026-03-02T22:00:00Z")),
		// Open at 09:30
		assignment(2, shift.StatusConfirmed, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T13:00:00Z")),
	}

	set := svc.Reduce("emp-1", shifts, nil, now)

	assert.Len(t, set.Candidates, 2)
	if assert.NotNil(t, set.Default) {
		assert.Equal(t, int64(2), set.Default.ShiftID)
		assert.Equal(t, shift.WindowOpen, set.Default.Window)
	}
}

// With no open window the default falls back to the earliest upcoming shift
func TestReduce_DefaultFallsBackToUpcoming(t *testing.T) {
	now := at(t, "2026-03-02T06:00:00Z")
	svc := NewEligibilityService(newFakeLedger())

	shifts := []shift.Assignment{
		assignment(1, shift.StatusConfirmed, at(t, "2026-03-02T14:00:00Z"), at(t, "2026-03-02T22:00:00Z")),
		assignment(2, shift.StatusConfirmed, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T13:00:00Z")),
	}

	set := svc.Reduce("emp-1", shifts, nil, now)

	if assert.NotNil(t, set.Default) {
		assert.Equal(t, int64(2), set.Default.ShiftID)
		assert.Equal(t, shift.WindowNotYetOpen, set.Default.Window)
	}
}

// After checking out of a morning shift, the back-to-back afternoon shift
// becomes the new default
func TestReduce_BackToBackShifts(t *testing.T) {
	now := at(t, "2026-03-02T13:05:00Z")
	ledger := newFakeLedger()
	ledger.MarkCheckedOut("emp-1", "2026-03-02", 1)
	svc := NewEligibilityService(ledger)

	shifts := []shift.Assignment{
		assignment(1, shift.StatusConfirmed, at(t, "2026-03-02T09:00:00Z"), at(t, "2026-03-02T13:00:00Z")),
		assignment(2, shift.StatusConfirmed, at(t, "2026-03-02T13:00:00Z"), at(t, "2026-03-02T17:00:00Z")),
	}

	set := svc.Reduce("emp-1", shifts, nil, now)

	assert.Len(t, set.Candidates, 1)
	if assert.NotNil(t, set.Default) {
		assert.Equal(t, int64(2), set.Default.ShiftID)
	}
}

// An empty shift list degrades to an empty set with no default
func TestReduce_EmptyInput(t *testing.T) {
	svc := NewEligibilityService(newFakeLedger())

	set := svc.Reduce("emp-1", nil, nil, at(t, "2026-03-02T09:00:00Z"))

	assert.Empty(t, set.Candidates)
	assert.Nil(t, set.Default)
}
