package eligibility

import (
	"log/slog"
	"sort"
	"time"

	"github.com/storecrew/timeclock/internal/domain/attendance"
	"github.com/storecrew/timeclock/internal/domain/shift"
)

type service struct {
	ledger attendance.Ledger
}

func NewEligibilityService(ledger attendance.Ledger) attendance.Eligibility {
	return &service{ledger: ledger}
}

// Reduce implements attendance.Eligibility.
//
// Filtering order matters: ownership and day first, then confirmation,
// then ledger exclusions, then the time window. A shift the user already
// worked today must never resurface as a candidate, even if its window
// is still open.
func (s *service) Reduce(employeeID string, shifts []shift.Assignment, open *attendance.Session, now time.Time) attendance.CandidateSet {
	day := attendance.Day(now)

	candidates := make([]attendance.Candidate, 0, len(shifts))
	for _, a := range shifts {
		// The server embeds coworkers' assignments in shift payloads;
		// only the caller's own may ever be offered.
		if a.EmployeeID != employeeID {
			continue
		}

		// Only today's shifts are punchable. Overnight shifts belong to
		// the day they start on; the kiosk's local day decides.
		if attendance.Day(a.Start.In(now.Location())) != day {
			continue
		}

		if !a.IsConfirmed() {
			continue
		}

		if s.hasMarker(employeeID, day, a.ShiftID, attendance.MarkerCheckedOut) {
			continue
		}

		// A checked-in shift stays listed only while its session is the
		// one currently open, so the UI can show what to check out of.
		if s.hasMarker(employeeID, day, a.ShiftID, attendance.MarkerCheckedIn) {
			if open == nil || open.ShiftID != a.ShiftID {
				continue
			}
		}

		window := a.WindowOf(now)
		if window == shift.WindowMissed {
			continue
		}

		candidates = append(candidates, attendance.Candidate{
			Assignment: a,
			Window:     window,
		})
	}

	// Stable: shifts with equal start times keep server order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start.Before(candidates[j].Start)
	})

	set := attendance.CandidateSet{Candidates: candidates}
	set.Default = defaultCandidate(candidates)
	return set
}

// defaultCandidate picks the shift the kiosk should preselect: the
// earliest open window, else the earliest upcoming one.
func defaultCandidate(candidates []attendance.Candidate) *attendance.Candidate {
	for i := range candidates {
		if candidates[i].Window == shift.WindowOpen {
			return &candidates[i]
		}
	}
	for i := range candidates {
		if candidates[i].Window == shift.WindowNotYetOpen {
			return &candidates[i]
		}
	}
	return nil
}

// hasMarker treats a ledger read failure as "no marker": a corrupt local
// file must not hide shifts, the server remains the source of truth.
func (s *service) hasMarker(employeeID, day string, shiftID int64, kind attendance.MarkerKind) bool {
	var (
		found bool
		err   error
	)
	switch kind {
	case attendance.MarkerCheckedOut:
		found, err = s.ledger.IsCheckedOut(employeeID, day, shiftID)
	default:
		found, err = s.ledger.IsCheckedIn(employeeID, day, shiftID)
	}
	if err != nil {
		slog.Warn("Ledger read failed, treating as unmarked", "employee_id", employeeID, "shift_id", shiftID, "error", err)
		return false
	}
	return found
}
