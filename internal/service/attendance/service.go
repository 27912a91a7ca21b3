package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/storecrew/timeclock/internal/config"
	"github.com/storecrew/timeclock/internal/domain/attendance"
	"github.com/storecrew/timeclock/internal/pkg/sse"
	"github.com/storecrew/timeclock/internal/upstream"
)

// service drives the punch state machine for one kiosk session. Guards
// run under the mutex; upstream calls run outside it so State() and the
// event stream stay responsive while a punch is in flight.
type service struct {
	employeeID string
	hostname   string

	api         upstream.API
	ledger      attendance.Ledger
	journal     attendance.PunchJournal
	eligibility attendance.Eligibility
	hub         *sse.Hub

	pollAttempts int
	pollInterval time.Duration

	now func() time.Time

	mu      sync.Mutex
	state   attendance.State
	current *attendance.Session
}

func NewOrchestrator(
	employeeID string,
	hostname string,
	api upstream.API,
	ledger attendance.Ledger,
	journal attendance.PunchJournal,
	eligibility attendance.Eligibility,
	hub *sse.Hub,
	kiosk config.KioskConfig,
) attendance.Orchestrator {
	return &service{
		employeeID:   employeeID,
		hostname:     hostname,
		api:          api,
		ledger:       ledger,
		journal:      journal,
		eligibility:  eligibility,
		hub:          hub,
		pollAttempts: kiosk.ConfirmPollAttempts,
		pollInterval: kiosk.ConfirmPollInterval,
		now:          time.Now,
		state:        attendance.StateIdle,
	}
}

// State implements attendance.Orchestrator.
func (s *service) State() attendance.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot implements attendance.Orchestrator.
func (s *service) Snapshot(ctx context.Context) (attendance.SnapshotResponse, error) {
	current, err := s.api.CurrentSession(ctx)
	if err != nil {
		return attendance.SnapshotResponse{}, fmt.Errorf("failed to fetch current session: %w", err)
	}

	s.reconcile(current)

	return s.buildSnapshot(ctx, current), nil
}

// CheckIn implements attendance.Orchestrator.
func (s *service) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.SnapshotResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SnapshotResponse{}, err
	}

	if err := s.beginCheckIn(); err != nil {
		return attendance.SnapshotResponse{}, err
	}

	now := s.now()

	// Re-validate eligibility against fresh server truth; the kiosk may
	// have rendered a candidate whose window has since closed.
	shifts, err := s.api.MyShifts(ctx, now)
	if err != nil {
		s.setState(attendance.StateIdle)
		return attendance.SnapshotResponse{}, fmt.Errorf("failed to fetch shifts: %w", err)
	}

	set := s.eligibility.Reduce(s.employeeID, shifts, nil, now)
	if !set.Contains(req.ShiftID) {
		s.setState(attendance.StateIdle)
		s.record(ctx, req.ShiftID, attendance.PunchCheckIn, attendance.PunchRejected, strPtr("shift is not eligible for check-in"))
		return attendance.SnapshotResponse{}, attendance.ErrShiftNotEligible
	}

	if _, err := s.api.CheckIn(ctx, req.ShiftID); err != nil {
		// Failed punch leaves state and ledger untouched.
		s.setState(attendance.StateIdle)
		s.record(ctx, req.ShiftID, attendance.PunchCheckIn, punchResult(err), strPtr(err.Error()))
		return attendance.SnapshotResponse{}, err
	}

	if err := s.ledger.MarkCheckedIn(s.employeeID, attendance.Day(now), req.ShiftID); err != nil {
		slog.Error("Failed to write check-in marker", "employee_id", s.employeeID, "shift_id", req.ShiftID, "error", err)
	}
	s.record(ctx, req.ShiftID, attendance.PunchCheckIn, attendance.PunchSuccess, nil)

	// Re-read server truth rather than synthesizing the session locally.
	current, err := s.api.CurrentSession(ctx)
	if err != nil {
		slog.Warn("Failed to refetch session after check-in", "employee_id", s.employeeID, "error", err)
	}

	s.mu.Lock()
	s.state = attendance.StateCheckedIn
	if current != nil {
		s.current = current
	}
	s.mu.Unlock()

	snapshot := s.buildSnapshot(ctx, current)
	s.publishState(snapshot)
	return snapshot, nil
}

// CheckOut implements attendance.Orchestrator.
func (s *service) CheckOut(ctx context.Context) (attendance.SnapshotResponse, error) {
	open, err := s.beginCheckOut()
	if err != nil {
		return attendance.SnapshotResponse{}, err
	}

	now := s.now()

	if _, err := s.api.CheckOut(ctx); err != nil {
		s.setState(attendance.StateCheckedIn)
		s.record(ctx, open.ShiftID, attendance.PunchCheckOut, punchResult(err), strPtr(err.Error()))
		return attendance.SnapshotResponse{}, err
	}

	if err := s.ledger.MarkCheckedOut(s.employeeID, attendance.Day(now), open.ShiftID); err != nil {
		slog.Error("Failed to write check-out marker", "employee_id", s.employeeID, "shift_id", open.ShiftID, "error", err)
	}
	s.record(ctx, open.ShiftID, attendance.PunchCheckOut, attendance.PunchSuccess, nil)

	// Wait for the server to report the session closed before recomputing
	// candidates, so a back-to-back shift is offered against settled state.
	current := s.awaitSessionClosed(ctx)

	s.mu.Lock()
	s.state = attendance.StateIdle
	s.current = current
	s.mu.Unlock()

	snapshot := s.buildSnapshot(ctx, current)
	s.publishState(snapshot)
	return snapshot, nil
}

// beginCheckIn moves idle -> checking_in; any other state is a guard
// rejection so a punch is never issued twice.
func (s *service) beginCheckIn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case attendance.StateIdle:
		s.state = attendance.StateCheckingIn
		return nil
	case attendance.StateCheckedIn:
		return attendance.ErrAlreadyCheckedIn
	default:
		return attendance.ErrPunchInProgress
	}
}

// beginCheckOut moves checked_in -> checking_out and returns the session
// being closed.
func (s *service) beginCheckOut() (attendance.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case attendance.StateCheckedIn:
		if s.current == nil {
			return attendance.Session{}, attendance.ErrNotCheckedIn
		}
		open := *s.current
		s.state = attendance.StateCheckingOut
		return open, nil
	case attendance.StateIdle:
		return attendance.Session{}, attendance.ErrNotCheckedIn
	default:
		return attendance.Session{}, attendance.ErrPunchInProgress
	}
}

func (s *service) setState(state attendance.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// reconcile aligns the local state machine with the server's session when
// no punch is in flight, e.g. after an agent restart with a session still
// open upstream.
func (s *service) reconcile(current *attendance.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case attendance.StateIdle:
		if current != nil {
			s.state = attendance.StateCheckedIn
			s.current = current
		}
	case attendance.StateCheckedIn:
		s.current = current
		if current == nil {
			s.state = attendance.StateIdle
		}
	}
}

// awaitSessionClosed polls the server until it no longer reports an open
// session, bounded by the configured attempts. On timeout the last read
// wins; the next snapshot reconciles.
func (s *service) awaitSessionClosed(ctx context.Context) *attendance.Session {
	var current *attendance.Session
	for attempt := 0; attempt < s.pollAttempts; attempt++ {
		cur, err := s.api.CurrentSession(ctx)
		if err == nil {
			current = cur
			if cur == nil {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return current
		case <-time.After(s.pollInterval):
		}
	}

	slog.Warn("Server still reports an open session after check-out", "employee_id", s.employeeID, "attempts", s.pollAttempts)
	return current
}

// buildSnapshot fetches today's shifts and reduces them to the kiosk view.
// A shift fetch failure degrades to an empty candidate list; punch state
// is still reported.
func (s *service) buildSnapshot(ctx context.Context, current *attendance.Session) attendance.SnapshotResponse {
	now := s.now()

	shifts, err := s.api.MyShifts(ctx, now)
	if err != nil {
		slog.Warn("Failed to fetch shifts, rendering empty candidate list", "employee_id", s.employeeID, "error", err)
		shifts = nil
	}

	set := s.eligibility.Reduce(s.employeeID, shifts, current, now)

	resp := attendance.SnapshotResponse{
		EmployeeID: s.employeeID,
		State:      string(s.State()),
		Candidates: make([]attendance.CandidateResponse, 0, len(set.Candidates)),
	}

	if current != nil {
		resp.Current = &attendance.SessionResponse{
			ShiftID:     current.ShiftID,
			ShiftTitle:  current.ShiftTitle,
			CheckInTime: current.CheckIn.Format(time.RFC3339),
		}
	}

	for _, c := range set.Candidates {
		resp.Candidates = append(resp.Candidates, toCandidateResponse(c))
	}
	if set.Default != nil {
		id := set.Default.ShiftID
		resp.DefaultShiftID = &id
	}

	return resp
}

func toCandidateResponse(c attendance.Candidate) attendance.CandidateResponse {
	return attendance.CandidateResponse{
		ShiftID:   c.ShiftID,
		Title:     c.Title,
		StartTime: c.Start.Format(time.RFC3339),
		EndTime:   c.End.Format(time.RFC3339),
		Window:    string(c.Window),
	}
}

func (s *service) publishState(snapshot attendance.SnapshotResponse) {
	s.hub.Publish(s.employeeID, sse.Event{
		EmployeeID: s.employeeID,
		Event:      sse.EventState,
		Data:       snapshot,
	})
}

// record journals a punch attempt. Journal failures are logged, not
// returned: the punch outcome already stands upstream.
func (s *service) record(ctx context.Context, shiftID int64, event attendance.PunchEventType, result attendance.PunchResult, message *string) {
	_, err := s.journal.Record(ctx, attendance.PunchEvent{
		EmployeeID: s.employeeID,
		ShiftID:    shiftID,
		Event:      event,
		Result:     result,
		Message:    message,
		Hostname:   s.hostname,
		OccurredAt: s.now(),
	})
	if err != nil {
		slog.Error("Failed to journal punch", "employee_id", s.employeeID, "shift_id", shiftID, "event", event, "error", err)
	}
}

func punchResult(err error) attendance.PunchResult {
	if upstream.IsRejection(err) {
		return attendance.PunchRejected
	}
	return attendance.PunchError
}

func strPtr(s string) *string {
	return &s
}
