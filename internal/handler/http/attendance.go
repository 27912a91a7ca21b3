package http

import (
	"encoding/json"
	"net/http"

	"github.com/storecrew/timeclock/internal/domain/attendance"
	"github.com/storecrew/timeclock/internal/domain/session"
	"github.com/storecrew/timeclock/internal/handler/http/response"
)

// AttendanceHandler defines the attendance handler interface
type AttendanceHandler interface {
	Snapshot(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	sessionService session.Service
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(sessionService session.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		sessionService: sessionService,
	}
}

func (h *attendanceHandlerImpl) orchestrator(r *http.Request) (attendance.Orchestrator, error) {
	employeeID := getEmployeeIDFromContext(r)
	if employeeID == "" {
		return nil, session.ErrInvalidToken
	}
	return h.sessionService.Orchestrator(employeeID)
}

// Snapshot returns the punch state, candidate shifts and default selection
func (h *attendanceHandlerImpl) Snapshot(w http.ResponseWriter, r *http.Request) {
	orch, err := h.orchestrator(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := orch.Snapshot(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckIn opens an attendance session for the requested shift
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	orch, err := h.orchestrator(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := orch.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked in", result)
}

// CheckOut closes the open attendance session
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	orch, err := h.orchestrator(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := orch.CheckOut(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out", result)
}
