package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/storecrew/timeclock/internal/domain/session"
	"github.com/storecrew/timeclock/internal/handler/http/response"
	"github.com/storecrew/timeclock/internal/pkg/jwt"
)

// SessionHandler defines the kiosk session handler interface
type SessionHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	GetSSEToken(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	sessionService session.Service
	jwtService     jwt.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService session.Service, jwtService jwt.Service) SessionHandler {
	return &sessionHandlerImpl{
		sessionService: sessionService,
		jwtService:     jwtService,
	}
}

// getEmployeeIDFromContext extracts employee_id from JWT context
func getEmployeeIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if employeeID, ok := claims["employee_id"].(string); ok {
		return employeeID
	}
	return ""
}

// Login exchanges employee credentials with the scheduling service and
// opens a kiosk session
func (h *sessionHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.sessionService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Logout drops the kiosk session
func (h *sessionHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	employeeID := getEmployeeIDFromContext(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	h.sessionService.Logout(employeeID)

	response.SuccessWithMessage(w, "Logged out", nil)
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *sessionHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	employeeID := getEmployeeIDFromContext(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(employeeID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, session.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}
