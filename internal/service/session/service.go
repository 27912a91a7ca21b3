package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/storecrew/timeclock/internal/config"
	"github.com/storecrew/timeclock/internal/domain/attendance"
	"github.com/storecrew/timeclock/internal/domain/session"
	attendanceservice "github.com/storecrew/timeclock/internal/service/attendance"

	"github.com/storecrew/timeclock/internal/pkg/jwt"
	"github.com/storecrew/timeclock/internal/pkg/sse"
	"github.com/storecrew/timeclock/internal/upstream"
)

type userSession struct {
	orchestrator attendance.Orchestrator
	employeeName string
	lastSeen     time.Time
}

// registry keeps the kiosk's active users in memory. Each login gets its
// own orchestrator bound to an upstream client carrying that user's
// token; nothing about a session survives an agent restart except the
// ledger markers.
type registry struct {
	auth       *upstream.Authenticator
	jwtService jwt.Service

	baseURL  string
	hostname string

	ledger      attendance.Ledger
	journal     attendance.PunchJournal
	eligibility attendance.Eligibility
	hub         *sse.Hub
	kiosk       config.KioskConfig

	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*userSession
}

func NewSessionService(
	auth *upstream.Authenticator,
	jwtService jwt.Service,
	upstreamCfg config.UpstreamConfig,
	kioskCfg config.KioskConfig,
	hostname string,
	ledger attendance.Ledger,
	journal attendance.PunchJournal,
	eligibility attendance.Eligibility,
	hub *sse.Hub,
) session.Service {
	return &registry{
		auth:        auth,
		jwtService:  jwtService,
		baseURL:     upstreamCfg.BaseURL,
		hostname:    hostname,
		ledger:      ledger,
		journal:     journal,
		eligibility: eligibility,
		hub:         hub,
		kiosk:       kioskCfg,
		now:         time.Now,
		sessions:    make(map[string]*userSession),
	}
}

// Login implements session.Service.
func (r *registry) Login(ctx context.Context, req session.LoginRequest) (session.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return session.TokenResponse{}, err
	}

	identity, httpClient, err := r.auth.Login(ctx, req.EmployeeCode, req.PIN)
	if err != nil {
		return session.TokenResponse{}, err
	}

	api := upstream.NewClient(r.baseURL, httpClient)
	orchestrator := attendanceservice.NewOrchestrator(
		identity.EmployeeID,
		r.hostname,
		api,
		r.ledger,
		r.journal,
		r.eligibility,
		r.hub,
		r.kiosk,
	)

	r.mu.Lock()
	r.sessions[identity.EmployeeID] = &userSession{
		orchestrator: orchestrator,
		employeeName: identity.EmployeeName,
		lastSeen:     r.now(),
	}
	r.mu.Unlock()

	token, expiresAt, err := r.jwtService.GenerateAccessToken(identity.EmployeeID, identity.EmployeeName)
	if err != nil {
		return session.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("Kiosk session opened", "employee_id", identity.EmployeeID)

	return session.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		EmployeeID:           identity.EmployeeID,
		EmployeeName:         identity.EmployeeName,
	}, nil
}

// Orchestrator implements session.Service. Looking a session up counts as
// activity for the idle sweep.
func (r *registry) Orchestrator(employeeID string) (attendance.Orchestrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	us, ok := r.sessions[employeeID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	us.lastSeen = r.now()
	return us.orchestrator, nil
}

// Logout implements session.Service.
func (r *registry) Logout(employeeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[employeeID]; ok {
		delete(r.sessions, employeeID)
		slog.Info("Kiosk session closed", "employee_id", employeeID)
	}
}

// SweepIdle implements session.Service.
func (r *registry) SweepIdle() int {
	cutoff := r.now().Add(-r.kiosk.SessionIdleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, us := range r.sessions {
		if us.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
