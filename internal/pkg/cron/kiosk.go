package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/storecrew/timeclock/internal/domain/attendance"
	"github.com/storecrew/timeclock/internal/domain/session"
	"github.com/storecrew/timeclock/internal/pkg/sse"
)

type KioskJobs struct {
	ledger        attendance.Ledger
	retentionDays int
	sessions      session.Service
	hub           *sse.Hub
}

func NewKioskJobs(
	ledger attendance.Ledger,
	retentionDays int,
	sessions session.Service,
	hub *sse.Hub,
) *KioskJobs {
	return &KioskJobs{
		ledger:        ledger,
		retentionDays: retentionDays,
		sessions:      sessions,
		hub:           hub,
	}
}

func (j *KioskJobs) RegisterJobs(scheduler *Scheduler) {
	// Prune at boot too: a kiosk that was powered off for a while has a
	// backlog of stale markers.
	scheduler.Register(Job{Name: "ledger_prune", Interval: 24 * time.Hour, RunOnStart: true, Fn: j.PruneLedger})
	scheduler.Register(Job{Name: "candidate_refresh", Interval: 1 * time.Minute, Fn: j.RefreshCandidates})
	scheduler.Register(Job{Name: "session_sweep", Interval: 5 * time.Minute, Fn: j.SweepSessions})
}

// PruneLedger drops attendance markers older than the retention window so
// the ledger file does not grow without bound on long-lived kiosks.
func (j *KioskJobs) PruneLedger(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)

	removed, err := j.ledger.Prune(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune attendance ledger: %w", err)
	}

	if removed > 0 {
		slog.Info("Cron: Pruned attendance markers", "count", removed, "cutoff", cutoff.Format("2006-01-02"))
	}
	return nil
}

// RefreshCandidates recomputes the kiosk view for every employee with an
// open event stream and pushes it, so window transitions (a shift opening
// or closing) become visible without user interaction.
func (j *KioskJobs) RefreshCandidates(ctx context.Context) error {
	for _, employeeID := range j.hub.ActiveEmployeeIDs() {
		orch, err := j.sessions.Orchestrator(employeeID)
		if err != nil {
			// Stream outlived the kiosk session; nothing to refresh.
			continue
		}

		snapshot, err := orch.Snapshot(ctx)
		if err != nil {
			slog.Error("Cron: Failed to refresh candidates", "employee_id", employeeID, "error", err)
			continue
		}

		j.hub.Publish(employeeID, sse.Event{
			EmployeeID: employeeID,
			Event:      sse.EventCandidates,
			Data:       snapshot,
		})
	}
	return nil
}

// SweepSessions evicts kiosk sessions idle beyond the configured timeout.
func (j *KioskJobs) SweepSessions(ctx context.Context) error {
	if removed := j.sessions.SweepIdle(); removed > 0 {
		slog.Info("Cron: Evicted idle kiosk sessions", "count", removed)
	}
	return nil
}
