package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/storecrew/timeclock/internal/domain/attendance"
	"github.com/storecrew/timeclock/internal/pkg/database"
)

type punchJournal struct {
	db *database.DB
}

func NewPunchJournal(db *database.DB) attendance.PunchJournal {
	return &punchJournal{db: db}
}

func (j *punchJournal) querier() database.Querier {
	return j.db.Pool
}

// Record implements attendance.PunchJournal.
func (j *punchJournal) Record(ctx context.Context, event attendance.PunchEvent) (attendance.PunchEvent, error) {
	if event.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.PunchEvent{}, fmt.Errorf("failed to generate punch event id: %w", err)
		}
		event.ID = id.String()
	}

	query := `
		INSERT INTO punch_events (
			id, employee_id, shift_id, event, result, message, hostname, occurred_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING occurred_at
	`

	err := j.querier().QueryRow(ctx, query,
		event.ID,
		event.EmployeeID,
		event.ShiftID,
		event.Event,
		event.Result,
		event.Message,
		event.Hostname,
		event.OccurredAt,
	).Scan(&event.OccurredAt)

	if err != nil {
		return attendance.PunchEvent{}, fmt.Errorf("failed to record punch event: %w", err)
	}

	return event, nil
}

// List implements attendance.PunchJournal.
func (j *punchJournal) List(ctx context.Context, filter attendance.PunchFilter) ([]attendance.PunchEvent, int64, error) {
	q := j.querier()

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Event != nil && *filter.Event != "" {
		baseWhere += fmt.Sprintf(" AND event = $%d", argIdx)
		args = append(args, *filter.Event)
		argIdx++
	}

	if filter.Result != nil && *filter.Result != "" {
		baseWhere += fmt.Sprintf(" AND result = $%d", argIdx)
		args = append(args, *filter.Result)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND occurred_at >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND occurred_at < ($%d::date + INTERVAL '1 day')", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM punch_events WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count punch events: %w", err)
	}

	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT id, employee_id, shift_id, event, result, message, hostname, occurred_at
		FROM punch_events
		WHERE %s
		ORDER BY occurred_at %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, sortOrder, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list punch events: %w", err)
	}
	defer rows.Close()

	var events []attendance.PunchEvent
	for rows.Next() {
		var ev attendance.PunchEvent
		if err := rows.Scan(
			&ev.ID, &ev.EmployeeID, &ev.ShiftID, &ev.Event, &ev.Result,
			&ev.Message, &ev.Hostname, &ev.OccurredAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan punch event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate punch events: %w", err)
	}

	return events, total, nil
}
