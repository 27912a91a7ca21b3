package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/storecrew/timeclock/internal/domain/attendance"
	"github.com/storecrew/timeclock/internal/handler/http/response"
)

// JournalHandler defines the supervisor-facing journal handler interface
type JournalHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	PruneLedger(w http.ResponseWriter, r *http.Request)
}

type journalHandlerImpl struct {
	journal       attendance.PunchJournal
	ledger        attendance.Ledger
	retentionDays int
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journal attendance.PunchJournal, ledger attendance.Ledger, retentionDays int) JournalHandler {
	return &journalHandlerImpl{
		journal:       journal,
		ledger:        ledger,
		retentionDays: retentionDays,
	}
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getStringQueryParam gets an optional string query parameter
func getStringQueryParam(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

// List returns filtered, paginated punch events
func (h *journalHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.PunchFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		Event:      getStringQueryParam(r, "event"),
		Result:     getStringQueryParam(r, "result"),
		StartDate:  getStringQueryParam(r, "start_date"),
		EndDate:    getStringQueryParam(r, "end_date"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	events, total, err := h.journal.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]attendance.PunchEventResponse, 0, len(events))
	for _, ev := range events {
		result = append(result, attendance.PunchEventResponse{
			ID:         ev.ID,
			EmployeeID: ev.EmployeeID,
			ShiftID:    ev.ShiftID,
			Event:      string(ev.Event),
			Result:     string(ev.Result),
			Message:    ev.Message,
			Hostname:   ev.Hostname,
			OccurredAt: ev.OccurredAt.Format(time.RFC3339),
		})
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// PruneLedger drops attendance markers older than the retention window
func (h *journalHandlerImpl) PruneLedger(w http.ResponseWriter, r *http.Request) {
	cutoff := time.Now().AddDate(0, 0, -h.retentionDays)

	removed, err := h.ledger.Prune(cutoff)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ledger pruned", map[string]interface{}{
		"removed": removed,
		"cutoff":  cutoff.Format("2006-01-02"),
	})
}
