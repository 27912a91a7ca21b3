package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/storecrew/timeclock/internal/domain/attendance"
	"github.com/storecrew/timeclock/internal/domain/shift"
)

// API is the slice of the scheduling service the kiosk consumes. The
// backend owns all business rules (capacity, finalize-locking, who may
// punch); the agent only forwards requests and reads state back.
type API interface {
	// CurrentSession returns the user's single open attendance session,
	// or nil when none is open.
	CurrentSession(ctx context.Context) (*attendance.Session, error)

	// CheckIn opens a session for the shift. The server rejects with 4xx
	// when another session is open or the shift is not eligible.
	CheckIn(ctx context.Context, shiftID int64) (TimeLog, error)

	// CheckOut closes the open session. 4xx when none is open.
	CheckOut(ctx context.Context) (TimeLog, error)

	// MyShifts returns the user's shift assignments starting on the
	// given local date.
	MyShifts(ctx context.Context, startDate time.Time) ([]shift.Assignment, error)
}

// APIError is a rejection or failure reported by the scheduling API. The
// server-provided message is surfaced to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scheduling API error [%d]: %s", e.StatusCode, e.Message)
}

// IsRejection reports whether err is a 4xx rejection, as opposed to a
// transport failure or a server fault.
func IsRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}

// TimeLog is the server's record of a punch.
type TimeLog struct {
	ID       int64      `json:"id"`
	ShiftID  int64      `json:"shiftId"`
	CheckIn  time.Time  `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient wraps an HTTP client that already carries the user's bearer
// token (an oauth2 token source from Authenticator.Login).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type currentSessionPayload struct {
	ShiftID    int64     `json:"shiftId"`
	ShiftTitle string    `json:"shiftTitle"`
	CheckIn    time.Time `json:"checkIn"`
}

type assignmentPayload struct {
	EmployeeID string `json:"employeeId"`
	Status     string `json:"status"`
}

type shiftPayload struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	StartTime   time.Time           `json:"startTime"`
	EndTime     time.Time           `json:"endTime"`
	Assignments []assignmentPayload `json:"assignments"`
}

// CurrentSession implements API.
func (c *Client) CurrentSession(ctx context.Context) (*attendance.Session, error) {
	var payload *currentSessionPayload
	if err := c.do(ctx, http.MethodGet, "/api/time/current", nil, &payload); err != nil {
		return nil, err
	}

	// The server answers a JSON null when no session is open.
	if payload == nil {
		return nil, nil
	}

	return &attendance.Session{
		ShiftID:    payload.ShiftID,
		ShiftTitle: payload.ShiftTitle,
		CheckIn:    payload.CheckIn,
	}, nil
}

// CheckIn implements API.
func (c *Client) CheckIn(ctx context.Context, shiftID int64) (TimeLog, error) {
	body := map[string]int64{"shiftId": shiftID}

	var log TimeLog
	if err := c.do(ctx, http.MethodPost, "/api/time/checkin", body, &log); err != nil {
		return TimeLog{}, err
	}
	return log, nil
}

// CheckOut implements API.
func (c *Client) CheckOut(ctx context.Context) (TimeLog, error) {
	var log TimeLog
	if err := c.do(ctx, http.MethodPost, "/api/time/checkout", nil, &log); err != nil {
		return TimeLog{}, err
	}
	return log, nil
}

// MyShifts implements API. The server embeds only the caller's own
// assignment in each returned shift.
func (c *Client) MyShifts(ctx context.Context, startDate time.Time) ([]shift.Assignment, error) {
	path := "/api/my-shifts?startDate=" + url.QueryEscape(startDate.Format("2006-01-02"))

	var payload []shiftPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	assignments := make([]shift.Assignment, 0, len(payload))
	for _, s := range payload {
		for _, a := range s.Assignments {
			assignments = append(assignments, shift.Assignment{
				ShiftID:    s.ID,
				EmployeeID: a.EmployeeID,
				Title:      s.Title,
				Status:     shift.AssignmentStatus(a.Status),
				Start:      s.StartTime,
				End:        s.EndTime,
			})
		}
	}
	return assignments, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", attendance.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeErrorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "request rejected by scheduling service"
}
