package shift

import "time"

// CheckInLeeway is how early before the scheduled start a check-in is
// accepted.
const CheckInLeeway = 10 * time.Minute

// Window classifies a shift relative to the current instant.
type Window string

const (
	WindowNotYetOpen Window = "not_yet_open"
	WindowOpen       Window = "open"
	WindowMissed     Window = "missed"
)

// ClassifyWindow places now against the shift's check-in window
// [start-CheckInLeeway, end]. Both bounds are inclusive: a punch at the
// exact opening instant or the exact end is still accepted.
func ClassifyWindow(start, end, now time.Time) Window {
	opensAt := start.Add(-CheckInLeeway)

	switch {
	case now.Before(opensAt):
		return WindowNotYetOpen
	case now.After(end):
		return WindowMissed
	default:
		return WindowOpen
	}
}

// WindowOf classifies the assignment's check-in window at now.
func (a Assignment) WindowOf(now time.Time) Window {
	return ClassifyWindow(a.Start, a.End, now)
}
