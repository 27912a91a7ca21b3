package session

import "errors"

// Session domain errors
var (
	ErrInvalidCredentials = errors.New("invalid employee code or pin")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSessionNotFound    = errors.New("no active kiosk session, please log in again")
)
