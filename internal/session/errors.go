package session

import "errors"

// Sentinel errors returned by the Controller.
// Use errors.Is to check: errors.Is(err, session.ErrGateClosed)
var (
	ErrSuppressed    = errors.New("session: review gate is disabled for today")
	ErrGateClosed    = errors.New("session: daily minimum not reached")
	ErrNoSession     = errors.New("session: no review session is open")
	ErrSessionActive = errors.New("session: a review session is already open")
	ErrNotPresenting = errors.New("session: no item is waiting for an answer")
)
