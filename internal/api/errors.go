package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the service's failure taxonomy. Callers match with
// errors.Is; the wrapping *Error carries the HTTP status and server message.
var (
	// ErrUnauthenticated means the request lacked a live session; the stored
	// token has already been evicted by the time this is returned.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the session is live but not entitled, e.g. deleting
	// another user's comment.
	ErrForbidden = errors.New("forbidden")
	// ErrRateLimited means the service throttled a submission.
	ErrRateLimited = errors.New("rate limited")
	// ErrNotFound means the video or comment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTransient covers network failures and unexpected server errors.
	ErrTransient = errors.New("transient failure")
)

// Error is a failed service response.
type Error struct {
	Status  int
	Message string
	kind    error
}

// NewError builds the taxonomy error for an HTTP status.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message, kind: classifyStatus(status)}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

func (e *Error) Unwrap() error { return e.kind }

func classifyStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrTransient
	}
}
