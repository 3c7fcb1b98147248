package backend

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork           = errors.New("feedback backend unreachable")
	ErrMalformedResponse = errors.New("malformed feedback backend response")
	ErrNoFeedbackIDs     = errors.New("no feedback ids to delete")
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// outcome is the metrics label for the result of a backend call.
func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "network"
	}
}
