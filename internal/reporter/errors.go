package reporter

import (
	"errors"
	"fmt"
)

// ErrTimeout reports that the upstream did not answer within the client timeout.
var ErrTimeout = errors.New("nih reporter api: request timed out")

// StatusError reports a non-2xx upstream response, carrying the status and body.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nih reporter api: request failed with status %d: %s", e.StatusCode, e.Body)
}

// FormatError reports an upstream response body that was not valid JSON.
type FormatError struct {
	Detail string
}

func (e *FormatError) Error() string {
	return "nih reporter api: " + e.Detail
}
