package bookapi

import "fmt"

// StatusError is returned when the book service answers with a non-2xx
// status. It carries the HTTP status code and up to a few hundred bytes of
// the response body for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("book service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("book service returned status %d: %s", e.StatusCode, e.Body)
}
