package genai

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the generation service, classified so
// callers can suggest the right recovery: reconnect credentials, retry, or
// fix the input.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generation API %d: %s", e.Status, e.Message)
}

// AuthProblem reports whether the failure is a credential or permission
// issue rather than a transient one.
func (e *APIError) AuthProblem() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Transient reports whether retrying the same request may succeed.
func (e *APIError) Transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Advice renders a user-facing hint for an error from the remote service.
func Advice(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.AuthProblem():
			return "permission denied: check or reconnect the API credential"
		case apiErr.Transient():
			return "the service is busy: try again shortly"
		}
	}
	return "request failed: check the input and try again"
}
