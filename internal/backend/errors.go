package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse marks a payload that failed the edge validation.
var ErrMalformedResponse = errors.New("malformed backend response")

// APIError is a non-2xx answer from the career backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
