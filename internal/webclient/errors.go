package webclient

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned for nil or unusable requests.
var ErrInvalidRequest = errors.New("invalid request")

// HTTPError reports an upstream response whose status is 400 or above.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP request failed: %s %s returned %s", e.Method, e.URL, e.Status)
}
