package discord

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError carries the status code and error payload of a non-2xx Discord
// response. No retry is attempted at this layer; callers decide.
type APIError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord: %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// IsNotFound reports whether err is a Discord 404.
func IsNotFound(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsServerError reports whether err is a Discord 5xx, the transient class a
// caller may choose to retry.
func IsServerError(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status >= http.StatusInternalServerError
}
