package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
)

var (
	// ErrUnauthorized is returned for 401 responses.
	ErrUnauthorized = errors.New("backend rejected credentials")
	// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// APIError is any non-2xx response other than 401, 403 included.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message())
}

// Message extracts a human-readable message from the response body.
func (e *APIError) Message() string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return "no response body"
}

// IsForbidden reports whether err is a 403 from the backend.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden
}

// IsUnauthorized reports whether err means the session token is no longer accepted.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
