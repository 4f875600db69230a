package remote

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Op names the service call that failed, phrased for error messages.
type Op string

const (
	OpList   Op = "fetch todos"
	OpCreate Op = "create todo"
	OpUpdate Op = "update todo"
	OpDelete Op = "delete todo"
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Op         Op
	StatusCode int
	// Status is the reason phrase, e.g. "Not Found".
	Status string
	// Message is the service's {"error": ...} text when present.
	Message string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("failed to %s: %s", e.Op, e.Status)
	if e.Message != "" {
		msg += " (" + e.Message + ")"
	}
	return msg
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether the service rejected the bearer token.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) &&
		(se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden)
}

// statusText extracts the reason phrase from a status line like "404 Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	if text == "" {
		text = strconv.Itoa(resp.StatusCode)
	}
	return text
}
