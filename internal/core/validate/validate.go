// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"net/url"
	"strings"
)

// Required validates a value is non-empty after trimming whitespace.
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// TaskID validates an identifier used to address a task on the service.
// IDs are opaque, so only emptiness and path separators are rejected.
func TaskID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("task id is required")
	}
	if strings.ContainsAny(id, "/?#") {
		return fmt.Errorf("task id %q contains invalid characters", id)
	}
	return nil
}

// Endpoint validates an absolute http(s) URL.
func Endpoint(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
