package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrOpaqueToken is returned by ParseClaims for tokens that are not JWTs.
var ErrOpaqueToken = errors.New("token is not a JWT")

var now = time.Now

// Claims is the subset of identity token claims the client displays.
type Claims struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email,omitempty"`
	Username  string    `json:"username,omitempty"`
	ExpiresAt time.Time `json:"exp,omitzero"`
}

// Display returns the friendliest identifier available.
func (c Claims) Display() string {
	switch {
	case c.Email != "":
		return c.Email
	case c.Username != "":
		return c.Username
	default:
		return c.Subject
	}
}

// Expired reports whether the token carried an expiry that has passed.
func (c Claims) Expired(at time.Time) bool {
	return !c.ExpiresAt.IsZero() && !at.Before(c.ExpiresAt)
}

// TTL returns the time until expiry, or zero when the token never expires.
func (c Claims) TTL(at time.Time) time.Duration {
	if c.ExpiresAt.IsZero() {
		return 0
	}
	return c.ExpiresAt.Sub(at)
}

// ParseClaims decodes the payload of a JWT without verifying its signature.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	var c Claims
	c.Subject, _ = mc["sub"].(string)
	c.Email, _ = mc["email"].(string)
	if c.Username, _ = mc["cognito:username"].(string); c.Username == "" {
		c.Username, _ = mc["username"].(string)
	}

	switch exp := mc["exp"].(type) {
	case float64:
		c.ExpiresAt = time.Unix(int64(exp), 0)
	case int64:
		c.ExpiresAt = time.Unix(exp, 0)
	}

	return c, nil
}
