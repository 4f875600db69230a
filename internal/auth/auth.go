// Package auth supplies bearer tokens for the remote task service. The client
// never verifies token signatures; it only attaches the token to requests.
package auth

import (
	"context"
	"errors"
	"os"
	"strings"
)

// ErrNoSession is returned when no token is available. Callers surface it as
// an authentication failure.
var ErrNoSession = errors.New("no authentication token available")

// TokenSource yields the bearer token attached to each service call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

// Token implements TokenSource.
func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticSource always returns the same token.
type StaticSource string

// Token implements TokenSource.
func (s StaticSource) Token(context.Context) (string, error) {
	return usable(string(s))
}

// EnvSource reads the token from an environment variable on every call.
type EnvSource string

// Token implements TokenSource.
func (e EnvSource) Token(context.Context) (string, error) {
	if e == "" {
		return "", ErrNoSession
	}
	return usable(os.Getenv(string(e)))
}

// Chain returns the first token any source yields. A source failing with
// ErrNoSession falls through to the next; any other error stops the chain.
type Chain []TokenSource

// Token implements TokenSource.
func (c Chain) Token(ctx context.Context) (string, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		tok, err := src.Token(ctx)
		if err == nil {
			return tok, nil
		}
		if !errors.Is(err, ErrNoSession) {
			return "", err
		}
	}
	return "", ErrNoSession
}

// usable trims tok and rejects empty or expired tokens.
func usable(tok string) (string, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", ErrNoSession
	}
	if claims, err := ParseClaims(tok); err == nil && claims.Expired(now()) {
		return "", ErrNoSession
	}
	return tok, nil
}
