package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/buntdb"
)

const sessionTokenKey = "session:token"

// SessionStore persists the signed-in token between runs. Tokens that carry a
// JWT exp claim are stored with a matching TTL so they vanish once expired.
type SessionStore struct {
	db  *buntdb.DB
	log zerolog.Logger
}

// OpenSessionStore opens (or creates) the session database at path. Use
// ":memory:" for a throwaway store.
func OpenSessionStore(path string, log zerolog.Logger) (*SessionStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}

	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	return &SessionStore{db: db, log: log}, nil
}

// Save stores token as the current session and returns its claims. Opaque
// tokens are stored without expiry and yield zero claims.
func (s *SessionStore) Save(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, fmt.Errorf("token is empty")
	}

	claims, err := ParseClaims(token)
	if err != nil {
		s.log.Debug().Msg("storing opaque token without expiry")
		claims = Claims{}
	}

	if claims.Expired(now()) {
		return claims, fmt.Errorf("token expired at %s", claims.ExpiresAt.Format("2006-01-02 15:04:05"))
	}

	var opts *buntdb.SetOptions
	if ttl := claims.TTL(now()); ttl > 0 {
		opts = &buntdb.SetOptions{Expires: true, TTL: ttl}
	}

	err = s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(sessionTokenKey, token, opts)
		return err
	})
	if err != nil {
		return claims, fmt.Errorf("save session: %w", err)
	}

	s.log.Info().
		Str("sub", claims.Subject).
		Time("expires_at", claims.ExpiresAt).
		Msg("session saved")

	return claims, nil
}

// Token implements TokenSource.
func (s *SessionStore) Token(context.Context) (string, error) {
	var token string
	err := s.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(sessionTokenKey)
		if err != nil {
			return err
		}
		token = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}

	return usable(token)
}

// Clear removes the stored session. Clearing an empty store is not an error.
func (s *SessionStore) Clear() error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(sessionTokenKey)
		return err
	})
	if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
