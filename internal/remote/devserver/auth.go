package devserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type authenticator struct {
	secret []byte
	parser *jwt.Parser
}

func newAuthenticator(secret string) *authenticator {
	a := &authenticator{}
	if secret != "" {
		a.secret = []byte(secret)
		a.parser = jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	} else {
		a.parser = jwt.NewParser()
	}
	return a
}

// userID resolves the caller from an Authorization header.
func (a *authenticator) userID(header string) (string, error) {
	tok, err := bearerToken(header)
	if err != nil {
		return "", err
	}

	if a.secret == nil {
		claims := jwt.MapClaims{}
		if _, _, err := a.parser.ParseUnverified(tok, claims); err != nil {
			return tok, nil // opaque token: the token is the identity
		}
		if sub, _ := claims["sub"].(string); sub != "" {
			return sub, nil
		}
		return tok, nil
	}

	parsed, err := a.parser.Parse(tok, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return "", errors.New("token expired")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing sub")
	}
	return sub, nil
}

// MintToken signs an HS256 token for sub, for use against a server started
// with the same secret.
func MintToken(secret, sub string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required")
	}
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
