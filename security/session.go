package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	pbsecurity "github.com/pocketbase/pocketbase/tools/security"
)

// SessionCookie carries the signed admin session token.
const SessionCookie = "ingresso_session"

var ErrInvalidSession = errors.New("invalid admin session")

// NewSessionToken mints a signed admin session token.
func NewSessionToken(user, secret string, ttl time.Duration) (string, error) {
	return pbsecurity.NewJWT(jwt.MapClaims{
		"name":  user,
		"admin": true,
	}, secret, ttl)
}

// ParseSessionToken validates a session token and returns the admin name.
func ParseSessionToken(token, secret string) (string, error) {
	claims, err := pbsecurity.ParseJWT(token, secret)
	if err != nil {
		return "", ErrInvalidSession
	}
	if admin, _ := claims["admin"].(bool); !admin {
		return "", ErrInvalidSession
	}

	name, _ := claims["name"].(string)
	return name, nil
}
