package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims the agent reads from an issued bearer token.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id,omitempty"`
}

// Inspector reads claims from bearer tokens issued by the identity service.
// Tokens are opaque to the agent; signatures are verified by the service
// that accepts them, so claims are only used as hints.
type Inspector struct {
	parser *jwt.Parser
}

// NewInspector creates a new token Inspector.
func NewInspector() *Inspector {
	return &Inspector{parser: jwt.NewParser()}
}

// ExpiresAt returns the exp claim of tokenString when it is a JWT that carries one.
func (i *Inspector) ExpiresAt(tokenString string) (time.Time, bool) {
	claims := &Claims{}
	if _, _, err := i.parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
