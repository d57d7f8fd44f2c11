package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pushlogin/internal/model"
)

const credentialKey = "pushlogin.credential"

// Authorizer decides access to protected capabilities.
type Authorizer interface {
	Authorize(ctx context.Context) (model.Credential, model.Decision)
}

// Gate aborts requests that are not admitted. A missing credential is 401
// with a login redirect; an unverified user is 403 with a verification redirect.
func Gate(authorizer Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, d := authorizer.Authorize(c.Request.Context())
		if !d.Admitted {
			code := http.StatusForbidden
			if d.Route == model.RouteLogin {
				code = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(code, gin.H{"redirect": d.Route})
			return
		}

		c.Set(credentialKey, cred)
		c.Next()
	}
}

// CredentialFromContext returns the credential set by Gate.
func CredentialFromContext(c *gin.Context) (model.Credential, bool) {
	v, ok := c.Get(credentialKey)
	if !ok {
		return model.Credential{}, false
	}
	cred, ok := v.(model.Credential)
	return cred, ok
}
