package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vaccine-accounts/internal/application"
	"github.com/oksasatya/vaccine-accounts/pkg/helpers"
	"github.com/oksasatya/vaccine-accounts/pkg/response"
)

const (
	CtxIdentityKey = "identity"
	CtxUserIDKey   = "userID"
)

// IdentityResolver maps a verified token subject to a live account.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, email string) (application.Identity, error)
}

// Auth verifies the auth token from the AUTHORIZATION header (or the
// auth_token route param) and injects the caller's Identity.
func Auth(tokens *helpers.TokenManager, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			abort(c, http.StatusBadRequest, "Auth token required")
			return
		}
		claims, err := tokens.Verify(token)
		switch {
		case errors.Is(err, helpers.ErrTokenExpired):
			abort(c, http.StatusBadRequest, "Signature expired, login again")
			return
		case err != nil:
			abort(c, http.StatusForbidden, "The user is not authorized")
			return
		}

		who, err := resolver.ResolveIdentity(c.Request.Context(), claims.Subject)
		switch {
		case errors.Is(err, application.ErrUnauthorized):
			abort(c, http.StatusForbidden, "Authentication failed")
			return
		case err != nil:
			_ = c.Error(err)
			abort(c, http.StatusInternalServerError, "internal server error")
			return
		}

		c.Set(CtxIdentityKey, who)
		c.Set(CtxUserIDKey, strconv.FormatInt(who.ID, 10))
		c.Next()
	}
}

// IdentityFrom returns the Identity set by Auth.
func IdentityFrom(c *gin.Context) (application.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return application.Identity{}, false
	}
	who, ok := v.(application.Identity)
	return who, ok
}

func tokenFrom(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("AUTHORIZATION")); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return h
	}
	return c.Param("auth_token")
}

func abort(c *gin.Context, status int, message string) {
	response.Abort(c, response.Error[any](c, status, message, gin.H{"message": message}))
}
