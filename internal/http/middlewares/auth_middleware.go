package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	VerifyToken(token string) (int64, error)
}

type UserResolver interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type AuthMiddleware struct {
	jwt   TokenVerifier
	users UserResolver
}

func NewAuthMiddleware(jwt TokenVerifier, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

// RequireAuth admits or rejects, nothing in between: a request either reaches
// the handler with a resolved identity attached, or it is short-circuited
// with an error response. Missing/expired token -> 401, tampered or
// structurally invalid token -> 403, anything unexpected -> 500.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortWith(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortWith(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid access token")
			return
		}

		userID, err := m.jwt.VerifyToken(raw)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				abortWith(c, http.StatusUnauthorized, "token_expired", "Access token has expired")
			case errors.Is(err, auth.ErrTokenInvalid):
				abortWith(c, http.StatusForbidden, "token_invalid", "Access token is invalid")
			default:
				abortWith(c, http.StatusInternalServerError, "internal_error", "Could not verify access token")
			}
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		u, err := m.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				// Token subject no longer exists; treat like a stale credential.
				abortWith(c, http.StatusUnauthorized, "unauthorized", "Unknown token subject")
				return
			}

			abortWith(c, http.StatusInternalServerError, "internal_error", "Could not resolve token subject")
			return
		}

		// Stash useful bits of identity on the context
		c.Set(ctxUserIDKey, u.ID)
		c.Set(ctxUsernameKey, u.Username)
		c.Set(ctxEmailKey, u.Email)

		c.Next()
	}
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func UsernameFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUsernameKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
