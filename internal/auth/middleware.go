package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middlewares below.
const (
	CtxUserID     = "userID"
	CtxAdminID    = "adminID"
	CtxAdminEmail = "adminEmail"
)

const sessionCookie = "token"

// SetSessionCookie writes the session cookie the way the user auth
// middleware expects to read it back.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetCookie(sessionCookie, token, maxAge, "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// UserAuth enforces the session cookie and confirms the user still exists.
func UserAuth(t *Tokens, exists func(ctx context.Context, userID string) (bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token found"})
			return
		}
		claims, err := t.Parse(token, KindSession)
		if err != nil {
			ClearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		ok, err := exists(c.Request.Context(), claims.UserID)
		if err != nil || !ok {
			ClearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Next()
	}
}

// AdminAuth enforces bearer admin tokens and confirms the admin record still
// exists, so deleting an admin revokes outstanding tokens.
func AdminAuth(t *Tokens, lookup func(ctx context.Context, adminID string) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := t.Parse(tokenStr, KindAdmin)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		email, err := lookup(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(CtxAdminID, claims.UserID)
		c.Set(CtxAdminEmail, email)
		c.Next()
	}
}
