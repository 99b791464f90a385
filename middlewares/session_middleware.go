package middlewares

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"dataanalyzer-ai/backend/session"
	"dataanalyzer-ai/backend/utils"
)

const (
	SessionHeader = "X-Session-Token"
	SessionIDKey  = "session_id"
	// HasTokenKey is true when the caller presented a correctly signed token.
	HasTokenKey = "session_has_token"
	// TokenKey holds the re-issued token for token-bearing requests.
	TokenKey = "session_token"
)

// Session resolves the caller's session id from X-Session-Token or a bearer
// token. Requests without a token use the shared default session. A signed
// token is honoured even after its exp; the store TTL decides whether the
// session still exists. Token-bearing requests get a fresh token in the
// response header. Unsigned or malformed tokens are rejected with 400.
func Session(secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := c.GetHeader(SessionHeader)
		if t == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				t = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if t == "" {
			c.Set(SessionIDKey, session.DefaultID)
			c.Set(HasTokenKey, false)
			c.Next()
			return
		}
		claims, err := utils.ParseSessionToken(secret, strings.TrimSpace(t))
		if err != nil && !errors.Is(err, utils.ErrSessionExpired) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid session token"})
			return
		}
		c.Set(SessionIDKey, claims.SessionID)
		c.Set(HasTokenKey, true)
		if fresh, err := utils.GenerateSessionToken(secret, claims.SessionID, ttl); err != nil {
			log.Printf("[session] token refresh failed: %v", err)
		} else {
			c.Set(TokenKey, fresh)
			c.Header(SessionHeader, fresh)
		}
		c.Next()
	}
}

// SessionID returns the id set by Session, or the default session.
func SessionID(c *gin.Context) string {
	if id := c.GetString(SessionIDKey); id != "" {
		return id
	}
	return session.DefaultID
}

// CORS mirrors the permissive headers the frontend expects.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+SessionHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", SessionHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
