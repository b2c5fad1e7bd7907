package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/forumkit/forum-search-service/pkg/jwt"
	"github.com/forumkit/forum-search-service/pkg/response"
)

const (
	UIDKey        = "uid"
	UsernameKey   = "username"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Identity returns a Gin middleware that resolves the caller's identity
// from a Bearer token. Requests without a token proceed as anonymous
// (uid 0); requests with an invalid or expired token are rejected.
func Identity(verifier *jwt.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			c.Set(UIDKey, int64(0))
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Unauthorized(c, "invalid authorization format")
			c.Abort()
			return
		}

		claims, err := verifier.Verify(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		c.Set(UIDKey, claims.UID)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

// UID extracts the caller's uid from the Gin context. Anonymous callers
// resolve to 0.
func UID(c *gin.Context) int64 {
	if uid, exists := c.Get(UIDKey); exists {
		return uid.(int64)
	}
	return 0
}

// Username extracts the caller's username from the Gin context.
func Username(c *gin.Context) string {
	if username, exists := c.Get(UsernameKey); exists {
		return username.(string)
	}
	return ""
}
