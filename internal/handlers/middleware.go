package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// bearerToken extracts the token from the Authorization header. ok=false
// when the header is missing or not a Bearer scheme.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// authMiddleware guards protected routes with a valid bearer token.
func (h *Handler) authMiddleware(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing or malformed Authorization header",
		})
		return
	}

	if !h.services.Authorization.ValidateToken(token) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Next()
}
