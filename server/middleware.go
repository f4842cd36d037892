package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// requireAdmin gates every mutating route: the caller's session token must
// verify, and the verified email must satisfy the admin policy. The
// rejection is distinguishable from other failures so the frontend can show
// a specific message.
func (s *Server) requireAdmin(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		unauthorized(c)
		return
	}

	token := strings.TrimPrefix(header, "Bearer ")
	email, err := s.auth.VerifyToken(token)
	if err != nil {
		unauthorized(c)
		return
	}

	if !s.auth.IsAdmin(email) {
		unauthorized(c)
		return
	}

	c.Next()
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   "Unauthorized",
	})
}
