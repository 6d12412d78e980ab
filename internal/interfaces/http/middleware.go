package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

const (
	ctxRequestID = "request_id"
	ctxPrincipal = "principal"
)

// authMiddleware resolves the Authorization bearer token to a principal and
// aborts unauthenticated requests.
func (s *Server) authMiddleware(handlers *Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing bearer token",
			})
			return
		}

		principal, err := s.services.Auth.Verify(token)
		if err != nil {
			s.logger.Error("Token verification failed", "error", err, "request_id", c.GetString(ctxRequestID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		c.Set(ctxPrincipal, principal)
		c.Next()
	}
}

// principalFrom reads the authenticated principal set by authMiddleware
func principalFrom(c *gin.Context) (entity.Principal, bool) {
	v, ok := c.Get(ctxPrincipal)
	if !ok {
		return entity.Principal{}, false
	}
	principal, ok := v.(entity.Principal)
	return principal, ok
}
