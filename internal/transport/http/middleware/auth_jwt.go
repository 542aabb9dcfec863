package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-users-api/internal/apperr"
	"go-users-api/internal/core/auth"
	resp "go-users-api/internal/transport/http/response"
)

func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, apperr.Unauthorized("missing token", nil))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, apperr.Unauthorized("invalid token", nil))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, apperr.New(http.StatusForbidden, "forbidden", nil))
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UID)
		c.Next()
	}
}
