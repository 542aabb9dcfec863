package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"go-users-api/internal/apperr"
	resp "go-users-api/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护存储与索引下游）
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c, 1); err != nil {
			resp.Abort(c, apperr.Internal("server busy", nil))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
