package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-users-api/internal/apperr"
	resp "go-users-api/internal/transport/http/response"
)

// Recovery panic -> 500 异常体，堆栈进日志不进响应
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.String("rid", c.GetString("rid")),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				resp.Abort(c, apperr.Internal("", nil))
			}
		}()
		c.Next()
	}
}
