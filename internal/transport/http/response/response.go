package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-users-api/internal/apperr"
)

// OK 成功响应：原样输出 payload，不套 envelope
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Err 错误响应：HTTP 状态码与异常 code 保持一致，
// body 固定为 {code, className, message, data[, errors]}
func Err(c *gin.Context, err error) {
	e := apperr.From(err)
	c.JSON(e.Code, e)
}

// Abort 中间件里用：写响应并截断后续 handler
func Abort(c *gin.Context, err error) {
	e := apperr.From(err)
	c.AbortWithStatusJSON(e.Code, e)
}
