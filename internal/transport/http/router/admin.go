package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-users-api/internal/core/auth"
	"go-users-api/internal/core/server"
	mdw "go-users-api/internal/transport/http/middleware"
)

// NewAdminEngine 管理端引擎：/admin/v1 统一要求 admin 角色
func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer, mods ...AdminModule) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(50, 100),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(30*time.Second),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, "admin"))
	mountAdmin(admin, mods)

	return r
}
