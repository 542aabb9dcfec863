package handler

import (
	"github.com/gin-gonic/gin"

	"go-users-api/internal/apperr"
	"go-users-api/internal/core/auth"
	"go-users-api/internal/feature/users"
	resp "go-users-api/internal/transport/http/response"
)

type AuthHandler struct {
	svc   *users.Service
	jwter *auth.JWTer
}

func NewAuthHandler(svc *users.Service, jwter *auth.JWTer) *AuthHandler {
	return &AuthHandler{svc: svc, jwter: jwter}
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	g.POST("/auth/login", h.login)
}

// login 凭据校验通过后签发访问令牌
func (h *AuthHandler) login(c *gin.Context) {
	var dto users.LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		resp.Err(c, apperr.BadRequest(err.Error(), nil))
		return
	}

	u, err := h.svc.VerifyCredentials(c.Request.Context(), dto)
	if err != nil {
		resp.Err(c, err)
		return
	}

	tok, err := h.jwter.Issue(u.ID, "user")
	if err != nil {
		resp.Err(c, apperr.Internal("issue token failed", nil))
		return
	}
	resp.OK(c, gin.H{"accessToken": tok, "user": u})
}
