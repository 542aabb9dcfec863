package handler

import (
	"github.com/gin-gonic/gin"

	"go-users-api/internal/apperr"
	"go-users-api/internal/core/auth"
	"go-users-api/internal/feature/users"
	"go-users-api/internal/search"
	mdw "go-users-api/internal/transport/http/middleware"
	resp "go-users-api/internal/transport/http/response"
)

type UserHandler struct {
	svc   *users.Service
	jwter *auth.JWTer
}

func NewUserHandler(svc *users.Service, jwter *auth.JWTer) *UserHandler {
	return &UserHandler{svc: svc, jwter: jwter}
}

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	ug := g.Group("/users")
	ug.POST("", h.create)
	ug.GET("", h.list)
	ug.GET("/:id", h.get)

	// 写操作要求已登录
	mut := ug.Group("")
	mut.Use(mdw.AuthJWT(h.jwter, ""))
	mut.PATCH("/:id", h.patch)
	mut.DELETE("/:id", h.remove)
}

func (h *UserHandler) create(c *gin.Context) {
	var dto users.CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		resp.Err(c, apperr.BadRequest(err.Error(), nil))
		return
	}
	u, err := h.svc.Create(c.Request.Context(), dto)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.Created(c, u)
}

// list 查询串原样进入搜索参数翻译层，不在这一层做白名单
func (h *UserHandler) list(c *gin.Context) {
	res, err := h.svc.FindAll(c.Request.Context(), queryParams(c))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, res)
}

func (h *UserHandler) get(c *gin.Context) {
	obj, err := h.svc.FindOneByID(c.Request.Context(), c.Param("id"), queryParams(c))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, obj)
}

func (h *UserHandler) patch(c *gin.Context) {
	var dto users.PatchUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		resp.Err(c, apperr.BadRequest(err.Error(), nil))
		return
	}
	u, err := h.svc.Patch(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, u)
}

func (h *UserHandler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		resp.Err(c, err)
		return
	}
	resp.NoContent(c)
}

// queryParams url.Values -> 搜索参数：单值取字符串，重复 key 保留为切片
func queryParams(c *gin.Context) search.Params {
	params := search.Params{}
	for k, vs := range c.Request.URL.Query() {
		if len(vs) == 1 {
			params[k] = vs[0]
		} else {
			params[k] = vs
		}
	}
	return params
}
