package router

import "github.com/gin-gonic/gin"

// APIModule / AdminModule 模块实现其中一个或两个接口，
// 由 engine 构造时显式传入，按传入顺序挂载
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

func mountAPI(g *gin.RouterGroup, mods []APIModule) {
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func mountAdmin(g *gin.RouterGroup, mods []AdminModule) {
	for _, m := range mods {
		m.MountAdmin(g)
	}
}
