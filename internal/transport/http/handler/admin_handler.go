package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"go-users-api/internal/apperr"
	"go-users-api/internal/repo"
	mdw "go-users-api/internal/transport/http/middleware"
	resp "go-users-api/internal/transport/http/response"
)

// AdminHandler 索引运维入口：列索引、手动清空、全量重建。
// 日常读路径自己会重建索引，这里只服务排障和测试隔离。
type AdminHandler struct {
	repos []*repo.SearchRepo
}

func NewAdminHandler(repos ...*repo.SearchRepo) *AdminHandler {
	return &AdminHandler{repos: repos}
}

func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	ig := g.Group("/indexes")
	ig.GET("", h.list)
	ig.POST("/:name/clear", h.clear)
	ig.POST("/resync", h.resync)
}

func (h *AdminHandler) list(c *gin.Context) {
	out := make([]gin.H, 0, len(h.repos))
	for _, r := range h.repos {
		objects, err := r.Objects(c.Request.Context())
		if err != nil {
			resp.Err(c, err)
			return
		}
		out = append(out, gin.H{"index": r.IndexName(), "objects": len(objects)})
	}
	resp.OK(c, out)
}

func (h *AdminHandler) clear(c *gin.Context) {
	name := c.Param("name")
	for _, r := range h.repos {
		if r.IndexName() != name {
			continue
		}
		if err := r.ClearIndex(c.Request.Context()); err != nil {
			resp.Err(c, err)
			return
		}
		resp.OK(c, gin.H{"index": name, "cleared": true})
		return
	}
	resp.Err(c, apperr.New(http.StatusNotFound, "Index "+name+" does not exist", nil))
}

// resync 并发全量重建所有索引，任一失败整体报错
func (h *AdminHandler) resync(c *gin.Context) {
	var mu sync.Mutex
	counts := gin.H{}

	g, ctx := errgroup.WithContext(c.Request.Context())
	for _, r := range h.repos {
		g.Go(func() error {
			n, err := r.Resync(ctx)
			if err != nil {
				return err
			}
			mdw.ObserveResync(r.IndexName(), n)
			mu.Lock()
			counts[r.IndexName()] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, counts)
}
