package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the announcement endpoint under g.
// writeMiddleware runs before POST and DELETE only.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, writeMiddleware ...gin.HandlerFunc) {
	group := g.Group("/news")

	// === Public Routes ===
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.OPTIONS("", h.Preflight)
	}

	// === Write Routes (identity token in body) ===
	{
		group.POST("", chain(writeMiddleware, h.Save)...)
		group.DELETE("", chain(writeMiddleware, h.Delete)...)
	}
}

func chain(middleware []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(middleware)+1)
	out = append(out, middleware...)
	return append(out, handler)
}
