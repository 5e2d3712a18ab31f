package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public news pages.
func RegisterRoutes(r gin.IRouter, h *Handler, middleware ...gin.HandlerFunc) {
	group := r.Group("/news", middleware...)
	{
		group.GET("", h.Page)
		group.GET("/latest", h.Latest)
		group.GET("/sidebar", h.Sidebar)
		group.GET("/fragment", h.Fragment)
	}
}
