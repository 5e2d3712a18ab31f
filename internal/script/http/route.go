package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the script endpoint under g.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, middleware ...gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(middleware)+1)
	handlers = append(handlers, middleware...)
	g.POST("/script", append(handlers, h.Handle)...)
}
