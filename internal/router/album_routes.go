package router

import (
	"imager/internal/middleware"
	"imager/internal/modules/album/handler"

	"github.com/gin-gonic/gin"
)

func registerAlbumRoutes(api *gin.RouterGroup, h *handler.Handler) {
	albums := api.Group("/albums")
	albums.Use(middleware.BodyLimitMiddleware())

	albums.GET("", h.ListAlbums)
	albums.POST("", h.CreateAlbum)
	albums.GET("/:id", h.GetAlbum)
	albums.PUT("/:id", h.UpdateAlbum)
	albums.DELETE("/:id", h.DeleteAlbum)
}
