package router

import (
	"imager/internal/middleware"
	"imager/internal/modules/image/handler"
	"imager/internal/platform/service"

	"github.com/gin-gonic/gin"
)

func registerImageRoutes(api *gin.RouterGroup, h *handler.Handler, appService *service.AppService) {
	images := api.Group("/images")

	// 缩放接口：上传体积限制 + 限流
	uploadBodyLimit := middleware.UploadBodyLimitMiddleware()
	resizeLimiter := middleware.RateLimitMiddleware(appService, "resize")

	images.GET("", h.ListImages)
	images.GET("/by-album/:albumId", h.ListAlbumImages)
	images.GET("/:id", h.GetImage)
	images.POST("/resize", uploadBodyLimit, resizeLimiter, h.Resize)
	images.DELETE("/:id", h.DeleteImage)
}
