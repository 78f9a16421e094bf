package router

import (
	"net/http"

	"imager/internal/middleware"
	"imager/internal/modules"
	"imager/internal/platform/service"

	"github.com/gin-gonic/gin"
)

type Router struct {
	modules *modules.AppModules
	service *service.AppService
}

func NewRouter(appModules *modules.AppModules, appService *service.AppService) *Router {
	return &Router{
		modules: appModules,
		service: appService,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	log := *rt.service.Logger()

	// 注册全局中间件
	r.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.SecurityHeaders(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/v1")
	api.Use(middleware.JWTAuth())

	registerAlbumRoutes(api, rt.modules.Album.Handler)
	registerImageRoutes(api, rt.modules.Image.Handler, rt.service)
}
