package album

import (
	"imager/internal/modules/album/handler"
	"imager/internal/modules/album/repo"
	"imager/internal/modules/album/service"
	platformservice "imager/internal/platform/service"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(appService *platformservice.AppService, albumStore repo.AlbumStore, dirs service.DirRemover) *Module {
	moduleService := service.New(appService, albumStore, dirs)
	return &Module{
		Service: moduleService,
		Handler: handler.New(moduleService),
	}
}
