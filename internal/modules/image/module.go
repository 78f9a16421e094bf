package image

import (
	"imager/internal/modules/image/handler"
	"imager/internal/modules/image/repo"
	"imager/internal/modules/image/resize"
	"imager/internal/modules/image/service"
	"imager/internal/modules/image/source"
	platformservice "imager/internal/platform/service"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(
	appService *platformservice.AppService,
	albums service.AlbumService,
	store repo.ManipulationStore,
	acquirer *source.Acquirer,
	executor *resize.Executor,
) *Module {
	moduleService := service.New(appService, albums, store, acquirer, executor)
	moduleHandler := handler.New(moduleService)

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
