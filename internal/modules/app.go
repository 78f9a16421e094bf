package modules

import (
	"imager/internal/modules/album"
	albumrepo "imager/internal/modules/album/repo"
	"imager/internal/modules/image"
	imagerepo "imager/internal/modules/image/repo"
	"imager/internal/modules/image/resize"
	"imager/internal/modules/image/source"
	platformservice "imager/internal/platform/service"
)

type AppModules struct {
	Album *album.Module
	Image *image.Module
}

func New(
	appService *platformservice.AppService,
	albumStore albumrepo.AlbumStore,
	manipulationStore imagerepo.ManipulationStore,
	acquirer *source.Acquirer,
	executor *resize.Executor,
) *AppModules {
	albumModule := album.New(appService, albumStore, acquirer)
	imageModule := image.New(appService, albumModule.Service, manipulationStore, acquirer, executor)

	return &AppModules{
		Album: albumModule,
		Image: imageModule,
	}
}
