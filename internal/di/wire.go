//go:build wireinject
// +build wireinject

package di

import (
	"imager/internal/config"
	"imager/internal/modules"
	albumrepo "imager/internal/modules/album/repo"
	imagerepo "imager/internal/modules/image/repo"
	"imager/internal/platform/service"
	"imager/internal/router"

	"github.com/google/wire"
)

func InitializeApplication(cfg config.Config) (*Application, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideDB,
		ProvideRedis,
		ProvideObjectFetcher,
		ProvideAcquirer,
		ProvideExecutor,
		service.NewAppService,
		albumrepo.NewAlbumRepository,
		imagerepo.NewManipulationRepository,
		modules.New,
		router.NewRouter,
		ProvideReaper,
		NewApplication,
	)
	return nil, nil, nil
}
