package service

import (
	"context"

	"imager/internal/model"
	"imager/internal/modules/image/repo"
	"imager/internal/modules/image/resize"
	"imager/internal/modules/image/source"
	platformservice "imager/internal/platform/service"
)

// AlbumService 相册归属校验，由 album 模块实现
type AlbumService interface {
	GetOwnedAlbum(ctx context.Context, albumID uint, userID uint) (*model.Album, error)
}

type Service struct {
	*platformservice.AppService
	albums   AlbumService
	store    repo.ManipulationStore
	acquirer *source.Acquirer
	executor *resize.Executor
}

func New(
	appService *platformservice.AppService,
	albums AlbumService,
	store repo.ManipulationStore,
	acquirer *source.Acquirer,
	executor *resize.Executor,
) *Service {
	return &Service{
		AppService: appService,
		albums:     albums,
		store:      store,
		acquirer:   acquirer,
		executor:   executor,
	}
}
