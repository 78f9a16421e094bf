package service

import (
	"imager/internal/modules/album/repo"
	platformservice "imager/internal/platform/service"
)

// DirRemover 删除 images/<token> 工作目录，由 source.Acquirer 实现
type DirRemover interface {
	RemoveDir(relDir string) error
}

type Service struct {
	*platformservice.AppService
	albumStore repo.AlbumStore
	dirs       DirRemover
}

func New(appService *platformservice.AppService, albumStore repo.AlbumStore, dirs DirRemover) *Service {
	return &Service{
		AppService: appService,
		albumStore: albumStore,
		dirs:       dirs,
	}
}
