package repo

import (
	"context"

	"imager/internal/model"
)

type AlbumStore interface {
	Create(ctx context.Context, album *model.Album) error
	FindByID(ctx context.Context, id uint) (*model.Album, error)
	ListByUser(ctx context.Context, userID uint, offset int, limit int) ([]model.Album, int64, error)
	UpdateByID(ctx context.Context, albumID uint, updates map[string]interface{}) error
	// DeleteWithManipulations 在同一事务中删除相册及其处理记录，返回被删除的记录
	DeleteWithManipulations(ctx context.Context, album *model.Album) ([]model.ImageManipulation, error)
}
