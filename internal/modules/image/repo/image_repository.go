package repo

import (
	"context"
	"errors"

	"imager/internal/model"
)

// ErrAlbumGone 记录指定的相册不存在或已被删除
var ErrAlbumGone = errors.New("album no longer exists")

// ManipulationStore 图片处理记录的持久化接口
type ManipulationStore interface {
	Create(ctx context.Context, m *model.ImageManipulation) error
	FindByID(ctx context.Context, id uint) (*model.ImageManipulation, error)
	ListByUser(ctx context.Context, userID uint, offset int, limit int) ([]model.ImageManipulation, int64, error)
	ListByAlbum(ctx context.Context, albumID uint, offset int, limit int) ([]model.ImageManipulation, int64, error)
	Delete(ctx context.Context, m *model.ImageManipulation) error
	ExistsByDirectory(ctx context.Context, relDir string) (bool, error)
}
