package repo

import (
	"context"
	"errors"
	"strings"

	"imager/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ManipulationRepository struct {
	db *gorm.DB
}

// Create 写入记录。指定相册时在同一事务中锁定相册行，相册已被删除或不属于记录所有者时返回 ErrAlbumGone
func (r *ManipulationRepository) Create(ctx context.Context, m *model.ImageManipulation) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.AlbumID == nil {
		return r.db.WithContext(ctx).Create(m).Error
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var album model.Album
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND user_id = ?", *m.AlbumID, m.UserID).
			First(&album).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlbumGone
		}
		if err != nil {
			return err
		}
		return tx.Create(m).Error
	})
}

func (r *ManipulationRepository) FindByID(ctx context.Context, id uint) (*model.ImageManipulation, error) {
	var m model.ImageManipulation
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ManipulationRepository) list(ctx context.Context, column string, value uint, offset int, limit int) ([]model.ImageManipulation, int64, error) {
	var items []model.ImageManipulation
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ImageManipulation{}).Where(column+" = ?", value)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("id desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ManipulationRepository) ListByUser(ctx context.Context, userID uint, offset int, limit int) ([]model.ImageManipulation, int64, error) {
	return r.list(ctx, "user_id", userID, offset, limit)
}

func (r *ManipulationRepository) ListByAlbum(ctx context.Context, albumID uint, offset int, limit int) ([]model.ImageManipulation, int64, error) {
	return r.list(ctx, "album_id", albumID, offset, limit)
}

func (r *ManipulationRepository) Delete(ctx context.Context, m *model.ImageManipulation) error {
	return r.db.WithContext(ctx).Delete(m).Error
}

// ExistsByDirectory 判断是否有记录引用 images/<token> 目录下的文件
func (r *ManipulationRepository) ExistsByDirectory(ctx context.Context, relDir string) (bool, error) {
	prefix := strings.TrimSuffix(relDir, "/") + "/"
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ImageManipulation{}).
		Where("path LIKE ? OR output_path LIKE ?", prefix+"%", prefix+"%").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
