package repo

import (
	"context"

	"imager/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlbumRepository struct {
	db *gorm.DB
}

func (r *AlbumRepository) Create(ctx context.Context, album *model.Album) error {
	return r.db.WithContext(ctx).Create(album).Error
}

func (r *AlbumRepository) FindByID(ctx context.Context, id uint) (*model.Album, error) {
	var album model.Album
	if err := r.db.WithContext(ctx).First(&album, id).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *AlbumRepository) ListByUser(ctx context.Context, userID uint, offset int, limit int) ([]model.Album, int64, error) {
	var albums []model.Album
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Album{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("id desc").Offset(offset).Limit(limit).Find(&albums).Error; err != nil {
		return nil, 0, err
	}
	return albums, total, nil
}

func (r *AlbumRepository) UpdateByID(ctx context.Context, albumID uint, updates map[string]interface{}) error {
	var album model.Album
	if err := r.db.WithContext(ctx).First(&album, albumID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&album).Updates(updates).Error
}

func (r *AlbumRepository) DeleteWithManipulations(ctx context.Context, album *model.Album) ([]model.ImageManipulation, error) {
	var removed []model.ImageManipulation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先锁定相册行，与写入记录时的锁互斥，保证不会遗留指向已删除相册的记录
		var locked model.Album
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&locked, album.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("album_id = ?", album.ID).Find(&removed).Error; err != nil {
			return err
		}
		if err := tx.Where("album_id = ?", album.ID).Delete(&model.ImageManipulation{}).Error; err != nil {
			return err
		}
		return tx.Delete(album).Error
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
