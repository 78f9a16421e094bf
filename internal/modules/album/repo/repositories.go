package repo

import "gorm.io/gorm"

func NewAlbumRepository(db *gorm.DB) AlbumStore {
	return &AlbumRepository{db: db}
}
