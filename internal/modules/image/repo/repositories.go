package repo

import "gorm.io/gorm"

func NewManipulationRepository(db *gorm.DB) ManipulationStore {
	return &ManipulationRepository{db: db}
}
