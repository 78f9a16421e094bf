package dto

import "imager/internal/model"

// CreateAlbumRequest 仅允许客户端设置名称与描述，归属用户由服务端填充
type CreateAlbumRequest struct {
	Name        string `json:"name" form:"name" binding:"required,max=255"`
	Description string `json:"description" form:"description" binding:"max=1000"`
}

// UpdateAlbumRequest 未提供的字段保持不变
type UpdateAlbumRequest struct {
	Name        *string `json:"name" form:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" form:"description" binding:"omitempty,max=1000"`
}

type PageResponse struct {
	List     []model.Album `json:"list"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
