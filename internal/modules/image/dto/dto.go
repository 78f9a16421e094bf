package dto

import (
	"mime/multipart"
	"path"
	"strings"
	"time"

	"imager/internal/model"
	"imager/internal/modules/image/resize"
)

// ResizeRequest 缩放请求参数。image 可以是上传文件，也可以是字符串引用，由 handler 单独读取。
type ResizeRequest struct {
	W       resize.SizeSpec `json:"w" form:"w" binding:"required"`
	H       resize.SizeSpec `json:"h" form:"h"`
	AlbumID *uint           `json:"album_id" form:"album_id"`
	Image   string          `json:"image" form:"-"`
}

// ResizeInput 传给服务层的完整输入，操作用户显式传入
type ResizeInput struct {
	UserID    uint
	Upload    *multipart.FileHeader
	Reference string
	W         resize.SizeSpec
	H         resize.SizeSpec
	AlbumID   *uint
}

type ListRequest struct {
	UserID   uint
	Page     int
	PageSize int
}

type AlbumListRequest struct {
	ListRequest
	AlbumID uint
}

// ManipulationResponse 处理记录对外展示的资源
type ManipulationResponse struct {
	ID          uint                     `json:"id"`
	Type        model.ManipulationType   `json:"type"`
	Name        string                   `json:"name"`
	AlbumID     *uint                    `json:"album_id"`
	Path        string                   `json:"path"`
	OutputPath  string                   `json:"output_path"`
	OriginalURL string                   `json:"original_url"`
	OutputURL   string                   `json:"output_url"`
	Data        model.ManipulationParams `json:"data"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// NewManipulationResponse urlPrefix 为公共目录对外访问的前缀
func NewManipulationResponse(m *model.ImageManipulation, urlPrefix string) ManipulationResponse {
	return ManipulationResponse{
		ID:          m.ID,
		Type:        m.Type,
		Name:        m.Name,
		AlbumID:     m.AlbumID,
		Path:        m.Path,
		OutputPath:  m.OutputPath,
		OriginalURL: PublicURL(urlPrefix, m.Path),
		OutputURL:   PublicURL(urlPrefix, m.OutputPath),
		Data:        m.Data,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// PublicURL 拼接对外访问地址，prefix 可以是路径或完整域名
func PublicURL(prefix, rel string) string {
	if rel == "" {
		return ""
	}
	if prefix == "" {
		prefix = "/"
	}
	if strings.Contains(prefix, "://") {
		return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(rel, "/")
	}
	return path.Join("/", prefix, rel)
}

type PageResponse struct {
	List     []ManipulationResponse `json:"list"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}
