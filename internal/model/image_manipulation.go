package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ManipulationType 图片处理操作类型，新增操作时在此追加枚举值并在 ManipulationParams 中增加对应载荷
type ManipulationType string

const (
	ManipulationTypeResize ManipulationType = "resize"
)

// Valid 判断是否为已知的操作类型
func (t ManipulationType) Valid() bool {
	switch t {
	case ManipulationTypeResize:
		return true
	default:
		return false
	}
}

// ResizeParams 缩放请求的原始参数（不含图片二进制内容）
type ResizeParams struct {
	W       string `json:"w"`
	H       string `json:"h,omitempty"`
	AlbumID *uint  `json:"album_id,omitempty"`
	Source  string `json:"source,omitempty"` // 以路径/URI 引用图片时的原始引用
}

// ManipulationParams 按操作类型区分的参数载荷，同一时间只有一个字段非空
type ManipulationParams struct {
	Resize *ResizeParams `json:"resize,omitempty"`
}

// Value 实现 driver.Valuer，以 JSON 文本入库
func (p ManipulationParams) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner
func (p *ManipulationParams) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = ManipulationParams{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported manipulation params type %T", value)
	}
	if len(raw) == 0 {
		*p = ManipulationParams{}
		return nil
	}
	return json.Unmarshal(raw, p)
}

// ImageManipulation 一次图片处理的持久化记录，创建后除删除外不可变
type ImageManipulation struct {
	ID         uint               `json:"id" gorm:"primaryKey"`
	Type       ManipulationType   `json:"type" gorm:"size:32;not null"`
	Data       ManipulationParams `json:"data" gorm:"type:text;not null"`
	UserID     uint               `json:"-" gorm:"not null;index"`
	AlbumID    *uint              `json:"album_id" gorm:"index"`
	Name       string             `json:"name" gorm:"size:255;not null"`
	Path       string             `json:"path" gorm:"size:1024;not null"`
	OutputPath string             `json:"output_path" gorm:"size:1024;not null"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

var ErrUnknownManipulationType = errors.New("unknown manipulation type")

// Validate 校验类型与载荷是否匹配
func (m *ImageManipulation) Validate() error {
	if !m.Type.Valid() {
		return ErrUnknownManipulationType
	}
	if m.Type == ManipulationTypeResize && m.Data.Resize == nil {
		return errors.New("resize manipulation requires resize params")
	}
	return nil
}
