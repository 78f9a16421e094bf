package resize

import "errors"

var (
	// ErrInvalidSpec 尺寸描述无法解析为数字
	ErrInvalidSpec = errors.New("invalid size specifier")
	// ErrInvalidDimension 原图尺寸退化或计算出的目标尺寸非正
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrUnsupportedFormat 无法解码源图片或无法按扩展名编码
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrImageTooLarge 源图片像素数超过上限
	ErrImageTooLarge = errors.New("image too large")
)
