package service

import (
	"errors"

	"imager/internal/modules/image/resize"
	"imager/internal/modules/image/source"
	platformservice "imager/internal/platform/service"
)

func mapSourceError(err error) error {
	switch {
	case errors.Is(err, source.ErrSourceNotFound):
		return platformservice.WrapServiceError(platformservice.ErrorCodeSourceNotFound, "无法读取源图片", err)
	case errors.Is(err, source.ErrSourceTooLarge):
		return platformservice.WrapServiceError(platformservice.ErrorCodeTooLarge, "图片文件过大", err)
	case errors.Is(err, source.ErrInvalidName):
		return platformservice.NewFieldValidationError("请求参数校验失败", map[string]string{"image": "文件名不合法"})
	case errors.Is(err, source.ErrContentMismatch):
		return platformservice.WrapServiceError(platformservice.ErrorCodeUnsupportedFormat, "文件内容与扩展名不匹配或格式不支持", err)
	default:
		return platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "获取源图片失败", err)
	}
}

func mapResizeError(err error) error {
	switch {
	case errors.Is(err, resize.ErrInvalidSpec):
		return platformservice.NewFieldValidationError("请求参数校验失败", map[string]string{"w": "需为数字或百分比，如 400 或 50%"})
	case errors.Is(err, resize.ErrInvalidDimension):
		return platformservice.WrapServiceError(platformservice.ErrorCodeInvalidDimension, "目标尺寸无效", err)
	case errors.Is(err, resize.ErrUnsupportedFormat):
		return platformservice.WrapServiceError(platformservice.ErrorCodeUnsupportedFormat, "无法解码图片或格式不支持", err)
	case errors.Is(err, resize.ErrImageTooLarge):
		return platformservice.WrapServiceError(platformservice.ErrorCodeTooLarge, "图片像素超出限制", err)
	default:
		return platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "图片处理失败", err)
	}
}
