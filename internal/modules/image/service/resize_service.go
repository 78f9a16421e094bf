package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"imager/internal/model"
	moduledto "imager/internal/modules/image/dto"
	"imager/internal/modules/image/repo"
	"imager/internal/modules/image/resize"
	"imager/internal/modules/image/source"
	platformservice "imager/internal/platform/service"
)

const sizeSpecHint = "需为数字或百分比，如 400 或 50%"

// Resize 处理一次缩放请求：校验参数、校验相册归属、获取源图、计算尺寸、缩放并保存记录。
// 任一步骤失败都不会写入记录，已创建的工作目录会被删除。
func (s *Service) Resize(ctx context.Context, in moduledto.ResizeInput) (*model.ImageManipulation, error) {
	if err := validateResizeInput(in); err != nil {
		return nil, err
	}

	if in.AlbumID != nil {
		if _, err := s.albums.GetOwnedAlbum(ctx, *in.AlbumID, in.UserID); err != nil {
			if platformservice.IsCode(err, platformservice.ErrorCodeNotFound) ||
				platformservice.IsCode(err, platformservice.ErrorCodeForbidden) {
				return nil, platformservice.Forbidden()
			}
			return nil, err
		}
	}

	name, err := s.sourceName(in)
	if err != nil {
		return nil, mapSourceError(err)
	}
	if !resize.SupportedExtension(name) {
		return nil, platformservice.NewServiceError(platformservice.ErrorCodeUnsupportedFormat, "不支持的图片格式: "+filepath.Ext(name))
	}

	var src *source.Source
	if in.Upload != nil {
		src, err = s.acquirer.FromUpload(ctx, in.Upload)
	} else {
		src, err = s.acquirer.FromReference(ctx, in.Reference)
	}
	if err != nil {
		return nil, mapSourceError(err)
	}

	record, err := s.process(ctx, in, src)
	if err != nil {
		if rmErr := s.acquirer.Discard(src); rmErr != nil {
			s.Logger().Error().Err(rmErr).Str("dir", src.RelDir).Msg("清理工作目录失败")
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) process(ctx context.Context, in moduledto.ResizeInput, src *source.Source) (*model.ImageManipulation, error) {
	width, height, err := s.executor.Probe(src.AbsPath)
	if err != nil {
		return nil, mapResizeError(err)
	}
	dims, err := resize.Resolve(in.W, in.H, width, height)
	if err != nil {
		return nil, mapResizeError(err)
	}
	output, err := s.executor.Execute(src.AbsPath, dims)
	if err != nil {
		return nil, mapResizeError(err)
	}

	params := &model.ResizeParams{W: in.W.String(), H: in.H.String(), AlbumID: in.AlbumID}
	if in.Upload == nil {
		params.Source = strings.TrimSpace(in.Reference)
	}
	record := &model.ImageManipulation{
		Type:       model.ManipulationTypeResize,
		Data:       model.ManipulationParams{Resize: params},
		UserID:     in.UserID,
		AlbumID:    in.AlbumID,
		Name:       src.Name,
		Path:       src.RelPath,
		OutputPath: src.RelSibling(filepath.Base(output)),
	}
	if err := s.store.Create(ctx, record); err != nil {
		if errors.Is(err, repo.ErrAlbumGone) {
			return nil, platformservice.Forbidden()
		}
		return nil, platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "保存处理记录失败", err)
	}

	s.Logger().Info().
		Uint("id", record.ID).
		Uint("user_id", in.UserID).
		Str("source", record.Path).
		Int("src_width", width).
		Int("src_height", height).
		Int("width", dims.Width).
		Int("height", dims.Height).
		Msg("图片缩放完成")
	return record, nil
}

func (s *Service) sourceName(in moduledto.ResizeInput) (string, error) {
	if in.Upload != nil {
		return source.UploadName(in.Upload)
	}
	return s.acquirer.ReferenceName(in.Reference)
}

func validateResizeInput(in moduledto.ResizeInput) error {
	fields := make(map[string]string)
	if in.W.IsZero() {
		fields["w"] = "该字段为必填项"
	} else if err := in.W.Validate(); err != nil {
		fields["w"] = sizeSpecHint
	}
	if err := in.H.Validate(); err != nil {
		fields["h"] = sizeSpecHint
	}
	if in.Upload == nil && strings.TrimSpace(in.Reference) == "" {
		fields["image"] = "请上传图片或提供图片路径"
	}
	if in.AlbumID != nil && *in.AlbumID == 0 {
		fields["album_id"] = "相册 ID 无效"
	}
	if len(fields) > 0 {
		return platformservice.NewFieldValidationError("请求参数校验失败", fields)
	}
	return nil
}
