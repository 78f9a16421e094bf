package service

import (
	"context"
	"errors"
	"path"

	"imager/internal/model"
	moduledto "imager/internal/modules/image/dto"
	platformservice "imager/internal/platform/service"

	"gorm.io/gorm"
)

// GetOwned 获取当前用户拥有的处理记录
func (s *Service) GetOwned(ctx context.Context, id uint, userID uint) (*model.ImageManipulation, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.NewNotFoundError("图片记录不存在")
		}
		return nil, platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "查询图片记录失败", err)
	}
	if err := platformservice.AssertOwner(userID, record.UserID); err != nil {
		return nil, err
	}
	return record, nil
}

// List 分页列出当前用户的处理记录
func (s *Service) List(ctx context.Context, req moduledto.ListRequest) ([]model.ImageManipulation, int64, error) {
	items, total, err := s.store.ListByUser(ctx, req.UserID, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		return nil, 0, platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "获取图片列表失败", err)
	}
	return items, total, nil
}

// ListByAlbum 分页列出相册内的处理记录，相册须属于当前用户
func (s *Service) ListByAlbum(ctx context.Context, req moduledto.AlbumListRequest) ([]model.ImageManipulation, int64, error) {
	if _, err := s.albums.GetOwnedAlbum(ctx, req.AlbumID, req.UserID); err != nil {
		return nil, 0, err
	}
	items, total, err := s.store.ListByAlbum(ctx, req.AlbumID, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		return nil, 0, platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "获取图片列表失败", err)
	}
	return items, total, nil
}

// Delete 删除记录及其工作目录（原图与缩放图）
func (s *Service) Delete(ctx context.Context, id uint, userID uint) error {
	record, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, record); err != nil {
		return platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "删除图片记录失败", err)
	}

	// 记录已删除，目录清理失败只记录日志，残留目录由定时任务回收
	if err := s.acquirer.RemoveDir(path.Dir(record.Path)); err != nil {
		s.Logger().Warn().Err(err).Str("path", record.Path).Msg("删除工作目录失败")
	}
	return nil
}
