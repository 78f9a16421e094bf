package service

import (
	"context"
	"errors"
	"path"
	"strings"

	"imager/internal/model"
	moduledto "imager/internal/modules/album/dto"
	platformservice "imager/internal/platform/service"

	"gorm.io/gorm"
)

// GetOwnedAlbum 获取相册并校验归属：不存在返回 not_found，非所有者返回 forbidden
func (s *Service) GetOwnedAlbum(ctx context.Context, albumID uint, userID uint) (*model.Album, error) {
	album, err := s.albumStore.FindByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.NewNotFoundError("相册不存在")
		}
		return nil, platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "查询相册失败", err)
	}
	if err := platformservice.AssertOwner(userID, album.UserID); err != nil {
		return nil, err
	}
	return album, nil
}

func (s *Service) Create(ctx context.Context, userID uint, req moduledto.CreateAlbumRequest) (*model.Album, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, platformservice.NewFieldValidationError("请求参数校验失败", map[string]string{"name": "该字段为必填项"})
	}

	album := &model.Album{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.albumStore.Create(ctx, album); err != nil {
		return nil, platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "创建相册失败", err)
	}
	return album, nil
}

func (s *Service) List(ctx context.Context, userID uint, page int, pageSize int) ([]model.Album, int64, error) {
	albums, total, err := s.albumStore.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "获取相册列表失败", err)
	}
	return albums, total, nil
}

// Update 只更新请求中出现的允许字段
func (s *Service) Update(ctx context.Context, albumID uint, userID uint, req moduledto.UpdateAlbumRequest) (*model.Album, error) {
	if _, err := s.GetOwnedAlbum(ctx, albumID, userID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, platformservice.NewFieldValidationError("请求参数校验失败", map[string]string{"name": "名称不能为空"})
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if len(updates) > 0 {
		if err := s.albumStore.UpdateByID(ctx, albumID, updates); err != nil {
			return nil, platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "更新相册失败", err)
		}
	}
	return s.GetOwnedAlbum(ctx, albumID, userID)
}

// Delete 删除相册及其全部处理记录，提交后再清理对应的工作目录
func (s *Service) Delete(ctx context.Context, albumID uint, userID uint) error {
	album, err := s.GetOwnedAlbum(ctx, albumID, userID)
	if err != nil {
		return err
	}

	removed, err := s.albumStore.DeleteWithManipulations(ctx, album)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return platformservice.NewNotFoundError("相册不存在")
	}
	if err != nil {
		return platformservice.WrapServiceError(platformservice.ErrorCodeInternal, "删除相册失败", err)
	}

	seen := make(map[string]struct{}, len(removed))
	for _, record := range removed {
		dir := path.Dir(record.Path)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		if err := s.dirs.RemoveDir(dir); err != nil {
			s.Logger().Warn().Err(err).Str("dir", dir).Msg("删除工作目录失败")
		}
	}

	s.Logger().Info().Uint("album_id", album.ID).Int("records", len(removed)).Msg("相册已删除")
	return nil
}
