package service

import (
	"context"
	"testing"

	"imager/internal/model"
	"imager/internal/modules/album/repo"
	moduledto "imager/internal/modules/album/dto"
	platformservice "imager/internal/platform/service"
	"imager/internal/testutils"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type recordingRemover struct {
	removed []string
}

func (r *recordingRemover) RemoveDir(relDir string) error {
	r.removed = append(r.removed, relDir)
	return nil
}

func setupService(t *testing.T) (*Service, *gorm.DB, *recordingRemover) {
	t.Helper()
	gdb := testutils.SetupDB(t)
	dirs := &recordingRemover{}
	svc := New(platformservice.NewAppService(zerolog.Nop(), nil), repo.NewAlbumRepository(gdb), dirs)
	return svc, gdb, dirs
}

func strPtr(s string) *string { return &s }

// 测试内容：验证创建相册时归属来自参数而非请求体，名称会去除空白。
func TestCreate(t *testing.T) {
	svc, _, _ := setupService(t)

	album, err := svc.Create(context.Background(), 7, moduledto.CreateAlbumRequest{Name: "  Holiday ", Description: "beach"})
	if err != nil {
		t.Fatalf("Create 返回错误: %v", err)
	}
	if album.UserID != 7 || album.Name != "Holiday" || album.ID == 0 {
		t.Fatalf("非预期的相册: %+v", album)
	}

	_, err = svc.Create(context.Background(), 7, moduledto.CreateAlbumRequest{Name: "   "})
	if !platformservice.IsCode(err, platformservice.ErrorCodeValidation) {
		t.Fatalf("期望空名称返回 validation，实际为 %v", err)
	}
}

// 测试内容：验证用户 B 读取、更新、删除用户 A 的相册均返回 forbidden。
func TestOwnership(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	album, err := svc.Create(ctx, 1, moduledto.CreateAlbumRequest{Name: "A"})
	if err != nil {
		t.Fatalf("Create 返回错误: %v", err)
	}

	if _, err := svc.GetOwnedAlbum(ctx, album.ID, 2); !platformservice.IsCode(err, platformservice.ErrorCodeForbidden) {
		t.Fatalf("期望读取 forbidden，实际为 %v", err)
	}
	if _, err := svc.Update(ctx, album.ID, 2, moduledto.UpdateAlbumRequest{Name: strPtr("x")}); !platformservice.IsCode(err, platformservice.ErrorCodeForbidden) {
		t.Fatalf("期望更新 forbidden，实际为 %v", err)
	}
	if err := svc.Delete(ctx, album.ID, 2); !platformservice.IsCode(err, platformservice.ErrorCodeForbidden) {
		t.Fatalf("期望删除 forbidden，实际为 %v", err)
	}
	if _, err := svc.GetOwnedAlbum(ctx, 999, 1); !platformservice.IsCode(err, platformservice.ErrorCodeNotFound) {
		t.Fatalf("期望不存在返回 not_found，实际为 %v", err)
	}

	got, err := svc.GetOwnedAlbum(ctx, album.ID, 1)
	if err != nil || got.Name != "A" {
		t.Fatalf("期望所有者可读取，实际为 %+v err=%v", got, err)
	}
}

// 测试内容：验证更新只修改提供的字段。
func TestUpdate_PartialFields(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	album, _ := svc.Create(ctx, 1, moduledto.CreateAlbumRequest{Name: "old", Description: "keep"})

	updated, err := svc.Update(ctx, album.ID, 1, moduledto.UpdateAlbumRequest{Name: strPtr("new")})
	if err != nil {
		t.Fatalf("Update 返回错误: %v", err)
	}
	if updated.Name != "new" || updated.Description != "keep" || updated.UserID != 1 {
		t.Fatalf("非预期的更新结果: %+v", updated)
	}

	updated, err = svc.Update(ctx, album.ID, 1, moduledto.UpdateAlbumRequest{Description: strPtr("")})
	if err != nil || updated.Description != "" || updated.Name != "new" {
		t.Fatalf("期望描述被清空，实际为 %+v err=%v", updated, err)
	}

	if _, err := svc.Update(ctx, album.ID, 1, moduledto.UpdateAlbumRequest{Name: strPtr(" ")}); !platformservice.IsCode(err, platformservice.ErrorCodeValidation) {
		t.Fatalf("期望空名称返回 validation，实际为 %v", err)
	}
}

// 测试内容：验证删除相册会级联删除记录并清理对应工作目录。
func TestDelete_Cascades(t *testing.T) {
	svc, gdb, dirs := setupService(t)
	ctx := context.Background()

	album, _ := svc.Create(ctx, 1, moduledto.CreateAlbumRequest{Name: "trip"})
	records := []model.ImageManipulation{
		{Type: model.ManipulationTypeResize, Data: model.ManipulationParams{Resize: &model.ResizeParams{W: "1"}}, UserID: 1, AlbumID: &album.ID, Name: "a.png", Path: "images/t1/a.png", OutputPath: "images/t1/a-resize.png"},
		{Type: model.ManipulationTypeResize, Data: model.ManipulationParams{Resize: &model.ResizeParams{W: "2"}}, UserID: 1, AlbumID: &album.ID, Name: "b.png", Path: "images/t2/b.png", OutputPath: "images/t2/b-resize.png"},
	}
	if err := gdb.Create(&records).Error; err != nil {
		t.Fatalf("写入记录失败: %v", err)
	}

	if err := svc.Delete(ctx, album.ID, 1); err != nil {
		t.Fatalf("Delete 返回错误: %v", err)
	}
	if len(dirs.removed) != 2 {
		t.Fatalf("期望清理 2 个目录，实际为 %v", dirs.removed)
	}
	var left int64
	gdb.Model(&model.ImageManipulation{}).Count(&left)
	if left != 0 {
		t.Fatalf("期望记录全部删除，实际剩余 %d", left)
	}
	if _, err := svc.GetOwnedAlbum(ctx, album.ID, 1); !platformservice.IsCode(err, platformservice.ErrorCodeNotFound) {
		t.Fatalf("期望删除后 not_found，实际为 %v", err)
	}
}

// 测试内容：验证列表只返回当前用户的相册。
func TestList(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	_, _ = svc.Create(ctx, 1, moduledto.CreateAlbumRequest{Name: "a"})
	_, _ = svc.Create(ctx, 2, moduledto.CreateAlbumRequest{Name: "b"})

	albums, total, err := svc.List(ctx, 1, 1, 15)
	if err != nil || total != 1 || len(albums) != 1 || albums[0].Name != "a" {
		t.Fatalf("非预期的列表: %+v total=%d err=%v", albums, total, err)
	}
}
