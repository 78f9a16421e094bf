package handler

import (
	"net/http"
	"strings"

	"imager/internal/config"
	"imager/internal/model"
	"imager/internal/modules/common/httpx"
	moduledto "imager/internal/modules/image/dto"
	platformservice "imager/internal/platform/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Resize 创建缩放任务。支持 multipart 上传、表单引用与 JSON 引用三种请求方式。
func (h *Handler) Resize(c *gin.Context) {
	uid, ok := httpx.CurrentUserID(c)
	if !ok {
		return
	}

	var req moduledto.ResizeRequest
	if err := c.ShouldBind(&req); err != nil {
		httpx.WriteServiceError(c, httpx.BindingError(err), "参数错误")
		return
	}

	in := moduledto.ResizeInput{
		UserID:    uid,
		Reference: req.Image,
		W:         req.W,
		H:         req.H,
		AlbumID:   req.AlbumID,
	}
	if c.ContentType() != binding.MIMEJSON {
		if fh, err := c.FormFile("image"); err == nil {
			in.Upload = fh
		} else {
			in.Reference = c.PostForm("image")
		}
		// 表单中空的 album_id 视为未提供
		if strings.TrimSpace(c.PostForm("album_id")) == "" {
			in.AlbumID = nil
		}
	}

	record, err := h.imageService.Resize(c.Request.Context(), in)
	if err != nil {
		h.logUnexpected(err, "缩放失败")
		httpx.WriteServiceError(c, err, "处理失败，请稍后重试")
		return
	}
	c.JSON(http.StatusCreated, moduledto.NewManipulationResponse(record, config.Get().Storage.URLPrefix))
}

func (h *Handler) ListImages(c *gin.Context) {
	uid, ok := httpx.CurrentUserID(c)
	if !ok {
		return
	}
	page, pageSize := httpx.Pagination(c)

	items, total, err := h.imageService.List(c.Request.Context(), moduledto.ListRequest{UserID: uid, Page: page, PageSize: pageSize})
	if err != nil {
		h.logUnexpected(err, "获取图片列表失败")
		httpx.WriteServiceError(c, err, "获取图片列表失败")
		return
	}
	c.JSON(http.StatusOK, pageResponse(items, total, page, pageSize))
}

func (h *Handler) ListAlbumImages(c *gin.Context) {
	uid, ok := httpx.CurrentUserID(c)
	if !ok {
		return
	}
	albumID, ok := httpx.ParamID(c, "albumId")
	if !ok {
		return
	}
	page, pageSize := httpx.Pagination(c)

	items, total, err := h.imageService.ListByAlbum(c.Request.Context(), moduledto.AlbumListRequest{
		ListRequest: moduledto.ListRequest{UserID: uid, Page: page, PageSize: pageSize},
		AlbumID:     albumID,
	})
	if err != nil {
		h.logUnexpected(err, "获取相册图片失败")
		httpx.WriteServiceError(c, err, "获取图片列表失败")
		return
	}
	c.JSON(http.StatusOK, pageResponse(items, total, page, pageSize))
}

func (h *Handler) GetImage(c *gin.Context) {
	uid, ok := httpx.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	record, err := h.imageService.GetOwned(c.Request.Context(), id, uid)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片失败")
		return
	}
	c.JSON(http.StatusOK, moduledto.NewManipulationResponse(record, config.Get().Storage.URLPrefix))
}

func (h *Handler) DeleteImage(c *gin.Context) {
	uid, ok := httpx.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), id, uid); err != nil {
		h.logUnexpected(err, "删除图片失败")
		httpx.WriteServiceError(c, err, "删除失败")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) logUnexpected(err error, msg string) {
	if se, ok := platformservice.AsServiceError(err); ok && se.Code != platformservice.ErrorCodeInternal {
		return
	}
	h.imageService.Logger().Error().Err(err).Msg(msg)
}

func pageResponse(items []model.ImageManipulation, total int64, page, pageSize int) moduledto.PageResponse {
	prefix := config.Get().Storage.URLPrefix
	list := make([]moduledto.ManipulationResponse, 0, len(items))
	for i := range items {
		list = append(list, moduledto.NewManipulationResponse(&items[i], prefix))
	}
	return moduledto.PageResponse{List: list, Total: total, Page: page, PageSize: pageSize}
}
