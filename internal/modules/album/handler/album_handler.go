package handler

import (
	"net/http"

	"imager/internal/modules/common/httpx"
	moduledto "imager/internal/modules/album/dto"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListAlbums(c *gin.Context) {
	uid, ok := httpx.CurrentUserID(c)
	if !ok {
		return
	}
	page, pageSize := httpx.Pagination(c)

	albums, total, err := h.albumService.List(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		h.albumService.Logger().Error().Err(err).Msg("获取相册列表失败")
		httpx.WriteServiceError(c, err, "获取相册列表失败")
		return
	}
	c.JSON(http.StatusOK, moduledto.PageResponse{List: albums, Total: total, Page: page, PageSize: pageSize})
}

func (h *Handler) CreateAlbum(c *gin.Context) {
	uid, ok := httpx.CurrentUserID(c)
	if !ok {
		return
	}

	var req moduledto.CreateAlbumRequest
	if err := c.ShouldBind(&req); err != nil {
		httpx.WriteServiceError(c, httpx.BindingError(err), "参数错误")
		return
	}

	album, err := h.albumService.Create(c.Request.Context(), uid, req)
	if err != nil {
		httpx.WriteServiceError(c, err, "创建相册失败")
		return
	}
	c.JSON(http.StatusCreated, album)
}

func (h *Handler) GetAlbum(c *gin.Context) {
	uid, ok := httpx.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	album, err := h.albumService.GetOwnedAlbum(c.Request.Context(), id, uid)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取相册失败")
		return
	}
	c.JSON(http.StatusOK, album)
}

func (h *Handler) UpdateAlbum(c *gin.Context) {
	uid, ok := httpx.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req moduledto.UpdateAlbumRequest
	if err := c.ShouldBind(&req); err != nil {
		httpx.WriteServiceError(c, httpx.BindingError(err), "参数错误")
		return
	}

	album, err := h.albumService.Update(c.Request.Context(), id, uid, req)
	if err != nil {
		httpx.WriteServiceError(c, err, "更新相册失败")
		return
	}
	c.JSON(http.StatusOK, album)
}

func (h *Handler) DeleteAlbum(c *gin.Context) {
	uid, ok := httpx.CurrentUserID(c)
	if !ok {
		return
	}
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.albumService.Delete(c.Request.Context(), id, uid); err != nil {
		httpx.WriteServiceError(c, err, "删除相册失败")
		return
	}
	c.Status(http.StatusNoContent)
}
