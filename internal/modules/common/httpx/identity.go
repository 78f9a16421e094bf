package httpx

import (
	"imager/internal/consts"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CurrentUserID 读取 JWT 中间件写入的当前用户 ID。
// 读取失败时直接写入 401 响应，调用方只需 return。
func CurrentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(consts.ContextKeyUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return 0, false
	}
	uid, ok := userID.(uint)
	if !ok || uid == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的用户ID类型"})
		return 0, false
	}
	return uid, true
}

// ParamID 解析路径参数中的正整数 ID，失败时写入 404 响应
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "资源不存在"})
		return 0, false
	}
	return uint(id), true
}

// Pagination 解析分页参数
func Pagination(c *gin.Context) (page int, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "15"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 15
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
