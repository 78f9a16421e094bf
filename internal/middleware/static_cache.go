package middleware

import (
	"imager/internal/config"

	"github.com/gin-gonic/gin"
)

// StaticCacheMiddleware 为公共目录下的原图与缩放图添加 Cache-Control 头
func StaticCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cc := config.Get().Storage.CacheControl; cc != "" {
			c.Header("Cache-Control", cc)
		}
		c.Next()
	}
}
