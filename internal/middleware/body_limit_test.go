package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"imager/internal/config"

	"github.com/gin-gonic/gin"
)

// 测试内容：验证超过普通接口上限的请求体在读取时失败。
func TestBodyLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withConfig(t, func(cfg *config.Config) { cfg.Server.MaxBodySizeMB = 1 })

	r := gin.New()
	r.Use(BodyLimitMiddleware())
	r.POST("/x", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader(make([]byte, 1024))))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", bytes.NewReader(make([]byte, 2<<20))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("期望 413，实际为 %d", w.Code)
	}
}

// 测试内容：验证 Content-Length 超过上传上限时直接返回 413。
func TestUploadBodyLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withConfig(t, func(cfg *config.Config) { cfg.Resize.MaxUploadSizeMB = 1 })

	r := gin.New()
	r.Use(UploadBodyLimitMiddleware())
	r.POST("/resize", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/resize", bytes.NewReader(make([]byte, 3<<20))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("期望 413，实际为 %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/resize", bytes.NewReader(make([]byte, 512<<10))))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
}
