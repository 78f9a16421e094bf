package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"imager/internal/config"
	"imager/internal/model"
	"imager/internal/modules"
	albumrepo "imager/internal/modules/album/repo"
	imagerepo "imager/internal/modules/image/repo"
	"imager/internal/modules/image/resize"
	"imager/internal/modules/image/source"
	"imager/internal/platform/service"
	"imager/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const testSecret = "router-test-secret"

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prev := config.Get()
	cfg := prev
	cfg.JWT = config.JWTConfig{Secret: testSecret}
	cfg.RateLimit = config.RateLimitConfig{Enabled: false}
	cfg.Resize.MaxUploadSizeMB = 5
	cfg.Storage.URLPrefix = "/"
	config.Set(cfg)
	t.Cleanup(func() { config.Set(prev) })

	gdb := testutils.SetupDB(t)
	appService := service.NewAppService(zerolog.Nop(), nil)
	acquirer := source.NewAcquirer(source.Options{PublicRoot: t.TempDir(), MaxBytes: 5 << 20})
	appModules := modules.New(
		appService,
		albumrepo.NewAlbumRepository(gdb),
		imagerepo.NewManipulationRepository(gdb),
		acquirer,
		resize.NewExecutor(resize.Options{MaxTargetDimension: 5000}),
	)

	r := gin.New()
	NewRouter(appModules, appService).Init(r)
	return r
}

func send(t *testing.T, r *gin.Engine, req *http.Request, user uint) *httptest.ResponseRecorder {
	if user != 0 {
		req.Header.Set("Authorization", "Bearer "+testutils.Token(t, testSecret, user))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// 测试内容：验证核心 API 路由被正确注册。
func TestInitRouter_RegistersCoreRoutes(t *testing.T) {
	r := setupEngine(t)

	wants := []string{
		"GET /healthz",
		"GET /v1/albums",
		"POST /v1/albums",
		"GET /v1/albums/:id",
		"PUT /v1/albums/:id",
		"DELETE /v1/albums/:id",
		"GET /v1/images",
		"GET /v1/images/by-album/:albumId",
		"GET /v1/images/:id",
		"POST /v1/images/resize",
		"DELETE /v1/images/:id",
	}

	have := make(map[string]bool)
	for _, rt := range r.Routes() {
		have[rt.Method+" "+rt.Path] = true
	}
	for _, w := range wants {
		if !have[w] {
			t.Fatalf("缺少路由: %s", w)
		}
	}
}

// 测试内容：验证健康检查无需认证，业务接口缺少令牌返回 401。
func TestRouter_Authentication(t *testing.T) {
	r := setupEngine(t)

	w := send(t, r, httptest.NewRequest(http.MethodGet, "/healthz", nil), 0)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("期望响应包含请求 ID")
	}

	w = send(t, r, httptest.NewRequest(http.MethodGet, "/v1/albums", nil), 0)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际为 %d", w.Code)
	}
}

// 测试内容：验证完整流程：A 创建相册并缩放图片，B 无法访问 A 的相册与记录。
func TestRouter_EndToEnd(t *testing.T) {
	r := setupEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/albums", strings.NewReader(`{"name":"Trip"}`))
	req.Header.Set("Content-Type", "application/json")
	w := send(t, r, req, 1)
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际为 %d: %s", w.Code, w.Body.String())
	}
	var album model.Album
	if err := json.Unmarshal(w.Body.Bytes(), &album); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	w = send(t, r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/albums/%d", album.ID), nil), 2)
	if w.Code != http.StatusForbidden {
		t.Fatalf("期望用户 B 访问返回 403，实际为 %d", w.Code)
	}

	body, contentType := testutils.MultipartBody(t, "image", "photo.png", testutils.PNG(t, 800, 600), map[string]string{
		"w":        "400",
		"album_id": fmt.Sprint(album.ID),
	})
	req = httptest.NewRequest(http.MethodPost, "/v1/images/resize", body)
	req.Header.Set("Content-Type", contentType)
	w = send(t, r, req, 1)
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际为 %d: %s", w.Code, w.Body.String())
	}
	var record struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	body, contentType = testutils.MultipartBody(t, "image", "photo.png", testutils.PNG(t, 80, 60), map[string]string{
		"w":        "40",
		"album_id": fmt.Sprint(album.ID),
	})
	req = httptest.NewRequest(http.MethodPost, "/v1/images/resize", body)
	req.Header.Set("Content-Type", contentType)
	if w = send(t, r, req, 2); w.Code != http.StatusForbidden {
		t.Fatalf("期望用户 B 写入 A 的相册返回 403，实际为 %d", w.Code)
	}

	w = send(t, r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/images/by-album/%d", album.ID), nil), 1)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total":1`) {
		t.Fatalf("期望相册内 1 条记录，实际为 %d: %s", w.Code, w.Body.String())
	}

	w = send(t, r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/images/%d", record.ID), nil), 2)
	if w.Code != http.StatusForbidden {
		t.Fatalf("期望用户 B 读取记录返回 403，实际为 %d", w.Code)
	}

	w = send(t, r, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/v1/albums/%d", album.ID), nil), 1)
	if w.Code != http.StatusNoContent {
		t.Fatalf("期望 204，实际为 %d", w.Code)
	}
	w = send(t, r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/images/%d", record.ID), nil), 1)
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望相册删除后记录返回 404，实际为 %d", w.Code)
	}
}
