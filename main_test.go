package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imager/internal/config"
	"imager/internal/testutils"

	"github.com/gin-gonic/gin"
)

// 测试内容：为 main 包测试初始化配置环境并在结束时清理。
func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "imager-main-config-*")
	if err != nil {
		panic(err)
	}

	envs := testutils.SetEnvs(map[string]string{
		"IMAGER_SERVER_MODE":    "debug",
		"IMAGER_JWT_SECRET":     "test_secret",
		"IMAGER_REDIS_ENABLED":  "false",
		"IMAGER_REAPER_ENABLED": "false",
	})
	config.InitConfig(tmpDir)

	code := m.Run()

	testutils.RestoreEnv(envs)
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

// withStorage 切换到临时工作目录并设置公共目录配置
func withStorage(t *testing.T, urlPrefix string) {
	t.Helper()
	tmp := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("切换目录失败: %v", err)
	}
	prev := config.Get()
	cfg := prev
	cfg.Storage = config.StorageConfig{PublicRoot: "public", URLPrefix: urlPrefix, CacheControl: "public, max-age=60"}
	config.Set(cfg)
	t.Cleanup(func() {
		config.Set(prev)
		_ = os.Chdir(oldwd)
	})
}

// 测试内容：验证 splitTrustedProxyList 能正确拆分代理列表。
func TestSplitTrustedProxyList(t *testing.T) {
	got := splitTrustedProxyList(" 1.1.1.1,2.2.2.2; 3.3.3.3 \n4.4.4.4\t")
	if len(got) != 4 {
		t.Fatalf("期望 4 parts，实际为 %v", got)
	}
}

// 测试内容：验证 exportAPI 会写出有效的 routes.json 路由列表。
func TestExportAPI_WritesRoutesJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withStorage(t, "/")

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	exportAPI(r)

	b, err := os.ReadFile("routes.json")
	if err != nil {
		t.Fatalf("期望 routes.json: %v", err)
	}
	var routes []map[string]any
	if err := json.Unmarshal(b, &routes); err != nil {
		t.Fatalf("JSON 无效: %v", err)
	}
	if len(routes) == 0 {
		t.Fatalf("期望路由列表非空")
	}
}

// 测试内容：验证 trusted_proxies 对信任代理的影响：空值禁用、有效列表生效、无效列表回退。
func TestApplyTrustedProxies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	clientIP := func(proxies []string) string {
		r := gin.New()
		applyTrustedProxies(r, proxies)
		r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })
		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.10, 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return strings.TrimSpace(w.Body.String())
	}

	if got := clientIP(nil); got != "10.0.0.1" {
		t.Fatalf("禁用可信代理时 ClientIP 应为 RemoteAddr，实际为 %q", got)
	}
	if got := clientIP([]string{"127.0.0.1,10.0.0.0/8"}); got != "203.0.113.10" {
		t.Fatalf("启用可信代理时 ClientIP 应取 X-Forwarded-For，实际为 %q", got)
	}
	if got := clientIP([]string{"not-a-cidr"}); got != "10.0.0.1" {
		t.Fatalf("无效可信代理时 ClientIP 应为 RemoteAddr，实际为 %q", got)
	}
}

// 测试内容：确保创建公共目录下的 images 子目录。
func TestEnsureDirectories_CreatesImagesRoot(t *testing.T) {
	withStorage(t, "/")

	imagesRoot := ensureDirectories()
	if imagesRoot != filepath.Join("public", "images") {
		t.Fatalf("非预期 images 目录: %q", imagesRoot)
	}
	if _, err := os.Stat(imagesRoot); err != nil {
		t.Fatalf("期望 images 目录存在: %v", err)
	}
}

// 测试内容：验证公共目录或 images 目录为符号链接时拒绝启动。
func TestPrepareImagesRoot_RejectsSymlink(t *testing.T) {
	withStorage(t, "/")
	if err := os.MkdirAll("elsewhere", 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.Symlink("elsewhere", "public"); err != nil {
		t.Skipf("当前环境不支持符号链接: %v", err)
	}

	if _, err := prepareImagesRoot(config.Get().Storage); err == nil {
		t.Fatalf("期望符号链接公共目录返回错误")
	}
	if _, err := os.Stat(filepath.Join("elsewhere", "images")); !os.IsNotExist(err) {
		t.Fatalf("不应在链接目标下创建 images 目录，实际为 %v", err)
	}

	if err := os.Remove("public"); err != nil {
		t.Fatalf("删除链接失败: %v", err)
	}
	if err := os.MkdirAll("public", 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.Symlink(filepath.Join("..", "elsewhere"), filepath.Join("public", "images")); err != nil {
		t.Fatalf("创建链接失败: %v", err)
	}
	if _, err := prepareImagesRoot(config.Get().Storage); err == nil {
		t.Fatalf("期望符号链接 images 目录返回错误")
	}
}

// 测试内容：验证静态文件挂载后原图与缩放图可被访问，并带有缓存头。
func TestSetupStaticFiles_ServesImages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withStorage(t, "/files")

	imagesRoot := ensureDirectories()
	dir := filepath.Join(imagesRoot, "tok")
	_ = os.MkdirAll(dir, 0755)
	_ = os.WriteFile(filepath.Join(dir, "a-resize.png"), []byte("png"), 0644)

	r := gin.New()
	setupStaticFiles(r, imagesRoot)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/images/tok/a-resize.png", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	if w.Header().Get("Cache-Control") != "public, max-age=60" {
		t.Fatalf("期望缓存头，实际为 %q", w.Header().Get("Cache-Control"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/images/tok/missing.png", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望不存在的文件返回 404，实际为 %d", w.Code)
	}
}

// 测试内容：验证欢迎信息打印函数在测试配置下可执行。
func TestPrintWelcomeMessage(t *testing.T) {
	printWelcomeMessage()
}
