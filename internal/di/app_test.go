package di

import (
	"path/filepath"
	"testing"

	"imager/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Log:      config.LogConfig{Level: "error"},
		Database: config.DatabaseConfig{Type: "sqlite", Filename: filepath.Join(dir, "db", "imager.db")},
		Storage:  config.StorageConfig{PublicRoot: filepath.Join(dir, "public"), URLPrefix: "/"},
		Resize:   config.ResizeConfig{MaxUploadSizeMB: 1, Filter: "lanczos"},
		Reaper:   config.ReaperConfig{Enabled: false},
	}
}

// 测试内容：验证依赖注入能组装出完整应用，并可执行清理。
func TestInitializeApplication(t *testing.T) {
	app, cleanup, err := InitializeApplication(testConfig(t))
	if err != nil {
		t.Fatalf("组装应用失败: %v", err)
	}
	defer cleanup()

	if app.Router == nil || app.Reaper == nil {
		t.Fatalf("期望 Router 与 Reaper 均已创建")
	}
}

// 测试内容：验证不支持的数据库类型与非法对象存储地址会返回错误。
func TestInitializeApplication_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Type = "oracle"
	if _, _, err := InitializeApplication(cfg); err == nil {
		t.Fatalf("期望不支持的数据库类型返回错误")
	}

	cfg = testConfig(t)
	cfg.ObjectStore = config.ObjectStoreConfig{Enabled: true, Endpoint: "http://[::1"}
	if _, _, err := InitializeApplication(cfg); err == nil {
		t.Fatalf("期望非法对象存储地址返回错误")
	}
}

// 测试内容：验证对象存储未启用时不返回任何读取器。
func TestProvideObjectFetcher_Disabled(t *testing.T) {
	fetcher, err := ProvideObjectFetcher(config.Config{})
	if err != nil || fetcher != nil {
		t.Fatalf("期望返回 nil，实际为 %v, %v", fetcher, err)
	}
}
