package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// 测试内容：验证初始化配置会设置默认值并记录配置目录。
func TestInitConfig_SetsDefaults(t *testing.T) {
	dir := t.TempDir()

	// 确保不在 release 模式（release 模式下不安全的 secret 会导致 fatal）。
	t.Setenv("IMAGER_SERVER_MODE", "debug")
	t.Setenv("IMAGER_JWT_SECRET", "")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port == "" {
		t.Fatalf("期望 server.port 有默认值")
	}
	if cfg.JWT.Secret == "" {
		t.Fatalf("期望非 release 模式下 JWT secret 被填充")
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Fatalf("期望 shutdown_timeout 为 5s，实际为 %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Reaper.TTL != 24*time.Hour {
		t.Fatalf("期望 reaper.ttl 为 24h，实际为 %v", cfg.Reaper.TTL)
	}
	if cfg.Resize.Filter != "lanczos" {
		t.Fatalf("期望默认 filter 为 lanczos，实际为 %q", cfg.Resize.Filter)
	}
	if GetConfigDir() != dir {
		t.Fatalf("期望 config dir %q，实际为 %q", dir, GetConfigDir())
	}
}

// 测试内容：验证环境变量覆盖配置文件与默认值，且时长与列表可被正确解码。
func TestInitConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: \"9000\"\nresize:\n  max_upload_size_mb: 3\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	t.Setenv("IMAGER_SERVER_MODE", "debug")
	t.Setenv("IMAGER_JWT_SECRET", "s3cret")
	t.Setenv("IMAGER_RESIZE_MAX_UPLOAD_SIZE_MB", "7")
	t.Setenv("IMAGER_REAPER_TTL", "90m")
	t.Setenv("IMAGER_SERVER_TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port != "9000" {
		t.Fatalf("期望配置文件中的端口 9000，实际为 %q", cfg.Server.Port)
	}
	if cfg.Resize.MaxUploadSizeMB != 7 {
		t.Fatalf("期望环境变量覆盖为 7，实际为 %d", cfg.Resize.MaxUploadSizeMB)
	}
	if cfg.Reaper.TTL != 90*time.Minute {
		t.Fatalf("期望 ttl 为 90m，实际为 %v", cfg.Reaper.TTL)
	}
	if len(cfg.Server.TrustedProxies) != 2 {
		t.Fatalf("期望 2 个 trusted proxy，实际为 %v", cfg.Server.TrustedProxies)
	}
	if cfg.JWT.Secret != "s3cret" {
		t.Fatalf("期望 JWT secret 来自环境变量")
	}
}

// 测试内容：验证 ImagesRoot 位于公共目录下的 images 子目录。
func TestStorageConfig_ImagesRoot(t *testing.T) {
	c := StorageConfig{PublicRoot: "public"}
	if got := c.ImagesRoot(); got != filepath.Join("public", "images") {
		t.Fatalf("非预期 images root: %q", got)
	}
}
