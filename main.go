package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"imager/internal/config"
	"imager/internal/consts"
	"imager/internal/di"
	"imager/internal/middleware"
	"imager/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	flag.Parse()

	config.InitConfig(*configDir)
	cfg := config.Get()

	imagesRoot := ensureDirectories()

	gin.SetMode(cfg.Server.Mode)

	app, cleanup, err := di.InitializeApplication(cfg)
	if err != nil {
		log.Fatalf("❌ 应用初始化失败: %v", err)
	}
	defer cleanup()

	r := gin.New()
	applyTrustedProxies(r, cfg.Server.TrustedProxies)
	app.Router.Init(r)
	setupStaticFiles(r, imagesRoot)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "资源不存在"})
	})

	// 导出模式
	if *exportRoutes {
		exportAPI(r)
		return // 导出后直接退出程序，不启动 Web 服务
	}

	printWelcomeMessage()

	if err := app.Reaper.Start(); err != nil {
		log.Fatalf("❌ 目录回收任务启动失败: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		app.Log.Info().Str("port", cfg.Server.Port).Msg("🚀 服务启动成功")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ 服务启动失败: %s\n", err)
		}
	}()

	// 等待中断信号关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	app.Log.Info().Msg("🛑 正在关闭服务...")

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	<-app.Reaper.Stop().Done()
	if err := srv.Shutdown(ctx); err != nil {
		app.Log.Error().Err(err).Msg("❌ 服务强制关闭")
	}
	app.Log.Info().Msg("✅ 服务已退出")
}

// ensureDirectories 校验并创建公共目录与 images 子目录，返回 images 目录
func ensureDirectories() string {
	storage := config.Get().Storage
	checkSecurePath(storage.PublicRoot)

	imagesRoot, err := prepareImagesRoot(storage)
	if err != nil {
		log.Fatal("无法创建图片目录: ", err)
	}
	return imagesRoot
}

// prepareImagesRoot 拒绝以符号链接充当的公共目录或 images 目录，随后创建 images 目录
func prepareImagesRoot(storage config.StorageConfig) (string, error) {
	imagesRoot := storage.ImagesRoot()
	for _, p := range []string{storage.PublicRoot, imagesRoot} {
		if err := utils.EnsurePathNotSymlink(p); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(imagesRoot, 0755); err != nil {
		return "", err
	}
	return imagesRoot, nil
}

// setupStaticFiles 以只读方式对外提供原图与缩放图，URL 为 <url_prefix>/images/<token>/<name>
func setupStaticFiles(r *gin.Engine, imagesRoot string) {
	prefix := config.Get().Storage.URLPrefix
	if strings.Contains(prefix, "://") {
		// 文件由外部 CDN 提供
		return
	}
	mount := path.Join("/", prefix, consts.ImagesDirName)
	r.Group(mount, middleware.StaticCacheMiddleware()).
		StaticFS("", gin.Dir(imagesRoot, false))
}

func applyTrustedProxies(r *gin.Engine, proxies []string) {
	var list []string
	for _, p := range proxies {
		list = append(list, splitTrustedProxyList(p)...)
	}
	if len(list) == 0 {
		_ = r.SetTrustedProxies(nil)
		return
	}
	for _, p := range list {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				log.Printf("⚠️  无效的可信代理 %q，已禁用代理信任", p)
				_ = r.SetTrustedProxies(nil)
				return
			}
		}
	}
	if err := r.SetTrustedProxies(list); err != nil {
		log.Printf("⚠️  可信代理设置失败: %v", err)
		_ = r.SetTrustedProxies(nil)
	}
}

func splitTrustedProxyList(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
}

func printWelcomeMessage() {
	cfg := config.Get()
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Printf(" │   🗂️   公共目录 : %s\n", cfg.Storage.PublicRoot)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

func exportAPI(r *gin.Engine) {
	routes := r.Routes()

	// 简单的结构体，只留关键信息
	type RouteInfo struct {
		Method  string `json:"method"`
		Path    string `json:"path"`
		Handler string `json:"handler"`
	}

	var exportList []RouteInfo
	for _, route := range routes {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, _ := json.MarshalIndent(exportList, "", "  ")
	_ = os.WriteFile("routes.json", file, 0644)

	fmt.Println("✅ 路由已成功导出到 routes.json")
}

func checkSecurePath(p string) {
	absPath, err := filepath.Abs(p)
	if err != nil {
		log.Fatalf("❌ 路径解析失败: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("❌ 无法获取当前工作目录: %v", err)
	}

	// 检查是否直接指向项目根目录
	if absPath == cwd {
		log.Fatalf("❌ 安全配置错误: 公共目录 '%s' 不能设置为项目根目录！这会导致源代码泄露。", p)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err == nil && !strings.HasPrefix(rel, "..") {
		relSlash := filepath.ToSlash(rel)

		// 只有位于这些目录下的路径才被允许作为公共目录
		allowedDirs := []string{
			"public",
			"data",
			"static",
			"tmp",
		}

		isAllowed := false
		firstComponent := strings.Split(relSlash, "/")[0]
		for _, allowed := range allowedDirs {
			if strings.EqualFold(firstComponent, allowed) {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			log.Fatalf("❌ 安全配置错误: 公共目录 '%s' (解析为: '%s') 必须位于项目根目录下的安全子目录中 (如 %v)。", p, relSlash, allowedDirs)
		}
	}
}
