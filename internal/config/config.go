package config

import (
	"errors"
	"imager/internal/consts"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// 用于管理应用配置

const insecureDevSecret = "imager_dev_secret"

var (
	// 使用 atomic.Value 存储 *Config，实现无锁读取
	appConfig atomic.Value
	configMu  sync.Mutex // 仅用于写操作互斥
	configDir = "config"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Database    DatabaseConfig    `mapstructure:"database"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Resize      ResizeConfig      `mapstructure:"resize"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Redis       RedisConfig       `mapstructure:"redis"`
	ObjectStore ObjectStoreConfig `mapstructure:"object_store"`
	Reaper      ReaperConfig      `mapstructure:"reaper"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
	MaxBodySizeMB   int           `mapstructure:"max_body_size_mb"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	Type     string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename string `mapstructure:"filename"` // for sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"` // database name
	SSL      bool   `mapstructure:"ssl"`  // enable TLS/SSL
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// StorageConfig 公共文件目录，工作目录位于 <public_root>/images/<token>/
type StorageConfig struct {
	PublicRoot   string `mapstructure:"public_root"`
	URLPrefix    string `mapstructure:"url_prefix"`
	CacheControl string `mapstructure:"cache_control"`
}

type ResizeConfig struct {
	MaxUploadSizeMB    int           `mapstructure:"max_upload_size_mb"`
	MaxSourcePixels    int           `mapstructure:"max_source_pixels"`
	MaxTargetDimension int           `mapstructure:"max_target_dimension"`
	Filter             string        `mapstructure:"filter"`
	AllowRemote        bool          `mapstructure:"allow_remote"`
	RemoteTimeout      time.Duration `mapstructure:"remote_timeout"`
}

type RateLimitConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ResizeRPS   float64 `mapstructure:"resize_rps"`
	ResizeBurst int     `mapstructure:"resize_burst"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// ObjectStoreConfig 允许以 s3://bucket/key 引用源图片
type ObjectStoreConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type ReaperConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ImagesRoot 返回存放请求工作目录的根目录
func (c StorageConfig) ImagesRoot() string {
	return filepath.Join(c.PublicRoot, consts.ImagesDirName)
}

// Get 获取当前配置的快照（高性能无锁）
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

// Set 直接替换当前配置，主要供测试使用
func Set(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig.Store(&cfg)
}

func GetConfigDir() string {
	return configDir
}

func InitConfig(customConfigDir string) {
	loadDotEnv()
	v := initViper(customConfigDir)
	if err := loadAndStore(v); err != nil {
		log.Fatalf("❌ 配置解析失败: %v", err)
	}
	enforceJWTSecretSafety()
	log.Println("✅ 配置加载成功")
}

// loadDotEnv 若工作目录存在 .env 则先加载，已存在的环境变量不会被覆盖
func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("⚠️  .env 文件加载失败: %v", err)
	}
}

func initViper(customConfigDir string) *viper.Viper {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Println("⚠️  未找到配置文件，将仅使用环境变量或默认值")
		} else {
			log.Fatalf("❌ 读取配置文件失败: %v", err)
		}
	}

	// 配置环境变量覆盖
	// 规则：所有环境变量必须以 IMAGER_ 开头
	// 例如：yaml 中的 server.port 对应环境变量 IMAGER_SERVER_PORT
	v.SetEnvPrefix("IMAGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("server.max_body_size_mb", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/imager.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.name", "imager")
	v.SetDefault("database.ssl", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("storage.public_root", "public")
	v.SetDefault("storage.url_prefix", "/")
	v.SetDefault("storage.cache_control", "public, max-age=86400")
	v.SetDefault("resize.max_upload_size_mb", 10)
	v.SetDefault("resize.max_source_pixels", 50_000_000)
	v.SetDefault("resize.max_target_dimension", 10000)
	v.SetDefault("resize.filter", "lanczos")
	// 开启后远程抓取仍会拒绝回环、私有等内部地址
	v.SetDefault("resize.allow_remote", false)
	v.SetDefault("resize.remote_timeout", "15s")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.resize_rps", 2)
	v.SetDefault("rate_limit.resize_burst", 10)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "imager")
	v.SetDefault("object_store.enabled", false)
	v.SetDefault("object_store.endpoint", "127.0.0.1:9000")
	v.SetDefault("object_store.access_key", "")
	v.SetDefault("object_store.secret_key", "")
	v.SetDefault("object_store.region", "")
	v.SetDefault("object_store.use_ssl", false)
	v.SetDefault("reaper.enabled", true)
	v.SetDefault("reaper.schedule", "@every 1h")
	v.SetDefault("reaper.ttl", "24h")
}

// loadAndStore 解析并原子更新配置
func loadAndStore(v *viper.Viper) error {
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	err := v.Unmarshal(&tempConfig, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return err
	}

	if tempConfig.Server.Mode != "release" && tempConfig.JWT.Secret == "" {
		log.Println("⚠️ [开发模式警告] 未设置 JWT Secret，将使用默认不安全密钥进行开发")
		tempConfig.JWT.Secret = insecureDevSecret
	}

	appConfig.Store(&tempConfig)
	return nil
}

func enforceJWTSecretSafety() {
	// 首次启动安全检查：release 模式下拦截不安全的 JWT Secret
	curr := Get()
	if curr.Server.Mode == "release" {
		if curr.JWT.Secret == "" || curr.JWT.Secret == insecureDevSecret {
			log.Fatal("❌ [安全严重错误] 生产模式(release)下必须设置安全的 JWT Secret！\n请设置环境变量 IMAGER_JWT_SECRET 或在配置文件中指定 jwt.secret")
		}
	}
}
