package di

import (
	"imager/internal/cache"
	"imager/internal/config"
	"imager/internal/db"
	"imager/internal/jobs"
	"imager/internal/logger"
	imagerepo "imager/internal/modules/image/repo"
	"imager/internal/modules/image/resize"
	"imager/internal/modules/image/source"
	"imager/internal/platform/service"
	"imager/internal/router"
	"imager/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	Reaper *jobs.Reaper
	Log    zerolog.Logger
}

func NewApplication(r *router.Router, reaper *jobs.Reaper, log zerolog.Logger) *Application {
	return &Application{
		Router: r,
		Reaper: reaper,
		Log:    log,
	}
}

func ProvideLogger(cfg config.Config) zerolog.Logger {
	return logger.New(cfg.Server.Mode, cfg.Log.Level)
}

func ProvideDB(cfg config.Config) (*gorm.DB, func(), error) {
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return gdb, cleanup, nil
}

// ProvideRedis 未启用或连接失败时返回 nil，调用方按单实例模式运行
func ProvideRedis(cfg config.Config, log zerolog.Logger) (*redis.Client, func()) {
	client := cache.NewRedisClient(cfg.Redis, log)
	cleanup := func() {
		if client != nil {
			_ = client.Close()
		}
	}
	return client, cleanup
}

func ProvideObjectFetcher(cfg config.Config) (source.ObjectFetcher, error) {
	if !cfg.ObjectStore.Enabled {
		return nil, nil
	}
	store, err := storage.NewObjectStore(cfg.ObjectStore)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func ProvideAcquirer(cfg config.Config, objects source.ObjectFetcher) *source.Acquirer {
	return source.NewAcquirer(source.Options{
		PublicRoot:    cfg.Storage.PublicRoot,
		MaxBytes:      int64(cfg.Resize.MaxUploadSizeMB) << 20,
		AllowRemote:   cfg.Resize.AllowRemote,
		RemoteTimeout: cfg.Resize.RemoteTimeout,
		Objects:       objects,
	})
}

func ProvideExecutor(cfg config.Config) *resize.Executor {
	return resize.NewExecutor(resize.Options{
		Filter:             cfg.Resize.Filter,
		MaxSourcePixels:    cfg.Resize.MaxSourcePixels,
		MaxTargetDimension: cfg.Resize.MaxTargetDimension,
	})
}

func ProvideReaper(appService *service.AppService, store imagerepo.ManipulationStore, acquirer *source.Acquirer, cfg config.Config) *jobs.Reaper {
	return jobs.NewReaper(appService, store, acquirer, cfg.Reaper)
}
