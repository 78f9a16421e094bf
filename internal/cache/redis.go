package cache

import (
	"context"
	"time"

	"imager/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewRedisClient 按配置连接 Redis；未启用或不可用时返回 nil，调用方降级为内存模式
func NewRedisClient(cfg config.RedisConfig, log zerolog.Logger) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis 不可用，降级为内存模式")
		return nil
	}

	log.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("Redis 已连接")
	return client
}
