package service

import (
	"imager/internal/config"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AppService 各模块共享的基础设施：日志与可选的 Redis 客户端
type AppService struct {
	log   zerolog.Logger
	redis *redis.Client
}

// NewAppService redisClient 可为 nil，表示以内存模式运行
func NewAppService(log zerolog.Logger, redisClient *redis.Client) *AppService {
	return &AppService{log: log, redis: redisClient}
}

func (s *AppService) Logger() *zerolog.Logger {
	return &s.log
}

// Redis 获取 Redis 客户端；未启用时返回 nil
func (s *AppService) Redis() *redis.Client {
	return s.redis
}

// RedisKey 基于配置前缀拼接 Redis 键名
func (s *AppService) RedisKey(parts ...string) string {
	prefix := config.Get().Redis.Prefix
	if prefix == "" {
		prefix = "imager"
	}
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}
