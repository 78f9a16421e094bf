package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"imager/internal/config"
	"imager/internal/platform/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{r: r, b: b}
	go i.cleanupLoop()
	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	limiter := rate.NewLimiter(i.r, i.b)
	i.ips.Store(ip, &client{limiter: limiter, lastSeen: time.Now()})
	return limiter
}

func (i *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		i.ips.Range(func(key, value interface{}) bool {
			if time.Since(value.(*client).lastSeen) > 3*time.Minute {
				i.ips.Delete(key)
			}
			return true
		})
	}
}

// RateLimitMiddleware 按客户端 IP 限流。启用 Redis 时使用固定窗口计数以便多实例共享，
// Redis 出错时回退为进程内令牌桶。
func RateLimitMiddleware(appService *service.AppService, scope string) gin.HandlerFunc {
	var limiter *IPRateLimiter
	var once sync.Once

	return func(c *gin.Context) {
		cfg := config.Get().RateLimit
		if !cfg.Enabled || cfg.ResizeRPS <= 0 || cfg.ResizeBurst <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if redisClient := appService.Redis(); redisClient != nil {
			key := appService.RedisKey("rate", scope, ip)
			allowed, err := allowByRedisRateLimit(c.Request.Context(), redisClient, key, cfg.ResizeRPS, cfg.ResizeBurst)
			if err == nil {
				if !allowed {
					rejectTooMany(c)
					return
				}
				c.Next()
				return
			}
			appService.Logger().Warn().Err(err).Str("scope", scope).Msg("Redis 限流失败，回退内存限流")
		}

		once.Do(func() {
			limiter = NewIPRateLimiter(rate.Limit(cfg.ResizeRPS), cfg.ResizeBurst)
		})

		l := limiter.getLimiter(ip)
		if l.Limit() != rate.Limit(cfg.ResizeRPS) {
			l.SetLimit(rate.Limit(cfg.ResizeRPS))
		}
		if l.Burst() != cfg.ResizeBurst {
			l.SetBurst(cfg.ResizeBurst)
		}

		if !l.Allow() {
			rejectTooMany(c)
			return
		}
		c.Next()
	}
}

func rejectTooMany(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
	c.Abort()
}

// allowByRedisRateLimit 固定窗口计数：窗口长度为 burst/rps 秒（至少 1 秒），窗口内最多 burst 次
func allowByRedisRateLimit(ctx context.Context, client *redis.Client, key string, rps float64, burst int) (bool, error) {
	if client == nil || rps <= 0 || burst <= 0 {
		return true, nil
	}
	window := time.Duration(float64(burst) / rps * float64(time.Second))
	if window < time.Second {
		window = time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	n, err := client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(burst), nil
}
