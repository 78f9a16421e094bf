package jobs

import (
	"context"
	"os"
	"path"
	"time"

	"imager/internal/config"
	"imager/internal/consts"
	"imager/internal/platform/service"

	"github.com/robfig/cron/v3"
	"github.com/segmentio/ksuid"
)

// RecordChecker 判断工作目录是否仍被处理记录引用
type RecordChecker interface {
	ExistsByDirectory(ctx context.Context, relDir string) (bool, error)
}

// WorkDirs 工作目录的定位与删除，由 source.Acquirer 实现
type WorkDirs interface {
	ImagesRoot() (string, error)
	RemoveDir(relDir string) error
}

// Reaper 定期回收没有任何记录引用且超过保留时长的工作目录（处理失败或崩溃遗留）
type Reaper struct {
	cron     *cron.Cron
	app      *service.AppService
	records  RecordChecker
	dirs     WorkDirs
	cfg      config.ReaperConfig
	now      func() time.Time
	lockTTL  time.Duration
	runLimit time.Duration
}

func NewReaper(app *service.AppService, records RecordChecker, dirs WorkDirs, cfg config.ReaperConfig) *Reaper {
	return &Reaper{
		cron:     cron.New(),
		app:      app,
		records:  records,
		dirs:     dirs,
		cfg:      cfg,
		now:      time.Now,
		lockTTL:  10 * time.Minute,
		runLimit: 5 * time.Minute,
	}
}

func (r *Reaper) Start() error {
	if !r.cfg.Enabled {
		return nil
	}
	if _, err := r.cron.AddFunc(r.cfg.Schedule, r.run); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop 停止调度，返回的 context 在进行中的任务结束后完成
func (r *Reaper) Stop() context.Context {
	return r.cron.Stop()
}

func (r *Reaper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.runLimit)
	defer cancel()

	log := r.app.Logger()
	if !r.acquireLock(ctx) {
		log.Debug().Msg("其他实例正在回收工作目录，跳过")
		return
	}

	removed, err := r.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("回收工作目录失败")
		return
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("已回收过期工作目录")
	}
}

// acquireLock 多实例部署时通过 Redis 保证同一时刻只有一个实例执行回收
func (r *Reaper) acquireLock(ctx context.Context) bool {
	client := r.app.Redis()
	if client == nil {
		return true
	}
	ok, err := client.SetNX(ctx, r.app.RedisKey("lock", "reaper"), "1", r.lockTTL).Result()
	if err != nil {
		r.app.Logger().Warn().Err(err).Msg("Redis 加锁失败，按单实例执行回收")
		return true
	}
	return ok
}

// RunOnce 扫描 images 根目录并删除过期且无引用的工作目录，返回删除数量
func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	root, err := r.dirs.ImagesRoot()
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	ttl := r.cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := r.now()

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !entry.IsDir() {
			continue
		}
		// 目录名即 ksuid，其中包含创建时间；无法解析的目录不属于本服务
		token, err := ksuid.Parse(entry.Name())
		if err != nil {
			continue
		}
		if now.Sub(token.Time()) < ttl {
			continue
		}

		rel := path.Join(consts.ImagesDirName, entry.Name())
		referenced, err := r.records.ExistsByDirectory(ctx, rel)
		if err != nil {
			return removed, err
		}
		if referenced {
			continue
		}
		if err := r.dirs.RemoveDir(rel); err != nil {
			r.app.Logger().Warn().Err(err).Str("dir", rel).Msg("删除工作目录失败")
			continue
		}
		removed++
	}
	return removed, nil
}
