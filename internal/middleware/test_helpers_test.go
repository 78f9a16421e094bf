package middleware

import (
	"testing"

	"imager/internal/config"
)

// withConfig 修改当前配置快照，测试结束后恢复
func withConfig(t *testing.T, mutate func(cfg *config.Config)) {
	t.Helper()
	prev := config.Get()
	next := prev
	mutate(&next)
	config.Set(next)
	t.Cleanup(func() { config.Set(prev) })
}
