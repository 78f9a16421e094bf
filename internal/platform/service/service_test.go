package service

import (
	"errors"
	"fmt"
	"testing"

	"imager/internal/config"

	"github.com/rs/zerolog"
)

// 测试内容：验证所有权校验在 ID 不同或缺失时拒绝访问。
func TestAssertOwner(t *testing.T) {
	cases := []struct {
		acting, owner uint
		ok            bool
	}{
		{1, 1, true},
		{1, 2, false},
		{0, 0, false},
		{1, 0, false},
		{0, 1, false},
	}
	for _, tc := range cases {
		err := AssertOwner(tc.acting, tc.owner)
		if tc.ok && err != nil {
			t.Fatalf("AssertOwner(%d,%d) 期望通过，实际为 %v", tc.acting, tc.owner, err)
		}
		if !tc.ok && !IsCode(err, ErrorCodeForbidden) {
			t.Fatalf("AssertOwner(%d,%d) 期望 forbidden，实际为 %v", tc.acting, tc.owner, err)
		}
	}
}

// 测试内容：验证包装后的 ServiceError 可通过 errors.As 取出并保留底层错误。
func TestServiceError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("outer: %w", WrapServiceError(ErrorCodeInternal, "保存失败", cause))

	serviceErr, ok := AsServiceError(err)
	if !ok {
		t.Fatalf("期望可识别为 ServiceError")
	}
	if serviceErr.Code != ErrorCodeInternal || serviceErr.Message != "保存失败" {
		t.Fatalf("非预期 ServiceError: %+v", serviceErr)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望保留底层错误")
	}
	if _, ok := AsServiceError(cause); ok {
		t.Fatalf("普通错误不应被识别为 ServiceError")
	}
}

// 测试内容：验证 RedisKey 使用配置前缀拼接。
func TestAppService_RedisKey(t *testing.T) {
	prev := config.Get()
	defer config.Set(prev)

	cfg := prev
	cfg.Redis.Prefix = "pfx"
	config.Set(cfg)

	s := NewAppService(zerolog.Nop(), nil)
	if got := s.RedisKey("rate", "1.2.3.4"); got != "pfx:rate:1.2.3.4" {
		t.Fatalf("非预期 key: %s", got)
	}
	if s.Redis() != nil {
		t.Fatalf("未启用时 Redis 应为 nil")
	}
}
