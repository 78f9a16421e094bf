package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

// 测试内容：验证日志级别解析及非法值回退。
func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":  zerolog.DebugLevel,
		" WARN ": zerolog.WarnLevel,
		"error":  zerolog.ErrorLevel,
		"":       zerolog.InfoLevel,
		"nope":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) 期望 %v，实际为 %v", in, want, got)
		}
	}
}

// 测试内容：验证 New 返回的记录器使用配置的级别。
func TestNew_UsesLevel(t *testing.T) {
	l := New("release", "warn")
	if l.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("期望 warn 级别，实际为 %v", l.GetLevel())
	}
}
