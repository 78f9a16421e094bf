package dto

import (
	"testing"
	"time"

	"imager/internal/model"
)

// 测试内容：验证对外地址在路径前缀与完整域名前缀下均正确拼接。
func TestPublicURL(t *testing.T) {
	cases := []struct{ prefix, rel, want string }{
		{"/", "images/t/a.png", "/images/t/a.png"},
		{"", "images/t/a.png", "/images/t/a.png"},
		{"/static/", "images/t/a.png", "/static/images/t/a.png"},
		{"https://cdn.example.com/", "images/t/a.png", "https://cdn.example.com/images/t/a.png"},
		{"/", "", ""},
	}
	for _, tc := range cases {
		if got := PublicURL(tc.prefix, tc.rel); got != tc.want {
			t.Fatalf("PublicURL(%q, %q) 期望 %q，实际为 %q", tc.prefix, tc.rel, tc.want, got)
		}
	}
}

// 测试内容：验证响应资源包含原图与缩放图地址。
func TestNewManipulationResponse(t *testing.T) {
	m := &model.ImageManipulation{
		ID:         5,
		Type:       model.ManipulationTypeResize,
		Name:       "a.png",
		Path:       "images/t/a.png",
		OutputPath: "images/t/a-resize.png",
		CreatedAt:  time.Unix(0, 0),
	}
	resp := NewManipulationResponse(m, "/")
	if resp.OriginalURL != "/images/t/a.png" || resp.OutputURL != "/images/t/a-resize.png" {
		t.Fatalf("非预期的地址: %+v", resp)
	}
	if resp.ID != 5 || resp.Type != model.ManipulationTypeResize {
		t.Fatalf("非预期的资源: %+v", resp)
	}
}
