package source

import (
	"path"
	"strings"
)

// Source 一次缩放请求落盘后的原图
type Source struct {
	Token   string // 工作目录令牌 (ksuid)
	Name    string // 基础文件名，如 cat.png
	Stem    string
	Ext     string
	Dir     string // 工作目录绝对路径
	RelDir  string // images/<token>
	AbsPath string
	RelPath string // images/<token>/<name>，相对公共目录，使用 / 分隔
	Size    int64
}

// RelSibling 返回同一工作目录下另一文件的相对路径
func (s *Source) RelSibling(name string) string {
	return path.Join(s.RelDir, name)
}

func splitName(name string) (string, string) {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}
