package resize

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"imager/internal/consts"

	"github.com/disintegration/imaging"
)

// Options 缩放执行器的资源上限与重采样算法
type Options struct {
	Filter             string
	MaxSourcePixels    int
	MaxTargetDimension int
}

// Executor 基于 imaging 的缩放执行器，无状态，可并发使用
type Executor struct {
	filter             imaging.ResampleFilter
	maxSourcePixels    int
	maxTargetDimension int
}

func NewExecutor(opts Options) *Executor {
	return &Executor{
		filter:             ParseFilter(opts.Filter),
		maxSourcePixels:    opts.MaxSourcePixels,
		maxTargetDimension: opts.MaxTargetDimension,
	}
}

// ParseFilter 将配置中的算法名称映射为 imaging 重采样滤波器，未知名称使用 Lanczos
func ParseFilter(name string) imaging.ResampleFilter {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nearest", "nearest_neighbor":
		return imaging.NearestNeighbor
	case "box":
		return imaging.Box
	case "linear", "bilinear":
		return imaging.Linear
	case "hermite":
		return imaging.Hermite
	case "mitchell", "mitchell_netravali":
		return imaging.MitchellNetravali
	case "catmullrom", "catmull_rom", "bicubic":
		return imaging.CatmullRom
	case "bspline":
		return imaging.BSpline
	case "gaussian":
		return imaging.Gaussian
	default:
		return imaging.Lanczos
	}
}

// SupportedExtension 判断文件名的扩展名是否可被编码输出
func SupportedExtension(filename string) bool {
	_, err := imaging.FormatFromFilename(filename)
	return err == nil
}

// DerivativeName 返回缩放产物文件名：<stem>-resize<ext>
func DerivativeName(stem, ext string) string {
	return stem + consts.ResizeSuffix + ext
}

// Probe 读取图片头部获取原始尺寸，并检查像素上限
func (e *Executor) Probe(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if e.maxSourcePixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(e.maxSourcePixels) {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// Execute 将 srcPath 缩放到 dims 并写入同目录下的 <stem>-resize<ext>，返回产物绝对路径。
// 源文件不会被修改；失败时不会留下半成品文件。
func (e *Executor) Execute(srcPath string, dims Dimensions) (string, error) {
	if dims.Width <= 0 || dims.Height <= 0 {
		return "", fmt.Errorf("%w: target %dx%d", ErrInvalidDimension, dims.Width, dims.Height)
	}
	if e.maxTargetDimension > 0 && (dims.Width > e.maxTargetDimension || dims.Height > e.maxTargetDimension) {
		return "", fmt.Errorf("%w: target %dx%d exceeds %d", ErrInvalidDimension, dims.Width, dims.Height, e.maxTargetDimension)
	}

	base := filepath.Base(srcPath)
	ext := filepath.Ext(base)
	dst := filepath.Join(filepath.Dir(srcPath), DerivativeName(strings.TrimSuffix(base, ext), ext))
	if !SupportedExtension(dst) {
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}

	src, err := imaging.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	resized := imaging.Resize(src, dims.Width, dims.Height, e.filter)
	if err := imaging.Save(resized, dst); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("save derivative: %w", err)
	}
	return dst, nil
}
