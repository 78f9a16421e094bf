package resize

import (
	"fmt"
	"math"
)

// Dimensions 目标尺寸。Exact* 保留计算得到的浮点值，Width/Height 为向零截断后的像素值
type Dimensions struct {
	Width       int
	Height      int
	ExactWidth  float64
	ExactHeight float64
}

// Resolve 根据宽高描述与原图尺寸计算目标尺寸。
//
// 宽为百分比时：高存在则按高的数值作为高度百分比，否则沿用宽的百分比。
// 宽为绝对值时：高存在则按高的数值作为像素，否则按原图宽高比推算。
func Resolve(w, h SizeSpec, naturalWidth, naturalHeight int) (Dimensions, error) {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return Dimensions{}, fmt.Errorf("%w: natural size %dx%d", ErrInvalidDimension, naturalWidth, naturalHeight)
	}
	if w.IsZero() {
		return Dimensions{}, fmt.Errorf("%w: width is required", ErrInvalidSpec)
	}

	wv, err := w.Number()
	if err != nil {
		return Dimensions{}, err
	}
	var hv float64
	if !h.IsZero() {
		if hv, err = h.Number(); err != nil {
			return Dimensions{}, err
		}
	}

	nw := float64(naturalWidth)
	nh := float64(naturalHeight)

	var exactW, exactH float64
	if w.IsPercent() {
		ratioW := wv
		ratioH := ratioW
		if !h.IsZero() {
			ratioH = hv
		}
		exactW = nw * ratioW / 100
		exactH = nh * ratioH / 100
	} else {
		exactW = wv
		if !h.IsZero() {
			exactH = hv
		} else {
			exactH = nh * exactW / nw
		}
	}

	if exactW >= math.MaxInt32 || exactH >= math.MaxInt32 {
		return Dimensions{}, fmt.Errorf("%w: target %vx%v", ErrInvalidDimension, exactW, exactH)
	}

	d := Dimensions{
		Width:       int(math.Trunc(exactW)),
		Height:      int(math.Trunc(exactH)),
		ExactWidth:  exactW,
		ExactHeight: exactH,
	}
	if d.Width <= 0 || d.Height <= 0 {
		return Dimensions{}, fmt.Errorf("%w: target %vx%v", ErrInvalidDimension, exactW, exactH)
	}
	return d, nil
}
