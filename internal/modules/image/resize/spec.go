package resize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SizeSpec 宽/高尺寸描述：绝对像素值（"400"）或百分比（"50%"），空值表示未提供
type SizeSpec string

func (s SizeSpec) String() string {
	return strings.TrimSpace(string(s))
}

// IsZero 是否未提供
func (s SizeSpec) IsZero() bool {
	return s.String() == ""
}

// IsPercent 是否以百分号结尾
func (s SizeSpec) IsPercent() bool {
	return strings.HasSuffix(s.String(), "%")
}

// Number 返回去掉结尾百分号后的数值
func (s SizeSpec) Number() (float64, error) {
	raw := strings.TrimSpace(strings.TrimSuffix(s.String(), "%"))
	if raw == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidSpec)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpec, s.String())
	}
	return f, nil
}

// Validate 校验格式，不校验取值范围
func (s SizeSpec) Validate() error {
	if s.IsZero() {
		return nil
	}
	_, err := s.Number()
	return err
}

// UnmarshalJSON 同时接受 JSON 字符串与数字
func (s *SizeSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = SizeSpec(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSpec, string(data))
	}
	*s = SizeSpec(num.String())
	return nil
}

// UnmarshalParam 供 gin 表单绑定使用
func (s *SizeSpec) UnmarshalParam(param string) error {
	*s = SizeSpec(param)
	return nil
}
