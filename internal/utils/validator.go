package utils

import (
	"bytes"
	"io"
	"net/http"
	"strings"
)

var sniffedTypes = map[string]map[string]bool{
	"image/jpeg":     {".jpg": true, ".jpeg": true},
	"image/png":      {".png": true},
	"image/gif":      {".gif": true},
	"image/bmp":      {".bmp": true},
	"image/x-ms-bmp": {".bmp": true},
	"image/tiff":     {".tif": true, ".tiff": true},
}

// ValidateImageContent 嗅探文件头，确认真实类型与扩展名一致。读取后会把位置复位到开头。
func ValidateImageContent(reader io.ReadSeeker, ext string) (bool, string) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return false, "读取文件内容失败"
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return false, "重置文件读取位置失败"
	}

	contentType := sniffContentType(buffer[:n])
	ext = strings.ToLower(ext)
	if exts, ok := sniffedTypes[contentType]; ok && exts[ext] {
		return true, ""
	}
	return false, "文件真实类型(" + contentType + ")与扩展名(" + ext + ")不匹配或不支持"
}

// sniffContentType http.DetectContentType 不识别 TIFF，单独比对魔数
func sniffContentType(head []byte) string {
	if bytes.HasPrefix(head, []byte("II*\x00")) || bytes.HasPrefix(head, []byte("MM\x00*")) {
		return "image/tiff"
	}
	return http.DetectContentType(head)
}
