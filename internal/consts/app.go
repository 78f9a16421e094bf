package consts

const (
	ApplicationName    = "Imager"
	ApplicationVersion = "1.0.0"
)

// ContextKeyUserID JWT 中间件写入 gin.Context 的当前用户 ID 键
const ContextKeyUserID = "id"

const (
	// ImagesDirName 公共目录下存放请求工作目录的子目录
	ImagesDirName = "images"

	// ResizeSuffix 缩放产物文件名后缀，例如 photo-resize.png
	ResizeSuffix = "-resize"
)
