package httpx

import (
	"errors"
	"imager/internal/platform/service"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// WriteServiceError 将服务层错误写为统一的 HTTP 错误响应
func WriteServiceError(c *gin.Context, err error, fallbackMessage string) {
	if serviceErr, ok := service.AsServiceError(err); ok {
		body := gin.H{"error": serviceErr.Message}
		if len(serviceErr.Fields) > 0 {
			body["fields"] = serviceErr.Fields
		}
		c.JSON(serviceErrorStatus(serviceErr.Code), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMessage})
}

func serviceErrorStatus(code service.ErrorCode) int {
	switch code {
	case service.ErrorCodeValidation, service.ErrorCodeInvalidDimension:
		return http.StatusUnprocessableEntity
	case service.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case service.ErrorCodeForbidden:
		return http.StatusForbidden
	case service.ErrorCodeNotFound:
		return http.StatusNotFound
	case service.ErrorCodeSourceNotFound:
		return http.StatusBadRequest
	case service.ErrorCodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case service.ErrorCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// BindingError 将 gin 绑定错误转换为带字段明细的校验错误
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldName(fe)] = fieldMessage(fe)
		}
		return service.NewFieldValidationError("请求参数校验失败", fields)
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return service.NewServiceError(service.ErrorCodeTooLarge, "请求体过大")
	}
	return service.NewValidationError("请求参数格式错误")
}

// fieldName 将结构体字段名转换为 snake_case，例如 AlbumID -> album_id
func fieldName(fe validator.FieldError) string {
	name := fe.StructField()
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(rune(name[i-1])) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "该字段为必填项"
	case "max":
		if isNumericKind(fe.Kind()) {
			return "不能大于 " + fe.Param()
		}
		return "长度不能超过 " + fe.Param()
	case "min":
		if isNumericKind(fe.Kind()) {
			return "不能小于 " + fe.Param()
		}
		return "长度不能少于 " + fe.Param()
	default:
		return "字段格式不正确"
	}
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
